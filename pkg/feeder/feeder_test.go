package feeder

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/silverbar/pkg/orders"
)

func TestGenerator_KeepsSummariesConsistent(t *testing.T) {
	reg := orders.NewRegistry()
	gen := NewGenerator(5, 42)

	for i := 0; i < 2000; i++ {
		require.NoError(t, gen.Step(reg))
	}

	live := reg.ListAllOrders()
	assert.Equal(t, len(gen.issued), len(live))

	want := map[orders.OrderType]decimal.Decimal{orders.Buy: decimal.Zero, orders.Sell: decimal.Zero}
	for _, o := range live {
		want[o.Type] = want[o.Type].Add(o.Quantity)
		if o.Type == orders.Buy {
			assert.True(t, o.Price.LessThan(gen.basePrice))
		} else {
			assert.True(t, o.Price.GreaterThan(gen.basePrice))
		}
	}

	got := map[orders.OrderType]decimal.Decimal{orders.Buy: decimal.Zero, orders.Sell: decimal.Zero}
	summaries := reg.LiveOrderSummaries()
	for i, s := range summaries {
		got[s.Type] = got[s.Type].Add(s.Quantity)
		if i > 0 && summaries[i-1].Type == s.Type {
			assert.Negative(t, s.Type.Compare(summaries[i-1].Price, s.Price), "levels out of order")
		}
	}
	for _, side := range orders.OrderTypes {
		assert.True(t, want[side].Equal(got[side]), "%s: want %s got %s", side, want[side], got[side])
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a, b := orders.NewRegistry(), orders.NewRegistry()
	ga, gb := NewGenerator(3, 7), NewGenerator(3, 7)

	for i := 0; i < 100; i++ {
		require.NoError(t, ga.Step(a))
		require.NoError(t, gb.Step(b))
	}

	format := func(ss []orders.OrderSummary) []string {
		out := make([]string, len(ss))
		for i, s := range ss {
			out[i] = s.Type.String() + " " + s.Quantity.String() + "@" + s.Price.String()
		}
		return out
	}
	assert.Equal(t, format(a.LiveOrderSummaries()), format(b.LiveOrderSummaries()))
}

func TestStartFeeder(t *testing.T) {
	reg := orders.NewRegistry()
	cancel := StartFeeder(context.Background(), reg, Config{
		Interval:  time.Millisecond,
		BatchSize: 5,
		NumUsers:  2,
		Seed:      1,
	}, nil)
	defer cancel()

	require.Eventually(t, func() bool { return reg.Len() > 0 }, 2*time.Second, 5*time.Millisecond)
}

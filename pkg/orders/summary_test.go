package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	all := []Order{
		{ID: 1, Quantity: d("1.1"), Price: d("301"), Type: Buy},
		{ID: 2, Quantity: d("2.2"), Price: d("301.00"), Type: Buy},
		{ID: 3, Quantity: d("5"), Price: d("299.5"), Type: Buy},
		{ID: 4, Quantity: d("7"), Price: d("301"), Type: Sell},
	}

	buys := Aggregate(all, Buy)
	sells := Aggregate(all, Sell)

	require.Len(t, buys, 2)
	assert.Equal(t, "301", buys[0].Price.String(), "level keeps the lowest-id order's price")
	assertDecimal(t, "3.3", buys[0].Quantity)
	assertDecimal(t, "299.5", buys[1].Price)
	assertDecimal(t, "5", buys[1].Quantity)

	require.Len(t, sells, 1)
	assertDecimal(t, "7", sells[0].Quantity)
	assert.Equal(t, Sell, sells[0].Type)
}

func TestAggregate_ExactDecimalSums(t *testing.T) {
	var all []Order
	for i := 0; i < 10; i++ {
		all = append(all, Order{ID: OrderID(i + 1), Quantity: d("0.1"), Price: d("0.3"), Type: Sell})
	}

	got := Aggregate(all, Sell)

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Quantity.String())
	assert.Equal(t, "0.3", got[0].Price.String())
}

func TestAggregate_NoOrdersOfSide(t *testing.T) {
	all := []Order{{ID: 1, Quantity: d("1"), Price: d("1"), Type: Buy}}

	assert.Empty(t, Aggregate(all, Sell))
	assert.Empty(t, Aggregate(nil, Buy))
}

func TestAggregate_NegativeQuantitiesAreSummed(t *testing.T) {
	all := []Order{
		{ID: 1, Quantity: d("10"), Price: d("5"), Type: Buy},
		{ID: 2, Quantity: d("-4"), Price: d("5"), Type: Buy},
	}

	got := Aggregate(all, Buy)

	require.Len(t, got, 1)
	assertDecimal(t, "6", got[0].Quantity)
}

func TestAggregate_ReportsLowestIDPrice(t *testing.T) {
	all := []Order{
		{ID: 9, Quantity: d("1"), Price: d("12.50"), Type: Sell},
		{ID: 4, Quantity: d("1"), Price: d("12.5"), Type: Sell},
		{ID: 7, Quantity: d("1"), Price: d("12.500"), Type: Sell},
	}

	got := Aggregate(all, Sell)

	require.Len(t, got, 1)
	assert.Equal(t, "12.5", got[0].Price.String())
	assertDecimal(t, "3", got[0].Quantity)
}

func TestAggregate_HugeExponentIsCheap(t *testing.T) {
	r := NewRegistry()
	_, err := r.Create("u1", d("1"), d("1e1000000"), Buy)
	require.NoError(t, err)
	_, err = r.Create("u2", d("2"), d("10e999999"), Buy)
	require.NoError(t, err)
	_, err = r.Create("u3", d("3"), d("5"), Buy)
	require.NoError(t, err)
	_, err = r.Create("u4", d("4"), d("1e-1000000"), Sell)
	require.NoError(t, err)
	_, err = r.Create("u5", d("5"), d("7"), Sell)
	require.NoError(t, err)

	start := time.Now()
	summaries := r.LiveOrderSummaries()
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second)
	require.Len(t, summaries, 4)

	top := summaries[0]
	assert.Equal(t, Buy, top.Type)
	assert.Equal(t, int32(1000000), top.Price.Exponent())
	assert.Equal(t, int64(1), top.Price.Coefficient().Int64())
	assert.True(t, top.Quantity.Equal(d("3")))
	assertDecimal(t, "5", summaries[1].Price)

	assert.Equal(t, Sell, summaries[2].Type)
	assert.Equal(t, int32(-1000000), summaries[2].Price.Exponent())
	assertDecimal(t, "7", summaries[3].Price)
}

func TestPriceKey(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"301", "301.00", true},
		{"1e3", "1000", true},
		{"10e999999", "1e1000000", true},
		{"0", "0.000", true},
		{"-2.50", "-2.5", true},
		{"2.5", "-2.5", false},
		{"1e3", "1e4", false},
		{"12", "120", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			same := priceKey(d(tt.a)) == priceKey(d(tt.b))
			assert.Equal(t, tt.same, same)
		})
	}
}

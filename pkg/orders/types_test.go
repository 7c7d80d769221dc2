package orders

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderType_Compare(t *testing.T) {
	tests := []struct {
		side OrderType
		a, b string
		want int
	}{
		{Buy, "10", "12", 1},
		{Buy, "12", "10", -1},
		{Buy, "12", "12.0", 0},
		{Sell, "10", "12", -1},
		{Sell, "12", "10", 1},
		{Sell, "-5", "-500", 1},
		{Sell, "-5", "3", -1},
		{Sell, "0", "0.00", 0},
		{Sell, "0.09", "0.1", -1},
		{Sell, "1e400000", "9e399999", 1},
		{Buy, "1e-400000", "1", 1},
		{OrderType(0), "10", "12", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.side.Compare(d(tt.a), d(tt.b)), "%s %s vs %s", tt.side, tt.a, tt.b)
	}
}

func TestParseOrderType(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderType
		wantErr bool
	}{
		{"BUY", Buy, false},
		{"sell", Sell, false},
		{" Buy ", Buy, false},
		{"HOLD", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseOrderType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestOrderType_JSON(t *testing.T) {
	var v struct {
		Side OrderType `json:"side"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"side":"sell"}`), &v))
	assert.Equal(t, Sell, v.Side)

	require.NoError(t, json.Unmarshal([]byte(`{"side":""}`), &v))
	assert.False(t, v.Side.Valid())

	assert.Error(t, json.Unmarshal([]byte(`{"side":"HOLD"}`), &v))

	v.Side = Buy
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"side":"BUY"}`, string(out))
}

func TestOrder_JSON(t *testing.T) {
	o := Order{ID: 7, UserID: "userIdA", Quantity: d("1.5"), Price: d("301.25"), Type: Sell}

	out, err := json.Marshal(o)
	require.NoError(t, err)

	var back Order
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, o.ID, back.ID)
	assert.Equal(t, o.Type, back.Type)
	assertDecimal(t, "301.25", back.Price)
	assertDecimal(t, "1.5", back.Quantity)
}

package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		quantity decimal.Decimal
		price    decimal.Decimal
		side     OrderType
		wantErr  string
	}{
		{name: "valid", userID: "u", quantity: d("1"), price: d("1"), side: Sell},
		{name: "empty user", userID: "", quantity: d("1"), price: d("1"), side: Buy, wantErr: "invalid order: user id cannot be empty"},
		{name: "zero quantity", userID: "u", quantity: d("0.000"), price: d("1"), side: Buy, wantErr: "invalid order: quantity has to be greater than zero"},
		{name: "absent price", userID: "u", quantity: d("1"), side: Buy, wantErr: "invalid order: price has to be greater than zero"},
		{name: "zero price with scale", userID: "u", quantity: d("1"), price: d("0.00"), side: Sell, wantErr: "invalid order: price has to be greater than zero"},
		{name: "absent side", userID: "u", quantity: d("1"), price: d("1"), wantErr: "invalid order: order type required"},
		{name: "unknown side", userID: "u", quantity: d("1"), price: d("1"), side: OrderType(9), wantErr: "invalid order: order type required"},
		// only exact zero is rejected
		{name: "negative quantity", userID: "u", quantity: d("-1"), price: d("1"), side: Buy},
		{name: "negative price", userID: "u", quantity: d("1"), price: d("-1"), side: Buy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.userID, tt.quantity, tt.price, tt.side)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidOrder)
		})
	}
}

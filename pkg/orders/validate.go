package orders

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidOrder matches every validation failure returned by Create.
var ErrInvalidOrder = errors.New("invalid order")

type Reason string

const (
	ReasonMissingUser      Reason = "user id cannot be empty"
	ReasonZeroQuantity     Reason = "quantity has to be greater than zero"
	ReasonZeroPrice        Reason = "price has to be greater than zero"
	ReasonMissingOrderType Reason = "order type required"
)

type InvalidOrderError struct {
	Reason Reason
}

func (e *InvalidOrderError) Error() string { return "invalid order: " + string(e.Reason) }

func (e *InvalidOrderError) Is(target error) bool { return target == ErrInvalidOrder }

// Validate checks the fields of a new order.
//
// Quantity and price are rejected only when exactly zero. Negative values are
// accepted; existing callers depend on that boundary.
func Validate(userID string, quantity, price decimal.Decimal, t OrderType) error {
	switch {
	case userID == "":
		return &InvalidOrderError{Reason: ReasonMissingUser}
	case quantity.IsZero():
		return &InvalidOrderError{Reason: ReasonZeroQuantity}
	case price.IsZero():
		return &InvalidOrderError{Reason: ReasonZeroPrice}
	case !t.Valid():
		return &InvalidOrderError{Reason: ReasonMissingOrderType}
	}
	return nil
}

package orders

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderID is issued by the Registry and never reused.
type OrderID int64

// OrderType is the side of an order. The zero value means no side was given.
type OrderType uint8

const (
	Buy OrderType = iota + 1
	Sell
)

// OrderTypes lists the sides in the order their summaries are reported.
var OrderTypes = []OrderType{Buy, Sell}

func (t OrderType) Valid() bool { return t == Buy || t == Sell }

func (t OrderType) String() string {
	switch t {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Compare orders two prices by the side's preference and returns a negative
// number when a should be listed before b.
// Buy prefers the highest price, Sell the lowest.
func (t OrderType) Compare(a, b decimal.Decimal) int {
	switch t {
	case Buy:
		return cmpPrice(b, a)
	case Sell:
		return cmpPrice(a, b)
	default:
		return 0
	}
}

// cmpPrice is decimal.Cmp that settles prices of different magnitude
// before Cmp rescales them to a common exponent.
func cmpPrice(a, b decimal.Decimal) int {
	sa, sb := a.Sign(), b.Sign()
	switch {
	case sa != sb:
		if sa < sb {
			return -1
		}
		return 1
	case sa == 0:
		return 0
	}
	ma, mb := magnitude(a), magnitude(b)
	switch {
	case ma == mb:
		return a.Cmp(b)
	case ma < mb:
		return -sa
	default:
		return sa
	}
}

// magnitude is the position of the leading digit of d.
func magnitude(d decimal.Decimal) int64 {
	digits := len(new(big.Int).Abs(d.Coefficient()).String())
	return int64(digits) + int64(d.Exponent())
}

// ParseOrderType accepts "buy"/"sell" in any case.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown order type %q", s)
	}
}

func (t OrderType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return []byte(""), nil
	}
	return []byte(t.String()), nil
}

// UnmarshalText leaves an empty value unset so that validation reports the
// missing side rather than a decoding failure.
func (t *OrderType) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*t = 0
		return nil
	}
	parsed, err := ParseOrderType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Order is one resting order. Values handed out by the Registry are copies.
type Order struct {
	ID        OrderID         `json:"id"`
	UserID    string          `json:"userId"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Type      OrderType       `json:"orderType"`
	CreatedAt time.Time       `json:"createdAt"`
}

// OrderSummary is the total live quantity at one price level of one side.
type OrderSummary struct {
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Type     OrderType       `json:"orderType"`
}

package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/silverbar/pkg/orders"
)

// API request and response types for REST endpoints and WebSocket messages

// ==============================
// REST Request Types
// ==============================

// CreateOrderRequest is the payload for POST /api/v1/orders.
// Decimals may be sent as JSON numbers or strings.
type CreateOrderRequest struct {
	UserID    string           `json:"userId"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	OrderType orders.OrderType `json:"orderType"` // "BUY" or "SELL"
}

// maxExponent bounds the decimal exponent accepted from clients.
const maxExponent = 64

func (r CreateOrderRequest) checkRange() error {
	if !inRange(r.Quantity) {
		return fmt.Errorf("quantity exponent outside [-%d, %d]", maxExponent, maxExponent)
	}
	if !inRange(r.Price) {
		return fmt.Errorf("price exponent outside [-%d, %d]", maxExponent, maxExponent)
	}
	return nil
}

func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExponent && exp <= maxExponent
}

// ==============================
// REST Response Types
// ==============================

type CreateOrderResponse struct {
	OrderID orders.OrderID `json:"orderId"`
}

// PriceLevel is one aggregated level of one side
type PriceLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// BookSnapshot splits the live summaries by side
type BookSnapshot struct {
	Bids      []PriceLevel `json:"bids"`      // Sorted high to low
	Asks      []PriceLevel `json:"asks"`      // Sorted low to high
	Timestamp int64        `json:"timestamp"` // Unix milliseconds
}

// ErrorResponse is returned for all errors
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by client to subscribe to channels
type WSSubscribeRequest struct {
	Op       string   `json:"op"`       // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"` // e.g., ["summaries"]
}

// SummariesUpdate is pushed after every order event and on a timer
type SummariesUpdate struct {
	Type      string                `json:"type"` // "summaries"
	Seq       uint64                `json:"seq"`  // last event seq, 0 for timer pushes
	Summaries []orders.OrderSummary `json:"summaries"`
	Timestamp int64                 `json:"timestamp"`
}

func toLevels(summaries []orders.OrderSummary) []PriceLevel {
	levels := make([]PriceLevel, len(summaries))
	for i, s := range summaries {
		levels[i] = PriceLevel{Price: s.Price, Quantity: s.Quantity}
	}
	return levels
}

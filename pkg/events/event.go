package events

import (
	"context"
	"time"

	"github.com/uhyunpark/silverbar/pkg/orders"
)

type Kind string

const (
	KindCreated   Kind = "order.created"
	KindCancelled Kind = "order.cancelled"
)

// Event records one change to the set of live orders.
// Seq is assigned by the Dispatcher and increases by one per accepted event.
type Event struct {
	ID    string       `json:"id"`
	Seq   uint64       `json:"seq"`
	Kind  Kind         `json:"kind"`
	Order orders.Order `json:"order"`
	At    time.Time    `json:"at"`
}

// Sink receives dispatched events in order, one at a time.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Publish(ctx context.Context, ev Event) error { return f(ctx, ev) }

package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uhyunpark/silverbar/pkg/orders"
	"github.com/uhyunpark/silverbar/pkg/util"
)

// Dispatcher turns registry callbacks into events and fans them out to sinks
// on its own goroutine, so the registry never waits on sink I/O.
//
// When the queue is full the event is dropped and counted.
type Dispatcher struct {
	queue   chan Event
	sinks   []Sink
	logger  *zap.SugaredLogger
	clock   util.Clock
	mu      sync.Mutex // serialises seq assignment with enqueue
	seq     uint64
	dropped atomic.Uint64
}

func NewDispatcher(buffer int, logger *zap.Logger, clock util.Clock, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = util.RealClock{}
	}
	return &Dispatcher{
		queue:  make(chan Event, buffer),
		sinks:  sinks,
		logger: logger.Sugar(),
		clock:  clock,
	}
}

// AddSink registers another sink. It must be called before Run.
func (d *Dispatcher) AddSink(s Sink) {
	d.sinks = append(d.sinks, s)
}

var _ orders.Listener = (*Dispatcher)(nil)

func (d *Dispatcher) OrderCreated(o orders.Order)   { d.enqueue(KindCreated, o) }
func (d *Dispatcher) OrderCancelled(o orders.Order) { d.enqueue(KindCancelled, o) }

func (d *Dispatcher) enqueue(kind Kind, o orders.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev := Event{
		ID:    uuid.NewString(),
		Seq:   d.seq + 1,
		Kind:  kind,
		Order: o,
		At:    d.clock.Now(),
	}
	select {
	case d.queue <- ev:
		d.seq = ev.Seq
	default:
		d.dropped.Add(1)
		d.logger.Warnw("event_dropped", "kind", kind, "order_id", o.ID, "dropped_total", d.dropped.Load())
	}
}

// Dropped reports how many events were discarded because the queue was full.
func (d *Dispatcher) Dropped() uint64 { return d.dropped.Load() }

// Run delivers queued events until ctx is cancelled. Events still queued at
// that point are delivered with a background context before Run returns.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		case <-ctx.Done():
			d.drain()
			return
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev := <-d.queue:
			d.deliver(context.Background(), ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	for _, s := range d.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			d.logger.Warnw("sink_publish_failed", "kind", ev.Kind, "seq", ev.Seq, "order_id", ev.Order.ID, "err", err)
		}
	}
}

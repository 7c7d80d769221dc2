package orders

import (
	"sort"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/uhyunpark/silverbar/pkg/util"
)

// Listener is told about every change to the set of live orders, after the
// change is visible in the registry. Implementations must not block.
type Listener interface {
	OrderCreated(o Order)
	OrderCancelled(o Order)
}

// Registry owns the live orders of a single instrument. It is safe for
// concurrent use without external locking.
type Registry struct {
	orders   *store
	lastID   atomic.Int64
	logger   *zap.SugaredLogger
	listener Listener
	clock    util.Clock
}

type Option func(*Registry)

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l.Sugar() }
}

func WithListener(l Listener) Option {
	return func(r *Registry) { r.listener = l }
}

func WithClock(c util.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		orders: newStore(),
		logger: zap.NewNop().Sugar(),
		clock:  util.RealClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates the order, issues the next id and stores it.
// A rejected order consumes no id.
func (r *Registry) Create(userID string, quantity, price decimal.Decimal, t OrderType) (OrderID, error) {
	if err := Validate(userID, quantity, price, t); err != nil {
		r.logger.Debugw("order_rejected", "user_id", userID, "err", err)
		return 0, err
	}

	o := Order{
		ID:        OrderID(r.lastID.Add(1)),
		UserID:    userID,
		Quantity:  quantity,
		Price:     price,
		Type:      t,
		CreatedAt: r.clock.Now(),
	}
	r.orders.put(o)

	r.logger.Debugw("order_created",
		"order_id", o.ID,
		"user_id", o.UserID,
		"side", o.Type,
		"price", o.Price,
		"quantity", o.Quantity)

	if r.listener != nil {
		r.listener.OrderCreated(o)
	}
	return o.ID, nil
}

// Cancel removes the order if it is live. Unknown or already cancelled ids
// are ignored. It reports whether an order was removed.
func (r *Registry) Cancel(id OrderID) bool {
	o, ok := r.orders.remove(id)
	if !ok {
		return false
	}

	r.logger.Debugw("order_cancelled", "order_id", id, "user_id", o.UserID)

	if r.listener != nil {
		r.listener.OrderCancelled(o)
	}
	return true
}

func (r *Registry) Get(id OrderID) (Order, bool) {
	return r.orders.get(id)
}

func (r *Registry) Len() int {
	return r.orders.len()
}

// ListAllOrders returns a copy of the live orders sorted by id.
func (r *Registry) ListAllOrders() []Order {
	out := r.orders.snapshot()
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// LiveOrderSummaries aggregates one snapshot of the live orders into price
// levels, Buy levels first (highest price first) then Sell levels (lowest
// price first). The result is empty when nothing is live.
func (r *Registry) LiveOrderSummaries() []OrderSummary {
	snapshot := r.orders.snapshot()

	out := make([]OrderSummary, 0)
	for _, t := range OrderTypes {
		out = append(out, Aggregate(snapshot, t)...)
	}
	return out
}

// SideSummaries aggregates the live orders of one side.
func (r *Registry) SideSummaries(t OrderType) []OrderSummary {
	return Aggregate(r.orders.snapshot(), t)
}

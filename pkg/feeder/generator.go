package feeder

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/silverbar/pkg/orders"
)

// Target is the part of the registry the feeder drives.
type Target interface {
	Create(userID string, quantity, price decimal.Decimal, t orders.OrderType) (orders.OrderID, error)
	Cancel(id orders.OrderID) bool
}

// Generator creates random orders and cancels for load testing
type Generator struct {
	users  []string
	issued []orders.OrderID // ids returned by Create, candidates for cancel
	rng    *rand.Rand

	basePrice decimal.Decimal
	tick      decimal.Decimal
}

// NewGenerator creates a generator with numUsers simulated traders.
// A fixed seed gives a reproducible sequence.
func NewGenerator(numUsers int, seed int64) *Generator {
	if numUsers <= 0 {
		numUsers = 1
	}
	users := make([]string, numUsers)
	for i := range users {
		users[i] = fmt.Sprintf("trader_%d", i+1)
	}
	return &Generator{
		users:     users,
		rng:       rand.New(rand.NewSource(seed)),
		basePrice: decimal.NewFromInt(500),
		tick:      decimal.New(5, -1), // 0.5
	}
}

// Step performs one random action against target: 90% creates, 10% cancels
// of a previously issued id.
func (g *Generator) Step(target Target) error {
	if len(g.issued) > 0 && g.rng.Intn(100) < 10 {
		i := g.rng.Intn(len(g.issued))
		id := g.issued[i]
		g.issued[i] = g.issued[len(g.issued)-1]
		g.issued = g.issued[:len(g.issued)-1]
		target.Cancel(id)
		return nil
	}

	side := orders.Buy
	if g.rng.Intn(2) == 1 {
		side = orders.Sell
	}

	// ±20 ticks around the base price, buys below and sells above
	offset := g.tick.Mul(decimal.NewFromInt(int64(g.rng.Intn(20) + 1)))
	price := g.basePrice.Sub(offset)
	if side == orders.Sell {
		price = g.basePrice.Add(offset)
	}
	qty := decimal.New(int64(g.rng.Intn(100)+1), -1) // 0.1 to 10.0

	id, err := target.Create(g.users[g.rng.Intn(len(g.users))], qty, price, side)
	if err != nil {
		return err
	}
	g.issued = append(g.issued, id)
	return nil
}

package orders

import (
	"math/big"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

var ten = big.NewInt(10)

// Aggregate collapses the orders of side t into one summary per distinct
// price, sorted by t's price preference.
//
// Prices are grouped by numeric value, so 301 and 301.00 share a level. A
// level reports the price as written on its lowest-id order.
func Aggregate(all []Order, t OrderType) []OrderSummary {
	type level struct {
		sum   OrderSummary
		first OrderID
	}
	levels := make(map[string]*level)
	for _, o := range all {
		if o.Type != t {
			continue
		}
		key := priceKey(o.Price)
		lvl, ok := levels[key]
		if !ok {
			lvl = &level{sum: OrderSummary{Quantity: decimal.Zero, Price: o.Price, Type: t}, first: o.ID}
			levels[key] = lvl
		} else if o.ID < lvl.first {
			lvl.sum.Price, lvl.first = o.Price, o.ID
		}
		lvl.sum.Quantity = lvl.sum.Quantity.Add(o.Quantity)
	}

	out := make([]OrderSummary, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, lvl.sum)
	}
	sort.Slice(out, func(i, j int) bool {
		return t.Compare(out[i].Price, out[j].Price) < 0
	})
	return out
}

// priceKey renders p as coefficient and exponent with trailing zeros moved
// into the exponent. Its cost follows the digits of the coefficient, never
// the size of the exponent.
func priceKey(p decimal.Decimal) string {
	coef := p.Coefficient()
	if coef.Sign() == 0 {
		return "0"
	}
	exp := int64(p.Exponent())
	q, r := new(big.Int), new(big.Int)
	for {
		q.QuoRem(coef, ten, r)
		if r.Sign() != 0 {
			break
		}
		coef.Set(q)
		exp++
	}
	return coef.String() + "e" + strconv.FormatInt(exp, 10)
}

package sim

import (
	"github.com/cockroachdb/apd"

	"github.com/abhatnagar21/HFT-Simulator/src/engine"
)

// Portfolio tracks cash and shares for one tracked counterparty of the trade
// stream and values the position against a reference price. The engine emits
// trades without interpreting direction; deciding which side the portfolio
// represents is the caller's job (see Simulator).
type Portfolio struct {
	cash         apd.Decimal
	shares       int64
	initialValue apd.Decimal
}

func NewPortfolio(initialCashCents, initialShares, refPriceCents int64) *Portfolio {
	p := &Portfolio{
		cash:   *apd.New(initialCashCents, -2),
		shares: initialShares,
	}
	p.initialValue = p.Value(*apd.New(refPriceCents, -2))
	return p
}

// Apply books one trade against the portfolio: a buy spends cash for shares,
// a sell does the reverse.
func (p *Portfolio) Apply(trade engine.Trade, buy bool) {
	amount := notional(&trade.Price, trade.Quantity)
	if buy {
		p.cash = sub(&p.cash, &amount)
		p.shares += trade.Quantity
	} else {
		p.cash = add(&p.cash, &amount)
		p.shares -= trade.Quantity
	}
}

func (p *Portfolio) Cash() apd.Decimal {
	return p.cash
}

func (p *Portfolio) Shares() int64 {
	return p.shares
}

// Value is cash plus shares marked at the given price.
func (p *Portfolio) Value(price apd.Decimal) apd.Decimal {
	position := notional(&price, p.shares)
	return add(&p.cash, &position)
}

// PnLPercent is the percentage gain or loss against the initial portfolio
// value, marked at the given price.
func (p *Portfolio) PnLPercent(price apd.Decimal) float64 {
	initial, err := p.initialValue.Float64()
	if err != nil || initial == 0 {
		return 0
	}
	value := p.Value(price)
	current, err := value.Float64()
	if err != nil {
		return 0
	}
	return (current - initial) / initial * 100
}

func notional(price *apd.Decimal, qty int64) apd.Decimal {
	res := new(apd.Decimal)
	if _, err := engine.DecimalContext.Mul(res, price, apd.New(qty, 0)); err != nil {
		panic("portfolio notional: " + err.Error())
	}
	return *res
}

func add(a, b *apd.Decimal) apd.Decimal {
	res := new(apd.Decimal)
	if _, err := engine.DecimalContext.Add(res, a, b); err != nil {
		panic("portfolio add: " + err.Error())
	}
	return *res
}

func sub(a, b *apd.Decimal) apd.Decimal {
	res := new(apd.Decimal)
	if _, err := engine.DecimalContext.Sub(res, a, b); err != nil {
		panic("portfolio sub: " + err.Error())
	}
	return *res
}

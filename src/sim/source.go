// Package sim recreates the market environment around the matching engine:
// a random-walk order source, a market maker quoting around the walk price,
// and a portfolio tracking cash, shares and P&L from the trade stream. The
// engine consumes the event stream these produce and knows nothing about
// them.
package sim

import (
	"math"
	"math/rand"

	"github.com/cockroachdb/apd"

	"github.com/abhatnagar21/HFT-Simulator/src/engine"
	"github.com/abhatnagar21/HFT-Simulator/src/session"
)

// Source produces a random-walk mid price and a stream of aggressor orders
// around it. Prices walk in whole cents, floored at one cent. The source is
// fully deterministic under the injected rand so simulations can be
// replayed; the engine neither seeds nor owns the generator.
type Source struct {
	priceCents int64
	volatility float64
	rng        *rand.Rand
}

func NewSource(startPriceCents int64, volatility float64, rng *rand.Rand) *Source {
	if startPriceCents < 1 {
		startPriceCents = 1
	}
	return &Source{
		priceCents: startPriceCents,
		volatility: volatility,
		rng:        rng,
	}
}

// Price is the current walk price.
func (s *Source) Price() apd.Decimal {
	return *apd.New(s.priceCents, -2)
}

func (s *Source) PriceCents() int64 {
	return s.priceCents
}

// NextPrice advances the walk by a uniform factor in [-volatility, +volatility].
func (s *Source) NextPrice() apd.Decimal {
	move := (s.rng.Float64()*2 - 1) * s.volatility
	s.priceCents += int64(math.Round(float64(s.priceCents) * move))
	if s.priceCents < 1 {
		s.priceCents = 1
	}
	return s.Price()
}

// NextOrder draws one aggressor order at the current price: random side,
// one-in-five market, quantity in [1, 100].
func (s *Source) NextOrder() session.OrderEvent {
	event := session.OrderEvent{
		Side:     engine.SideBuy,
		Kind:     engine.KindLimit,
		Quantity: s.rng.Int63n(100) + 1,
	}
	if s.rng.Intn(2) == 1 {
		event.Side = engine.SideSell
	}
	if s.rng.Intn(10) < 2 {
		event.Kind = engine.KindMarket
	} else {
		event.Price = s.Price()
	}
	return event
}

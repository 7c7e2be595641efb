package sim

import (
	"math"

	"github.com/cockroachdb/apd"

	"github.com/abhatnagar21/HFT-Simulator/src/engine"
	"github.com/abhatnagar21/HFT-Simulator/src/session"
)

// MarketMaker quotes a fixed-size bid and ask around a reference price,
// providing resting liquidity for the aggressor flow to trade against.
type MarketMaker struct {
	SpreadPercent float64 // full spread as a fraction of the reference price
	Size          int64
}

func NewMarketMaker(spreadPercent float64, size int64) *MarketMaker {
	return &MarketMaker{SpreadPercent: spreadPercent, Size: size}
}

// Quotes returns the bid and ask limit orders for the given reference price
// in cents. Quotes never go below one cent.
func (m *MarketMaker) Quotes(priceCents int64) []session.OrderEvent {
	halfSpread := int64(math.Round(float64(priceCents) * m.SpreadPercent / 2))
	if halfSpread < 1 {
		halfSpread = 1
	}
	bidCents := priceCents - halfSpread
	if bidCents < 1 {
		bidCents = 1
	}
	askCents := priceCents + halfSpread

	return []session.OrderEvent{
		{Side: engine.SideBuy, Kind: engine.KindLimit, Price: *apd.New(bidCents, -2), Quantity: m.Size},
		{Side: engine.SideSell, Kind: engine.KindLimit, Price: *apd.New(askCents, -2), Quantity: m.Size},
	}
}

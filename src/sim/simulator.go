package sim

import (
	"context"
	"math/rand"

	"github.com/cockroachdb/apd"
	"github.com/rs/zerolog/log"

	"github.com/abhatnagar21/HFT-Simulator/src/engine"
	"github.com/abhatnagar21/HFT-Simulator/src/session"
)

// Config carries every knob of a simulation run.
type Config struct {
	Symbol           string
	StartPriceCents  int64
	Volatility       float64 // per-step walk range, e.g. 0.02 for ±2%
	SpreadPercent    float64 // market maker full spread fraction
	MakerSize        int64
	InitialCashCents int64
	InitialShares    int64
	Seed             int64
}

// Simulator wires the order source, market maker, session and portfolio
// into one market loop. Each Step is one tick: advance the walk, submit one
// aggressor order, refresh the maker quotes and book the resulting trades.
type Simulator struct {
	cfg       Config
	session   *session.Session
	source    *Source
	maker     *MarketMaker
	portfolio *Portfolio
	history   []apd.Decimal
	steps     int
}

func New(cfg Config) *Simulator {
	rng := rand.New(rand.NewSource(cfg.Seed))
	book := engine.NewOrderBook(cfg.Symbol)

	s := &Simulator{
		cfg:       cfg,
		session:   session.New(book),
		source:    NewSource(cfg.StartPriceCents, cfg.Volatility, rng),
		maker:     NewMarketMaker(cfg.SpreadPercent, cfg.MakerSize),
		portfolio: NewPortfolio(cfg.InitialCashCents, cfg.InitialShares, cfg.StartPriceCents),
	}

	// A trade below the current walk price was a cheap fill for the tracked
	// portfolio and counts as a buy; at or above counts as a sell.
	s.session.OnTrade(func(trade engine.Trade) {
		walk := s.source.Price()
		s.portfolio.Apply(trade, trade.Price.Cmp(&walk) < 0)
	})

	return s
}

// Step runs one market tick.
func (s *Simulator) Step() error {
	price := s.source.NextPrice()
	s.history = append(s.history, price)
	s.steps++

	events := []session.OrderEvent{s.source.NextOrder()}
	events = append(events, s.maker.Quotes(s.source.PriceCents())...)

	tradesBefore := s.session.TradeCount()
	for _, event := range events {
		if _, _, err := s.session.Submit(event); err != nil {
			return err
		}
	}

	log.Info().
		Int("step", s.steps).
		Str("price", price.String()).
		Int("trades", s.session.TradeCount()-tradesBefore).
		Int64("shares", s.portfolio.Shares()).
		Float64("pnl_pct", s.portfolio.PnLPercent(price)).
		Msg("Simulation step")
	return nil
}

// Run executes up to steps ticks, stopping early when the context is
// cancelled. A cancelled run is not an error; the state reached so far
// stays valid.
func (s *Simulator) Run(ctx context.Context, steps int) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			log.Info().Int("completed", i).Msg("Simulation interrupted")
			return nil
		default:
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) Session() *session.Session {
	return s.session
}

func (s *Simulator) Portfolio() *Portfolio {
	return s.portfolio
}

// History returns a copy of the walk price series, one entry per step.
func (s *Simulator) History() []apd.Decimal {
	out := make([]apd.Decimal, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Simulator) CurrentPrice() apd.Decimal {
	return s.source.Price()
}

func (s *Simulator) Steps() int {
	return s.steps
}

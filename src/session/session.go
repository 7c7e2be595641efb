// Package session drives an order book with a stream of order events. It
// owns the global sequence counter shared by both sides, accumulates every
// emitted trade, and fans trades out to registered consumers.
package session

import (
	"sync"
	"time"

	"github.com/cockroachdb/apd"
	"github.com/rs/zerolog/log"

	"github.com/abhatnagar21/HFT-Simulator/src/engine"
)

// OrderEvent is an incoming order before sequencing. The session stamps the
// sequence number and timestamp; callers never pick their own.
type OrderEvent struct {
	Side     engine.Side
	Kind     engine.Kind
	Price    apd.Decimal
	Quantity int64
}

// TradeHandler observes emitted trades. Handlers run synchronously on the
// submitting goroutine, in emission order.
type TradeHandler func(engine.Trade)

type Session struct {
	book     *engine.OrderBook
	seq      uint64
	trades   []engine.Trade
	handlers []TradeHandler
	mu       sync.Mutex
}

func New(book *engine.OrderBook) *Session {
	return &Session{book: book}
}

// OnTrade registers a trade consumer. Not safe to call concurrently with
// Submit.
func (s *Session) OnTrade(handler TradeHandler) {
	s.handlers = append(s.handlers, handler)
}

// Submit assigns the next sequence number to the event, delegates to the
// book and records the resulting trades. It returns the assigned sequence
// so callers can correlate later fills with their submission.
func (s *Session) Submit(event OrderEvent) (uint64, []engine.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	order := engine.Order{
		Side:      event.Side,
		Kind:      event.Kind,
		Price:     event.Price,
		Quantity:  event.Quantity,
		Sequence:  s.seq,
		Timestamp: time.Now(),
	}

	trades, err := s.book.Submit(order)
	if err != nil {
		log.Warn().
			Uint64("sequence", s.seq).
			Str("side", string(event.Side)).
			Str("kind", string(event.Kind)).
			Int64("quantity", event.Quantity).
			Err(err).
			Msg("Order rejected")
		return s.seq, nil, err
	}

	s.trades = append(s.trades, trades...)
	for _, trade := range trades {
		for _, handler := range s.handlers {
			handler(trade)
		}
	}

	if len(trades) > 0 {
		log.Debug().
			Uint64("sequence", s.seq).
			Int("trades", len(trades)).
			Msg("Order matched")
	}
	return s.seq, trades, nil
}

// Trades returns a copy of every trade emitted so far, in execution order.
func (s *Session) Trades() []engine.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]engine.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}

func (s *Session) TradeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.trades)
}

// Sequence is the last sequence number assigned.
func (s *Session) Sequence() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

func (s *Session) Depth(levels int) (bids, asks []engine.DepthLevel) {
	return s.book.Depth(levels)
}

func (s *Session) BestBid() (apd.Decimal, int64, bool) {
	return s.book.BestBid()
}

func (s *Session) BestAsk() (apd.Decimal, int64, bool) {
	return s.book.BestAsk()
}

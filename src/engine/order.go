package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/apd"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Opposite returns the side an aggressive order executes against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

type Kind string

const (
	KindLimit  Kind = "LIMIT"
	KindMarket Kind = "MARKET"
	KindCancel Kind = "CANCEL"
)

var (
	ErrInvalidSide       = errors.New("invalid order: side must be BUY or SELL")
	ErrInvalidKind       = errors.New("invalid order: kind must be LIMIT, MARKET or CANCEL")
	ErrInvalidQuantity   = errors.New("invalid order: quantity must be positive")
	ErrInvalidLimitPrice = errors.New("invalid order: price must be positive for LIMIT orders")
	ErrDuplicateSequence = errors.New("invalid order: sequence number already resting on the book")
)

// Order is a single order event. Side, Kind, Price, Quantity and Sequence are
// fixed at submission; Remaining is the only field the book mutates as fills
// occur. Prices are arbitrary-precision decimals so midpoint executions
// between two cent-quoted prices stay exact.
type Order struct {
	Side      Side
	Kind      Kind
	Price     apd.Decimal // required for LIMIT, match key for CANCEL, ignored for MARKET
	Quantity  int64
	Sequence  uint64 // global arrival order across both sides, assigned by the session
	Remaining int64
	Timestamp time.Time
}

func (o *Order) IsFilled() bool {
	return o.Remaining == 0
}

func (o *Order) fill(qty int64) {
	if qty <= 0 || qty > o.Remaining {
		panic(fmt.Sprintf("fill of %d against remaining %d on order %d", qty, o.Remaining, o.Sequence))
	}
	o.Remaining -= qty
}

// Trade records one execution between a buy and a sell order. Trades are
// immutable once emitted; there is no trade busting.
type Trade struct {
	ID           string
	Price        apd.Decimal
	Quantity     int64
	BuySequence  uint64
	SellSequence uint64
	Timestamp    time.Time
}

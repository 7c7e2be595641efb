package engine

import (
	"sync"
	"time"

	"github.com/cockroachdb/apd"
	"github.com/google/btree"
	"github.com/google/uuid"
)

type priceLevel struct {
	Price  apd.Decimal
	Orders []*Order // fifo ordering for time priority, ascending sequence
}

func (l *priceLevel) total() int64 {
	var total int64
	for _, o := range l.Orders {
		total += o.Remaining
	}
	return total
}

type bidItem struct {
	level *priceLevel
}

func (b *bidItem) Less(than btree.Item) bool {
	return b.level.Price.Cmp(&than.(*bidItem).level.Price) > 0
}

type askItem struct {
	level *priceLevel
}

func (a *askItem) Less(than btree.Item) bool {
	return a.level.Price.Cmp(&than.(*askItem).level.Price) < 0
}

func wrap(side Side, level *priceLevel) btree.Item {
	if side == SideBuy {
		return &bidItem{level: level}
	}
	return &askItem{level: level}
}

func unwrap(item btree.Item) *priceLevel {
	switch it := item.(type) {
	case *bidItem:
		return it.level
	case *askItem:
		return it.level
	}
	return nil
}

// OrderBook holds the resting limit orders of one instrument. Both sides are
// btrees of price levels so inserts and removals stay logarithmic while the
// best level is always the tree minimum (the bid comparator is inverted).
// The book exclusively owns every resting order; depth reads return copies.
//
// Submit runs to completion under one exclusive lock, so per-order processing
// is strictly serialized and the global time-priority invariant holds.
type OrderBook struct {
	Symbol string

	bids   *btree.BTree
	asks   *btree.BTree
	orders map[uint64]*Order // resting orders by sequence
	mu     sync.RWMutex
}

func NewOrderBook(symbol string) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		bids:   btree.New(32),
		asks:   btree.New(32),
		orders: make(map[uint64]*Order),
	}
}

// Submit applies one order event and returns the trades it produced, in
// execution order. Validation failures reject the event before any state
// mutation. A cancel with no matching resting order and a market order
// against an empty opposite side both complete with zero effect; neither is
// an error.
func (ob *OrderBook) Submit(order Order) ([]Trade, error) {
	if order.Side != SideBuy && order.Side != SideSell {
		return nil, ErrInvalidSide
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	switch order.Kind {
	case KindCancel:
		ob.cancel(order)
		return nil, nil
	case KindMarket:
		if order.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		return ob.executeMarket(order), nil
	case KindLimit:
		if order.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if order.Price.Sign() <= 0 {
			return nil, ErrInvalidLimitPrice
		}
		// edge case: duplicate sequences would break cancel targeting and
		// time-priority tie-breaks, reject before touching the book
		if _, exists := ob.orders[order.Sequence]; exists {
			return nil, ErrDuplicateSequence
		}
		resting := order
		resting.Remaining = resting.Quantity
		ob.insert(&resting)
		return ob.matchCrossed(), nil
	default:
		return nil, ErrInvalidKind
	}
}

func (ob *OrderBook) tree(side Side) *btree.BTree {
	if side == SideBuy {
		return ob.bids
	}
	return ob.asks
}

func (ob *OrderBook) levelAt(side Side, price apd.Decimal) *priceLevel {
	item := ob.tree(side).Get(wrap(side, &priceLevel{Price: price}))
	if item == nil {
		return nil
	}
	return unwrap(item)
}

func (ob *OrderBook) bestLevel(side Side) *priceLevel {
	tree := ob.tree(side)
	if tree.Len() == 0 {
		return nil
	}
	return unwrap(tree.Min())
}

func (ob *OrderBook) insert(order *Order) {
	level := ob.levelAt(order.Side, order.Price)
	if level == nil {
		level = &priceLevel{Price: order.Price}
		ob.tree(order.Side).ReplaceOrInsert(wrap(order.Side, level))
	}
	level.Orders = append(level.Orders, order)
	ob.orders[order.Sequence] = order
}

func (ob *OrderBook) dropIfEmpty(side Side, level *priceLevel) {
	if len(level.Orders) == 0 {
		ob.tree(side).Delete(wrap(side, level))
	}
}

// shift removes the front order of a level and the level itself once empty.
func (ob *OrderBook) shift(side Side, level *priceLevel) {
	front := level.Orders[0]
	level.Orders = level.Orders[1:]
	delete(ob.orders, front.Sequence)
	ob.dropIfEmpty(side, level)
}

// cancel removes the oldest resting order on the event's side whose price and
// original quantity both equal the cancel event's. A miss is a no-op so that
// callers may cancel speculatively.
func (ob *OrderBook) cancel(event Order) {
	level := ob.levelAt(event.Side, event.Price)
	if level == nil {
		return
	}
	for i, resting := range level.Orders {
		if resting.Quantity == event.Quantity {
			level.Orders = append(level.Orders[:i], level.Orders[i+1:]...)
			delete(ob.orders, resting.Sequence)
			ob.dropIfEmpty(event.Side, level)
			return
		}
	}
}

// executeMarket walks the opposite side from best to worst, filling at each
// resting order's own price. An unfilled remainder is discarded, never
// rested.
func (ob *OrderBook) executeMarket(event Order) []Trade {
	opposite := event.Side.Opposite()
	remaining := event.Quantity

	var trades []Trade
	for remaining > 0 {
		level := ob.bestLevel(opposite)
		if level == nil {
			break
		}
		for remaining > 0 && len(level.Orders) > 0 {
			resting := level.Orders[0]
			qty := remaining
			if resting.Remaining < qty {
				qty = resting.Remaining
			}
			resting.fill(qty)
			remaining -= qty
			trades = append(trades, ob.newTrade(event.Side, event.Sequence, resting.Sequence, resting.Price, qty))
			if resting.IsFilled() {
				ob.shift(opposite, level)
			}
		}
	}
	return trades
}

// matchCrossed is the continuous matching step: while the best bid price is
// at or above the best ask price, the two front orders trade the minimum of
// their remaining quantities at the midpoint of their quoted prices. One pair
// per iteration, strictly best price first, keeps total price-time priority
// across the whole book.
func (ob *OrderBook) matchCrossed() []Trade {
	var trades []Trade
	for {
		bidLevel := ob.bestLevel(SideBuy)
		askLevel := ob.bestLevel(SideSell)
		if bidLevel == nil || askLevel == nil {
			break
		}
		if bidLevel.Price.Cmp(&askLevel.Price) < 0 {
			break
		}

		buy := bidLevel.Orders[0]
		sell := askLevel.Orders[0]

		qty := buy.Remaining
		if sell.Remaining < qty {
			qty = sell.Remaining
		}
		price := midpoint(&buy.Price, &sell.Price)

		buy.fill(qty)
		sell.fill(qty)

		trades = append(trades, Trade{
			ID:           uuid.New().String(),
			Price:        price,
			Quantity:     qty,
			BuySequence:  buy.Sequence,
			SellSequence: sell.Sequence,
			Timestamp:    time.Now(),
		})

		if buy.IsFilled() {
			ob.shift(SideBuy, bidLevel)
		}
		if sell.IsFilled() {
			ob.shift(SideSell, askLevel)
		}
	}
	return trades
}

func (ob *OrderBook) newTrade(aggressorSide Side, aggressorSeq, restingSeq uint64, price apd.Decimal, qty int64) Trade {
	trade := Trade{
		ID:        uuid.New().String(),
		Price:     price,
		Quantity:  qty,
		Timestamp: time.Now(),
	}
	if aggressorSide == SideBuy {
		trade.BuySequence = aggressorSeq
		trade.SellSequence = restingSeq
	} else {
		trade.BuySequence = restingSeq
		trade.SellSequence = aggressorSeq
	}
	return trade
}

// DepthLevel is one aggregated price level of a depth snapshot.
type DepthLevel struct {
	Price    apd.Decimal
	Quantity int64
}

// Depth returns up to levels aggregated price levels per side, best to
// worst. The snapshot is a copy; it never aliases the book's internals.
func (ob *OrderBook) Depth(levels int) (bids, asks []DepthLevel) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.depthOf(ob.bids, levels), ob.depthOf(ob.asks, levels)
}

func (ob *OrderBook) depthOf(tree *btree.BTree, levels int) []DepthLevel {
	out := make([]DepthLevel, 0, levels)
	tree.Ascend(func(item btree.Item) bool {
		if len(out) >= levels {
			return false
		}
		level := unwrap(item)
		out = append(out, DepthLevel{Price: level.Price, Quantity: level.total()})
		return true
	})
	return out
}

func (ob *OrderBook) BestBid() (price apd.Decimal, quantity int64, ok bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.best(SideBuy)
}

func (ob *OrderBook) BestAsk() (price apd.Decimal, quantity int64, ok bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return ob.best(SideSell)
}

func (ob *OrderBook) best(side Side) (apd.Decimal, int64, bool) {
	level := ob.bestLevel(side)
	if level == nil {
		return apd.Decimal{}, 0, false
	}
	return level.Price, level.total(), true
}

// Order returns a copy of the resting order with the given sequence.
func (ob *OrderBook) Order(sequence uint64) (Order, bool) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	resting, ok := ob.orders[sequence]
	if !ok {
		return Order{}, false
	}
	return *resting, true
}

// RestingCount is the number of orders currently resting on either side.
func (ob *OrderBook) RestingCount() int {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return len(ob.orders)
}

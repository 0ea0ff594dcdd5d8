package engine

import (
	"venue/internal/common"

	"github.com/tidwall/btree"
)

// priceLevel is one price point in the book: a price key plus a FIFO of
// open orders resting at that price, earliest-enqueued first.
type priceLevel struct {
	price  int64
	orders []*common.Order
}

// book holds the two sides of the market for one symbol. Bids are kept
// sorted descending by price, asks ascending, via tidwall/btree.BTreeG —
// the same sorted-price-level container the engine package in this
// codebase has always used, rather than a hand-rolled linked list of
// levels.
type book struct {
	bids *btree.BTreeG[*priceLevel]
	asks *btree.BTreeG[*priceLevel]
}

func newBook() *book {
	return &book{
		bids: btree.NewBTreeG[*priceLevel](func(a, b *priceLevel) bool {
			return a.price > b.price
		}),
		asks: btree.NewBTreeG[*priceLevel](func(a, b *priceLevel) bool {
			return a.price < b.price
		}),
	}
}

func (b *book) side(s common.Side) *btree.BTreeG[*priceLevel] {
	if s == common.Buy {
		return b.bids
	}
	return b.asks
}

// opposite returns the side a resting counterparty for s would be on.
func (b *book) opposite(s common.Side) *btree.BTreeG[*priceLevel] {
	if s == common.Buy {
		return b.asks
	}
	return b.bids
}

// insertResting appends order to the tail of its price level's FIFO,
// creating the level if this is the first order at that price.
func (b *book) insertResting(order *common.Order) {
	levels := b.side(order.Direction)
	key := &priceLevel{price: order.Price}
	level, ok := levels.Get(key)
	if !ok {
		level = key
		levels.Set(level)
	}
	level.orders = append(level.orders, order)
}

// cancel removes order from its resting level, deleting the level if it
// becomes empty. It is a no-op if the order cannot be found (already
// removed), which keeps repeated cancels idempotent.
func (b *book) cancel(order *common.Order) {
	levels := b.side(order.Direction)
	level, ok := levels.Get(&priceLevel{price: order.Price})
	if !ok {
		return
	}
	for i, o := range level.orders {
		if o == order {
			level.orders = append(level.orders[:i], level.orders[i+1:]...)
			break
		}
	}
	if len(level.orders) == 0 {
		levels.Delete(level)
	}
}

// cleanupExhausted trims the head run of closed orders from the best
// level(s) on side s, deleting any level that becomes empty, and stops at
// the first still-open order. Deferred to run once after an incoming
// order has fully finished matching, never mid-cross.
func (b *book) cleanupExhausted(s common.Side) {
	levels := b.side(s)
	for {
		level, ok := levels.Min()
		if !ok {
			return
		}
		i := 0
		for i < len(level.orders) && !level.orders[i].Open {
			i++
		}
		if i > 0 {
			level.orders = level.orders[i:]
		}
		if len(level.orders) == 0 {
			levels.Delete(level)
			continue
		}
		return
	}
}

// best returns the top-of-book level on side s, if any.
func (b *book) best(s common.Side) (*priceLevel, bool) {
	return b.side(s).Min()
}

// sizeAtBest sums the remaining quantity of orders resting at the best
// price on side s.
func (b *book) sizeAtBest(s common.Side) int64 {
	level, ok := b.best(s)
	if !ok {
		return 0
	}
	var total int64
	for _, o := range level.orders {
		total += o.Qty
	}
	return total
}

// depth sums the remaining quantity of every order resting on side s.
func (b *book) depth(s common.Side) int64 {
	var total int64
	b.side(s).Scan(func(level *priceLevel) bool {
		for _, o := range level.orders {
			total += o.Qty
		}
		return true
	})
	return total
}

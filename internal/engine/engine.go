// Package engine implements the single-symbol, single-venue matching core:
// the price-time order book, the FOK/IOC/Market/Limit lifecycle, account
// ledgers, the quote aggregator and the execution/ticker event stream.
//
// An Engine is single-writer by construction: PlaceOrder, Cancel and every
// read accessor must be called from one goroutine at a time. Nothing here
// takes a lock, because nothing here is meant to be called concurrently —
// serializing callers is the job of whatever sits in front of the engine
// (internal/protocol.Dispatcher).
package engine

import "venue/internal/common"

// Engine owns one (venue, symbol) pair's entire matching state.
type Engine struct {
	venue  string
	symbol string

	clk     clock
	orders  *orderStore
	accts   *accountStore
	book    *book
	quote   common.Quote
	emitter Emitter
}

// New constructs an Engine for the given venue/symbol. Events are
// discarded until SetEmitter is called.
func New(venue, symbol string) *Engine {
	return &Engine{
		venue:   venue,
		symbol:  symbol,
		orders:  newOrderStore(),
		accts:   newAccountStore(),
		book:    newBook(),
		quote:   common.NewQuote(),
		emitter: NopEmitter{},
	}
}

// SetEmitter attaches the sink execution/ticker events are sent to.
func (e *Engine) SetEmitter(em Emitter) {
	if em == nil {
		em = NopEmitter{}
	}
	e.emitter = em
}

// Venue and Symbol identify this engine instance, used to stamp outgoing
// events and replies.
func (e *Engine) Venue() string  { return e.venue }
func (e *Engine) Symbol() string { return e.symbol }

// Now returns the engine's current clock reading, advancing its
// fake-microsecond counter exactly as any other timestamped operation
// would.
func (e *Engine) Now() string { return e.clk.now() }

// Quote returns a copy of the current top-of-book snapshot.
func (e *Engine) Quote() common.Quote { return e.quote }

// Order looks up an order by id.
func (e *Engine) Order(id uint64) (*common.Order, bool) { return e.orders.get(id) }

// AccountName resolves an order id to its owning account's name.
func (e *Engine) AccountName(id uint64) (string, bool) {
	o, ok := e.orders.get(id)
	if !ok {
		return "", false
	}
	return o.Account.Name, true
}

// AccountOrders returns every order the given account number has ever
// placed, in submission order. The bool is false if the account number is
// out of range or has never been touched.
func (e *Engine) AccountOrders(acctID uint32) ([]*common.Order, bool) {
	acct, ok := e.accts.get(acctID)
	if !ok {
		return nil, false
	}
	return acct.Orders, true
}

// refreshQuote recomputes the book-derived fields of the quote (bid, ask,
// sizes, depths) and stamps quoteTs. last/lastSize/lastTrade are left
// untouched here; only a cross updates those.
func (e *Engine) refreshQuote() {
	if lvl, ok := e.book.best(common.Buy); ok {
		e.quote.Bid = lvl.price
	} else {
		e.quote.Bid = -1
	}
	if lvl, ok := e.book.best(common.Sell); ok {
		e.quote.Ask = lvl.price
	} else {
		e.quote.Ask = -1
	}
	e.quote.BidSize = e.book.sizeAtBest(common.Buy)
	e.quote.AskSize = e.book.sizeAtBest(common.Sell)
	e.quote.BidDepth = e.book.depth(common.Buy)
	e.quote.AskDepth = e.book.depth(common.Sell)
	e.quote.QuoteTs = e.clk.now()
}

// BookSnapshot returns resting (qty, price) pairs for one side in book
// priority order (best first), for the binary orderbook reply.
func (e *Engine) BookSnapshot(side common.Side) []common.Fill {
	var out []common.Fill
	e.book.side(side).Scan(func(level *priceLevel) bool {
		for _, o := range level.orders {
			out = append(out, common.Fill{Qty: o.Qty, Price: o.Price})
		}
		return true
	})
	return out
}

// HighestKnownOrder is the last allocated order id, or -1 if none have
// been allocated yet. This intentionally tracks allocation, not the
// highest id ever asked about — see SPEC_FULL.md §9.
func (e *Engine) HighestKnownOrder() int { return e.orders.highestKnownOrder }

// AllocatedOrderCount is the number of orders allocated so far, used by
// the debug-memory readout.
func (e *Engine) AllocatedOrderCount() int { return len(e.orders.orders) }

// KnownAccountCount is the number of accounts touched so far.
func (e *Engine) KnownAccountCount() int {
	n := 0
	for _, a := range e.accts.accounts {
		if a != nil {
			n++
		}
	}
	return n
}

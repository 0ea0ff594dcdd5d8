// Package common holds the domain vocabulary shared by the matching engine
// and the wire protocol that drives it: sides, order types, orders, fills,
// accounts and the top-of-book quote. Nothing in this package knows how to
// parse or format the wire protocol; it only describes the shapes involved.
package common

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// OrderType selects how an order is matched and, if unfilled, disposed of.
type OrderType int

const (
	// Limit orders rest on the book until filled or cancelled.
	Limit OrderType = iota + 1
	// Market orders cross at any price and never rest.
	Market
	// FOK orders either fill completely immediately or are cancelled
	// in full with no partial fill.
	FOK
	// IOC orders fill whatever they can immediately; any remainder is
	// cancelled rather than rested.
	IOC
)

func (t OrderType) String() string {
	switch t {
	case Limit:
		return "limit"
	case Market:
		return "market"
	case IOC:
		return "immediate-or-cancel"
	case FOK:
		return "fill-or-kill"
	default:
		return "unknown"
	}
}

// Fill is one execution record. The same value is appended to both
// participating orders' Fills slices.
type Fill struct {
	Price int64
	Qty   int64
	Ts    string
}

// Order is a single order known to the engine. Fields set at construction
// (ID, OriginalQty, Price, Direction, Type, Account, Ts) never change after
// the order is allocated; Qty, TotalFilled, Open and Fills are mutated by
// the matcher and lifecycle as the order is worked.
type Order struct {
	ID          uint64
	OriginalQty int64
	Qty         int64
	Price       int64
	Direction   Side
	Type        OrderType
	Account     *Account
	Ts          string

	TotalFilled int64
	Open        bool
	Fills       []Fill
}

// RemainingQty is the quantity still available to match.
func (o *Order) RemainingQty() int64 {
	return o.Qty
}

// AddFill records one cross against this order.
func (o *Order) AddFill(f Fill) {
	o.Qty -= f.Qty
	o.TotalFilled += f.Qty
	o.Fills = append(o.Fills, f)
	if o.Qty <= 0 {
		o.Open = false
	}
}

const (
	minClamp int64 = -2147483647
	maxClamp int64 = 2147483647
)

// Account tracks one participant's position and cash ledger, plus a
// running index of every order it has ever placed. Shares and cents
// saturate at ±2147483647 rather than overflowing.
type Account struct {
	ID     uint32
	Name   string
	Shares int64
	Cents  int64
	PosMin int64
	PosMax int64
	Orders []*Order
}

// NewAccount constructs an account with its position bounds seeded at zero,
// matching the reference implementation's initial posmin/posmax.
func NewAccount(id uint32, name string) *Account {
	return &Account{ID: id, Name: name}
}

func clamp(v int64) int64 {
	if v > maxClamp {
		return maxClamp
	}
	if v < minClamp {
		return minClamp
	}
	return v
}

// ApplyFill updates the ledger for one side of a cross. qty is always
// positive and price is never negative; side determines the sign applied
// to each.
func (a *Account) ApplyFill(side Side, qty, price int64) {
	if side == Buy {
		a.Shares = clamp(a.Shares + qty)
		a.Cents = clamp(a.Cents - price*qty)
	} else {
		a.Shares = clamp(a.Shares - qty)
		a.Cents = clamp(a.Cents + price*qty)
	}
	if a.Shares < a.PosMin {
		a.PosMin = a.Shares
	}
	if a.Shares > a.PosMax {
		a.PosMax = a.Shares
	}
}

// AddOrder appends an order to this account's order index.
func (a *Account) AddOrder(o *Order) {
	a.Orders = append(a.Orders, o)
}

// absentPrice is the sentinel used internally for "no bid"/"no ask"/"no
// trade yet", mirroring the reference implementation's use of -1.
const absentPrice int64 = -1

// Quote is the aggregated top-of-book snapshot.
type Quote struct {
	Bid      int64
	Ask      int64
	Last     int64
	BidSize  int64
	AskSize  int64
	BidDepth int64
	AskDepth int64
	LastSize int64
	QuoteTs  string
	LastTs   string
}

// NewQuote returns a quote with bid/ask/last absent, matching the
// reference's sentinel-initialised quote before any orders arrive.
func NewQuote() Quote {
	return Quote{Bid: absentPrice, Ask: absentPrice, Last: absentPrice}
}

// HasBid reports whether a bid price is present.
func (q Quote) HasBid() bool { return q.Bid != absentPrice }

// HasAsk reports whether an ask price is present.
func (q Quote) HasAsk() bool { return q.Ask != absentPrice }

// HasTrade reports whether any trade has occurred yet.
func (q Quote) HasTrade() bool { return q.Last != absentPrice }

package engine

import "venue/internal/common"

// PlaceOrder validates, allocates and works a new order to completion:
// matching happens synchronously and this returns only once the order is
// either closed or resting. The validation order matters — TOO_MANY_ORDERS
// and TOO_HIGH_ACCOUNT must be detected before an id or account lookup
// happens, and SILLY_VALUE before either. dirTok/typTok are the raw wire
// enums (not yet decoded): an out-of-range direction or order type is
// itself a silly value, and must only be reported once the two earlier
// checks have passed, so decoding happens here rather than at the
// protocol boundary.
func (e *Engine) PlaceOrder(accountID uint32, accountName string, qty, price int64, dirTok, typTok int) (*common.Order, error) {
	if !e.orders.canAllocate() {
		return nil, ErrTooManyOrders
	}
	if !e.accts.valid(accountID) {
		return nil, ErrTooHighAccount
	}
	dir, dirOK := decodeSide(dirTok)
	typ, typOK := decodeOrderType(typTok)
	if price < 0 || qty < 1 || !dirOK || !typOK {
		return nil, ErrSillyValue
	}

	acct := e.accts.lookupOrCreate(accountID, accountName)

	order := &common.Order{
		OriginalQty: qty,
		Qty:         qty,
		Price:       price,
		Direction:   dir,
		Type:        typ,
		Account:     acct,
		Open:        true,
	}
	order.Ts = e.clk.now()
	e.orders.allocate(order)
	acct.AddOrder(order)

	if typ == common.FOK {
		if e.canFillEntirely(order) {
			e.crossIncoming(order)
		}
	} else {
		e.crossIncoming(order)
	}

	e.book.cleanupExhausted(opposite(dir))

	if typ == common.Market {
		// Cosmetic: the matcher ignores a market order's price, so the
		// stored price is reset afterward purely for reporting.
		order.Price = 0
	}

	changed := false
	if order.Open && typ == common.Limit {
		e.book.insertResting(order)
		changed = true
	} else if order.Open {
		order.Open = false
		order.Qty = 0
	}
	if order.TotalFilled > 0 {
		changed = true
	}

	if changed {
		e.refreshQuote()
		e.emitter.EmitTicker(TickerEvent{Venue: e.venue, Symbol: e.symbol, Quote: e.quote})
	}

	return order, nil
}

func opposite(s common.Side) common.Side {
	if s == common.Buy {
		return common.Sell
	}
	return common.Buy
}

// decodeSide maps the wire direction enum (1=buy, 2=sell) to a common.Side.
func decodeSide(tok int) (common.Side, bool) {
	switch tok {
	case 1:
		return common.Buy, true
	case 2:
		return common.Sell, true
	default:
		return 0, false
	}
}

// decodeOrderType maps the wire order-type enum (1=limit, 2=market,
// 3=fill-or-kill, 4=immediate-or-cancel) to a common.OrderType.
func decodeOrderType(tok int) (common.OrderType, bool) {
	switch tok {
	case 1:
		return common.Limit, true
	case 2:
		return common.Market, true
	case 3:
		return common.FOK, true
	case 4:
		return common.IOC, true
	default:
		return 0, false
	}
}

// Cancel removes a resting limit order from the book. It is a silent
// no-op — returning the order's current state rather than an error — if
// the order is not a currently-resting limit order, which makes repeated
// cancels of the same id idempotent.
func (e *Engine) Cancel(id uint64) (*common.Order, error) {
	order, ok := e.orders.get(id)
	if !ok {
		return nil, ErrNoSuchID
	}
	if order.Type != common.Limit || !order.Open {
		return order, nil
	}

	e.book.cancel(order)
	order.Open = false
	order.Qty = 0

	e.refreshQuote()
	e.emitter.EmitTicker(TickerEvent{Venue: e.venue, Symbol: e.symbol, Quote: e.quote})

	return order, nil
}

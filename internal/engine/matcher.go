package engine

import "venue/internal/common"

// admissible reports whether a resting level at levelPrice can still cross
// against an incoming order of the given type/price/direction. Market
// orders ignore price entirely; everything else stops at the incoming's
// limit.
func admissible(incoming *common.Order, levelPrice int64) bool {
	if incoming.Type == common.Market {
		return true
	}
	if incoming.Direction == common.Buy {
		return levelPrice <= incoming.Price
	}
	return levelPrice >= incoming.Price
}

// crossIncoming walks the opposite side of the book from best price
// outward, crossing incoming against standing orders in strict price-time
// priority until incoming closes or no more admissible liquidity remains.
// The book structure itself is never mutated here — no level or order is
// removed mid-walk; that is left entirely to the cleanup pass the caller
// runs afterward. Matched levels may, however, end up with a head-run of
// now-closed orders, which is exactly what cleanup trims.
func (e *Engine) crossIncoming(incoming *common.Order) {
	opposite := e.book.opposite(incoming.Direction)
	opposite.Scan(func(level *priceLevel) bool {
		if !incoming.Open {
			return false
		}
		if !admissible(incoming, level.price) {
			return false
		}
		for _, standing := range level.orders {
			if !incoming.Open {
				break
			}
			// Any order reaching here must still be open: a single
			// incoming order never revisits an index it has already
			// closed, since the loop only moves forward.
			e.cross(standing, incoming, level.price)
		}
		return incoming.Open
	})
}

// cross executes one fill between standing and incoming at the given
// price (always the standing/maker order's price), updates both orders'
// ledgers, applies the account-position update (skipped for self-trades),
// refreshes the quote's last-trade fields, and emits the paired execution
// events.
func (e *Engine) cross(standing, incoming *common.Order, price int64) {
	qty := standing.Qty
	if incoming.Qty < qty {
		qty = incoming.Qty
	}
	if qty <= 0 {
		return
	}

	ts := e.clk.now()
	fill := common.Fill{Price: price, Qty: qty, Ts: ts}
	standing.AddFill(fill)
	incoming.AddFill(fill)

	if standing.Account.Name != incoming.Account.Name {
		standing.Account.ApplyFill(standing.Direction, qty, price)
		incoming.Account.ApplyFill(incoming.Direction, qty, price)
	}

	e.quote.Last = price
	e.quote.LastSize = qty
	e.quote.LastTs = ts

	e.emitter.EmitExecution(ExecutionEvent{
		Account:          standing.Account.Name,
		Venue:            e.venue,
		Symbol:           e.symbol,
		Order:            *standing,
		StandingID:       standing.ID,
		IncomingID:       incoming.ID,
		Price:            price,
		Qty:              qty,
		Ts:               ts,
		StandingComplete: !standing.Open,
		IncomingComplete: !incoming.Open,
	})
	e.emitter.EmitExecution(ExecutionEvent{
		Account:          incoming.Account.Name,
		Venue:            e.venue,
		Symbol:           e.symbol,
		Order:            *incoming,
		StandingID:       standing.ID,
		IncomingID:       incoming.ID,
		Price:            price,
		Qty:              qty,
		Ts:               ts,
		StandingComplete: !standing.Open,
		IncomingComplete: !incoming.Open,
	})
}

// canFillEntirely is the FOK feasibility pre-check. It accumulates the
// requested quantity DOWN toward zero rather than summing available
// liquidity UP, matching the reference backend's subtraction-only
// algorithm exactly — the point is to make overflow structurally
// impossible rather than merely unlikely, since a naive additive sum of
// resting quantity has no such guarantee.
func (e *Engine) canFillEntirely(incoming *common.Order) bool {
	remaining := incoming.Qty
	opposite := e.book.opposite(incoming.Direction)
	opposite.Scan(func(level *priceLevel) bool {
		if remaining <= 0 {
			return false
		}
		if !admissible(incoming, level.price) {
			return false
		}
		for _, standing := range level.orders {
			if remaining <= 0 {
				break
			}
			remaining -= standing.Qty
		}
		return true
	})
	return remaining <= 0
}

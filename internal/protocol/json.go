// Package protocol implements the line-oriented text command channel and
// its JSON/binary reply formats: parsing ORDER/CANCEL/STATUS/... commands,
// driving an *engine.Engine, and writing back replies terminated by a
// lone "END" line (except the binary orderbook dump, which has none).
package protocol

import "venue/internal/common"

type fillJSON struct {
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
	Ts    string `json:"ts"`
}

type orderJSON struct {
	OK          bool       `json:"ok"`
	Venue       string     `json:"venue"`
	Symbol      string     `json:"symbol"`
	Direction   string     `json:"direction"`
	OriginalQty int64      `json:"originalQty"`
	Qty         int64      `json:"qty"`
	Price       int64      `json:"price"`
	OrderType   string     `json:"orderType"`
	ID          uint64     `json:"id"`
	Account     string     `json:"account"`
	Ts          string     `json:"ts"`
	TotalFilled int64      `json:"totalFilled"`
	Open        bool       `json:"open"`
	Fills       []fillJSON `json:"fills"`
}

func toOrderJSON(venue, symbol string, o *common.Order) orderJSON {
	fills := make([]fillJSON, len(o.Fills))
	for i, f := range o.Fills {
		fills[i] = fillJSON{Price: f.Price, Qty: f.Qty, Ts: f.Ts}
	}
	return orderJSON{
		OK:          true,
		Venue:       venue,
		Symbol:      symbol,
		Direction:   o.Direction.String(),
		OriginalQty: o.OriginalQty,
		Qty:         o.Qty,
		Price:       o.Price,
		OrderType:   o.Type.String(),
		ID:          o.ID,
		Account:     o.Account.Name,
		Ts:          o.Ts,
		TotalFilled: o.TotalFilled,
		Open:        o.Open,
		Fills:       fills,
	}
}

type errorJSON struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type statusAllJSON struct {
	OK     bool        `json:"ok"`
	Venue  string      `json:"venue"`
	Orders []orderJSON `json:"orders"`
}

type quoteJSON struct {
	OK        bool    `json:"ok"`
	Venue     string  `json:"venue"`
	Symbol    string  `json:"symbol"`
	Bid       *int64  `json:"bid,omitempty"`
	Ask       *int64  `json:"ask,omitempty"`
	BidSize   int64   `json:"bidSize"`
	AskSize   int64   `json:"askSize"`
	BidDepth  int64   `json:"bidDepth"`
	AskDepth  int64   `json:"askDepth"`
	Last      *int64  `json:"last,omitempty"`
	LastSize  *int64  `json:"lastSize,omitempty"`
	QuoteTime string  `json:"quoteTime"`
	LastTrade *string `json:"lastTrade,omitempty"`
}

func toQuoteJSON(venue, symbol string, q common.Quote) quoteJSON {
	out := quoteJSON{
		OK:        true,
		Venue:     venue,
		Symbol:    symbol,
		BidSize:   q.BidSize,
		AskSize:   q.AskSize,
		BidDepth:  q.BidDepth,
		AskDepth:  q.AskDepth,
		QuoteTime: q.QuoteTs,
	}
	if q.HasBid() {
		out.Bid = &q.Bid
	}
	if q.HasAsk() {
		out.Ask = &q.Ask
	}
	if q.HasTrade() {
		out.Last = &q.Last
		out.LastSize = &q.LastSize
		out.LastTrade = &q.LastTs
	}
	return out
}

type execJSON struct {
	Account          string    `json:"account"`
	Venue            string    `json:"venue"`
	Symbol           string    `json:"symbol"`
	Order            orderJSON `json:"order"`
	StandingID       uint64    `json:"standingId"`
	IncomingID       uint64    `json:"incomingId"`
	Price            int64     `json:"price"`
	Qty              int64     `json:"qty"`
	Ts               string    `json:"ts"`
	StandingComplete bool      `json:"standingComplete"`
	IncomingComplete bool      `json:"incomingComplete"`
}

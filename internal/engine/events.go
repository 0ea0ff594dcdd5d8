package engine

import "venue/internal/common"

// ExecutionEvent reports one cross from the perspective of a single
// account. A single cross produces two of these, one addressed to the
// standing account and one to the incoming account.
type ExecutionEvent struct {
	Account          string
	Venue            string
	Symbol           string
	Order            common.Order
	StandingID       uint64
	IncomingID       uint64
	Price            int64
	Qty              int64
	Ts               string
	StandingComplete bool
	IncomingComplete bool
}

// TickerEvent reports a change in the top-of-book quote.
type TickerEvent struct {
	Venue  string
	Symbol string
	Quote  common.Quote
}

// Emitter is the sink for events the engine produces. The engine calls it
// synchronously and carries on as soon as the call returns: it awaits no
// acknowledgement and never retries a failed send; delivery is entirely
// the sink's concern.
type Emitter interface {
	EmitExecution(ExecutionEvent)
	EmitTicker(TickerEvent)
}

// NopEmitter discards every event. Useful as a default so an Engine is
// usable before a real sink is attached.
type NopEmitter struct{}

func (NopEmitter) EmitExecution(ExecutionEvent) {}
func (NopEmitter) EmitTicker(TickerEvent)       {}

// MultiEmitter fans events out to every wrapped sink, in order. Used to
// attach both the process's own stderr stream and a transport.Broadcaster
// at once.
type MultiEmitter []Emitter

func (m MultiEmitter) EmitExecution(ev ExecutionEvent) {
	for _, e := range m {
		e.EmitExecution(ev)
	}
}

func (m MultiEmitter) EmitTicker(ev TickerEvent) {
	for _, e := range m {
		e.EmitTicker(ev)
	}
}

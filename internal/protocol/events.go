package protocol

import (
	"fmt"
	"io"

	"venue/internal/engine"
)

// WriteExecution renders an execution event to out: a routing header
// ("EXECUTION <account> <venue> <symbol>"), the JSON body, then "END".
func WriteExecution(out io.Writer, ev engine.ExecutionEvent) error {
	if _, err := fmt.Fprintf(out, "EXECUTION %s %s %s\n", ev.Account, ev.Venue, ev.Symbol); err != nil {
		return err
	}
	body := execJSON{
		Account:          ev.Account,
		Venue:            ev.Venue,
		Symbol:           ev.Symbol,
		Order:            toOrderJSON(ev.Venue, ev.Symbol, &ev.Order),
		StandingID:       ev.StandingID,
		IncomingID:       ev.IncomingID,
		Price:            ev.Price,
		Qty:              ev.Qty,
		Ts:               ev.Ts,
		StandingComplete: ev.StandingComplete,
		IncomingComplete: ev.IncomingComplete,
	}
	return writeJSON(out, body)
}

// WriteTicker renders a ticker event to out: a routing header
// ("TICKER NONE <venue> <symbol>"), the JSON quote, then "END".
func WriteTicker(out io.Writer, ev engine.TickerEvent) error {
	if _, err := fmt.Fprintf(out, "TICKER NONE %s %s\n", ev.Venue, ev.Symbol); err != nil {
		return err
	}
	return writeJSON(out, toQuoteJSON(ev.Venue, ev.Symbol, ev.Quote))
}

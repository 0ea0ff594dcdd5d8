package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"venue/internal/common"
	"venue/internal/engine"
)

// Dispatcher parses one command line at a time and drives an engine.
// Dispatch must only ever be called from a single goroutine: the engine
// underneath is single-writer, and the dispatcher adds no locking of its
// own — serializing callers is the whole point of this layer sitting in
// front of the engine rather than behind it.
type Dispatcher struct {
	eng *engine.Engine
}

// New returns a dispatcher driving eng.
func New(eng *engine.Engine) *Dispatcher {
	return &Dispatcher{eng: eng}
}

// Dispatch parses line, executes it against the engine, and writes the
// reply to out. Binary replies have no trailing END line; every other
// reply does.
func (d *Dispatcher) Dispatch(line string, out io.Writer) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return writeError(out, "Did not comprehend")
	}

	switch tokens[0] {
	case "ORDER":
		return d.order(tokens[1:], out)
	case "CANCEL":
		return d.cancel(tokens[1:], out)
	case "STATUS":
		return d.status(tokens[1:], out)
	case "STATUSALL":
		return d.statusAll(tokens[1:], out)
	case "QUOTE":
		return d.quote(out)
	case "ORDERBOOK_BINARY":
		return d.orderbookBinary(out)
	case "__ACC_FROM_ID__":
		return d.accFromID(tokens[1:], out)
	case "__SCORES__":
		return d.scores(out)
	case "__DEBUG_MEMORY__":
		return d.debugMemory(out)
	case "__TIMESTAMP__":
		return d.timestamp(out)
	default:
		return writeError(out, "Did not comprehend")
	}
}

func (d *Dispatcher) order(tokens []string, out io.Writer) error {
	if len(tokens) != 6 {
		return writeError(out, "Did not comprehend")
	}
	name := tokens[0]
	acctID, err1 := strconv.ParseUint(tokens[1], 10, 32)
	qty, err2 := strconv.ParseInt(tokens[2], 10, 64)
	price, err3 := strconv.ParseInt(tokens[3], 10, 64)
	dirTok, err4 := strconv.Atoi(tokens[4])
	typeTok, err5 := strconv.Atoi(tokens[5])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return writeError(out, "Did not comprehend")
	}

	order, err := d.eng.PlaceOrder(uint32(acctID), name, qty, price, dirTok, typeTok)
	if err != nil {
		return writeError(out, err.Error())
	}
	return writeJSON(out, toOrderJSON(d.eng.Venue(), d.eng.Symbol(), order))
}

func (d *Dispatcher) cancel(tokens []string, out io.Writer) error {
	id, ok := parseID(tokens, out)
	if !ok {
		return nil
	}
	order, err := d.eng.Cancel(id)
	if err != nil {
		return writeError(out, err.Error())
	}
	return writeJSON(out, toOrderJSON(d.eng.Venue(), d.eng.Symbol(), order))
}

func (d *Dispatcher) status(tokens []string, out io.Writer) error {
	id, ok := parseID(tokens, out)
	if !ok {
		return nil
	}
	order, found := d.eng.Order(id)
	if !found {
		return writeError(out, engine.ErrNoSuchID.Error())
	}
	return writeJSON(out, toOrderJSON(d.eng.Venue(), d.eng.Symbol(), order))
}

func (d *Dispatcher) statusAll(tokens []string, out io.Writer) error {
	if len(tokens) != 1 {
		return writeError(out, "Did not comprehend")
	}
	acctID, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		return writeError(out, "Did not comprehend")
	}
	orders, found := d.eng.AccountOrders(uint32(acctID))
	if !found {
		return writeError(out, engine.ErrAccountUnknown.Error())
	}
	resp := statusAllJSON{OK: true, Venue: d.eng.Venue()}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderJSON(d.eng.Venue(), d.eng.Symbol(), o))
	}
	return writeJSON(out, resp)
}

func (d *Dispatcher) quote(out io.Writer) error {
	return writeJSON(out, toQuoteJSON(d.eng.Venue(), d.eng.Symbol(), d.eng.Quote()))
}

func (d *Dispatcher) orderbookBinary(out io.Writer) error {
	bids := d.eng.BookSnapshot(common.Buy)
	asks := d.eng.BookSnapshot(common.Sell)
	_, err := out.Write(EncodeOrderBook(bids, asks))
	return err
}

func (d *Dispatcher) accFromID(tokens []string, out io.Writer) error {
	id, ok := parseID(tokens, out)
	if !ok {
		return nil
	}
	name, found := d.eng.AccountName(id)
	if !found {
		fmt.Fprintln(out, "ERROR None")
		return writeEnd(out)
	}
	fmt.Fprintf(out, "OK %s\n", name)
	return writeEnd(out)
}

func (d *Dispatcher) timestamp(out io.Writer) error {
	fmt.Fprintln(out, d.eng.Now())
	return writeEnd(out)
}

func (d *Dispatcher) debugMemory(out io.Writer) error {
	fmt.Fprintf(out, "orders_allocated=%d\n", d.eng.AllocatedOrderCount())
	fmt.Fprintf(out, "accounts_known=%d\n", d.eng.KnownAccountCount())
	fmt.Fprintf(out, "highest_known_order=%d\n", d.eng.HighestKnownOrder())
	return writeEnd(out)
}

// scores renders a best-effort HTML readout of the current quote. Unlike
// the reference implementation, this always emits well-formed HTML even
// before any trade has occurred — see SPEC_FULL.md §9 for why the
// malformed-before-first-trade behaviour isn't reproduced.
func (d *Dispatcher) scores(out io.Writer) error {
	q := d.eng.Quote()
	fmt.Fprintf(out, "<html><body><table>\n")
	fmt.Fprintf(out, "<tr><th>venue</th><td>%s</td></tr>\n", d.eng.Venue())
	fmt.Fprintf(out, "<tr><th>symbol</th><td>%s</td></tr>\n", d.eng.Symbol())
	if q.HasBid() {
		fmt.Fprintf(out, "<tr><th>bid</th><td>%d</td></tr>\n", q.Bid)
	}
	if q.HasAsk() {
		fmt.Fprintf(out, "<tr><th>ask</th><td>%d</td></tr>\n", q.Ask)
	}
	if q.HasTrade() {
		fmt.Fprintf(out, "<tr><th>last</th><td>%d</td></tr>\n", q.Last)
	}
	fmt.Fprintf(out, "</table></body></html>\n")
	return writeEnd(out)
}

func parseID(tokens []string, out io.Writer) (uint64, bool) {
	if len(tokens) != 1 {
		writeError(out, "Did not comprehend")
		return 0, false
	}
	id, err := strconv.ParseUint(tokens[0], 10, 64)
	if err != nil {
		writeError(out, "Did not comprehend")
		return 0, false
	}
	return id, true
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return writeEnd(out)
}

func writeError(out io.Writer, msg string) error {
	if err := writeJSON(out, errorJSON{OK: false, Error: msg}); err != nil {
		return err
	}
	return nil
}

func writeEnd(out io.Writer) error {
	_, err := fmt.Fprintln(out, "END")
	return err
}

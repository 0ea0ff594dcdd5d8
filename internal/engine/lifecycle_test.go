package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return New("TESTEX", "ABC")
}

// PlaceOrder's dir/type parameters below are the raw wire enums (1=buy,
// 2=sell; 1=limit, 2=market, 3=fok, 4=ioc), not common.Side/OrderType
// values — see the comment on PlaceOrder for why.

// S1: a single resting limit order crosses with one incoming order of
// equal size at the resting price.
func TestSimpleCross(t *testing.T) {
	eng := newTestEngine()

	resting, err := eng.PlaceOrder(1, "alice", 10, 100, 2, 1)
	require.NoError(t, err)
	assert.True(t, resting.Open)

	incoming, err := eng.PlaceOrder(2, "bob", 10, 100, 1, 1)
	require.NoError(t, err)

	assert.False(t, resting.Open)
	assert.False(t, incoming.Open)
	assert.Equal(t, int64(10), resting.TotalFilled)
	assert.Equal(t, int64(10), incoming.TotalFilled)
	assert.Equal(t, int64(0), resting.Qty)
	assert.Equal(t, int64(0), incoming.Qty)

	require.Len(t, resting.Fills, 1)
	assert.Equal(t, int64(100), resting.Fills[0].Price)
	assert.Equal(t, int64(10), resting.Fills[0].Qty)

	q := eng.Quote()
	assert.Equal(t, int64(100), q.Last)
	assert.Equal(t, int64(10), q.LastSize)
	assert.False(t, q.HasBid())
	assert.False(t, q.HasAsk())
}

// S2: an incoming order partially fills against a larger resting order,
// leaving the remainder resting.
func TestPartialFill(t *testing.T) {
	eng := newTestEngine()

	resting, err := eng.PlaceOrder(1, "alice", 20, 100, 2, 1)
	require.NoError(t, err)

	incoming, err := eng.PlaceOrder(2, "bob", 5, 100, 1, 1)
	require.NoError(t, err)

	assert.True(t, resting.Open)
	assert.Equal(t, int64(15), resting.Qty)
	assert.Equal(t, int64(5), resting.TotalFilled)

	assert.False(t, incoming.Open)
	assert.Equal(t, int64(5), incoming.TotalFilled)

	q := eng.Quote()
	assert.True(t, q.HasAsk())
	assert.Equal(t, int64(100), q.Ask)
	assert.Equal(t, int64(15), q.AskSize)
}

// S3: price-time priority — two resting orders at the same price, the
// earlier one fills first.
func TestPriceTimePriority(t *testing.T) {
	eng := newTestEngine()

	first, err := eng.PlaceOrder(1, "alice", 5, 100, 2, 1)
	require.NoError(t, err)
	second, err := eng.PlaceOrder(2, "carol", 5, 100, 2, 1)
	require.NoError(t, err)

	incoming, err := eng.PlaceOrder(3, "bob", 5, 100, 1, 1)
	require.NoError(t, err)

	assert.False(t, first.Open)
	assert.Equal(t, int64(5), first.TotalFilled)
	assert.True(t, second.Open)
	assert.Equal(t, int64(0), second.TotalFilled)
	assert.False(t, incoming.Open)
}

// Price beats time: a better-priced later order fills ahead of an earlier
// order at a worse (but still admissible) price. Time priority only
// decides between orders at the SAME price.
func TestPriceBeforeTime(t *testing.T) {
	eng := newTestEngine()

	worse, err := eng.PlaceOrder(1, "alice", 5, 105, 2, 1)
	require.NoError(t, err)
	better, err := eng.PlaceOrder(2, "carol", 5, 100, 2, 1)
	require.NoError(t, err)

	incoming, err := eng.PlaceOrder(3, "bob", 5, 105, 1, 1)
	require.NoError(t, err)

	assert.True(t, worse.Open, "worse price should still be resting")
	assert.False(t, better.Open, "better price should have filled first")
	assert.False(t, incoming.Open)
	assert.Equal(t, int64(100), better.Fills[0].Price)
}

// S4: a FOK order that cannot be filled entirely produces zero fills and
// closes without resting or affecting the quote.
func TestFOKInfeasible(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.PlaceOrder(1, "alice", 5, 100, 2, 1)
	require.NoError(t, err)

	before := eng.Quote()

	order, err := eng.PlaceOrder(2, "bob", 10, 100, 1, 3)
	require.NoError(t, err)

	assert.False(t, order.Open)
	assert.Equal(t, int64(0), order.TotalFilled)
	assert.Empty(t, order.Fills)

	after := eng.Quote()
	assert.Equal(t, before, after, "quote must not change on an infeasible FOK")
}

func TestFOKFeasible(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.PlaceOrder(1, "alice", 20, 100, 2, 1)
	require.NoError(t, err)

	order, err := eng.PlaceOrder(2, "bob", 10, 100, 1, 3)
	require.NoError(t, err)

	assert.False(t, order.Open)
	assert.Equal(t, int64(10), order.TotalFilled)
}

// S5: a market order sweeps multiple price levels.
func TestMarketSweep(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.PlaceOrder(1, "alice", 5, 100, 2, 1)
	require.NoError(t, err)
	_, err = eng.PlaceOrder(2, "carol", 5, 101, 2, 1)
	require.NoError(t, err)

	order, err := eng.PlaceOrder(3, "bob", 10, 0, 1, 2)
	require.NoError(t, err)

	assert.False(t, order.Open)
	assert.Equal(t, int64(10), order.TotalFilled)
	require.Len(t, order.Fills, 2)
	assert.Equal(t, int64(100), order.Fills[0].Price)
	assert.Equal(t, int64(101), order.Fills[1].Price)
	assert.Equal(t, int64(0), order.Price, "market order's stored price is reset for reporting")

	q := eng.Quote()
	assert.False(t, q.HasAsk())
	assert.False(t, q.HasBid())
}

func TestMarketInsufficientLiquidity(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.PlaceOrder(1, "alice", 5, 100, 2, 1)
	require.NoError(t, err)

	order, err := eng.PlaceOrder(2, "bob", 10, 0, 1, 2)
	require.NoError(t, err)

	assert.False(t, order.Open)
	assert.Equal(t, int64(5), order.TotalFilled)
	assert.Equal(t, int64(0), order.Qty)
}

// S6: cancelling a resting order removes it from the book; cancelling it
// again is a harmless no-op.
func TestCancel(t *testing.T) {
	eng := newTestEngine()

	order, err := eng.PlaceOrder(1, "alice", 5, 100, 2, 1)
	require.NoError(t, err)

	cancelled, err := eng.Cancel(order.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.Open)
	assert.Equal(t, int64(0), cancelled.Qty)

	q := eng.Quote()
	assert.False(t, q.HasAsk())

	again, err := eng.Cancel(order.ID)
	require.NoError(t, err)
	assert.Equal(t, cancelled, again)
}

func TestCancelUnknownID(t *testing.T) {
	eng := newTestEngine()
	_, err := eng.Cancel(999)
	assert.ErrorIs(t, err, ErrNoSuchID)
}

func TestCancelOfMarketOrderIsNoop(t *testing.T) {
	eng := newTestEngine()
	order, err := eng.PlaceOrder(1, "alice", 5, 0, 1, 2)
	require.NoError(t, err)

	got, err := eng.Cancel(order.ID)
	require.NoError(t, err)
	assert.Same(t, order, got)
}

// IOC orders fill what they can and never rest.
func TestIOCPartialThenCancelled(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.PlaceOrder(1, "alice", 3, 100, 2, 1)
	require.NoError(t, err)

	order, err := eng.PlaceOrder(2, "bob", 10, 100, 1, 4)
	require.NoError(t, err)

	assert.False(t, order.Open)
	assert.Equal(t, int64(3), order.TotalFilled)
	assert.Equal(t, int64(0), order.Qty)

	q := eng.Quote()
	assert.False(t, q.HasAsk())
}

// Self-trades record fills but leave the account ledger untouched.
func TestSelfTradeSkipsLedger(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.PlaceOrder(1, "alice", 10, 100, 2, 1)
	require.NoError(t, err)

	incoming, err := eng.PlaceOrder(2, "alice", 10, 100, 1, 1)
	require.NoError(t, err)

	assert.False(t, incoming.Open)
	assert.Equal(t, int64(10), incoming.TotalFilled)

	acct, ok := eng.accts.get(1)
	require.True(t, ok)
	assert.Equal(t, int64(0), acct.Shares)
	assert.Equal(t, int64(0), acct.Cents)

	q := eng.Quote()
	assert.Equal(t, int64(100), q.Last)
}

func TestSillyValueRejectsBadInputs(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.PlaceOrder(1, "alice", 0, 100, 1, 1)
	assert.ErrorIs(t, err, ErrSillyValue)

	_, err = eng.PlaceOrder(1, "alice", -1, 100, 1, 1)
	assert.ErrorIs(t, err, ErrSillyValue)

	_, err = eng.PlaceOrder(1, "alice", 1, -1, 1, 1)
	assert.ErrorIs(t, err, ErrSillyValue)

	_, err = eng.PlaceOrder(1, "alice", 1, 1, 0, 1)
	assert.ErrorIs(t, err, ErrSillyValue)
}

func TestTooHighAccount(t *testing.T) {
	eng := newTestEngine()
	_, err := eng.PlaceOrder(maxAccounts, "alice", 1, 1, 1, 1)
	assert.ErrorIs(t, err, ErrTooHighAccount)
}

// When an order is invalid in more than one way at once, TOO_HIGH_ACCOUNT
// must still be reported ahead of SILLY_VALUE: the account check happens
// before dir/type are even decoded.
func TestTooHighAccountBeatsInvalidDirection(t *testing.T) {
	eng := newTestEngine()
	_, err := eng.PlaceOrder(maxAccounts, "alice", 10, 100, 9, 1)
	assert.ErrorIs(t, err, ErrTooHighAccount)
}

func TestLedgerSaturates(t *testing.T) {
	eng := newTestEngine()

	for i := 0; i < 3; i++ {
		sellerID := uint32(10 + i)
		_, err := eng.PlaceOrder(sellerID, "seller", 2000000000, 2, 2, 1)
		require.NoError(t, err)
		_, err = eng.PlaceOrder(1, "buyer", 2000000000, 2, 1, 1)
		require.NoError(t, err)
	}

	acct, ok := eng.accts.get(1)
	require.True(t, ok)
	assert.Equal(t, int64(2147483647), acct.Shares)
	assert.Equal(t, int64(-2147483647), acct.Cents)
	assert.Equal(t, int64(2147483647), acct.PosMax)
}

func TestAccountOrdersInSubmissionOrder(t *testing.T) {
	eng := newTestEngine()

	o1, err := eng.PlaceOrder(1, "alice", 5, 100, 1, 1)
	require.NoError(t, err)
	o2, err := eng.PlaceOrder(1, "alice", 3, 101, 1, 1)
	require.NoError(t, err)

	orders, ok := eng.AccountOrders(1)
	require.True(t, ok)
	require.Len(t, orders, 2)
	assert.Same(t, o1, orders[0])
	assert.Same(t, o2, orders[1])
}

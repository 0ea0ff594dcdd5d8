package engine

import "venue/internal/common"

// maxOrders bounds the order store; allocating beyond it reports
// ErrTooManyOrders.
const maxOrders = 2_000_000_000

// maxAccounts bounds the account store; account numbers at or beyond it
// report ErrTooHighAccount.
const maxAccounts = 5000

// orderStore is a dense, append-only id→order index. Ids are handed out
// sequentially starting at 0, so a plain growable slice already gives us
// exactly the dense array the reference backend simulated by hand with
// chunked reallocation.
type orderStore struct {
	orders            []*common.Order
	highestKnownOrder int
}

func newOrderStore() *orderStore {
	return &orderStore{highestKnownOrder: -1}
}

// canAllocate reports whether one more order would still fit under the
// cap, without allocating anything. Callers must check this before doing
// any other validation-order work, since TOO_MANY_ORDERS must be detected
// before an id is consumed.
func (s *orderStore) canAllocate() bool {
	return len(s.orders) < maxOrders
}

func (s *orderStore) allocate(o *common.Order) uint64 {
	id := uint64(len(s.orders))
	o.ID = id
	s.orders = append(s.orders, o)
	s.highestKnownOrder = int(id)
	return id
}

// get returns the order with the given id, or false if id was never
// allocated. highestKnownOrder tracks the last *allocated* id, not
// necessarily the highest id a caller might ask about, which is why the
// bounds check here is against len(s.orders) rather than the field.
func (s *orderStore) get(id uint64) (*common.Order, bool) {
	if id >= uint64(len(s.orders)) {
		return nil, false
	}
	return s.orders[id], true
}

// accountStore is a sparse id→account index capped at maxAccounts. It is
// preallocated to the full capacity up front: the cap is tiny (5000
// slots), so there is no benefit to the reference backend's incremental
// chunked growth under a Go slice.
type accountStore struct {
	accounts []*common.Account
}

func newAccountStore() *accountStore {
	return &accountStore{accounts: make([]*common.Account, maxAccounts)}
}

func (s *accountStore) valid(id uint32) bool {
	return id < maxAccounts
}

// lookupOrCreate returns the account for id, creating it with name on
// first touch. If the same id is later looked up with a different name,
// the first name silently wins — the reference backend never reconciles
// a mismatch, and nothing in this codebase second-guesses that.
func (s *accountStore) lookupOrCreate(id uint32, name string) *common.Account {
	if s.accounts[id] == nil {
		s.accounts[id] = common.NewAccount(id, name)
	}
	return s.accounts[id]
}

func (s *accountStore) get(id uint32) (*common.Account, bool) {
	if !s.valid(id) || s.accounts[id] == nil {
		return nil, false
	}
	return s.accounts[id], true
}

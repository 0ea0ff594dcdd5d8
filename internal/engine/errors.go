package engine

import "errors"

// Validation and lookup errors returned by the engine. Each carries the
// reference backend's numeric error code in its message so callers that
// surface "Backend error N (...)" style replies don't need a parallel
// table.
var (
	ErrTooManyOrders  = errors.New("Backend error 1 (Too many orders! Backend can only handle 2000000000 orders total)")
	ErrSillyValue     = errors.New("Backend error 2 (Silly value for price or qty or direction)")
	ErrTooHighAccount = errors.New("Backend error 3 (Too high an account number! Backend can only handle 5000 accounts)")
	ErrNoSuchID       = errors.New("No such ID")
	ErrAccountUnknown = errors.New("No such account")
)

// ErrOutOfMemory is retained only so error-code tables that mirror the
// reference backend stay complete. The engine never returns it: an
// allocation failure under Go's managed memory model is a runtime-fatal
// condition, not a recoverable error value.
var ErrOutOfMemory = errors.New("Backend error 4 (Out of memory)")

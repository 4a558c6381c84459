package contract

import "errors"

var (
	// Validation failures at the dispatch boundary. These never reach
	// the ledger.
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidTime      = errors.New("invalid time")
	ErrInvalidPartySize = errors.New("invalid party size")

	// Expected, recoverable outcomes of ledger and index operations.
	ErrOutOfCatalogSlot = errors.New("slot is not a configured service time")
	ErrSlotFull         = errors.New("slot has no capacity for the party")
	ErrBookingNotFound  = errors.New("no matching confirmed booking")

	// ErrStore wraps persisted-store faults: unavailability, transaction
	// failure, timeout. Fatal to the current call only; the transaction
	// either committed or did not happen.
	ErrStore = errors.New("store operation failed")
)

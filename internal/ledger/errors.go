package ledger

import "errors"

// Sentinel errors returned by ledger operations. Handlers translate these
// to HTTP statuses; anything else is a store failure and surfaces as 500.
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyFinalized    = errors.New("record already finalized")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyAccruedToday = errors.New("profit already accrued today")
	ErrNotApproved         = errors.New("investment is not approved")
	ErrAccountExists       = errors.New("account already exists")
)

package ledger

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrProfileRequired   = errors.New("seller has no qr profile")
	ErrNotFound          = errors.New("transaction not found")
	ErrAlreadyProcessed  = errors.New("transaction already processed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrIDSpaceExhausted  = errors.New("transaction id space exhausted")

	// ErrMirrorWrite reports a failed remote snapshot write. The in-memory
	// mutation is already committed when this is returned; callers should
	// treat it as a warning, not a failure of the primary operation.
	ErrMirrorWrite = errors.New("remote mirror write failed")
)

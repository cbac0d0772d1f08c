package service

import "errors"

// Sentinel errors surfaced by services. Handlers translate these to HTTP
// status codes via errors.Is.
var (
	// ErrNotFound is returned when the referenced record does not exist in
	// the active store. Advancing a missing record is a reportable
	// precondition failure, never a silent no-op.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidStatus is returned for a target status outside the closed
	// invoice-status enumeration.
	ErrInvalidStatus = errors.New("invalid invoice status")

	// ErrIllegalTransition is returned in strict mode when a pipeline target
	// would move the record backwards.
	ErrIllegalTransition = errors.New("transition not allowed")

	// ErrConflict is returned with optimistic locking enabled when a
	// concurrent writer updated the record first.
	ErrConflict = errors.New("record was modified concurrently")
)

package domain

import "errors"

// Error kinds surfaced by the rental core. Callers classify failures with
// errors.Is against these sentinels; the HTTP layer maps each kind to a
// status code.
var (
	// ErrValidation marks bad input shape or range. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing vehicle, unit, rental or payment.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a capacity clash: no free unit, a date overlap, or a
	// double-booking attempt that lost the race.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition marks a stale state transition, like approving a
	// rental that is no longer awaiting approval.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized marks an actor touching a rental they do not own or an
	// operation above their role.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadSignature marks a webhook payload whose signature does not match.
	ErrBadSignature = errors.New("invalid signature")

	// ErrGateway marks a payment gateway failure. Transient; the caller may
	// retry.
	ErrGateway = errors.New("payment gateway error")

	// ErrIntegrity marks an invariant violation detected at write time.
	// Always a bug; the enclosing transaction is rolled back.
	ErrIntegrity = errors.New("integrity violation")
)

package engine

import "errors"

var (
	// ErrNoCapacity is returned when no eligible available slot exists for
	// the requested size class and location.
	ErrNoCapacity = errors.New("no slot capacity")

	// ErrInvalidState is returned when a transition is attempted from a
	// state that does not permit it. It is always surfaced, never coerced.
	ErrInvalidState = errors.New("invalid reservation state")

	// ErrInvalidCode is returned when no active, delivered reservation is
	// bound to the presented pickup code.
	ErrInvalidCode = errors.New("invalid pickup code")

	// ErrCodeExpired is returned when the pickup window has lapsed; the
	// reservation is expired and its slot released as a side effect.
	ErrCodeExpired = errors.New("pickup code expired")

	// ErrVerificationFailed is returned on a secondary-factor mismatch. The
	// reservation stays active; the recipient may retry.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrCodeSpaceExhausted is returned when code generation could not find
	// a free code within the bounded retry budget. Hitting it indicates an
	// alphabet/length misconfiguration, not normal operation.
	ErrCodeSpaceExhausted = errors.New("pickup code space exhausted")
)

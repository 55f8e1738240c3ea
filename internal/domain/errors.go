package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.
// Call-order errors are recoverable: the caller corrects the sequence and
// retries. Range errors are rejected at the boundary, never clamped.

var (
	// Session tracking
	ErrSessionActive   = errors.New("a session is already active")
	ErrNoActiveSession = errors.New("no active session")

	// Boundary validation
	ErrInvalidAppID       = errors.New("app identifier is empty or malformed")
	ErrNegativeVelocity   = errors.New("scroll velocity must be non-negative")
	ErrNegativeDuration   = errors.New("duration must be non-negative")
	ErrUnknownMode        = errors.New("unknown intervention mode")
	ErrUnknownStyle       = errors.New("unknown message style")
	ErrUnknownAchievement = errors.New("unknown achievement identifier")

	// Intervention state machine
	ErrNotDismissible = errors.New("intervention is not dismissible yet")
	ErrResolved       = errors.New("intervention already resolved")
)

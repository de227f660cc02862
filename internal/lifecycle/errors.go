package lifecycle

import "errors"

// Error kinds surfaced by lifecycle operations. Handlers map these onto
// HTTP codes for the hiring side and onto coarse states for candidates.
var (
	// ErrNotFound means no record (or challenge) exists for the given id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState means the requested event is not legal from the
	// record's current status. Never retried; the precondition truly failed.
	ErrInvalidState = errors.New("event not legal from current status")

	// ErrExpired means a time gate closed before the action arrived.
	ErrExpired = errors.New("challenge expired")

	// ErrStaleTransition means the conditional update lost a race to a
	// concurrent writer. Safe to retry after a fresh read.
	ErrStaleTransition = errors.New("stale transition")

	// ErrInvalidArtifact means the submission artifact reference is missing.
	ErrInvalidArtifact = errors.New("missing or invalid submission artifact")

	// ErrUpstream means a collaborator (storage, notification, analysis)
	// failed. Analysis upstream failures are converted into the
	// analysis-failed transition before this is surfaced.
	ErrUpstream = errors.New("upstream collaborator failed")
)

package service

import "errors"

// Error taxonomy surfaced to the transport layer.
var (
	// ErrNotFound marks client errors: an unknown film id, or a film that
	// has no stored embedding yet. Never retried internally.
	ErrNotFound = errors.New("not found")

	// ErrEncoderUnavailable marks a failed encoder load. The failure is
	// sticky: once recorded it is replayed on every encode attempt without
	// retrying the expensive load, and callers should map it to 503.
	ErrEncoderUnavailable = errors.New("embedding encoder unavailable")
)

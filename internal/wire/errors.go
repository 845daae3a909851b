package wire

import "errors"

// Sentinel errors the codec returns. The kernel package's errors.go maps
// them onto its own structured Error type.
var (
	// ErrPayloadTooLarge is returned by Send when len(payload) exceeds
	// MaxMessageLength.
	ErrPayloadTooLarge = errors.New("wire: payload exceeds maximum message length")

	// ErrSendFailed is returned by Send when the transport rejects a
	// fragment. Already-sent fragments of the same message are not
	// unwound.
	ErrSendFailed = errors.New("wire: transport send failed")

	// ErrNotReady is returned by Recv when no sequence in the current
	// receive window is complete. It is idempotent: no slots are
	// consumed on this path beyond the bogus-packet discards Recv
	// always performs.
	ErrNotReady = errors.New("wire: no message ready")
)

// Package transport defines the packet transport contract the message
// codec is layered over (packet_send/packet_peek/packet_discard) and
// ships a loopback implementation of it for testing and for consumers of
// this module that don't have real hardware.
package transport

// Transport is the external collaborator this package is built around: a
// best-effort packet sender plus a finite "peek window" of received,
// not-yet-discarded packets. Retransmission, acknowledgement, and
// congestion control are out of scope — Send is fire-and-forget.
type Transport interface {
	// Send transmits buf as a single packet. len(buf) must be <= MTU; the
	// transport itself does not enforce that, the caller (the message
	// codec) does.
	Send(buf []byte) error

	// Peek returns the contents of receive-window slot i and true if that
	// slot holds a packet, or (nil, false) if the slot is empty. The
	// returned slice is valid until the next Discard or Send targeting
	// this transport; callers that need to keep it must copy it.
	Peek(i int) ([]byte, bool)

	// Discard releases receive-window slot i, making it available for a
	// future packet. Discarding an already-empty slot is a no-op.
	Discard(i int)

	// Slots returns the number of slots in the receive window.
	Slots() int
}

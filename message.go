package kernel

import (
	"github.com/arcadekernel/naomikernel/internal/transport"
	"github.com/arcadekernel/naomikernel/internal/wire"
)

// Messenger wraps a transport.Transport with a per-kernel Sender and
// exposes the public send/recv surface. Multiple Messengers may share a
// transport; all of them draw from one process-wide sequence counter, so
// their messages carry distinct sequence numbers.
type Messenger struct {
	transport transport.Transport
	sender    *wire.Sender
	metrics   *Metrics
}

// NewMessenger builds a Messenger over t, recording traffic to m if m is
// non-nil.
func NewMessenger(t transport.Transport, m *Metrics) *Messenger {
	return &Messenger{transport: t, sender: wire.NewSender(), metrics: m}
}

// Send fragments and transmits payload as msgType. Errors are wrapped
// into the kernel's structured Error type with Op "send".
func (m *Messenger) Send(msgType uint16, payload []byte) error {
	err := m.sender.Send(m.transport, msgType, payload)
	if m.metrics != nil {
		m.metrics.RecordSend(len(payload), err)
	}
	if err != nil {
		return WrapError("send", err)
	}
	return nil
}

// Recv scans the transport for a complete message. On success, the
// returned data is pool-backed; pass it to wire.Release when done. On
// ErrCodeNotReady, data is nil. Bogus fragments discarded along the way
// are tallied into the Messenger's metrics as FragmentsDropped regardless
// of whether this call itself completes a message.
func (m *Messenger) Recv() (msgType uint16, data []byte, err error) {
	msgType, data, dropped, err := wire.Recv(m.transport)
	if m.metrics != nil {
		m.metrics.RecordDroppedFragments(dropped)
	}
	if err != nil {
		return 0, nil, WrapError("recv", err)
	}
	if m.metrics != nil {
		m.metrics.RecordRecv(len(data))
	}
	return msgType, data, nil
}

// Release returns a buffer obtained from Recv to the internal pool.
func (m *Messenger) Release(data []byte) {
	wire.Release(data)
}

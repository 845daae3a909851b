package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadekernel/naomikernel/internal/transport"
)

func TestMessengerSendRecvRoundTrip(t *testing.T) {
	loop := transport.NewLoopback(64)
	m := NewMessenger(loop, NewMetrics())

	payload := []byte("hello")
	require.NoError(t, m.Send(0x1234, payload))

	msgType, data, err := m.Recv()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), msgType)
	assert.Equal(t, payload, data)
	m.Release(data)

	snap := m.metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.MessagesSent)
	assert.Equal(t, uint64(1), snap.MessagesReceived)
	assert.Equal(t, uint64(len(payload)), snap.BytesSent)
	assert.Equal(t, uint64(len(payload)), snap.BytesReceived)
}

func TestMessengerSendPayloadTooLargeWrapsError(t *testing.T) {
	loop := transport.NewLoopback(64)
	m := NewMessenger(loop, NewMetrics())

	err := m.Send(1, make([]byte, 70000))
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodePayloadTooLarge))
}

func TestMessengerRecvNotReadyWrapsError(t *testing.T) {
	loop := transport.NewLoopback(8)
	m := NewMessenger(loop, NewMetrics())

	_, _, err := m.Recv()
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeNotReady))
}

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadekernel/naomikernel/internal/constants"
	"github.com/arcadekernel/naomikernel/internal/transport"
)

func sendRecv(t *testing.T, loop *transport.Loopback, msgType uint16, payload []byte) []byte {
	t.Helper()
	s := NewSender()
	require.NoError(t, s.Send(loop, msgType, payload))
	gotType, data, _, err := Recv(loop)
	require.NoError(t, err)
	assert.Equal(t, msgType, gotType)
	out := append([]byte{}, data...)
	Release(data)
	return out
}

func TestSendRecvLengths(t *testing.T) {
	d := constants.FragmentPayloadSize
	lengths := []int{0, 1, d, d + 1, 3*d + 7, constants.MaxMessageLength}
	for _, n := range lengths {
		loop := transport.NewLoopback(400)
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i)
		}
		got := sendRecv(t, loop, 9, payload)
		assert.Equal(t, payload, got, "length %d", n)
	}
}

func TestSendPayloadTooLarge(t *testing.T) {
	loop := transport.NewLoopback(400)
	s := NewSender()
	err := s.Send(loop, 1, make([]byte, constants.MaxMessageLength+1))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestRecvNotReadyOnEmptyWindow(t *testing.T) {
	loop := transport.NewLoopback(8)
	_, _, dropped, err := Recv(loop)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, 0, dropped)
}

func TestRecvDiscardsBogusPackets(t *testing.T) {
	loop := transport.NewLoopback(8)
	loop.InjectAt(0, []byte{1, 2, 3}) // shorter than a header
	zeroSeqHeader := Header{Type: 1, Sequence: 0, TotalLength: 0, Offset: 0}
	loop.InjectAt(1, zeroSeqHeader.Marshal())

	_, _, dropped, err := Recv(loop)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, 2, loop.DiscardCalls())
	assert.Equal(t, 2, dropped)

	_, ok := loop.Peek(0)
	assert.False(t, ok)
	_, ok = loop.Peek(1)
	assert.False(t, ok)
}

func TestRecvOutOfOrderFragments(t *testing.T) {
	d := constants.FragmentPayloadSize
	payload := make([]byte, 3*d+5)
	for i := range payload {
		payload[i] = byte(i)
	}

	loop := transport.NewLoopback(16)
	seq := uint16(1)
	var frags [][]byte
	for off := 0; off < len(payload); off += d {
		end := off + d
		if end > len(payload) {
			end = len(payload)
		}
		h := Header{Type: 3, Sequence: seq, TotalLength: uint16(len(payload)), Offset: uint16(off)}
		frags = append(frags, append(h.Marshal(), payload[off:end]...))
	}

	// inject in reverse order, into non-contiguous slots
	slot := 0
	for i := len(frags) - 1; i >= 0; i-- {
		loop.InjectAt(slot, frags[i])
		slot += 2
	}

	gotType, data, dropped, err := Recv(loop)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), gotType)
	assert.Equal(t, payload, data)
	assert.Equal(t, 0, dropped)
	Release(data)
}

func TestSendRecvInterleavedMessages(t *testing.T) {
	d := constants.FragmentPayloadSize
	loop := transport.NewLoopback(64)

	payloadA := make([]byte, d+10)
	payloadB := make([]byte, d+20)
	for i := range payloadA {
		payloadA[i] = byte(i)
	}
	for i := range payloadB {
		payloadB[i] = byte(255 - i)
	}

	// Two independent senders sharing one transport; their fragments land
	// in the window back to back but carry distinct sequence numbers, so
	// Recv must reassemble each from only its own fragments.
	sa := NewSender()
	sb := NewSender()
	require.NoError(t, sa.Send(loop, 10, payloadA))
	require.NoError(t, sb.Send(loop, 11, payloadB))

	seen := map[uint16][]byte{}
	for len(seen) < 2 {
		gotType, data, _, err := Recv(loop)
		require.NoError(t, err)
		seen[gotType] = append([]byte(nil), data...)
		Release(data)
	}
	assert.Equal(t, payloadA, seen[10])
	assert.Equal(t, payloadB, seen[11])
}

func TestSequenceSkipsZeroOnWrap(t *testing.T) {
	s := NewSender()
	s.seq.Store(0xFFFF)
	first := s.nextSequence()
	assert.NotEqual(t, uint16(0), first)
	assert.Equal(t, uint16(1), first)
}

func TestTransportCapacityDropsExcessFragments(t *testing.T) {
	loop := transport.NewLoopback(constants.MaxOutstandingPackets)
	s := NewSender()
	payload := make([]byte, constants.MaxMessageLength)
	require.NoError(t, s.Send(loop, 1, payload))
	assert.Greater(t, loop.Dropped(), 0)
}

package wire

import (
	"fmt"
	"sync/atomic"

	"github.com/arcadekernel/naomikernel/internal/constants"
	"github.com/arcadekernel/naomikernel/internal/transport"
)

// processSequence is the one sequence counter every Sender draws from, so
// that messages from different Senders sharing a transport carry distinct
// sequence numbers.
var processSequence atomic.Uint32

// Sender fragments messages into MTU-sized packets and hands them to a
// transport.Transport one at a time. A Sender is safe for concurrent use by
// multiple goroutines: the sequence counter is the only shared state, and
// it is advanced atomically.
type Sender struct {
	seq *atomic.Uint32
}

// NewSender returns a Sender that draws from the process-wide sequence
// counter. The first message sent in the process uses sequence 1.
func NewSender() *Sender {
	return &Sender{seq: &processSequence}
}

// nextSequence returns the next 16-bit sequence number, skipping 0 so that
// a sequence of 0 never appears on the wire — the receiver treats sequence
// 0 as a bogus fragment, not a real one.
func (s *Sender) nextSequence() uint16 {
	for {
		n := s.seq.Add(1)
		seq := uint16(n)
		if seq != 0 {
			return seq
		}
		// n wrapped onto a multiple of 1<<16; Add again to skip the 0 value.
	}
}

// Send fragments payload into constants.FragmentPayloadSize-byte pieces,
// tags each with msgType and a single sequence number shared by the whole
// message, and sends them in offset order via t. A zero-length payload
// still produces exactly one (header-only) fragment, so that an empty
// message is distinguishable from no message at all.
//
// If t.Send fails partway through, Send returns immediately: already-sent
// fragments are not retracted.
func (s *Sender) Send(t transport.Transport, msgType uint16, payload []byte) error {
	if len(payload) > constants.MaxMessageLength {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	seq := s.nextSequence()
	total := uint16(len(payload))
	d := constants.FragmentPayloadSize

	for off := 0; ; off += d {
		end := off + d
		if end > len(payload) {
			end = len(payload)
		}
		h := Header{
			Type:        msgType,
			Sequence:    seq,
			TotalLength: total,
			Offset:      uint16(off),
		}
		buf := append(h.Marshal(), payload[off:end]...)
		if err := t.Send(buf); err != nil {
			return fmt.Errorf("%w: %v", ErrSendFailed, err)
		}
		if end >= len(payload) {
			return nil
		}
	}
}

// assembly tracks the fragments seen so far for one in-flight sequence
// number during a single Recv call.
type assembly struct {
	totalLength uint16
	msgType     uint16
	seen        map[uint16]bool // offsets seen
}

// requiredOffsets returns the set of fragment offsets a message of the
// given total length must supply: ceil(total_length/d) fragments, or
// exactly one (the offset-0, zero-length fragment) when total_length is
// 0.
func requiredOffsets(totalLength uint16, d int) []uint16 {
	if totalLength == 0 {
		return []uint16{0}
	}
	offsets := make([]uint16, 0, (int(totalLength)+d-1)/d)
	for off := 0; off < int(totalLength); off += d {
		offsets = append(offsets, uint16(off))
	}
	return offsets
}

func (a *assembly) complete(d int) bool {
	for _, off := range requiredOffsets(a.totalLength, d) {
		if !a.seen[off] {
			return false
		}
	}
	return true
}

// Recv scans t's receive window for a complete message. It discards any
// slot whose contents are too short to hold a header or whose sequence is
// 0, regardless of whether a message completes on this call, and reports
// how many such bogus slots it discarded via dropped. Slots belonging to
// valid, still-incomplete messages are left untouched.
//
// On success, the returned data buffer is obtained from the internal pool
// and owned by the caller; pass it to Release when done to let Recv reuse
// it for a future message. Failing to call Release is safe — the buffer
// is simply left for the garbage collector — it only forfeits the pooling
// benefit.
//
// If no sequence is complete, Recv returns ErrNotReady; dropped is still
// valid in that case.
func Recv(t transport.Transport) (msgType uint16, data []byte, dropped int, err error) {
	d := constants.FragmentPayloadSize
	table := make(map[uint16]*assembly)
	var order []uint16

	n := t.Slots()
	for i := 0; i < n; i++ {
		buf, ok := t.Peek(i)
		if !ok {
			continue
		}
		if len(buf) < constants.FragmentHeaderSize {
			t.Discard(i)
			dropped++
			continue
		}
		h := UnmarshalHeader(buf)
		if h.Sequence == 0 {
			t.Discard(i)
			dropped++
			continue
		}
		rec, ok := table[h.Sequence]
		if !ok {
			rec = &assembly{totalLength: h.TotalLength, msgType: h.Type, seen: make(map[uint16]bool)}
			table[h.Sequence] = rec
			order = append(order, h.Sequence)
		}
		rec.seen[h.Offset] = true
	}

	var ready uint16
	var readyRec *assembly
	for _, seq := range order {
		rec := table[seq]
		if rec.complete(d) {
			ready = seq
			readyRec = rec
			break
		}
	}
	if readyRec == nil {
		return 0, nil, dropped, ErrNotReady
	}

	dest := getBuffer(int(readyRec.totalLength))
	for i := 0; i < n; i++ {
		buf, ok := t.Peek(i)
		if !ok {
			continue
		}
		if len(buf) < constants.FragmentHeaderSize {
			continue
		}
		h := UnmarshalHeader(buf)
		if h.Sequence != ready {
			continue
		}
		payload := buf[constants.FragmentHeaderSize:]
		copy(dest[h.Offset:], payload)
		t.Discard(i)
	}

	return readyRec.msgType, dest, dropped, nil
}

// Release returns a buffer previously returned by Recv to the internal
// pool. Calling it more than once on the same buffer, or on a buffer not
// obtained from Recv, corrupts the pool.
func Release(data []byte) {
	putBuffer(data)
}

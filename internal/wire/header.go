// Package wire implements the message fragment wire format and the
// stateless fragmenting sender / window-scanning reassembling receiver
// layered over it.
//
// The header marshal/unmarshal technique here — fixed-width fields packed
// field-by-field with encoding/binary.LittleEndian, plus a compile-time
// size assertion — matches the on-wire struct layouts used elsewhere in
// this codebase.
package wire

import (
	"encoding/binary"
	"unsafe"

	"github.com/arcadekernel/naomikernel/internal/constants"
)

// Header is the 8-byte little-endian fragment header.
type Header struct {
	Type        uint16
	Sequence    uint16
	TotalLength uint16
	Offset      uint16
}

// Compile-time size check: the wire format is fixed at 8 bytes.
var _ [constants.FragmentHeaderSize]byte = [unsafe.Sizeof(Header{})]byte{}

// Marshal encodes h as an 8-byte little-endian header.
func (h Header) Marshal() []byte {
	buf := make([]byte, constants.FragmentHeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], h.Type)
	binary.LittleEndian.PutUint16(buf[2:4], h.Sequence)
	binary.LittleEndian.PutUint16(buf[4:6], h.TotalLength)
	binary.LittleEndian.PutUint16(buf[6:8], h.Offset)
	return buf
}

// UnmarshalHeader decodes the first 8 bytes of buf as a Header. The
// caller must ensure len(buf) >= FragmentHeaderSize.
func UnmarshalHeader(buf []byte) Header {
	return Header{
		Type:        binary.LittleEndian.Uint16(buf[0:2]),
		Sequence:    binary.LittleEndian.Uint16(buf[2:4]),
		TotalLength: binary.LittleEndian.Uint16(buf[4:6]),
		Offset:      binary.LittleEndian.Uint16(buf[6:8]),
	}
}

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Type: 7, Sequence: 1234, TotalLength: 65535, Offset: 248}
	got := UnmarshalHeader(h.Marshal())
	assert.Equal(t, h, got)
}

func TestHeaderMarshalLength(t *testing.T) {
	h := Header{Type: 1, Sequence: 1, TotalLength: 1, Offset: 0}
	assert.Len(t, h.Marshal(), 8)
}

func TestHeaderLittleEndian(t *testing.T) {
	h := Header{Type: 0x0201, Sequence: 0, TotalLength: 0, Offset: 0}
	buf := h.Marshal()
	assert.Equal(t, byte(0x01), buf[0])
	assert.Equal(t, byte(0x02), buf[1])
}

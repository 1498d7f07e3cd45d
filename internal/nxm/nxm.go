// Package nxm implements the Nicira Extensible Match wire encoding: a
// sequence of self-describing field entries, each a 32-bit header word
// followed by the field's value and optional mask.
package nxm

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/nxwire/internal/core"
)

// NXM header words: vendor(16) | field(7) | hasmask(1) | length(8).
const (
	NXM_OF_IN_PORT  uint32 = 0x00000002
	NXM_NX_TUN_ID   uint32 = 0x00012008
	NXM_NX_TUN_ID_W uint32 = 0x00012110
)

const headerWordLen = 4

// NXMatch wraps one NXM header word and decomposes its bit fields.
type NXMatch struct {
	Header uint32
}

func NewNXMatch(header uint32) *NXMatch {
	return &NXMatch{Header: header}
}

// ParseHeader reads the header word at offset and validates it against
// the declared match length: at least 4 bytes of header, a nonzero
// payload, and enough match bytes to cover header plus payload.
func ParseHeader(buf []byte, offset, matchLen int) (*NXMatch, error) {
	if matchLen < headerWordLen {
		return nil, fmt.Errorf("%w: match length %d", core.ErrInsufficientMatchLength, matchLen)
	}
	if offset+headerWordLen > len(buf) {
		return nil, fmt.Errorf("%w: header word past end of buffer", core.ErrInsufficientMatchLength)
	}
	m := NewNXMatch(binary.BigEndian.Uint32(buf[offset : offset+headerWordLen]))
	payloadLen := m.Length()
	if payloadLen == 0 || matchLen < payloadLen+headerWordLen {
		return nil, fmt.Errorf("%w: payload %d bytes, match length %d",
			core.ErrInsufficientMatchLength, payloadLen, matchLen)
	}
	if offset+headerWordLen+payloadLen > len(buf) {
		return nil, fmt.Errorf("%w: payload past end of buffer", core.ErrInsufficientMatchLength)
	}
	return m, nil
}

// Vendor returns bits 31-16.
func (m *NXMatch) Vendor() uint16 { return uint16(m.Header >> 16) }

// Field returns the 7-bit field number from bits 15-9. Modulo, not a
// bitmask: kept bit-for-bit compatible with existing peer decoders.
func (m *NXMatch) Field() uint32 { return (m.Header >> 9) % 0x7f }

// Type returns vendor and field together, shifted past the hasmask bit.
func (m *NXMatch) Type() uint32 { return (m.Header >> 9) % 0x7fffff }

// HasMask reports bit 8, the value-followed-by-mask flag.
func (m *NXMatch) HasMask() bool { return m.Header>>8&1 == 1 }

// Length returns the declared payload byte count from bits 7-0.
func (m *NXMatch) Length() int { return int(m.Header & 0xff) }

// PutHeader packs the header word at offset and returns the 4 bytes
// written.
func (m *NXMatch) PutHeader(buf []byte, offset int) int {
	binary.BigEndian.PutUint32(buf[offset:offset+headerWordLen], m.Header)
	return headerWordLen
}

func (m *NXMatch) String() string {
	return fmt.Sprintf("%08x (vendor=%x, field=%x, hasmask=%v len=%x)",
		m.Header, m.Vendor(), m.Field(), m.HasMask(), m.Length())
}

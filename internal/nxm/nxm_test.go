package nxm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"firestige.xyz/nxwire/internal/core"
)

func TestNXMatchBitExtraction(t *testing.T) {
	m := NewNXMatch(0x00010203)
	assert.Equal(t, uint16(1), m.Vendor())
	assert.Equal(t, uint32(2), m.Field())
	assert.False(t, m.HasMask())
	assert.Equal(t, 3, m.Length())
}

func TestNXMatchKnownHeaders(t *testing.T) {
	inPort := NewNXMatch(NXM_OF_IN_PORT)
	assert.Equal(t, uint16(0), inPort.Vendor())
	assert.Equal(t, uint32(0), inPort.Field())
	assert.False(t, inPort.HasMask())
	assert.Equal(t, 2, inPort.Length())

	tunW := NewNXMatch(NXM_NX_TUN_ID_W)
	assert.Equal(t, uint16(1), tunW.Vendor())
	assert.True(t, tunW.HasMask())
	assert.Equal(t, 16, tunW.Length())
}

func TestNXMatchFieldBoundary(t *testing.T) {
	// field bits all set: modulo extraction wraps to 0 where a bitmask
	// would give 127.
	m := NewNXMatch(0x7f << 9)
	assert.Equal(t, uint32(0), m.Field())

	m = NewNXMatch(100 << 9)
	assert.Equal(t, uint32(100), m.Field())
}

func TestParseHeaderShortMatchLen(t *testing.T) {
	buf := make([]byte, 8)
	_, err := ParseHeader(buf, 0, 3)
	assert.ErrorIs(t, err, core.ErrInsufficientMatchLength)
}

func TestParseHeaderZeroPayload(t *testing.T) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf, 0x00010200) // declared payload length 0
	_, err := ParseHeader(buf, 0, 8)
	assert.ErrorIs(t, err, core.ErrInsufficientMatchLength)
}

func TestParseHeaderPayloadExceedsMatchLen(t *testing.T) {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint32(buf, NXM_NX_TUN_ID) // needs 4+8 bytes
	_, err := ParseHeader(buf, 0, 8)
	assert.ErrorIs(t, err, core.ErrInsufficientMatchLength)
}

func TestPutHeader(t *testing.T) {
	buf := make([]byte, 16)
	m := NewNXMatch(NXM_NX_TUN_ID)
	n := m.PutHeader(buf, 2)
	assert.Equal(t, 4, n)
	assert.Equal(t, NXM_NX_TUN_ID, binary.BigEndian.Uint32(buf[2:6]))

	got, err := ParseHeader(buf, 2, 12)
	assert.NoError(t, err)
	assert.Equal(t, m.Header, got.Header)
}

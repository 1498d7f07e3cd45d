package nxm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarshalMatchInPortPadding(t *testing.T) {
	r := NewRule()
	r.SetInPort(3)

	buf, matchLen, err := MarshalMatch(r)
	assert.NoError(t, err)

	// One entry: 4-byte header + 2-byte port, padded to 8.
	assert.Equal(t, 6, matchLen)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x02, 0x00, 0x03, 0x00, 0x00}, buf)
}

func TestMarshalMatchEmptyRule(t *testing.T) {
	buf, matchLen, err := MarshalMatch(NewRule())
	assert.NoError(t, err)
	assert.Equal(t, 0, matchLen)
	assert.Empty(t, buf)
}

func TestMarshalMatchExactTunID(t *testing.T) {
	r := NewRule()
	r.SetInPort(1)
	r.SetTunID(0x11223344)

	buf, matchLen, err := MarshalMatch(r)
	assert.NoError(t, err)

	// in-port entry (6) + tun-id header (4) + 8-byte value.
	assert.Equal(t, 18, matchLen)
	assert.Equal(t, 24, len(buf))
	assert.Equal(t, []byte{0x00, 0x01, 0x20, 0x08}, buf[6:10])
	assert.Equal(t, []byte{0, 0, 0, 0, 0x11, 0x22, 0x33, 0x44}, buf[10:18])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0}, buf[18:24])
}

func TestMarshalMatchMaskedTunID(t *testing.T) {
	r := NewRule()
	r.SetTunIDMasked(0xAB00, 0xFF00)

	buf, matchLen, err := MarshalMatch(r)
	assert.NoError(t, err)

	// masked header + 8-byte value + 8-byte mask, already 8-aligned.
	assert.Equal(t, 20, matchLen)
	assert.Equal(t, 24, len(buf))
	assert.Equal(t, []byte{0x00, 0x01, 0x21, 0x10}, buf[0:4])
}

func TestMatchRoundTrip(t *testing.T) {
	r := NewRule()
	r.SetInPort(7)
	r.SetTunIDMasked(0xAA00, 0xFF00)

	buf, matchLen, err := MarshalMatch(r)
	assert.NoError(t, err)

	got, err := UnmarshalMatch(buf, matchLen)
	assert.NoError(t, err)
	assert.Equal(t, r.Wildcards, got.Wildcards)
	assert.Equal(t, r.Flow, got.Flow)
}

func TestMatchRoundTripExact(t *testing.T) {
	r := NewRule()
	r.SetTunID(42)

	buf, matchLen, err := MarshalMatch(r)
	assert.NoError(t, err)

	got, err := UnmarshalMatch(buf, matchLen)
	assert.NoError(t, err)
	assert.Equal(t, ^uint64(0), got.Wildcards.TunIDMask)
	assert.Equal(t, uint64(42), got.Flow.TunID)
	// in-port stays wildcarded
	assert.NotZero(t, got.Wildcards.Wildcards&FWW_IN_PORT)
}

func TestUnmarshalMatchUnknownField(t *testing.T) {
	// vendor 0xffff, field 1, length 2 — nothing registers that.
	buf := []byte{0xff, 0xff, 0x02, 0x02, 0x00, 0x01, 0x00, 0x00}
	_, err := UnmarshalMatch(buf, 6)
	assert.Error(t, err)
}

func TestTrimPadding(t *testing.T) {
	r := NewRule()
	r.SetInPort(3)

	buf, matchLen, err := MarshalMatch(r)
	assert.NoError(t, err)
	// 6 significant bytes in an 8-byte buffer: the two pad bytes must
	// not count as entry data.
	assert.Equal(t, matchLen, TrimPadding(buf))

	r.SetTunIDMasked(0xAB00, 0xFF00)
	buf, matchLen, err = MarshalMatch(r)
	assert.NoError(t, err)
	// here the padding is a full zero word
	assert.Equal(t, 26, matchLen)
	assert.Equal(t, 32, len(buf))
	assert.Equal(t, matchLen, TrimPadding(buf))

	assert.Equal(t, 0, TrimPadding(nil))
	assert.Equal(t, 0, TrimPadding(make([]byte, 8)))
}

func TestRoundTripWithoutExplicitMatchLen(t *testing.T) {
	r := NewRule()
	r.SetInPort(3)

	buf, _, err := MarshalMatch(r)
	assert.NoError(t, err)

	// Decoding the padded buffer with its own trimmed length must
	// reproduce the rule.
	got, err := UnmarshalMatch(buf, TrimPadding(buf))
	assert.NoError(t, err)
	assert.Equal(t, r.Wildcards, got.Wildcards)
	assert.Equal(t, r.Flow, got.Flow)
}

func TestRoundUp8(t *testing.T) {
	assert.Equal(t, 0, roundUp8(0))
	assert.Equal(t, 8, roundUp8(5))
	assert.Equal(t, 8, roundUp8(8))
	assert.Equal(t, 16, roundUp8(9))
}

package nxm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutmExactMask(t *testing.T) {
	r := NewRule()
	r.SetTunID(0x1122334455667788)

	buf := make([]byte, 16)
	f := newTunIDField()
	n := f.Put(buf, 0, r)

	assert.Equal(t, 8, n)
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}, buf[:8])
}

func TestPutmZeroMask(t *testing.T) {
	r := NewRule() // tunnel id fully wildcarded

	buf := make([]byte, 16)
	n := newTunIDField().Put(buf, 0, r)
	assert.Equal(t, 0, n)
}

func TestPutmPartialMask(t *testing.T) {
	r := NewRule()
	r.SetTunIDMasked(0xAB00, 0xFF00)

	buf := make([]byte, 16)
	n := newTunIDField().Put(buf, 0, r)

	assert.Equal(t, 16, n)
	// value then mask, both 8 bytes big-endian
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xAB, 0x00}, buf[:8])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xFF, 0x00}, buf[8:16])
}

func TestInPortPut(t *testing.T) {
	r := NewRule()
	r.SetInPort(0x0304)

	buf := make([]byte, 4)
	n := newInPortField().Put(buf, 0, r)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x03, 0x04}, buf[:2])
}

func TestAllOnesWidths(t *testing.T) {
	assert.Equal(t, uint64(0xffff), newMF(2).allOnes())
	assert.Equal(t, ^uint64(0), newMF(8).allOnes())
}

func TestBeUint(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	assert.Equal(t, uint64(0x0102), beUint(buf, 2))
	assert.Equal(t, uint64(0x0102030405060708), beUint(buf, 8))
}

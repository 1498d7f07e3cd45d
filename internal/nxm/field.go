package nxm

import "encoding/binary"

// mf is the fixed-width value/mask packing primitive shared by all
// match fields. Width is fixed at construction; everything goes out in
// network byte order.
type mf struct {
	nBytes int
	nBits  uint
}

func newMF(nBytes int) mf {
	return mf{nBytes: nBytes, nBits: uint(nBytes) * 8}
}

func (f mf) allOnes() uint64 {
	return ^uint64(0) >> (64 - f.nBits)
}

func (f mf) put(buf []byte, offset int, value uint64) int {
	switch f.nBytes {
	case 2:
		binary.BigEndian.PutUint16(buf[offset:], uint16(value))
	case 4:
		binary.BigEndian.PutUint32(buf[offset:], uint32(value))
	case 8:
		binary.BigEndian.PutUint64(buf[offset:], value)
	default:
		for i := f.nBytes - 1; i >= 0; i-- {
			buf[offset+i] = byte(value)
			value >>= 8
		}
	}
	return f.nBytes
}

// putw writes value then mask, back to back.
func (f mf) putw(buf []byte, offset int, value, mask uint64) int {
	n := f.put(buf, offset, value)
	return n + f.put(buf, offset+n, mask)
}

// putm applies the three-way emission policy: a zero mask omits the
// field entirely, an all-ones mask emits the value alone, anything in
// between emits value then mask.
func (f mf) putm(buf []byte, offset int, value, mask uint64) int {
	switch {
	case mask == 0:
		return 0
	case mask == f.allOnes():
		return f.put(buf, offset, value)
	default:
		return f.putw(buf, offset, value, mask)
	}
}

// beUint reads an n-byte big-endian unsigned value.
func beUint(buf []byte, n int) uint64 {
	var v uint64
	for _, b := range buf[:n] {
		v = v<<8 | uint64(b)
	}
	return v
}

// Field packs one match field of a rule into an NXM entry payload and
// applies a decoded payload back onto a rule.
type Field interface {
	NBytes() int
	Put(buf []byte, offset int, r *Rule) int
	Apply(r *Rule, value, mask uint64)
}

type inPortField struct{ mf }

func newInPortField() Field { return inPortField{newMF(2)} }

func (f inPortField) NBytes() int { return f.nBytes }

// In-port is exact-match only; whether it goes out at all is decided by
// the wildcard bit, not a mask.
func (f inPortField) Put(buf []byte, offset int, r *Rule) int {
	return f.put(buf, offset, uint64(r.Flow.InPort))
}

func (f inPortField) Apply(r *Rule, value, _ uint64) {
	r.SetInPort(uint16(value))
}

type tunIDField struct{ mf }

func newTunIDField() Field { return tunIDField{newMF(8)} }

func (f tunIDField) NBytes() int { return f.nBytes }

func (f tunIDField) Put(buf []byte, offset int, r *Rule) int {
	return f.putm(buf, offset, r.Flow.TunID, r.Wildcards.TunIDMask)
}

func (f tunIDField) Apply(r *Rule, value, mask uint64) {
	r.SetTunIDMasked(value, mask)
}

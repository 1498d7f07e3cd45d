// Package ipv6 implements the IPv6 fixed header codec and the chained
// extension header walk.
package ipv6

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"firestige.xyz/nxwire/internal/core"
)

// HeaderLen is the fixed IPv6 header size.
const HeaderLen = 40

// Protocol numbers the codec cares about.
const (
	ProtoHopOpts = 0
	ProtoTCP     = 6
	ProtoICMPv6  = 58
	ProtoDstOpts = 60
)

// Header is the fixed 40-byte IPv6 header plus an ordered chain of
// extension headers. Addresses cross the API boundary as netip.Addr.
type Header struct {
	Version       uint8
	TrafficClass  uint8
	FlowLabel     uint32
	PayloadLength uint16
	Nxt           uint8
	HopLimit      uint8
	Src           netip.Addr
	Dst           netip.Addr
	ExtHdrs       []ExtHeader
}

// NewHeader builds a header and relinks the extension chain. Relinking
// is unconditional: the top-level next header is rewritten to the first
// extension header's type, each extension header's next to its
// successor's type, and the last one keeps the upper-layer code that
// nxt carried in.
func NewHeader(version, trafficClass uint8, flowLabel uint32, payloadLength uint16,
	nxt, hopLimit uint8, src, dst netip.Addr, extHdrs ...ExtHeader) *Header {
	h := &Header{
		Version:       version,
		TrafficClass:  trafficClass,
		FlowLabel:     flowLabel,
		PayloadLength: payloadLength,
		Nxt:           nxt,
		HopLimit:      hopLimit,
		Src:           src,
		Dst:           dst,
		ExtHdrs:       extHdrs,
	}
	var last ExtHeader
	for _, eh := range extHdrs {
		if last != nil {
			eh.SetNxt(last.Nxt())
			last.SetNxt(eh.TypeCode())
		} else {
			eh.SetNxt(h.Nxt)
			h.Nxt = eh.TypeCode()
		}
		last = eh
	}
	return h
}

// Parse decodes the fixed header and walks the extension chain, driven
// by the next-header code of each step: a code with a registered parser
// is one more extension header, the first unregistered code terminates
// the chain as the upper-layer protocol.
//
// Returns the header, the upper-layer protocol code and the residual
// payload slice of up to PayloadLength bytes after the last header.
func Parse(buf []byte) (*Header, uint8, []byte, error) {
	if len(buf) < HeaderLen {
		return nil, 0, nil, fmt.Errorf("%w: ipv6 header needs %d bytes, have %d",
			core.ErrMalformedHeader, HeaderLen, len(buf))
	}

	vtf := binary.BigEndian.Uint32(buf[0:4])
	h := &Header{
		Version:       uint8(vtf >> 28),
		TrafficClass:  uint8(vtf >> 20),
		FlowLabel:     vtf & 0xfffff,
		PayloadLength: binary.BigEndian.Uint16(buf[4:6]),
		Nxt:           buf[6],
		HopLimit:      buf[7],
	}
	h.Src, _ = netip.AddrFromSlice(buf[8:24])
	h.Dst, _ = netip.AddrFromSlice(buf[24:40])

	offset := HeaderLen
	last := h.Nxt
	for {
		parse, ok := lookupExtHeader(last)
		if !ok {
			break
		}
		eh, err := parse(buf[offset:])
		if err != nil {
			return nil, 0, nil, err
		}
		h.ExtHdrs = append(h.ExtHdrs, eh)
		offset += eh.Len()
		last = eh.Nxt()
	}

	// The residual payload is never padded out; a short buffer just
	// yields a short slice.
	end := offset + int(h.PayloadLength)
	if end > len(buf) {
		end = len(buf)
	}
	return h, last, buf[offset:end], nil
}

// Serialize packs the fixed header followed by each extension header in
// chain order. The stored flow label occupies bits 19..12 of the first
// word; the low 12 bits go out as zero.
func (h *Header) Serialize() []byte {
	buf := make([]byte, HeaderLen, h.Len())
	vtf := uint32(h.Version)<<28 | uint32(h.TrafficClass)<<20 | h.FlowLabel<<12
	binary.BigEndian.PutUint32(buf[0:4], vtf)
	binary.BigEndian.PutUint16(buf[4:6], h.PayloadLength)
	buf[6] = h.Nxt
	buf[7] = h.HopLimit
	src := h.Src.As16()
	copy(buf[8:24], src[:])
	dst := h.Dst.As16()
	copy(buf[24:40], dst[:])

	for _, eh := range h.ExtHdrs {
		buf = append(buf, eh.Serialize()...)
	}
	return buf
}

// Len returns the encoded size: 40 plus every extension header.
func (h *Header) Len() int {
	n := HeaderLen
	for _, eh := range h.ExtHdrs {
		n += eh.Len()
	}
	return n
}

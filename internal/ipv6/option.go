package ipv6

import (
	"fmt"

	"firestige.xyz/nxwire/internal/core"
)

// optHeaderFixLen is the mandatory first 8-byte block of an
// options-bearing extension header.
const optHeaderFixLen = 8

// Option is one TLV record inside an options-bearing extension header.
type Option interface {
	TypeCode() uint8
	Serialize() []byte
	Len() int
}

// Pad1 is the single-byte padding option (type 0). It has no length or
// data byte on the wire.
type Pad1 struct{}

func (Pad1) TypeCode() uint8   { return 0 }
func (Pad1) Serialize() []byte { return []byte{0} }
func (Pad1) Len() int          { return 1 }

// OptionTLV is a type-length-value option. A nil/empty Data still emits
// the length byte (as zero).
type OptionTLV struct {
	Type uint8
	Data []byte
}

func (o *OptionTLV) TypeCode() uint8 { return o.Type }

func (o *OptionTLV) Serialize() []byte {
	buf := make([]byte, 0, o.Len())
	buf = append(buf, o.Type, uint8(len(o.Data)))
	return append(buf, o.Data...)
}

func (o *OptionTLV) Len() int { return 2 + len(o.Data) }

// parseOption decodes one option. Type 0 is always the 1-byte pad form,
// whatever the following bytes hold.
func parseOption(buf []byte) (Option, error) {
	if len(buf) < 1 {
		return nil, fmt.Errorf("%w: empty option", core.ErrMalformedHeader)
	}
	if buf[0] == 0 {
		return Pad1{}, nil
	}
	if len(buf) < 2 {
		return nil, fmt.Errorf("%w: option missing length byte", core.ErrMalformedHeader)
	}
	length := int(buf[1])
	if len(buf) < 2+length {
		return nil, fmt.Errorf("%w: option data needs %d bytes, have %d",
			core.ErrMalformedHeader, length, len(buf)-2)
	}
	var data []byte
	if length > 0 {
		data = append(data, buf[2:2+length]...)
	}
	return &OptionTLV{Type: buf[0], Data: data}, nil
}

// OptHeader is the shared layout of the hop-by-hop and destination
// options headers: next-type and size in the first two bytes, then
// options filling the rest of the 8-byte block and Size further bytes.
// The caller supplies an option list that pads out exactly; the codec
// does not align it.
type OptHeader struct {
	typ     uint8
	nxt     uint8
	Size    uint8
	Options []Option
}

// NewHopOpts builds a hop-by-hop options header. Size is the byte count
// of option data beyond the first block and must be a multiple of 8.
func NewHopOpts(size uint8, opts []Option) (*OptHeader, error) {
	return newOptHeader(ProtoHopOpts, size, opts)
}

// NewDstOpts builds a destination options header.
func NewDstOpts(size uint8, opts []Option) (*OptHeader, error) {
	return newOptHeader(ProtoDstOpts, size, opts)
}

func newOptHeader(typ, size uint8, opts []Option) (*OptHeader, error) {
	if size%8 != 0 {
		return nil, fmt.Errorf("%w: size %d", core.ErrUnalignedSize, size)
	}
	return &OptHeader{typ: typ, Size: size, Options: opts}, nil
}

func parseHopOpts(buf []byte) (ExtHeader, error) { return parseOptHeader(ProtoHopOpts, buf) }
func parseDstOpts(buf []byte) (ExtHeader, error) { return parseOptHeader(ProtoDstOpts, buf) }

func parseOptHeader(typ uint8, buf []byte) (ExtHeader, error) {
	if len(buf) < 2 {
		return nil, fmt.Errorf("%w: options header needs 2 bytes, have %d",
			core.ErrMalformedHeader, len(buf))
	}
	nxt, size := buf[0], buf[1]
	if size%8 != 0 {
		return nil, fmt.Errorf("%w: size %d", core.ErrUnalignedSize, size)
	}
	dataLen := optHeaderFixLen + int(size)
	if dataLen > len(buf) {
		return nil, fmt.Errorf("%w: options header declares %d bytes, have %d",
			core.ErrMalformedHeader, dataLen, len(buf))
	}

	var opts []Option
	offset := 2
	for offset < dataLen {
		opt, err := parseOption(buf[offset:dataLen])
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
		offset += opt.Len()
	}
	return &OptHeader{typ: typ, nxt: nxt, Size: size, Options: opts}, nil
}

func (h *OptHeader) TypeCode() uint8 { return h.typ }
func (h *OptHeader) Nxt() uint8      { return h.nxt }
func (h *OptHeader) SetNxt(nxt uint8) {
	h.nxt = nxt
}

func (h *OptHeader) Serialize() []byte {
	buf := make([]byte, 0, h.Len())
	buf = append(buf, h.nxt, h.Size)
	for _, opt := range h.Options {
		buf = append(buf, opt.Serialize()...)
	}
	return buf
}

func (h *OptHeader) Len() int { return optHeaderFixLen + int(h.Size) }

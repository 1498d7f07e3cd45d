package nxm

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/nxwire/internal/core"
)

// Wildcard bits, one per optional field. Ethernet, VLAN, L3 and cookie
// slots are reserved but not emitted yet.
const (
	FWW_IN_PORT uint32 = 1 << 0
	FWW_ALL     uint32 = 1<<13 - 1
)

// maxMatchLen bounds one serialized match: every known field in masked
// form fits well under this.
const maxMatchLen = 64

// Flow holds the concrete values a rule matches on.
type Flow struct {
	InPort uint16
	TunID  uint64
}

// FlowWildcards tracks which fields are significant. All-wildcarded is
// the initial state: every wildcard bit set, every field mask zero.
type FlowWildcards struct {
	Wildcards uint32
	TunIDMask uint64
}

// Rule pairs wildcard state with the matched values and drives which
// fields the serializer emits.
type Rule struct {
	Wildcards FlowWildcards
	Flow      Flow
}

func NewRule() *Rule {
	return &Rule{Wildcards: FlowWildcards{Wildcards: FWW_ALL}}
}

// SetInPort makes the input port significant.
func (r *Rule) SetInPort(port uint16) {
	r.Flow.InPort = port
	r.Wildcards.Wildcards &^= FWW_IN_PORT
}

// SetTunID makes the tunnel id an exact match.
func (r *Rule) SetTunID(id uint64) {
	r.SetTunIDMasked(id, ^uint64(0))
}

// SetTunIDMasked narrows the tunnel id to mask. A zero mask returns the
// field to fully wildcarded.
func (r *Rule) SetTunIDMasked(id, mask uint64) {
	r.Flow.TunID = id & mask
	r.Wildcards.TunIDMask = mask
}

// MarshalMatch serializes the significant fields of a rule in emission
// order — input port, then tunnel id — and zero-pads the buffer to an
// 8-byte boundary. The returned match length excludes the padding; the
// buffer includes it.
func MarshalMatch(r *Rule) ([]byte, int, error) {
	buf := make([]byte, maxMatchLen)
	offset := 0

	if r.Wildcards.Wildcards&FWW_IN_PORT == 0 {
		n, err := nxmPut(buf, offset, NXM_OF_IN_PORT, r)
		if err != nil {
			return nil, 0, err
		}
		offset += n
	}

	if mask := r.Wildcards.TunIDMask; mask != 0 {
		header := NXM_NX_TUN_ID_W
		if mask == ^uint64(0) {
			header = NXM_NX_TUN_ID
		}
		n, err := nxmPut(buf, offset, header, r)
		if err != nil {
			return nil, 0, err
		}
		offset += n
	}

	// Fresh buffer, so the pad bytes are already zero.
	matchLen := offset
	return buf[:roundUp8(offset)], matchLen, nil
}

// nxmPut emits one entry: header word, then the field payload. A header
// word the registry does not know is a configuration error.
func nxmPut(buf []byte, offset int, header uint32, r *Rule) (int, error) {
	field, ok := DefaultRegistry().Lookup(header)
	if !ok {
		return 0, fmt.Errorf("%w: nxm header %#08x", core.ErrUnknownFieldType, header)
	}
	m := NewNXMatch(header)
	n := m.PutHeader(buf, offset)
	return n + field.Put(buf, offset+n, r), nil
}

// UnmarshalMatch reconstructs a rule from matchLen bytes of NXM entries
// at the front of buf. Trailing padding past matchLen is ignored.
func UnmarshalMatch(buf []byte, matchLen int) (*Rule, error) {
	r := NewRule()
	offset := 0
	for remaining := matchLen; remaining > 0; {
		m, err := ParseHeader(buf, offset, remaining)
		if err != nil {
			return nil, err
		}
		field, ok := DefaultRegistry().Lookup(m.Header)
		if !ok {
			return nil, fmt.Errorf("%w: nxm header %#08x", core.ErrUnknownFieldType, m.Header)
		}
		offset += headerWordLen

		value := beUint(buf[offset:], field.NBytes())
		mask := ^uint64(0) >> (64 - 8*uint(field.NBytes()))
		if m.HasMask() {
			mask = beUint(buf[offset+field.NBytes():], field.NBytes())
		}
		field.Apply(r, value, mask)

		offset += m.Length()
		remaining -= headerWordLen + m.Length()
	}
	return r, nil
}

// TrimPadding returns the significant byte count of a match region by
// walking entry headers until the first all-zero word or the end of
// buf. Padding words are zero, and no valid entry encodes as zero (a
// real header always declares a nonzero payload length). Used when the
// framing that normally carries the match length is absent; the result
// may point past the buffer for a truncated final entry, which
// UnmarshalMatch then reports.
func TrimPadding(buf []byte) int {
	offset := 0
	for offset+headerWordLen <= len(buf) {
		header := binary.BigEndian.Uint32(buf[offset:])
		if header == 0 {
			break
		}
		offset += headerWordLen + int(header&0xff)
	}
	return offset
}

func roundUp8(n int) int {
	return (n + 7) / 8 * 8
}

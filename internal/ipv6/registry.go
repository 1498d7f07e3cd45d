package ipv6

import (
	"fmt"
	"sync"

	"firestige.xyz/nxwire/internal/core"
)

// ExtHeader is one chained IPv6 extension header. The next-type slot is
// mutable so the owning Header can relink the chain.
type ExtHeader interface {
	// TypeCode is the protocol number identifying this header kind.
	TypeCode() uint8
	// Nxt is the protocol number of the following header.
	Nxt() uint8
	SetNxt(nxt uint8)
	Serialize() []byte
	Len() int
}

// ExtHeaderParser decodes one extension header from the front of buf.
type ExtHeaderParser func(buf []byte) (ExtHeader, error)

var extHeaders = struct {
	mu      sync.RWMutex
	parsers map[uint8]ExtHeaderParser
}{parsers: make(map[uint8]ExtHeaderParser)}

// RegisterExtHeader binds a parser to an extension header type code.
// Registration happens during process initialization; duplicates are
// rejected, never overwritten.
func RegisterExtHeader(typ uint8, p ExtHeaderParser) error {
	extHeaders.mu.Lock()
	defer extHeaders.mu.Unlock()

	if _, ok := extHeaders.parsers[typ]; ok {
		return fmt.Errorf("%w: extension header type %d", core.ErrDuplicateRegistration, typ)
	}
	extHeaders.parsers[typ] = p
	return nil
}

func lookupExtHeader(typ uint8) (ExtHeaderParser, bool) {
	extHeaders.mu.RLock()
	defer extHeaders.mu.RUnlock()

	p, ok := extHeaders.parsers[typ]
	return p, ok
}

func init() {
	// Routing headers are not chained yet; only the two option-bearing
	// kinds are built in.
	for typ, p := range map[uint8]ExtHeaderParser{
		ProtoHopOpts: parseHopOpts,
		ProtoDstOpts: parseDstOpts,
	} {
		if err := RegisterExtHeader(typ, p); err != nil {
			panic(err)
		}
	}
}

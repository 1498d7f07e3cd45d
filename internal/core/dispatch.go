package core

import (
	"fmt"
	"sync"
)

// ProtoHandler consumes an upper-layer payload once header parsing has
// terminated at its protocol code. Handlers never see the IPv6 header
// itself, only the residual payload slice.
type ProtoHandler func(payload []byte) error

// Dispatcher maps IP protocol numbers to upper-layer handlers. It is
// populated during process initialization and read-only afterwards; the
// lock only guards against registration racing a first lookup.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[uint8]ProtoHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[uint8]ProtoHandler)}
}

// Register binds a handler to a protocol code. Duplicate codes are
// rejected, never overwritten.
func (d *Dispatcher) Register(proto uint8, h ProtoHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.handlers[proto]; ok {
		return fmt.Errorf("%w: protocol %d", ErrDuplicateRegistration, proto)
	}
	d.handlers[proto] = h
	return nil
}

// Lookup returns the handler for a protocol code, or ok=false when the
// protocol has no handler. An unknown protocol is not an error here —
// the caller decides whether to skip or fail.
func (d *Dispatcher) Lookup(proto uint8) (ProtoHandler, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.handlers[proto]
	return h, ok
}

// Dispatch resolves and invokes the handler for proto. Payloads with no
// registered handler are left untouched and reported via ok=false.
func (d *Dispatcher) Dispatch(proto uint8, payload []byte) (bool, error) {
	h, ok := d.Lookup(proto)
	if !ok {
		return false, nil
	}
	return true, h(payload)
}

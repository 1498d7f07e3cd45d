package nxm

import (
	"fmt"
	"sync"

	"firestige.xyz/nxwire/internal/core"
)

// FieldRegistry maps NXM header words to field factories. It is built
// once during initialization and read-only afterwards.
type FieldRegistry struct {
	mu     sync.RWMutex
	fields map[uint32]func() Field
}

func NewFieldRegistry() *FieldRegistry {
	return &FieldRegistry{fields: make(map[uint32]func() Field)}
}

// Register binds a factory to one or more header words (a field usually
// claims both its exact and masked forms). A header word already taken
// is rejected, never overwritten.
func (r *FieldRegistry) Register(factory func() Field, headers ...uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, h := range headers {
		if _, ok := r.fields[h]; ok {
			return fmt.Errorf("%w: nxm header %#08x", core.ErrDuplicateRegistration, h)
		}
	}
	for _, h := range headers {
		r.fields[h] = factory
	}
	return nil
}

// Lookup returns a field for the header word, or ok=false when nothing
// claims it. Missing fields are not an error here — callers decide
// whether an unknown field is skippable or fatal.
func (r *FieldRegistry) Lookup(header uint32) (Field, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.fields[header]
	if !ok {
		return nil, false
	}
	return factory(), true
}

var (
	defaultOnce     sync.Once
	defaultRegistry *FieldRegistry
)

// DefaultRegistry returns the process-wide registry holding the
// built-in fields. First use builds it; a broken built-in table is a
// programmer error and panics at startup.
func DefaultRegistry() *FieldRegistry {
	defaultOnce.Do(func() {
		r := NewFieldRegistry()
		if err := r.Register(newInPortField, NXM_OF_IN_PORT); err != nil {
			panic(err)
		}
		if err := r.Register(newTunIDField, NXM_NX_TUN_ID, NXM_NX_TUN_ID_W); err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

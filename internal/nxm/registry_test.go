package nxm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"firestige.xyz/nxwire/internal/core"
)

func TestFieldRegistryRegisterDuplicate(t *testing.T) {
	r := NewFieldRegistry()

	err := r.Register(newInPortField, NXM_OF_IN_PORT)
	assert.NoError(t, err)

	err = r.Register(newTunIDField, NXM_OF_IN_PORT)
	assert.ErrorIs(t, err, core.ErrDuplicateRegistration)
}

func TestFieldRegistryLookupMiss(t *testing.T) {
	r := NewFieldRegistry()

	f, ok := r.Lookup(0xdeadbeef)
	assert.False(t, ok)
	assert.Nil(t, f)
}

func TestDefaultRegistryBuiltins(t *testing.T) {
	reg := DefaultRegistry()

	f, ok := reg.Lookup(NXM_OF_IN_PORT)
	assert.True(t, ok)
	assert.Equal(t, 2, f.NBytes())

	for _, header := range []uint32{NXM_NX_TUN_ID, NXM_NX_TUN_ID_W} {
		f, ok := reg.Lookup(header)
		assert.True(t, ok)
		assert.Equal(t, 8, f.NBytes())
	}

	// Same frozen table on every call.
	assert.Same(t, reg, DefaultRegistry())
}

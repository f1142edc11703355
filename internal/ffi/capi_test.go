package ffi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullTable() CAPI {
	return CAPI{
		Version:            CAPIVersion,
		GetVersion:         1,
		GetAPIVersion:      2,
		ClientInitialize:   3,
		ClientUninitialize: 4,
		Utf16Free:          5,
		ComUnallocMem:      6,
		EndVersion:         CAPIVersion,
	}
}

func TestValidateCAPI(t *testing.T) {
	c := fullTable()
	require.NoError(t, validateCAPI(&c))

	// minor revisions are compatible
	c.Version = CAPIVersion + 1
	c.EndVersion = c.Version
	require.NoError(t, validateCAPI(&c))
}

func TestValidateCAPIRejects(t *testing.T) {
	cases := map[string]func(c *CAPI){
		"major mismatch": func(c *CAPI) {
			c.Version = 0x00030004
			c.EndVersion = c.Version
		},
		"truncated": func(c *CAPI) { c.EndVersion = 0 },
		"no free":   func(c *CAPI) { c.Utf16Free = 0 },
		"no client": func(c *CAPI) { c.ClientInitialize = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := fullTable()
			mutate(&c)
			assert.Error(t, validateCAPI(&c))
		})
	}
}

func TestCAPILayout(t *testing.T) {
	var c CAPI
	// uVersion is followed by pointer aligned function pointers
	assert.Equal(t, PtrSize, unsafe.Offsetof(c.GetVersion))
	assert.Equal(t, 2*PtrSize, unsafe.Offsetof(c.GetAPIVersion))
	assert.Equal(t, 3*PtrSize, unsafe.Offsetof(c.ClientInitialize))
	assert.Equal(t, 3*PtrSize, unsafe.Sizeof(UnknownVtbl{}))
}

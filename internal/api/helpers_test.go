package api

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vboxgo/vboxapi/internal/api/nativetest"
	"github.com/vboxgo/vboxapi/types"
)

func newTestRuntime(t *testing.T, version types.APIVersion) (*Runtime, *nativetest.World) {
	t.Helper()
	layouts, err := LoadLayouts(version, "")
	require.NoError(t, err)
	w := nativetest.NewWorld(layouts)
	rt, err := NewRuntime(Options{
		Caller:    w,
		Freer:     w,
		Heap:      w,
		Callbacks: w,
		Layouts:   layouts,
	})
	require.NoError(t, err)
	return rt, w
}

// wrap returns an Object owning the reference of a fake object.
func wrap(rt *Runtime, fake *nativetest.Object) *Object {
	return NewObject(rt, fake.Iface, fake.Ptr)
}

func requireKind(t *testing.T, err error, kind types.ErrorKind) *types.VboxError {
	t.Helper()
	require.Error(t, err)
	var ve *types.VboxError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, kind, ve.Kind, "error: %v", err)
	return ve
}

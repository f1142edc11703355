package vboxapi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/internal/api/nativetest"
	"github.com/vboxgo/vboxapi/types"
)

type fixture struct {
	w      *nativetest.World
	rt     *api.Runtime
	client *Client
	// native IVirtualBoxClient
	native *nativetest.Object
}

func newFixture(t *testing.T, version types.APIVersion) *fixture {
	t.Helper()
	layouts, err := api.LoadLayouts(version, "")
	require.NoError(t, err)
	w := nativetest.NewWorld(layouts)
	w.Release = version.Major()*1_000_000 + version.Minor()*1000 + 4
	w.APIRelease = version.Major()*1000 + version.Minor()
	w.ClientObject = w.NewObject("IVirtualBoxClient")

	rt, err := api.NewRuntime(api.Options{
		Caller:    w,
		Freer:     w,
		Heap:      w,
		Callbacks: w,
		Layouts:   layouts,
	})
	require.NoError(t, err)
	client, err := newClient(rt, w)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return &fixture{w: w, rt: rt, client: client, native: w.ClientObject}
}

// handOut makes method of parent return child through its single out
// parameter.
func handOut(parent *nativetest.Object, method string, child *nativetest.Object) {
	parent.On(method, func(this, out uintptr) uint32 {
		nativetest.PutPtr(out, child.Ptr)
		return 0
	})
}

func (f *fixture) virtualBox(t *testing.T) (*VirtualBox, *nativetest.Object) {
	t.Helper()
	native := f.w.NewObject("IVirtualBox")
	handOut(f.native, "GetVirtualBox", native)
	vbox, err := f.client.VirtualBox()
	require.NoError(t, err)
	return vbox, native
}

// wrapper builds a wrapper around a fake object of iface.
func (f *fixture) wrap(native *nativetest.Object) object {
	return object{api.NewObject(f.rt, native.Iface, native.Ptr)}
}

func requireKind(t *testing.T, err error, kind types.ErrorKind) *types.VboxError {
	t.Helper()
	require.Error(t, err)
	var ve *types.VboxError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, kind, ve.Kind, "error: %v", err)
	return ve
}

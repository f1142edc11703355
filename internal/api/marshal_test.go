package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vboxgo/vboxapi/internal/api/nativetest"
	"github.com/vboxgo/vboxapi/types"
)

func TestTakeSlicePreservesOrder(t *testing.T) {
	rt, w := newTestRuntime(t, types.APIv7_1)
	values := []uint32{5, 1, 4, 1, 5, 9, 2, 6}
	p := w.U32Array(values)

	got, err := TakeSlice[uint32](rt, "test", uint32(len(values)), p)
	require.NoError(t, err)
	assert.Equal(t, values, got)
	assert.Zero(t, w.LiveArrays())
}

func TestTakeSliceNull(t *testing.T) {
	rt, _ := newTestRuntime(t, types.APIv7_1)

	got, err := TakeSlice[uint32](rt, "test", 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = TakeSlice[uint32](rt, "test", 3, 0)
	requireKind(t, err, types.KindNullPointer)
}

func TestTakeStringSlice(t *testing.T) {
	rt, w := newTestRuntime(t, types.APIv7_1)
	p := w.PtrArray([]uintptr{w.String("vmdk"), 0, w.String("vdi")})

	got, err := rt.TakeStringSlice("IMediumFormat.DescribeFileExtensions", 3, p)
	require.NoError(t, err)
	assert.Equal(t, []string{"vmdk", "", "vdi"}, got)
	assert.Zero(t, w.LiveStrings())
	assert.Zero(t, w.LiveArrays())
	strs, mems := w.Frees()
	assert.Equal(t, 2, strs)
	assert.Equal(t, 1, mems)
}

func TestTakeObjectSliceNullElement(t *testing.T) {
	rt, w := newTestRuntime(t, types.APIv7_1)
	a := w.NewObject("IMachine")
	b := w.NewObject("IMachine")
	p := w.PtrArray([]uintptr{a.Ptr, 0, b.Ptr})

	_, err := rt.TakeObjectSlice("IVirtualBox.GetMachines", "IMachine", 3, p)
	requireKind(t, err, types.KindNullPointer)
	// the references handed over with the array are given back
	assert.Equal(t, int32(0), a.Refs())
	assert.Equal(t, int32(0), b.Refs())
	assert.Zero(t, w.LiveArrays())
}

func TestCallSlices(t *testing.T) {
	rt, w := newTestRuntime(t, types.APIv7_1)
	m1 := w.NewObject("IMachine")
	m2 := w.NewObject("IMachine")
	vbox := w.NewObject("IVirtualBox").
		On("GetMachines", func(this, count, out uintptr) uint32 {
			nativetest.PutU32(count, 2)
			nativetest.PutPtr(out, w.PtrArray([]uintptr{m1.Ptr, m2.Ptr}))
			return 0
		}).
		On("GetMachineGroups", func(this, count, out uintptr) uint32 {
			nativetest.PutU32(count, 0)
			return 0
		})
	mf := w.NewObject("IMediumFormat").On("GetCapabilities", func(this, count, out uintptr) uint32 {
		nativetest.PutU32(count, 3)
		nativetest.PutPtr(out, w.U32Array([]uint32{0x1, 0x4, 0x40}))
		return 0
	})

	machines, err := CallObjectSlice(wrap(rt, vbox), "GetMachines", "IMachine")
	require.NoError(t, err)
	require.Len(t, machines, 2)
	assert.Equal(t, m1.Ptr, machines[0].Ptr())
	assert.Equal(t, m2.Ptr, machines[1].Ptr())
	ReleaseAll(machines)
	assert.Equal(t, int32(0), m1.Refs())

	groups, err := CallStringSlice(wrap(rt, vbox), "GetMachineGroups")
	require.NoError(t, err)
	assert.Empty(t, groups)

	caps, err := CallSlice[uint32](wrap(rt, mf), "GetCapabilities")
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x1, 0x4, 0x40}, caps)
	assert.Zero(t, w.LiveArrays())
	assert.Empty(t, w.BadFrees())
}

func TestRequireParallel(t *testing.T) {
	assert.NoError(t, RequireParallel("op"))
	assert.NoError(t, RequireParallel("op", 3, 3, 3))
	err := RequireParallel("IVirtualSystemDescription.GetDescription", 3, 3, 2, 3, 3)
	requireKind(t, err, types.KindVectorsLengthMismatch)
}

func TestDescribeArgs(t *testing.T) {
	args := []Arg{
		U32("screenId", 0),
		Str("name", "vm"),
		Bool("force", true),
		Strs("groups", []string{"/a"}),
		Obj("session", nil),
	}
	assert.Equal(t, `In params: screenId: 0, name: "vm", force: true, groups: ["/a"], session: null`, describeArgs(args))
}

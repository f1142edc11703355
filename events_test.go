package vboxapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vboxgo/vboxapi/internal/api/nativetest"
	"github.com/vboxgo/vboxapi/types"
)

func TestPassiveListener(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	listener := f.w.NewObject("IEventListener")
	event := f.w.NewObject("IEvent").On("GetType", func(this, out uintptr) uint32 {
		nativetest.PutU32(out, uint32(types.EventTypeOnMachineStateChanged))
		return 0
	})

	var registered []uint32
	var active uintptr
	var processed uintptr
	pending := 1
	native := f.w.NewObject("IEventSource").
		On("RegisterListener", func(this, l, n, p, a uintptr) uint32 {
			registered = nativetest.U32sArg(n, p)
			active = a
			return 0
		}).
		On("GetEvent", func(this, l, timeout, out uintptr) uint32 {
			if pending > 0 {
				pending--
				nativetest.PutPtr(out, event.Ptr)
			}
			return 0
		}).
		On("EventProcessed", func(this, l, e uintptr) uint32 {
			processed = e
			return 0
		})
	handOut(native, "CreateListener", listener)
	src := &EventSource{f.wrap(native)}

	l, err := src.CreateListener()
	require.NoError(t, err)
	require.NoError(t, src.RegisterListener(l, nil, false))
	assert.Equal(t, []uint32{uint32(types.EventTypeAny)}, registered)
	assert.Zero(t, active)

	e, ok, err := src.GetEvent(l, 500)
	require.NoError(t, err)
	require.True(t, ok)
	kind, err := e.Type()
	require.NoError(t, err)
	assert.Equal(t, types.EventTypeOnMachineStateChanged, kind)
	require.NoError(t, src.EventProcessed(l, e))
	assert.Equal(t, event.Ptr, processed)
	require.NoError(t, e.Release())

	// Timed out.
	_, ok, err = src.GetEvent(l, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventDetail(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	iid, err := f.rt.Layouts().IID("IMachineStateChangedEvent")
	require.NoError(t, err)
	detail := f.w.NewObject("IMachineStateChangedEvent").
		On("GetMachineId", func(this, out uintptr) uint32 {
			nativetest.PutPtr(out, f.w.String("5e1f0a3c-7a42-4d55-bb1c-2f4b9d8e6a01"))
			return 0
		}).
		On("GetState", func(this, out uintptr) uint32 {
			nativetest.PutU32(out, uint32(types.MachineStateRunning))
			return 0
		})
	native := f.w.NewObject("IEvent").On("GetType", func(this, out uintptr) uint32 {
		nativetest.PutU32(out, uint32(types.EventTypeOnMachineStateChanged))
		return 0
	})
	native.Answer(iid, detail)
	e := &Event{f.wrap(native)}

	d, ok, err := e.Detail()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, MachineStateChanged{
		MachineID: "5e1f0a3c-7a42-4d55-bb1c-2f4b9d8e6a01",
		State:     types.MachineStateRunning,
	}, d)
	assert.Equal(t, types.EventTypeOnMachineStateChanged, d.EventType())
	assert.EqualValues(t, 1, detail.Refs())
	assert.Zero(t, f.w.LiveStrings())
}

func TestEventDetailUndecoded(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	native := f.w.NewObject("IEvent").On("GetType", func(this, out uintptr) uint32 {
		nativetest.PutU32(out, uint32(types.EventTypeOnExtraDataChanged))
		return 0
	})
	e := &Event{f.wrap(native)}

	d, ok, err := e.Detail()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, d)
}

func TestEventDetailNoInterface(t *testing.T) {
	f := newFixture(t, types.APIv6_1)
	native := f.w.NewObject("IEvent").On("GetType", func(this, out uintptr) uint32 {
		nativetest.PutU32(out, uint32(types.EventTypeOnSnapshotTaken))
		return 0
	})
	e := &Event{f.wrap(native)}

	_, ok, err := e.Detail()
	ve := requireKind(t, err, types.KindNative)
	assert.Equal(t, types.NS_NOINTERFACE, ve.Code)
	assert.False(t, ok)
}

func TestEventDetailSnapshotTaken(t *testing.T) {
	f := newFixture(t, types.APIv7_0)
	iid, err := f.rt.Layouts().IID("ISnapshotTakenEvent")
	require.NoError(t, err)
	detail := f.w.NewObject("ISnapshotTakenEvent").
		On("GetMachineId", func(this, out uintptr) uint32 {
			nativetest.PutPtr(out, f.w.String("m"))
			return 0
		}).
		On("GetSnapshotId", func(this, out uintptr) uint32 {
			nativetest.PutPtr(out, f.w.String("s"))
			return 0
		})
	native := f.w.NewObject("IEvent").On("GetType", func(this, out uintptr) uint32 {
		nativetest.PutU32(out, uint32(types.EventTypeOnSnapshotTaken))
		return 0
	})
	native.Answer(iid, detail)
	e := &Event{f.wrap(native)}

	d, ok, err := e.Detail()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SnapshotTaken{MachineID: "m", SnapshotID: "s"}, d)
}

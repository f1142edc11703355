package vboxapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vboxgo/vboxapi/internal/api/nativetest"
	"github.com/vboxgo/vboxapi/types"
)

func TestConsoleKeyboard(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	var codes []uint32
	var usage [3]uintptr
	cad := 0
	keyboard := f.w.NewObject("IKeyboard").
		On("PutScancodes", func(this, n, p, out uintptr) uint32 {
			codes = nativetest.U32sArg(n, p)
			nativetest.PutU32(out, uint32(len(codes)))
			return 0
		}).
		On("PutCAD", func(this uintptr) uint32 {
			cad++
			return 0
		}).
		On("PutUsageCode", func(this, code, page, release uintptr) uint32 {
			usage = [3]uintptr{code, page, release}
			return 0
		}).
		On("GetKeyboardLEDs", func(this, count, values uintptr) uint32 {
			nativetest.PutU32(count, 2)
			nativetest.PutPtr(values, f.w.U32Array([]uint32{1, 3}))
			return 0
		})
	native := f.w.NewObject("IConsole")
	handOut(native, "GetKeyboard", keyboard)
	console := &Console{f.wrap(native)}

	kb, err := console.Keyboard()
	require.NoError(t, err)
	defer kb.Release()

	stored, err := kb.PutScancodes([]int32{0x1d, 0x38, 0x53})
	require.NoError(t, err)
	assert.EqualValues(t, 3, stored)
	assert.Equal(t, []uint32{0x1d, 0x38, 0x53}, codes)

	require.NoError(t, kb.PutCAD())
	assert.Equal(t, 1, cad)

	require.NoError(t, kb.PutUsageCode(0x04, 0x07, true))
	assert.Equal(t, [3]uintptr{0x04, 0x07, 1}, usage)

	leds, err := kb.LEDs()
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 3}, leds)
}

func TestConsoleMouse(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	var got []uintptr
	mouse := f.w.NewObject("IMouse").
		On("PutMouseEventAbsolute", func(this, x, y, dz, dw, buttons uintptr) uint32 {
			got = []uintptr{x, y, dz, dw, buttons}
			return 0
		}).
		On("PutMouseEvent", func(this, dx, dy, dz, dw, buttons uintptr) uint32 {
			got = []uintptr{dx, dy, dz, dw, buttons}
			return 0
		}).
		On("GetTouchScreenSupported", func(this, out uintptr) uint32 {
			nativetest.PutBool(out, true)
			return 0
		})
	native := f.w.NewObject("IConsole")
	handOut(native, "GetMouse", mouse)
	console := &Console{f.wrap(native)}

	m, err := console.Mouse()
	require.NoError(t, err)
	defer m.Release()

	require.NoError(t, m.PutEventAbsolute(100, 200, 0, 0, MouseButtonLeft))
	assert.Equal(t, []uintptr{100, 200, 0, 0, 1}, got)

	require.NoError(t, m.PutEvent(-1, 2, 0, 0, MouseButtonLeft|MouseButtonRight))
	assert.Equal(t, []uintptr{0xFFFFFFFF, 2, 0, 0, 3}, got)

	touch, err := m.TouchScreenSupported()
	require.NoError(t, err)
	assert.True(t, touch)
}

func TestMouseTouchNeedsV70(t *testing.T) {
	f := newFixture(t, types.APIv6_1)
	m := &Mouse{f.wrap(f.w.NewObject("IMouse"))}

	_, err := m.TouchScreenSupported()
	requireKind(t, err, types.KindUnsupportedAPIVersion)
	_, err = m.TouchPadSupported()
	requireKind(t, err, types.KindUnsupportedAPIVersion)
}

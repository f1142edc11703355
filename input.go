package vboxapi

import "github.com/vboxgo/vboxapi/internal/api"

// Keyboard is IKeyboard of a running machine's console.
type Keyboard struct {
	object
}

// LEDs returns the guest keyboard LED states (num, caps, scroll lock).
func (k *Keyboard) LEDs() ([]uint32, error) {
	return api.CallSlice[uint32](k.obj, "GetKeyboardLEDs")
}

func (k *Keyboard) PutScancode(scancode int32) error {
	return api.CallUnit(k.obj, "PutScancode", api.I32("scancode", scancode))
}

// PutScancodes sends a sequence of scancodes and returns how many the
// guest accepted.
func (k *Keyboard) PutScancodes(scancodes []int32) (uint32, error) {
	raw := make([]uint32, len(scancodes))
	for i, c := range scancodes {
		raw[i] = uint32(c)
	}
	return api.CallNumber[uint32](k.obj, "PutScancodes", api.U32s("scancodes", raw))
}

// PutCAD sends Ctrl-Alt-Del.
func (k *Keyboard) PutCAD() error {
	return api.CallUnit(k.obj, "PutCAD")
}

// ReleaseKeys releases every key the guest sees as pressed.
func (k *Keyboard) ReleaseKeys() error {
	return api.CallUnit(k.obj, "ReleaseKeys")
}

// PutUsageCode sends a USB HID usage code.
func (k *Keyboard) PutUsageCode(usageCode, usagePage int32, keyRelease bool) error {
	return api.CallUnit(k.obj, "PutUsageCode",
		api.I32("usageCode", usageCode),
		api.I32("usagePage", usagePage),
		api.Bool("keyRelease", keyRelease),
	)
}

func (k *Keyboard) EventSource() (*EventSource, error) {
	o, err := api.CallObject(k.obj, "GetEventSource", "IEventSource")
	if err != nil {
		return nil, err
	}
	return &EventSource{object{o}}, nil
}

// Mouse is IMouse of a running machine's console.
type Mouse struct {
	object
}

// MouseButtons is the button state bitmask of PutEvent and PutEventAbsolute.
type MouseButtons int32

const (
	MouseButtonLeft   MouseButtons = 0x01
	MouseButtonRight  MouseButtons = 0x02
	MouseButtonMiddle MouseButtons = 0x04
)

func (m *Mouse) AbsoluteSupported() (bool, error) {
	return api.CallBool(m.obj, "GetAbsoluteSupported")
}

func (m *Mouse) RelativeSupported() (bool, error) {
	return api.CallBool(m.obj, "GetRelativeSupported")
}

// TouchScreenSupported is available from 7.0.
func (m *Mouse) TouchScreenSupported() (bool, error) {
	return api.CallBool(m.obj, "GetTouchScreenSupported")
}

// TouchPadSupported is available from 7.0.
func (m *Mouse) TouchPadSupported() (bool, error) {
	return api.CallBool(m.obj, "GetTouchPadSupported")
}

func (m *Mouse) NeedsHostCursor() (bool, error) {
	return api.CallBool(m.obj, "GetNeedsHostCursor")
}

// PutEvent moves the pointer relative to its position. dz and dw are
// the vertical and horizontal wheel.
func (m *Mouse) PutEvent(dx, dy, dz, dw int32, buttons MouseButtons) error {
	return api.CallUnit(m.obj, "PutMouseEvent",
		api.I32("dx", dx),
		api.I32("dy", dy),
		api.I32("dz", dz),
		api.I32("dw", dw),
		api.I32("buttonState", int32(buttons)),
	)
}

// PutEventAbsolute places the pointer at 1-based guest screen coordinates.
func (m *Mouse) PutEventAbsolute(x, y, dz, dw int32, buttons MouseButtons) error {
	return api.CallUnit(m.obj, "PutMouseEventAbsolute",
		api.I32("x", x),
		api.I32("y", y),
		api.I32("dz", dz),
		api.I32("dw", dw),
		api.I32("buttonState", int32(buttons)),
	)
}

func (m *Mouse) EventSource() (*EventSource, error) {
	o, err := api.CallObject(m.obj, "GetEventSource", "IEventSource")
	if err != nil {
		return nil, err
	}
	return &EventSource{object{o}}, nil
}

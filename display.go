package vboxapi

import (
	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// Display is IDisplay of a running machine.
type Display struct {
	object
}

// Resolution of one guest screen.
type Resolution struct {
	Width        uint32
	Height       uint32
	BitsPerPixel uint32
	XOrigin      int32
	YOrigin      int32
	Status       types.GuestMonitorStatus
}

func (d *Display) ScreenResolution(screenID uint32) (Resolution, error) {
	raw, err := api.CallOuts(d.obj, "GetScreenResolution", 6, api.U32("screenId", screenID))
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Width:        uint32(raw[0]),
		Height:       uint32(raw[1]),
		BitsPerPixel: uint32(raw[2]),
		XOrigin:      int32(uint32(raw[3])),
		YOrigin:      int32(uint32(raw[4])),
		Status:       types.GuestMonitorStatus(uint32(raw[5])),
	}, nil
}

// AttachFramebuffer makes fb receive the output of screenID and returns
// the attachment id needed by DetachFramebuffer. The display takes its
// own reference to fb.
func (d *Display) AttachFramebuffer(screenID uint32, fb *HostFramebuffer) (string, error) {
	return api.CallString(d.obj, "AttachFramebuffer",
		api.U32("screenId", screenID),
		api.Ptr("framebuffer", fb.Ptr()),
	)
}

func (d *Display) DetachFramebuffer(screenID uint32, id string) error {
	return api.CallUnit(d.obj, "DetachFramebuffer",
		api.U32("screenId", screenID),
		api.Str("id", id),
	)
}

// QueryFramebuffer returns the framebuffer attached to screenID, if any.
func (d *Display) QueryFramebuffer(screenID uint32) (*Framebuffer, bool, error) {
	o, ok, err := api.CallOptionalObject(d.obj, "QueryFramebuffer", "IFramebuffer", api.U32("screenId", screenID))
	if err != nil || !ok {
		return nil, false, err
	}
	return &Framebuffer{object{o}}, true, nil
}

// TakeScreenShotToArray captures screenID scaled to width x height.
func (d *Display) TakeScreenShotToArray(screenID, width, height uint32, format types.BitmapFormat) ([]byte, error) {
	raw, err := api.CallOuts(d.obj, "TakeScreenShotToArray", 2,
		api.U32("screenId", screenID),
		api.U32("width", width),
		api.U32("height", height),
		api.U32("bitmapFormat", uint32(format)),
	)
	if err != nil {
		return nil, err
	}
	return api.TakeSlice[byte](d.obj.Runtime(), "IDisplay.TakeScreenShotToArray", uint32(raw[0]), uintptr(raw[1]))
}

// InvalidateAndUpdate asks for a full redraw of every screen.
func (d *Display) InvalidateAndUpdate() error {
	return api.CallUnit(d.obj, "InvalidateAndUpdate")
}

// ViewportChanged tells the display which part of the guest screen the
// frontend shows.
func (d *Display) ViewportChanged(screenID, x, y, width, height uint32) error {
	return api.CallUnit(d.obj, "ViewportChanged",
		api.U32("screenId", screenID),
		api.U32("x", x),
		api.U32("y", y),
		api.U32("width", width),
		api.U32("height", height),
	)
}

// Framebuffer is a native IFramebuffer, which may also be a
// HostFramebuffer seen from the display side.
type Framebuffer struct {
	object
}

func (f *Framebuffer) Width() (uint32, error) {
	return api.CallNumber[uint32](f.obj, "GetWidth")
}

func (f *Framebuffer) Height() (uint32, error) {
	return api.CallNumber[uint32](f.obj, "GetHeight")
}

func (f *Framebuffer) BitsPerPixel() (uint32, error) {
	return api.CallNumber[uint32](f.obj, "GetBitsPerPixel")
}

func (f *Framebuffer) BytesPerLine() (uint32, error) {
	return api.CallNumber[uint32](f.obj, "GetBytesPerLine")
}

func (f *Framebuffer) PixelFormat() (types.BitmapFormat, error) {
	raw, err := api.CallNumber[uint32](f.obj, "GetPixelFormat")
	return types.BitmapFormat(raw), err
}

func (f *Framebuffer) HeightReduction() (uint32, error) {
	return api.CallNumber[uint32](f.obj, "GetHeightReduction")
}

func (f *Framebuffer) WinID() (int64, error) {
	return api.CallNumber[int64](f.obj, "GetWinId")
}

func (f *Framebuffer) Capabilities() ([]types.FramebufferCapabilities, error) {
	raw, err := api.CallSlice[uint32](f.obj, "GetCapabilities")
	if err != nil {
		return nil, err
	}
	caps := make([]types.FramebufferCapabilities, len(raw))
	for i, c := range raw {
		caps[i] = types.FramebufferCapabilities(c)
	}
	return caps, nil
}

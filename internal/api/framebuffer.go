package api

import (
	"bytes"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/vboxgo/vboxapi/internal/ffi"
	"github.com/vboxgo/vboxapi/types"
)

const framebufferIface = "IFramebuffer"

// maxImageSize bounds the pixel buffer NotifyUpdateImage accepts.
const maxImageSize = 256 << 20

// Frame is one pixel update received from the display.
type Frame struct {
	X, Y, Width, Height uint32
	BitsPerPixel        uint32
	Format              types.BitmapFormat
	Pixels              []byte
}

// FrameHandler receives every image update. It runs on the native
// display thread and must not block.
type FrameHandler func(Frame)

// FramebufferOptions are the initial properties of a host framebuffer.
type FramebufferOptions struct {
	Width           uint32
	Height          uint32
	BitsPerPixel    uint32
	PixelFormat     types.BitmapFormat
	HeightReduction uint32
	WinID           int64
	Capabilities    []types.FramebufferCapabilities
	Handler         FrameHandler
}

func DefaultFramebufferOptions() FramebufferOptions {
	return FramebufferOptions{
		Width:        640,
		Height:       480,
		BitsPerPixel: 32,
		PixelFormat:  types.BitmapFormatBGR,
		Capabilities: []types.FramebufferCapabilities{
			types.FramebufferCapUpdateImage,
			types.FramebufferCapRenderCursor,
		},
	}
}

// Geometry is what the display last told the framebuffer.
type Geometry struct {
	ScreenID uint32
	XOrigin  uint32
	YOrigin  uint32
	Width    uint32
	Height   uint32
	// Last updated rectangle.
	X, Y, UpdateWidth, UpdateHeight uint32
}

type framebufferState struct {
	refs   atomic.Uint32
	this   uintptr
	vtbl   uintptr
	handle uintptr

	mu    sync.Mutex
	opts  FramebufferOptions
	geom  Geometry
	frame *Frame
}

// FramebufferFactory builds IFramebuffer objects native code can call.
// The callback entry points are created once per factory and shared by
// every framebuffer it makes.
type FramebufferFactory struct {
	rt      *Runtime
	iid     types.IID
	entries []uintptr
	handles *handleRegistry
}

func NewFramebufferFactory(rt *Runtime) (*FramebufferFactory, error) {
	if rt.heap == nil || rt.callbacks == nil {
		return nil, errors.New("host framebuffers need a heap and a callback factory")
	}
	layout, ok := rt.layouts.Interface(framebufferIface)
	if !ok || layout.IID.IsZero() {
		return nil, types.FunctionNotFound(framebufferIface)
	}
	size := layout.Size
	for _, slot := range layout.Slots {
		if slot >= size {
			size = slot + 1
		}
	}

	f := &FramebufferFactory{rt: rt, iid: layout.IID, handles: newHandleRegistry()}
	impls := map[string]any{
		"GetWidth":           f.getWidth,
		"GetHeight":          f.getHeight,
		"GetBitsPerPixel":    f.getBitsPerPixel,
		"GetBytesPerLine":    f.getBytesPerLine,
		"GetPixelFormat":     f.getPixelFormat,
		"GetHeightReduction": f.getHeightReduction,
		"GetWinId":           f.getWinID,
		"GetCapabilities":    f.getCapabilities,
		"NotifyUpdate":       f.notifyUpdate,
		"NotifyUpdateImage":  f.notifyUpdateImage,
		"NotifyChange":       f.notifyChange,
	}
	for _, name := range []string{"GetOverlay", "VideoModeSupported", "GetVisibleRegion",
		"SetVisibleRegion", "ProcessVHWACommand", "Notify3DEvent"} {
		impls[name] = f.notImplemented(name)
	}

	cb := rt.callbacks
	reserved := cb.NewCallback(f.notImplemented("reserved slot"))
	f.entries = make([]uintptr, size)
	f.entries[ffi.SlotQueryInterface] = cb.NewCallback(f.queryInterface)
	f.entries[ffi.SlotAddRef] = cb.NewCallback(f.addRef)
	f.entries[ffi.SlotRelease] = cb.NewCallback(f.release)
	for slot := 3; slot < size; slot++ {
		f.entries[slot] = reserved
	}
	for name, slot := range layout.Slots {
		if impl, ok := impls[name]; ok {
			f.entries[slot] = cb.NewCallback(impl)
		}
	}
	return f, nil
}

// New allocates a framebuffer with one reference, held by the returned
// HostFramebuffer.
func (f *FramebufferFactory) New(opts FramebufferOptions) (*HostFramebuffer, error) {
	heap := f.rt.heap
	vtbl, err := heap.Alloc(uintptr(len(f.entries)) * ffi.PtrSize)
	if err != nil {
		return nil, errors.Wrap(err, "allocate framebuffer vtable")
	}
	for i, e := range f.entries {
		ffi.WritePtr(vtbl, i, e)
	}
	this, err := heap.Alloc(2 * ffi.PtrSize)
	if err != nil {
		heap.Free(vtbl)
		return nil, errors.Wrap(err, "allocate framebuffer")
	}

	st := &framebufferState{this: this, vtbl: vtbl, opts: opts}
	st.geom.Width, st.geom.Height = opts.Width, opts.Height
	st.refs.Store(1)
	h := f.handles.add(st)
	ffi.WritePtr(this, 0, vtbl)
	ffi.WritePtr(this, 1, h)

	f.rt.log.Debug().Uint64("this", uint64(this)).Msg("framebuffer created")
	return &HostFramebuffer{f: f, st: st}, nil
}

// Live counts framebuffers whose reference count has not reached zero.
func (f *FramebufferFactory) Live() int {
	return f.handles.len()
}

// state validates this and resolves it to its Go state.
func (f *FramebufferFactory) state(op string, this uintptr) *framebufferState {
	if this == 0 {
		f.rt.log.Error().Str("op", op).Msg("framebuffer called with null this")
		return nil
	}
	if ffi.ReadPtr(this, 0) == 0 {
		f.rt.log.Error().Str("op", op).Msg("framebuffer has no vtable")
		return nil
	}
	st := f.handles.get(ffi.ReadPtr(this, 1))
	if st == nil || st.this != this {
		f.rt.log.Error().Str("op", op).Msg("unknown framebuffer")
		return nil
	}
	return st
}

func (f *FramebufferFactory) recoverPanic(op string, ret *uintptr) {
	if rec := recover(); rec != nil {
		f.rt.log.Error().Str("op", op).Interface("panic", rec).Msg("panic in framebuffer callback")
		*ret = uintptr(types.NS_ERROR_FAILURE)
	}
}

func status(rc types.ResultCode) uintptr {
	return uintptr(rc)
}

var invalidState = status(types.VBOX_E_INVALID_OBJECT_STATE)

func (f *FramebufferFactory) queryInterface(this, iid, ppv uintptr) (ret uintptr) {
	defer f.recoverPanic("IFramebuffer.QueryInterface", &ret)
	st := f.state("IFramebuffer.QueryInterface", this)
	if st == nil {
		return invalidState
	}
	if iid == 0 || ppv == 0 {
		return status(types.NS_ERROR_INVALID_POINTER)
	}
	if !(*(*types.IID)(unsafe.Pointer(iid))).Equal(f.iid) {
		return status(types.NS_NOINTERFACE)
	}
	st.refs.Add(1)
	ffi.WritePtr(ppv, 0, this)
	return status(types.NS_OK)
}

func (f *FramebufferFactory) addRef(this uintptr) (ret uintptr) {
	defer f.recoverPanic("IFramebuffer.AddRef", &ret)
	st := f.state("IFramebuffer.AddRef", this)
	if st == nil {
		return invalidState
	}
	n := st.refs.Add(1)
	f.rt.log.Trace().Uint32("refs", n).Msg("IFramebuffer.AddRef")
	return uintptr(n)
}

func (f *FramebufferFactory) release(this uintptr) (ret uintptr) {
	defer f.recoverPanic("IFramebuffer.Release", &ret)
	st := f.state("IFramebuffer.Release", this)
	if st == nil {
		return invalidState
	}
	n := st.refs.Add(^uint32(0))
	f.rt.log.Trace().Uint32("refs", n).Msg("IFramebuffer.Release")
	if n == 0 {
		f.destroy(st)
	}
	return uintptr(n)
}

// destroy frees the vtable, then the object block.
func (f *FramebufferFactory) destroy(st *framebufferState) {
	f.handles.remove(st.handle)
	f.rt.heap.Free(st.vtbl)
	f.rt.heap.Free(st.this)
	f.rt.log.Debug().Uint64("this", uint64(st.this)).Msg("framebuffer destroyed")
}

// getter implements the single out-parameter getters.
func (f *FramebufferFactory) getter(op string, this, out uintptr, write func(st *framebufferState, out uintptr)) (ret uintptr) {
	defer f.recoverPanic(op, &ret)
	st := f.state(op, this)
	if st == nil {
		return invalidState
	}
	if out == 0 {
		return status(types.NS_ERROR_INVALID_POINTER)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	write(st, out)
	return status(types.NS_OK)
}

func (f *FramebufferFactory) getWidth(this, out uintptr) uintptr {
	return f.getter("IFramebuffer.GetWidth", this, out, func(st *framebufferState, out uintptr) {
		ffi.WriteU32(out, st.geom.Width)
	})
}

func (f *FramebufferFactory) getHeight(this, out uintptr) uintptr {
	return f.getter("IFramebuffer.GetHeight", this, out, func(st *framebufferState, out uintptr) {
		ffi.WriteU32(out, st.geom.Height)
	})
}

func (f *FramebufferFactory) getBitsPerPixel(this, out uintptr) uintptr {
	return f.getter("IFramebuffer.GetBitsPerPixel", this, out, func(st *framebufferState, out uintptr) {
		ffi.WriteU32(out, st.opts.BitsPerPixel)
	})
}

func (f *FramebufferFactory) getBytesPerLine(this, out uintptr) uintptr {
	return f.getter("IFramebuffer.GetBytesPerLine", this, out, func(st *framebufferState, out uintptr) {
		ffi.WriteU32(out, st.geom.Width*st.opts.BitsPerPixel/8)
	})
}

func (f *FramebufferFactory) getPixelFormat(this, out uintptr) uintptr {
	return f.getter("IFramebuffer.GetPixelFormat", this, out, func(st *framebufferState, out uintptr) {
		ffi.WriteU32(out, uint32(st.opts.PixelFormat))
	})
}

func (f *FramebufferFactory) getHeightReduction(this, out uintptr) uintptr {
	return f.getter("IFramebuffer.GetHeightReduction", this, out, func(st *framebufferState, out uintptr) {
		ffi.WriteU32(out, st.opts.HeightReduction)
	})
}

func (f *FramebufferFactory) getWinID(this, out uintptr) uintptr {
	return f.getter("IFramebuffer.GetWinId", this, out, func(st *framebufferState, out uintptr) {
		ffi.WriteI64(out, st.opts.WinID)
	})
}

// getCapabilities hands the caller an array it owns and frees.
func (f *FramebufferFactory) getCapabilities(this, count, values uintptr) (ret uintptr) {
	const op = "IFramebuffer.GetCapabilities"
	defer f.recoverPanic(op, &ret)
	st := f.state(op, this)
	if st == nil {
		return invalidState
	}
	if count == 0 || values == 0 {
		return status(types.NS_ERROR_INVALID_POINTER)
	}
	st.mu.Lock()
	caps := append([]types.FramebufferCapabilities(nil), st.opts.Capabilities...)
	st.mu.Unlock()

	if len(caps) == 0 {
		ffi.WriteU32(count, 0)
		ffi.WritePtr(values, 0, 0)
		return status(types.NS_OK)
	}
	arr, err := f.rt.heap.Alloc(uintptr(len(caps)) * 4)
	if err != nil {
		return status(types.NS_ERROR_OUT_OF_MEMORY)
	}
	dst := unsafe.Slice((*uint32)(unsafe.Pointer(arr)), len(caps))
	for i, c := range caps {
		dst[i] = uint32(c)
	}
	ffi.WriteU32(count, uint32(len(caps)))
	ffi.WritePtr(values, 0, arr)
	return status(types.NS_OK)
}

func (f *FramebufferFactory) notifyUpdate(this, x, y, width, height uintptr) (ret uintptr) {
	const op = "IFramebuffer.NotifyUpdate"
	defer f.recoverPanic(op, &ret)
	st := f.state(op, this)
	if st == nil {
		return invalidState
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.geom.X, st.geom.Y = uint32(x), uint32(y)
	st.geom.UpdateWidth, st.geom.UpdateHeight = uint32(width), uint32(height)
	return status(types.NS_OK)
}

func (f *FramebufferFactory) notifyUpdateImage(this, x, y, width, height, size, image uintptr) (ret uintptr) {
	const op = "IFramebuffer.NotifyUpdateImage"
	defer f.recoverPanic(op, &ret)
	st := f.state(op, this)
	if st == nil {
		return invalidState
	}
	w, h, sz := uint32(width), uint32(height), uint32(size)
	if image == 0 || sz == 0 || w == 0 || h == 0 {
		f.rt.log.Error().Str("op", op).Msg("empty image")
		return status(types.NS_ERROR_INVALID_POINTER)
	}
	if sz > maxImageSize {
		f.rt.log.Error().Str("op", op).Uint32("size", sz).Msg("image too large")
		return status(types.NS_ERROR_INVALID_POINTER)
	}

	st.mu.Lock()
	bpp := st.opts.BitsPerPixel
	format := st.opts.PixelFormat
	st.mu.Unlock()

	need := uint64(w) * uint64(h) * uint64(bpp) / 8
	if bpp >= 8 && sz%(bpp/8) != 0 || uint64(sz) < need {
		f.rt.log.Error().Str("op", op).Uint32("size", sz).Uint64("need", need).Msg("image does not match the rectangle")
		return status(types.NS_ERROR_INVALID_POINTER)
	}

	frame := Frame{
		X: uint32(x), Y: uint32(y), Width: w, Height: h,
		BitsPerPixel: bpp,
		Format:       format,
		Pixels:       make([]byte, need),
	}
	copy(frame.Pixels, unsafe.Slice((*byte)(unsafe.Pointer(image)), need))

	st.mu.Lock()
	st.geom.X, st.geom.Y = frame.X, frame.Y
	st.geom.UpdateWidth, st.geom.UpdateHeight = w, h
	st.frame = &frame
	handler := st.opts.Handler
	st.mu.Unlock()

	if handler != nil {
		handler(frame)
	}
	return status(types.NS_OK)
}

func (f *FramebufferFactory) notifyChange(this, screenID, xOrigin, yOrigin, width, height uintptr) (ret uintptr) {
	const op = "IFramebuffer.NotifyChange"
	defer f.recoverPanic(op, &ret)
	st := f.state(op, this)
	if st == nil {
		return invalidState
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.geom.ScreenID = uint32(screenID)
	st.geom.XOrigin, st.geom.YOrigin = uint32(xOrigin), uint32(yOrigin)
	st.geom.Width, st.geom.Height = uint32(width), uint32(height)
	return status(types.NS_OK)
}

func (f *FramebufferFactory) notImplemented(name string) func(this uintptr) uintptr {
	op := framebufferIface + "." + name
	return func(this uintptr) (ret uintptr) {
		defer f.recoverPanic(op, &ret)
		if f.state(op, this) == nil {
			return invalidState
		}
		f.rt.log.Warn().Str("method", name).Msg("IFramebuffer method called, but not implemented")
		return status(types.NS_ERROR_NOT_IMPLEMENTED)
	}
}

// HostFramebuffer is the Go side of a framebuffer created by a factory.
type HostFramebuffer struct {
	f        *FramebufferFactory
	st       *framebufferState
	released atomic.Bool
}

// Ptr is the IFramebuffer pointer to hand to IDisplay.AttachFramebuffer.
func (h *HostFramebuffer) Ptr() uintptr {
	return h.st.this
}

func (h *HostFramebuffer) IID() types.IID {
	return h.f.iid
}

func (h *HostFramebuffer) RefCount() uint32 {
	return h.st.refs.Load()
}

// Release drops the reference taken at creation and returns the count
// left. The framebuffer is freed once native code releases its own.
// Later calls only report the count.
func (h *HostFramebuffer) Release() uint32 {
	if !h.released.CompareAndSwap(false, true) {
		return h.st.refs.Load()
	}
	return uint32(h.f.release(h.st.this))
}

func (h *HostFramebuffer) Geometry() Geometry {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	return h.st.geom
}

// Snapshot returns the last image update.
func (h *HostFramebuffer) Snapshot() (Frame, bool) {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	if h.st.frame == nil {
		return Frame{}, false
	}
	return *h.st.frame, true
}

// PNG encodes the last 32 bit update.
func (h *HostFramebuffer) PNG() ([]byte, error) {
	frame, ok := h.Snapshot()
	if !ok {
		return nil, types.NullPointer("HostFramebuffer.PNG")
	}
	return EncodePNG(frame)
}

// EncodePNG encodes a 32 bit BGR(A) or RGBA frame.
func EncodePNG(frame Frame) ([]byte, error) {
	if uint64(len(frame.Pixels)) != uint64(frame.Width)*uint64(frame.Height)*4 {
		return nil, types.VectorsLengthMismatch("HostFramebuffer.PNG")
	}
	img := image.NewRGBA(image.Rect(0, 0, int(frame.Width), int(frame.Height)))
	src := frame.Pixels
	for i := 0; i+3 < len(src); i += 4 {
		switch frame.Format {
		case types.BitmapFormatRGBA:
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = src[i], src[i+1], src[i+2]
		default:
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = src[i+2], src[i+1], src[i]
		}
		img.Pix[i+3] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

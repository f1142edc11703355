package nativetest

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/vboxgo/vboxapi/internal/ffi"
	"github.com/vboxgo/vboxapi/types"
)

// Object is a fake native object: a block whose first word points at a
// vtable, with working nsISupports slots.
type Object struct {
	Ptr   uintptr
	Iface string

	w     *World
	block []uintptr
	vtbl  []uintptr
	refs  atomic.Int32

	mu      sync.Mutex
	answers map[types.IID]*Object
}

// NewObject creates an object holding one reference.
func (w *World) NewObject(iface string) *Object {
	o := &Object{
		Iface:   iface,
		w:       w,
		block:   make([]uintptr, 2),
		vtbl:    make([]uintptr, vtableSlots),
		answers: make(map[types.IID]*Object),
	}
	o.block[0] = uintptr(unsafe.Pointer(&o.vtbl[0]))
	o.Ptr = uintptr(unsafe.Pointer(&o.block[0]))
	o.refs.Store(1)
	o.vtbl[ffi.SlotQueryInterface] = w.Register(o.queryInterface)
	o.vtbl[ffi.SlotAddRef] = w.Register(func(this uintptr) uint32 {
		return uint32(o.refs.Add(1))
	})
	o.vtbl[ffi.SlotRelease] = w.Register(func(this uintptr) uint32 {
		return uint32(o.refs.Add(-1))
	})
	w.mu.Lock()
	w.objects[o.Ptr] = o
	w.mu.Unlock()
	return o
}

// Lookup returns the fake object at p.
func (w *World) Lookup(p uintptr) *Object {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.objects[p]
}

// On installs fn as method of the object's interface.
func (o *Object) On(method string, fn any) *Object {
	slot, err := o.w.Slots.Slot(o.Iface, method)
	if err != nil {
		panic(fmt.Sprintf("nativetest: %v", err))
	}
	return o.Set(slot, fn)
}

// Set installs fn at a raw slot; a nil fn clears it.
func (o *Object) Set(slot int, fn any) *Object {
	if fn == nil {
		o.vtbl[slot] = 0
		return o
	}
	o.vtbl[slot] = o.w.Register(fn)
	return o
}

// ClearVtable makes the object's vtable pointer null.
func (o *Object) ClearVtable() {
	o.block[0] = 0
}

// Answer makes QueryInterface hand out target for iid.
func (o *Object) Answer(iid types.IID, target *Object) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.answers[iid] = target
}

func (o *Object) queryInterface(this, iid, ppv uintptr) uint32 {
	if iid == 0 || ppv == 0 {
		return uint32(types.NS_ERROR_INVALID_POINTER)
	}
	want := *(*types.IID)(unsafe.Pointer(iid))
	o.mu.Lock()
	target, ok := o.answers[want]
	o.mu.Unlock()
	if !ok {
		ffi.WritePtr(ppv, 0, 0)
		return uint32(types.NS_NOINTERFACE)
	}
	target.refs.Add(1)
	ffi.WritePtr(ppv, 0, target.Ptr)
	return uint32(types.NS_OK)
}

// Refs returns the current reference count.
func (o *Object) Refs() int32 {
	return o.refs.Load()
}

// Returning is a method that reports rc.
func Returning(rc types.ResultCode) func(this uintptr) uint32 {
	return func(uintptr) uint32 { return uint32(rc) }
}

// Out helpers write through out pointers.

func PutU32(p uintptr, v uint32) { ffi.WriteU32(p, v) }
func PutI64(p uintptr, v int64) { ffi.WriteI64(p, v) }
func PutPtr(p uintptr, v uintptr) {
	ffi.WritePtr(p, 0, v)
}

// PutBool writes a PRBool.
func PutBool(p uintptr, v bool) {
	var u uint32
	if v {
		u = 1
	}
	ffi.WriteU32(p, u)
}

// GetU32 reads a value the binding passed by reference.
func GetU32(p uintptr) uint32 {
	return *(*uint32)(unsafe.Pointer(p))
}

// StringArg decodes a UTF-16 argument.
func StringArg(p uintptr) string {
	return ffi.UTF16ToString(p)
}

// StringsArg decodes a (count, PRUnichar**) argument.
func StringsArg(count, p uintptr) []string {
	if count == 0 {
		return nil
	}
	ptrs := ffi.CopySlice[uintptr](p, int(count))
	out := make([]string, len(ptrs))
	for i, sp := range ptrs {
		out[i] = ffi.UTF16ToString(sp)
	}
	return out
}

// U32sArg decodes a (count, PRUint32*) argument.
func U32sArg(count, p uintptr) []uint32 {
	if count == 0 {
		return nil
	}
	return ffi.CopySlice[uint32](p, int(count))
}

package api

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/vboxgo/vboxapi/internal/ffi"
	"github.com/vboxgo/vboxapi/types"
)

// Object is a reference to a native object implementing the interface
// named by Interface. The binding owns one reference, given back by
// Release.
type Object struct {
	rt       *Runtime
	iface    string
	ptr      uintptr
	released atomic.Bool
}

// NewObject takes over one reference to ptr. With AutoRelease enabled a
// finalizer releases the reference if the caller never does.
func NewObject(rt *Runtime, iface string, ptr uintptr) *Object {
	o := &Object{rt: rt, iface: iface, ptr: ptr}
	if rt.autoRelease && ptr != 0 {
		runtime.SetFinalizer(o, finalizeObject)
	}
	return o
}

func finalizeObject(o *Object) {
	if err := o.Release(); err != nil {
		o.rt.log.Error().Err(err).Str("interface", o.iface).Msg("release on finalize failed")
	}
}

func (o *Object) Ptr() uintptr {
	if o == nil {
		return 0
	}
	return o.ptr
}

func (o *Object) Interface() string {
	return o.iface
}

func (o *Object) Runtime() *Runtime {
	return o.rt
}

func (o *Object) String() string {
	return fmt.Sprintf("%s(0x%x)", o.iface, o.ptr)
}

// vtable returns the vtable address after checking object and vtable for null.
func (o *Object) vtable(op string) (uintptr, error) {
	if o == nil || o.ptr == 0 {
		return 0, types.NullPointer(op)
	}
	vtbl := ffi.ReadPtr(o.ptr, 0)
	if vtbl == 0 {
		return 0, types.NullPointer(op)
	}
	return vtbl, nil
}

// method resolves iface.name to a function pointer.
func (o *Object) method(name string) (uintptr, error) {
	op := o.op(name)
	vtbl, err := o.vtable(op)
	if err != nil {
		return 0, err
	}
	slot, err := o.rt.layouts.Slot(o.iface, name)
	if err != nil {
		return 0, err
	}
	fn := ffi.ReadPtr(vtbl, slot)
	if fn == 0 {
		return 0, types.FunctionNotFound(op)
	}
	return fn, nil
}

func (o *Object) op(name string) string {
	if o == nil {
		return "<nil>." + name
	}
	return o.iface + "." + name
}

// AddRef takes an extra native reference and returns the new count.
func (o *Object) AddRef() (uint32, error) {
	return CallBare(o, ffi.SlotAddRef)
}

// Release gives back the reference held by o. Later calls are no-ops.
func (o *Object) Release() error {
	if o == nil || o.ptr == 0 {
		return nil
	}
	if !o.released.CompareAndSwap(false, true) {
		return nil
	}
	runtime.SetFinalizer(o, nil)
	if _, err := CallBare(o, ffi.SlotRelease); err != nil {
		return types.ReleaseFailed(o.op("Release"))
	}
	return nil
}

// QueryInterface asks the object for another interface. The result holds
// its own reference.
func (o *Object) QueryInterface(iface string) (*Object, error) {
	op := o.op("QueryInterface")
	vtbl, err := o.vtable(op)
	if err != nil {
		return nil, err
	}
	iid, err := o.rt.layouts.IID(iface)
	if err != nil {
		return nil, err
	}
	fn := ffi.ReadPtr(vtbl, ffi.SlotQueryInterface)
	if fn == 0 {
		return nil, types.FunctionNotFound(op)
	}
	args := []Arg{Ref("iid", unsafe.Pointer(&iid))}
	raw, err := o.invoke(op, fn, args, 1)
	if err != nil {
		return nil, err
	}
	if raw[0] == 0 {
		return nil, types.NullPointer(op)
	}
	return NewObject(o.rt, iface, uintptr(raw[0])), nil
}

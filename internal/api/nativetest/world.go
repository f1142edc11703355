// Package nativetest is an in-process stand-in for the VirtualBox glue
// library. Objects live in Go memory with Go-memory vtables whose entries
// are fake function addresses; World.Call maps those addresses back to Go
// functions. All parameters of registered functions must be integer types.
package nativetest

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/vboxgo/vboxapi/internal/ffi"
	"github.com/vboxgo/vboxapi/types"
)

// vtableSlots is larger than any interface of the supported versions.
const vtableSlots = 256

// fnBase keeps fake function addresses far away from anything mapped.
const fnBase uintptr = 0xF000_0000

// Resolver finds the vtable slot of a method.
type Resolver interface {
	Slot(iface, method string) (int, error)
}

// World implements ffi.Caller, ffi.CallbackFactory, ffi.Freer and ffi.Heap.
type World struct {
	// Slots resolves method names for Object.On.
	Slots Resolver

	// Library identity reported to the client.
	Release    uint32
	APIRelease uint32
	// ClientObject is returned by ClientInitialize.
	ClientObject *Object
	// Exception is returned by GetException.
	Exception *Object

	heap *ffi.GoHeap

	mu        sync.Mutex
	funcs     map[uintptr]reflect.Value
	nextFn    uintptr
	strings   map[uintptr][]uint16
	arrays    map[uintptr]any
	objects   map[uintptr]*Object
	badFrees  []uintptr
	freedStr  int
	freedMem  int
	inits     int
	uninits   int
	callbacks int
}

var (
	_ ffi.Caller          = (*World)(nil)
	_ ffi.CallbackFactory = (*World)(nil)
	_ ffi.Freer           = (*World)(nil)
	_ ffi.Heap            = (*World)(nil)
)

func NewWorld(slots Resolver) *World {
	return &World{
		Slots:   slots,
		heap:    ffi.NewGoHeap(),
		funcs:   make(map[uintptr]reflect.Value),
		strings: make(map[uintptr][]uint16),
		arrays:  make(map[uintptr]any),
		objects: make(map[uintptr]*Object),
	}
}

// Register assigns a fake native address to fn.
func (w *World) Register(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("nativetest: register %T", fn))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextFn++
	addr := fnBase + w.nextFn*16
	w.funcs[addr] = v
	return addr
}

func (w *World) NewCallback(fn any) uintptr {
	w.mu.Lock()
	w.callbacks++
	w.mu.Unlock()
	return w.Register(fn)
}

// Callbacks counts NewCallback calls.
func (w *World) Callbacks() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.callbacks
}

// Call converts every word to the parameter type of the registered
// function. Missing arguments are zero, surplus ones are dropped.
func (w *World) Call(fn uintptr, args ...uintptr) uintptr {
	w.mu.Lock()
	f, ok := w.funcs[fn]
	w.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("nativetest: call of unknown function 0x%x", fn))
	}
	ft := f.Type()
	in := make([]reflect.Value, ft.NumIn())
	for i := range in {
		var word uintptr
		if i < len(args) {
			word = args[i]
		}
		in[i] = reflect.ValueOf(word).Convert(ft.In(i))
	}
	out := f.Call(in)
	if len(out) == 0 {
		return 0
	}
	switch r := out[0]; r.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uintptr(r.Int())
	case reflect.Bool:
		if r.Bool() {
			return 1
		}
		return 0
	default:
		return uintptr(r.Uint())
	}
}

func (w *World) Alloc(size uintptr) (uintptr, error) {
	return w.heap.Alloc(size)
}

func (w *World) Free(p uintptr) {
	w.heap.Free(p)
}

// LiveBlocks counts heap blocks not yet freed.
func (w *World) LiveBlocks() int {
	return w.heap.Live()
}

// String returns a native copy of s that the binding is expected to free.
func (w *World) String(s string) uintptr {
	buf, err := ffi.StringToUTF16(s)
	if err != nil {
		panic(err)
	}
	p := uintptr(unsafe.Pointer(&buf[0]))
	w.mu.Lock()
	w.strings[p] = buf
	w.mu.Unlock()
	return p
}

// PtrArray returns a native array of pointers; zero elements stay null.
func (w *World) PtrArray(ptrs []uintptr) uintptr {
	if len(ptrs) == 0 {
		return 0
	}
	arr := append([]uintptr(nil), ptrs...)
	return w.track(uintptr(unsafe.Pointer(&arr[0])), arr)
}

// StringArray returns a native array of native strings.
func (w *World) StringArray(ss []string) uintptr {
	ptrs := make([]uintptr, len(ss))
	for i, s := range ss {
		ptrs[i] = w.String(s)
	}
	return w.PtrArray(ptrs)
}

func (w *World) U32Array(vs []uint32) uintptr {
	if len(vs) == 0 {
		return 0
	}
	arr := append([]uint32(nil), vs...)
	return w.track(uintptr(unsafe.Pointer(&arr[0])), arr)
}

func (w *World) Bytes(bz []byte) uintptr {
	if len(bz) == 0 {
		return 0
	}
	arr := append([]byte(nil), bz...)
	return w.track(uintptr(unsafe.Pointer(&arr[0])), arr)
}

func (w *World) track(p uintptr, keep any) uintptr {
	w.mu.Lock()
	w.arrays[p] = keep
	w.mu.Unlock()
	return p
}

func (w *World) FreeString(p uintptr) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.strings[p]; !ok {
		w.badFrees = append(w.badFrees, p)
		return
	}
	delete(w.strings, p)
	w.freedStr++
}

// FreeMem also accepts heap blocks, as arrays handed over by reverse
// objects come from the shared allocator.
func (w *World) FreeMem(p uintptr) {
	if w.heap.Owns(p) {
		w.heap.Free(p)
		w.mu.Lock()
		w.freedMem++
		w.mu.Unlock()
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.arrays[p]; !ok {
		w.badFrees = append(w.badFrees, p)
		return
	}
	delete(w.arrays, p)
	w.freedMem++
}

// LiveStrings counts strings handed out and not yet freed.
func (w *World) LiveStrings() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.strings)
}

// LiveArrays counts arrays handed out and not yet freed.
func (w *World) LiveArrays() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.arrays)
}

// Frees returns the number of strings and arrays freed.
func (w *World) Frees() (strs, mems int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.freedStr, w.freedMem
}

// BadFrees lists addresses freed that were never handed out.
func (w *World) BadFrees() []uintptr {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]uintptr(nil), w.badFrees...)
}

// Library surface used by the client.

func (w *World) Version() uint32 { return w.Release }
func (w *World) APIVersion() uint32 { return w.APIRelease }

func (w *World) ClientInitialize() (uintptr, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ClientObject == nil {
		return 0, types.NewNativeError(types.NS_ERROR_FAILURE, "ClientInitialize", "")
	}
	w.inits++
	w.ClientObject.refs.Add(1)
	return w.ClientObject.Ptr, nil
}

func (w *World) ClientUninitialize() {
	w.mu.Lock()
	w.uninits++
	w.mu.Unlock()
}

// Initializations returns the ClientInitialize and ClientUninitialize counts.
func (w *World) Initializations() (inits, uninits int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inits, w.uninits
}

func (w *World) ThreadInitialize() error { return nil }
func (w *World) ThreadUninitialize() error { return nil }

func (w *World) ProcessEventQueue(timeoutMS int64) int32 { return 0 }

func (w *World) InterruptEventQueueProcessing() {}

func (w *World) GetException() (uintptr, error) {
	if w.Exception == nil {
		return 0, nil
	}
	w.Exception.refs.Add(1)
	return w.Exception.Ptr, nil
}

func (w *World) ClearException() {
	w.Exception = nil
}

func (w *World) Close() error { return nil }

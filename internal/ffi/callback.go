//go:build darwin || freebsd || (linux && (amd64 || arm64))

package ffi

import (
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

// PureGoCallbacks creates native entry points with purego.
type PureGoCallbacks struct{}

var _ CallbackFactory = PureGoCallbacks{}

func (PureGoCallbacks) NewCallback(fn any) uintptr {
	return purego.NewCallback(fn)
}

func libcName() string {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/lib/libSystem.B.dylib"
	case "freebsd":
		return "libc.so.7"
	default:
		return "libc.so.6"
	}
}

// LibcHeap allocates with the C runtime so that blocks handed to native
// code live outside the Go heap.
type LibcHeap struct {
	calloc func(n, size uintptr) uintptr
	free   func(p uintptr)
}

var _ Heap = (*LibcHeap)(nil)

var (
	libcOnce sync.Once
	libc     *LibcHeap
	libcErr  error
)

// NewLibcHeap opens the C runtime once and returns the shared heap.
func NewLibcHeap() (*LibcHeap, error) {
	libcOnce.Do(func() {
		h, err := purego.Dlopen(libcName(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			libcErr = errors.Wrap(err, "open libc")
			return
		}
		heap := &LibcHeap{}
		purego.RegisterLibFunc(&heap.calloc, h, "calloc")
		purego.RegisterLibFunc(&heap.free, h, "free")
		libc = heap
	})
	return libc, libcErr
}

func (h *LibcHeap) Alloc(size uintptr) (uintptr, error) {
	if size == 0 {
		return 0, errors.New("zero sized allocation")
	}
	p := h.calloc(1, size)
	if p == 0 {
		return 0, errors.Errorf("calloc(%d) failed", size)
	}
	return p, nil
}

func (h *LibcHeap) Free(p uintptr) {
	if p != 0 {
		h.free(p)
	}
}

package ffi

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf16"
	"unsafe"
)

// ReadPtr returns the word stored at slot index of the array at base.
func ReadPtr(base uintptr, index int) uintptr {
	return *(*uintptr)(unsafe.Add(unsafe.Pointer(base), uintptr(index)*PtrSize))
}

// WritePtr stores v at slot index of the array at base.
func WritePtr(base uintptr, index int, v uintptr) {
	*(*uintptr)(unsafe.Add(unsafe.Pointer(base), uintptr(index)*PtrSize)) = v
}

// WriteU32 stores a 32 bit value through an out pointer.
func WriteU32(p uintptr, v uint32) {
	*(*uint32)(unsafe.Pointer(p)) = v
}

// WriteI64 stores a 64 bit value through an out pointer.
func WriteI64(p uintptr, v int64) {
	*(*int64)(unsafe.Pointer(p)) = v
}

// UTF16Len counts code units up to the terminating NUL.
func UTF16Len(p uintptr) int {
	if p == 0 {
		return 0
	}
	n := 0
	for *(*uint16)(unsafe.Add(unsafe.Pointer(p), uintptr(n)*2)) != 0 {
		n++
	}
	return n
}

// UTF16ToString copies a NUL-terminated UTF-16 buffer into a Go string.
// The buffer stays owned by whoever allocated it.
func UTF16ToString(p uintptr) string {
	n := UTF16Len(p)
	if n == 0 {
		return ""
	}
	units := unsafe.Slice((*uint16)(unsafe.Pointer(p)), n)
	return string(utf16.Decode(units))
}

// StringToUTF16 encodes s as a NUL-terminated UTF-16 buffer. Strings with
// an embedded NUL cannot cross the boundary intact and are rejected.
func StringToUTF16(s string) ([]uint16, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, fmt.Errorf("string %q contains a NUL byte", s)
	}
	units := utf16.Encode([]rune(s))
	return append(units, 0), nil
}

// CString copies a NUL-terminated byte string referenced by c.
func CString(c uintptr) string {
	if c == 0 {
		return ""
	}
	var n uintptr
	for *(*byte)(unsafe.Add(unsafe.Pointer(c), n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(c)), n))
}

// CopySlice copies n elements of T starting at p into Go memory.
func CopySlice[T any](p uintptr, n int) []T {
	out := make([]T, n)
	if n == 0 {
		return out
	}
	copy(out, unsafe.Slice((*T)(unsafe.Pointer(p)), n))
	return out
}

// GoHeap serves native-visible blocks from the Go heap. Blocks stay
// reachable through the registry until Free, and the Go collector never
// moves heap objects, so the addresses remain valid for native readers.
type GoHeap struct {
	mu     sync.Mutex
	blocks map[uintptr][]uintptr
}

var _ Heap = (*GoHeap)(nil)

func NewGoHeap() *GoHeap {
	return &GoHeap{blocks: make(map[uintptr][]uintptr)}
}

func (h *GoHeap) Alloc(size uintptr) (uintptr, error) {
	if size == 0 {
		return 0, fmt.Errorf("zero sized allocation")
	}
	words := make([]uintptr, (size+PtrSize-1)/PtrSize)
	p := uintptr(unsafe.Pointer(&words[0]))
	h.mu.Lock()
	h.blocks[p] = words
	h.mu.Unlock()
	return p, nil
}

func (h *GoHeap) Free(p uintptr) {
	h.mu.Lock()
	delete(h.blocks, p)
	h.mu.Unlock()
}

// Live returns the number of blocks not yet freed.
func (h *GoHeap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}

// Owns reports whether p is a live block of this heap.
func (h *GoHeap) Owns(p uintptr) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.blocks[p]
	return ok
}

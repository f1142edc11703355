package ffi

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF16RoundTrip(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"ascii":     "Ubuntu 22.04",
		"latin":     "Grüße aus Köln",
		"surrogate": "machine 🖥 one",
		"cjk":       "仮想マシン",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			buf, err := StringToUTF16(in)
			require.NoError(t, err)
			require.Equal(t, uint16(0), buf[len(buf)-1])

			got := UTF16ToString(uintptr(unsafe.Pointer(&buf[0])))
			runtime.KeepAlive(buf)
			assert.Equal(t, in, got)
			assert.Equal(t, len(buf)-1, UTF16Len(uintptr(unsafe.Pointer(&buf[0]))))
		})
	}
}

func TestStringToUTF16RejectsNUL(t *testing.T) {
	_, err := StringToUTF16("a\x00b")
	require.Error(t, err)
}

func TestUTF16ToStringNull(t *testing.T) {
	assert.Equal(t, "", UTF16ToString(0))
	assert.Equal(t, 0, UTF16Len(0))
}

func TestCString(t *testing.T) {
	buf := []byte("VBoxXPCOMC\x00garbage")
	assert.Equal(t, "VBoxXPCOMC", CString(uintptr(unsafe.Pointer(&buf[0]))))
	runtime.KeepAlive(buf)
	assert.Equal(t, "", CString(0))
}

func TestCopySlicePreservesOrder(t *testing.T) {
	src := []uint32{7, 1, 9, 3, 3, 0}
	got := CopySlice[uint32](uintptr(unsafe.Pointer(&src[0])), len(src))
	runtime.KeepAlive(src)
	require.Equal(t, src, got)

	// the copy is independent of the source
	src[0] = 42
	assert.Equal(t, uint32(7), got[0])

	assert.Empty(t, CopySlice[uint32](0, 0))
}

func TestReadWritePtr(t *testing.T) {
	words := make([]uintptr, 4)
	base := uintptr(unsafe.Pointer(&words[0]))
	WritePtr(base, 2, 0xdead)
	assert.Equal(t, uintptr(0xdead), ReadPtr(base, 2))
	assert.Equal(t, uintptr(0xdead), words[2])
	assert.Equal(t, uintptr(0), ReadPtr(base, 3))
	runtime.KeepAlive(words)
}

func TestGoHeap(t *testing.T) {
	h := NewGoHeap()
	p, err := h.Alloc(3 * PtrSize)
	require.NoError(t, err)
	require.NotZero(t, p)
	assert.True(t, h.Owns(p))
	assert.Equal(t, 1, h.Live())

	// blocks come back zeroed
	for i := 0; i < 3; i++ {
		assert.Zero(t, ReadPtr(p, i))
	}

	h.Free(p)
	assert.False(t, h.Owns(p))
	assert.Equal(t, 0, h.Live())

	_, err = h.Alloc(0)
	require.Error(t, err)
}

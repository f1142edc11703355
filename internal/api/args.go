package api

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/vboxgo/vboxapi/internal/ffi"
	"github.com/vboxgo/vboxapi/types"
)

// Arg is one positional in-parameter of a native method. It expands to
// one or more machine words and keeps the Go buffers it references so
// they can be pinned for the duration of the call.
type Arg struct {
	name  string
	repr  string
	words []uintptr
	pins  []unsafe.Pointer
	err   error
}

func (a Arg) String() string {
	return a.name + ": " + a.repr
}

func U32(name string, v uint32) Arg {
	return Arg{name: name, repr: fmt.Sprint(v), words: []uintptr{uintptr(v)}}
}

func I32(name string, v int32) Arg {
	return Arg{name: name, repr: fmt.Sprint(v), words: []uintptr{uintptr(uint32(v))}}
}

func I64(name string, v int64) Arg {
	return Arg{name: name, repr: fmt.Sprint(v), words: []uintptr{uintptr(v)}}
}

func U64(name string, v uint64) Arg {
	return Arg{name: name, repr: fmt.Sprint(v), words: []uintptr{uintptr(v)}}
}

// Bool is passed as PRBool.
func Bool(name string, v bool) Arg {
	var w uintptr
	if v {
		w = 1
	}
	return Arg{name: name, repr: fmt.Sprint(v), words: []uintptr{w}}
}

// Str passes s as a NUL-terminated UTF-16 buffer.
func Str(name string, s string) Arg {
	a := Arg{name: name, repr: fmt.Sprintf("%q", s)}
	buf, err := ffi.StringToUTF16(s)
	if err != nil {
		a.err = types.StringConversion(name, err)
		return a
	}
	p := unsafe.Pointer(&buf[0])
	a.words = []uintptr{uintptr(p)}
	a.pins = []unsafe.Pointer{p}
	return a
}

// Strs passes ss as a (count, PRUnichar**) pair.
func Strs(name string, ss []string) Arg {
	a := Arg{name: name, repr: fmt.Sprintf("%q", ss)}
	if len(ss) == 0 {
		a.words = []uintptr{0, 0}
		return a
	}
	ptrs := make([]uintptr, len(ss))
	for i, s := range ss {
		buf, err := ffi.StringToUTF16(s)
		if err != nil {
			a.err = types.StringConversion(fmt.Sprintf("%s[%d]", name, i), err)
			return a
		}
		p := unsafe.Pointer(&buf[0])
		ptrs[i] = uintptr(p)
		a.pins = append(a.pins, p)
	}
	arr := unsafe.Pointer(&ptrs[0])
	a.pins = append(a.pins, arr)
	a.words = []uintptr{uintptr(len(ss)), uintptr(arr)}
	return a
}

// U32s passes vs as a (count, PRUint32*) pair.
func U32s(name string, vs []uint32) Arg {
	a := Arg{name: name, repr: fmt.Sprint(vs)}
	if len(vs) == 0 {
		a.words = []uintptr{0, 0}
		return a
	}
	p := unsafe.Pointer(&vs[0])
	a.words = []uintptr{uintptr(len(vs)), uintptr(p)}
	a.pins = []unsafe.Pointer{p}
	return a
}

// Bools passes vs as a (count, PRBool*) pair.
func Bools(name string, vs []bool) Arg {
	raw := make([]uint32, len(vs))
	for i, v := range vs {
		if v {
			raw[i] = 1
		}
	}
	a := U32s(name, raw)
	a.repr = fmt.Sprint(vs)
	return a
}

// Ptr passes a raw address the caller keeps alive.
func Ptr(name string, p uintptr) Arg {
	return Arg{name: name, repr: fmt.Sprintf("0x%x", p), words: []uintptr{p}}
}

// Ref passes the address of Go memory, pinned for the call.
func Ref(name string, p unsafe.Pointer) Arg {
	return Arg{name: name, repr: fmt.Sprintf("%p", p), words: []uintptr{uintptr(p)}, pins: []unsafe.Pointer{p}}
}

// Obj passes the native pointer of o, or null for a nil object.
func Obj(name string, o *Object) Arg {
	if o == nil {
		return Arg{name: name, repr: "null", words: []uintptr{0}}
	}
	return Arg{name: name, repr: fmt.Sprintf("%s(0x%x)", o.iface, o.ptr), words: []uintptr{o.ptr}}
}

// describeArgs renders "In params: a: 1, b: \"x\"".
func describeArgs(args []Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return "In params: " + strings.Join(parts, ", ")
}

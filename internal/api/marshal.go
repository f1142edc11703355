package api

import (
	"github.com/vboxgo/vboxapi/internal/ffi"
	"github.com/vboxgo/vboxapi/types"
)

// TakeString copies a returned UTF-16 string and frees the native buffer.
func (r *Runtime) TakeString(op string, p uintptr) (string, error) {
	if p == 0 {
		return "", types.NullPointer(op)
	}
	s := ffi.UTF16ToString(p)
	r.freer.FreeString(p)
	return s, nil
}

// TakeSlice copies count elements of a returned array and frees it. A
// null array is only valid when it is empty.
func TakeSlice[T any](r *Runtime, op string, count uint32, p uintptr) ([]T, error) {
	if p == 0 {
		if count == 0 {
			return []T{}, nil
		}
		return nil, types.NullPointer(op)
	}
	out := ffi.CopySlice[T](p, int(count))
	r.freer.FreeMem(p)
	return out, nil
}

// TakeStringSlice decodes an array of strings, freeing every element and
// the array. Null elements decode to "".
func (r *Runtime) TakeStringSlice(op string, count uint32, p uintptr) ([]string, error) {
	ptrs, err := TakeSlice[uintptr](r, op, count, p)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ptrs))
	for i, sp := range ptrs {
		if sp == 0 {
			continue
		}
		out[i] = ffi.UTF16ToString(sp)
		r.freer.FreeString(sp)
	}
	return out, nil
}

// TakeObjectSlice wraps every element of an interface array. The array
// must not contain nulls.
func (r *Runtime) TakeObjectSlice(op, iface string, count uint32, p uintptr) ([]*Object, error) {
	ptrs, err := TakeSlice[uintptr](r, op, count, p)
	if err != nil {
		return nil, err
	}
	out := make([]*Object, 0, len(ptrs))
	var nullSeen bool
	for _, ptr := range ptrs {
		if ptr == 0 {
			nullSeen = true
			continue
		}
		out = append(out, NewObject(r, iface, ptr))
	}
	if nullSeen {
		ReleaseAll(out)
		return nil, types.NullPointer(op)
	}
	return out, nil
}

// ReleaseAll releases every object, logging failures.
func ReleaseAll(objs []*Object) {
	for _, o := range objs {
		if err := o.Release(); err != nil {
			o.rt.log.Error().Err(err).Msg("release failed")
		}
	}
}

// RequireParallel fails when arrays documented as parallel differ in length.
func RequireParallel(op string, lens ...int) error {
	if len(lens) == 0 {
		return nil
	}
	for _, n := range lens[1:] {
		if n != lens[0] {
			return types.VectorsLengthMismatch(op)
		}
	}
	return nil
}

// Arrays holds the out-parameters of a call that returns several
// (count, pointer) pairs. Decoding keeps the first error but still frees
// every later array.
type Arrays struct {
	rt  *Runtime
	op  string
	raw []uint64
	err error
}

// CallArrays calls method with n array out-parameters.
func CallArrays(o *Object, method string, n int, args ...Arg) (*Arrays, error) {
	raw, err := CallOuts(o, method, 2*n, args...)
	if err != nil {
		return nil, err
	}
	return &Arrays{rt: o.rt, op: o.op(method), raw: raw}, nil
}

func (a *Arrays) pair(i int) (uint32, uintptr) {
	return uint32(a.raw[2*i]), uintptr(a.raw[2*i+1])
}

func (a *Arrays) keep(err error) {
	if a.err == nil {
		a.err = err
	}
}

// Strings decodes array i as strings.
func (a *Arrays) Strings(i int) []string {
	n, p := a.pair(i)
	out, err := a.rt.TakeStringSlice(a.op, n, p)
	a.keep(err)
	return out
}

// U32s decodes array i as 32 bit values.
func (a *Arrays) U32s(i int) []uint32 {
	n, p := a.pair(i)
	out, err := TakeSlice[uint32](a.rt, a.op, n, p)
	a.keep(err)
	return out
}

// Err is the first decoding error.
func (a *Arrays) Err() error {
	return a.err
}

// Op names the call, for errors raised while interpreting the arrays.
func (a *Arrays) Op() string {
	return a.op
}

package api

import (
	"runtime"
	"unsafe"

	"github.com/vboxgo/vboxapi/internal/ffi"
	"github.com/vboxgo/vboxapi/types"
)

// maxCallWords is the most arguments a native call can take, this included.
const maxCallWords = 15

// Number is the set of scalar types a getter can produce.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// check turns a status code into an error naming the operation and the
// in-parameters it was called with.
func check(op string, rc types.ResultCode, args []Arg) error {
	if rc == types.NS_OK {
		return nil
	}
	msg := ""
	if len(args) > 0 {
		msg = describeArgs(args)
	}
	return types.NewNativeError(rc, op, msg)
}

// invoke calls fn(this, args..., outs...) where outs are nOut zeroed
// 64 bit slots, and returns the slots after a successful call.
func (o *Object) invoke(op string, fn uintptr, args []Arg, nOut int) ([]uint64, error) {
	for _, a := range args {
		if a.err != nil {
			return nil, a.err
		}
	}

	var pin runtime.Pinner
	defer pin.Unpin()

	words := make([]uintptr, 0, maxCallWords)
	words = append(words, o.ptr)
	for _, a := range args {
		words = append(words, a.words...)
		for _, p := range a.pins {
			pin.Pin(p)
		}
	}
	outs := make([]uint64, nOut)
	if nOut > 0 {
		pin.Pin(&outs[0])
		for i := range outs {
			words = append(words, uintptr(unsafe.Pointer(&outs[i])))
		}
	}
	if len(words) > maxCallWords {
		return nil, types.NewNativeError(types.NS_ERROR_ILLEGAL_VALUE, op, "too many arguments for a native call")
	}

	rc := types.ResultCode(uint32(o.rt.caller.Call(fn, words...)))
	o.rt.log.Debug().Str("op", op).Str("rc", rc.String()).Msg("native call")
	if err := check(op, rc, args); err != nil {
		return nil, err
	}
	return outs, nil
}

// CallOuts calls method with nOut out-parameters and returns their raw
// contents. Callers decode and free what the slots reference.
func CallOuts(o *Object, method string, nOut int, args ...Arg) ([]uint64, error) {
	fn, err := o.method(method)
	if err != nil {
		return nil, err
	}
	return o.invoke(o.op(method), fn, args, nOut)
}

func CallUnit(o *Object, method string, args ...Arg) error {
	_, err := CallOuts(o, method, 0, args...)
	return err
}

func CallNumber[T Number](o *Object, method string, args ...Arg) (T, error) {
	raw, err := CallOuts(o, method, 1, args...)
	if err != nil {
		return 0, err
	}
	return *(*T)(unsafe.Pointer(&raw[0])), nil
}

// CallBool reads a PRBool result.
func CallBool(o *Object, method string, args ...Arg) (bool, error) {
	raw, err := CallOuts(o, method, 1, args...)
	if err != nil {
		return false, err
	}
	return uint32(raw[0]) != 0, nil
}

// CallPointer fails with a null pointer error when the call succeeds
// without producing a pointer.
func CallPointer(o *Object, method string, args ...Arg) (uintptr, error) {
	p, ok, err := CallOptionalPointer(o, method, args...)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, types.NullPointer(o.op(method))
	}
	return p, nil
}

// CallOptionalPointer reports a null result as ok == false.
func CallOptionalPointer(o *Object, method string, args ...Arg) (uintptr, bool, error) {
	raw, err := CallOuts(o, method, 1, args...)
	if err != nil {
		return 0, false, err
	}
	p := uintptr(raw[0])
	return p, p != 0, nil
}

func CallObject(o *Object, method, iface string, args ...Arg) (*Object, error) {
	p, err := CallPointer(o, method, args...)
	if err != nil {
		return nil, err
	}
	return NewObject(o.rt, iface, p), nil
}

func CallOptionalObject(o *Object, method, iface string, args ...Arg) (*Object, bool, error) {
	p, ok, err := CallOptionalPointer(o, method, args...)
	if err != nil || !ok {
		return nil, false, err
	}
	return NewObject(o.rt, iface, p), true, nil
}

func CallString(o *Object, method string, args ...Arg) (string, error) {
	raw, err := CallOuts(o, method, 1, args...)
	if err != nil {
		return "", err
	}
	return o.rt.TakeString(o.op(method), uintptr(raw[0]))
}

// CallSlice decodes a (count, T*) out pair.
func CallSlice[T any](o *Object, method string, args ...Arg) ([]T, error) {
	raw, err := CallOuts(o, method, 2, args...)
	if err != nil {
		return nil, err
	}
	return TakeSlice[T](o.rt, o.op(method), uint32(raw[0]), uintptr(raw[1]))
}

func CallStringSlice(o *Object, method string, args ...Arg) ([]string, error) {
	raw, err := CallOuts(o, method, 2, args...)
	if err != nil {
		return nil, err
	}
	return o.rt.TakeStringSlice(o.op(method), uint32(raw[0]), uintptr(raw[1]))
}

func CallObjectSlice(o *Object, method, iface string, args ...Arg) ([]*Object, error) {
	raw, err := CallOuts(o, method, 2, args...)
	if err != nil {
		return nil, err
	}
	return o.rt.TakeObjectSlice(o.op(method), iface, uint32(raw[0]), uintptr(raw[1]))
}

var bareNames = map[int]string{
	ffi.SlotQueryInterface: "QueryInterface",
	ffi.SlotAddRef:         "AddRef",
	ffi.SlotRelease:        "Release",
}

// CallBare calls an nsISupports slot that returns a reference count
// instead of a status.
func CallBare(o *Object, slot int) (uint32, error) {
	op := o.op(bareNames[slot])
	vtbl, err := o.vtable(op)
	if err != nil {
		return 0, err
	}
	fn := ffi.ReadPtr(vtbl, slot)
	if fn == 0 {
		return 0, types.FunctionNotFound(op)
	}
	n := uint32(o.rt.caller.Call(fn, o.ptr))
	o.rt.log.Debug().Str("op", op).Uint32("count", n).Msg("native call")
	return n, nil
}

package ffi

// Caller invokes a native function pointer with word sized arguments and
// returns the raw first result register.
type Caller interface {
	Call(fn uintptr, args ...uintptr) uintptr
}

// CallbackFactory turns a Go function into a native function pointer.
// Callbacks are never freed, so a factory should only be asked for a
// fixed set of functions.
type CallbackFactory interface {
	NewCallback(fn any) uintptr
}

// Freer releases buffers the native library allocated for the caller.
type Freer interface {
	// FreeString releases a UTF-16 string returned by a native method.
	FreeString(p uintptr)
	// FreeMem releases an array returned by a native method.
	FreeMem(p uintptr)
}

// Heap allocates zeroed memory that native code may keep addressing
// after the allocating call returns.
type Heap interface {
	Alloc(size uintptr) (uintptr, error)
	Free(p uintptr)
}

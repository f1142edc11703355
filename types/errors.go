package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a VboxError independently of the native status code.
type ErrorKind int

const (
	// KindNative is a nonzero status returned by a native method.
	KindNative ErrorKind = iota
	// KindFunctionNotFound means the vtable slot was null.
	KindFunctionNotFound
	// KindNullPointer means a call reported success but produced a null pointer.
	KindNullPointer
	// KindReleaseFailed means decrementing a reference count failed.
	KindReleaseFailed
	// KindUnsupportedAPIVersion means the loaded API version lacks the method.
	KindUnsupportedAPIVersion
	// KindVectorsLengthMismatch means two parallel arrays differ in length.
	KindVectorsLengthMismatch
	// KindIncorrectVersion means the loaded library does not match the binding.
	KindIncorrectVersion
	KindInitFailed
	KindStringConversion
	KindParse
)

var kindNames = [...]string{
	KindNative:                "native call failed",
	KindFunctionNotFound:      "function not found",
	KindNullPointer:           "null pointer",
	KindReleaseFailed:         "release failed",
	KindUnsupportedAPIVersion: "unsupported in current api version",
	KindVectorsLengthMismatch: "vectors length mismatch",
	KindIncorrectVersion:      "incorrect version",
	KindInitFailed:            "initialization failed",
	KindStringConversion:      "string conversion failed",
	KindParse:                 "parse error",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// VersionMismatch describes the loaded library when it does not match the
// API version this binding was configured for.
type VersionMismatch struct {
	Expected   APIVersion `json:"expected"`
	Version    uint32     `json:"version"`
	APIVersion uint32     `json:"api_version"`
}

// VboxError is returned by every fallible operation of this module.
type VboxError struct {
	Kind ErrorKind        `json:"kind"`
	Code ResultCode       `json:"code,omitempty"`
	Op   string           `json:"op,omitempty"`
	Msg  string           `json:"msg,omitempty"`
	Ver  *VersionMismatch `json:"version,omitempty"`
	// Cause is set for init and conversion failures.
	Cause error `json:"-"`
}

var _ error = (*VboxError)(nil)

func (e *VboxError) Error() string {
	if e == nil {
		return "(nil)"
	}
	switch e.Kind {
	case KindNative:
		if e.Msg != "" {
			return fmt.Sprintf("%s: %s (0x%08X): %s", e.Op, e.Code, uint32(e.Code), e.Msg)
		}
		return fmt.Sprintf("%s: %s (0x%08X)", e.Op, e.Code, uint32(e.Code))
	case KindIncorrectVersion:
		if e.Ver == nil {
			return e.Kind.String()
		}
		return fmt.Sprintf("%s: binding built for %s, library reports version %d api %d",
			e.Kind, e.Ver.Expected, e.Ver.Version, e.Ver.APIVersion)
	}
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *VboxError) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by kind, and native errors also by code.
func (e *VboxError) Is(target error) bool {
	var t *VboxError
	if !errors.As(target, &t) || t == nil {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Kind == KindNative && t.Code != 0 {
		return t.Code == e.Code
	}
	return true
}

// Sentinels for errors.Is.
var (
	ErrFunctionNotFound      = &VboxError{Kind: KindFunctionNotFound}
	ErrNullPointer           = &VboxError{Kind: KindNullPointer}
	ErrReleaseFailed         = &VboxError{Kind: KindReleaseFailed}
	ErrUnsupportedAPIVersion = &VboxError{Kind: KindUnsupportedAPIVersion}
	ErrVectorsLengthMismatch = &VboxError{Kind: KindVectorsLengthMismatch}
	ErrIncorrectVersion      = &VboxError{Kind: KindIncorrectVersion}
	ErrInitFailed            = &VboxError{Kind: KindInitFailed}
)

func NewNativeError(code ResultCode, op string, msg string) *VboxError {
	return &VboxError{Kind: KindNative, Code: code, Op: op, Msg: msg}
}

func FunctionNotFound(op string) *VboxError {
	return &VboxError{Kind: KindFunctionNotFound, Op: op}
}

func NullPointer(op string) *VboxError {
	return &VboxError{Kind: KindNullPointer, Op: op}
}

func ReleaseFailed(op string) *VboxError {
	return &VboxError{Kind: KindReleaseFailed, Op: op}
}

// UnsupportedInCurrentAPIVersion names the first version providing op.
func UnsupportedInCurrentAPIVersion(op string, supportedFrom APIVersion) *VboxError {
	return &VboxError{
		Kind: KindUnsupportedAPIVersion,
		Op:   op,
		Msg:  fmt.Sprintf("supported from version %s", supportedFrom),
	}
}

func VectorsLengthMismatch(op string) *VboxError {
	return &VboxError{Kind: KindVectorsLengthMismatch, Op: op}
}

func IncorrectVersion(expected APIVersion, version, apiVersion uint32) *VboxError {
	return &VboxError{
		Kind: KindIncorrectVersion,
		Ver:  &VersionMismatch{Expected: expected, Version: version, APIVersion: apiVersion},
	}
}

func InitFailed(op string, cause error) *VboxError {
	return &VboxError{Kind: KindInitFailed, Op: op, Cause: cause}
}

func StringConversion(op string, cause error) *VboxError {
	return &VboxError{Kind: KindStringConversion, Op: op, Cause: cause}
}

func ParseError(op string, msg string) *VboxError {
	return &VboxError{Kind: KindParse, Op: op, Msg: msg}
}

// IsNull reports whether err is a null pointer error.
func IsNull(err error) bool {
	return errors.Is(err, ErrNullPointer)
}

// CodeOf returns the native status carried by err, or NS_OK.
func CodeOf(err error) ResultCode {
	var ve *VboxError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return NS_OK
}

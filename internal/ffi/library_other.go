//go:build !darwin && !freebsd && !(linux && (amd64 || arm64))

package ffi

import (
	"github.com/pkg/errors"

	"github.com/vboxgo/vboxapi/types"
)

// The glue library only exists on XPCOM hosts. These stubs keep the
// package buildable elsewhere.

var errUnsupportedHost = errors.New("VBoxXPCOMC needs darwin, freebsd or linux on amd64/arm64")

func FindLibrary() (string, error) {
	return "", errUnsupportedHost
}

type Library struct{}

func Load(path string) (*Library, error) {
	return nil, types.InitFailed("load library", errUnsupportedHost)
}

func (l *Library) Path() string { return "" }
func (l *Library) Call(fn uintptr, args ...uintptr) uintptr { return 0 }
func (l *Library) Version() uint32 { return 0 }
func (l *Library) APIVersion() uint32 { return 0 }
func (l *Library) ClientInitialize() (uintptr, error) { return 0, errUnsupportedHost }
func (l *Library) ClientUninitialize() {}
func (l *Library) ThreadInitialize() error { return errUnsupportedHost }
func (l *Library) ThreadUninitialize() error { return errUnsupportedHost }
func (l *Library) FreeString(p uintptr) {}
func (l *Library) FreeMem(p uintptr) {}
func (l *Library) ProcessEventQueue(timeoutMS int64) int32 { return -1 }
func (l *Library) InterruptEventQueueProcessing() {}
func (l *Library) GetException() (uintptr, error) { return 0, errUnsupportedHost }
func (l *Library) ClearException() {}
func (l *Library) Close() error { return nil }

type PureGoCallbacks struct{}

func (PureGoCallbacks) NewCallback(fn any) uintptr {
	panic(errUnsupportedHost)
}

type LibcHeap struct{}

func NewLibcHeap() (*LibcHeap, error) {
	return nil, errUnsupportedHost
}

func (h *LibcHeap) Alloc(size uintptr) (uintptr, error) { return 0, errUnsupportedHost }
func (h *LibcHeap) Free(p uintptr) {}

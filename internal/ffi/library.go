//go:build darwin || freebsd || (linux && (amd64 || arm64))

package ffi

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/vboxgo/vboxapi/types"
)

// EnvAppHome is read by the glue library to locate the VirtualBox components.
const EnvAppHome = "VBOX_APP_HOME"

const capiEntryPoint = "VBoxGetCAPIFunctions"

func dlname() string {
	if runtime.GOOS == "darwin" {
		return "VBoxXPCOMC.dylib"
	}
	return "VBoxXPCOMC.so"
}

func searchDirs() []string {
	dirs := []string{}
	if home := os.Getenv(EnvAppHome); home != "" {
		dirs = append(dirs, home)
	}
	if runtime.GOOS == "darwin" {
		return append(dirs, "/Applications/VirtualBox.app/Contents/MacOS")
	}
	return append(dirs,
		"/opt/VirtualBox",
		"/usr/lib/virtualbox",
		"/usr/lib64/virtualbox",
		"/usr/local/lib/virtualbox",
	)
}

// FindLibrary returns the first readable glue library in the usual install
// locations.
func FindLibrary() (string, error) {
	name := dlname()
	for _, dir := range searchDirs() {
		p := filepath.Join(dir, name)
		if unix.Access(p, unix.R_OK) == nil {
			return p, nil
		}
	}
	return "", errors.Errorf("%s not found in %v", name, searchDirs())
}

// Library is a loaded VBoxXPCOMC glue library and its function table.
type Library struct {
	path   string
	handle uintptr
	capi   CAPI

	closeOnce sync.Once
}

var (
	_ Caller = (*Library)(nil)
	_ Freer  = (*Library)(nil)
)

// Load opens the glue library at path, or searches for it when path is
// empty, and validates the function table it hands out.
func Load(path string) (*Library, error) {
	if path == "" {
		found, err := FindLibrary()
		if err != nil {
			return nil, types.InitFailed("load library", err)
		}
		path = found
	}
	if _, ok := os.LookupEnv(EnvAppHome); !ok {
		if err := os.Setenv(EnvAppHome, filepath.Dir(path)); err != nil {
			return nil, types.InitFailed("load library", errors.Wrap(err, EnvAppHome))
		}
	}

	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, types.InitFailed("load library", errors.Wrapf(err, "dlopen %s", path))
	}
	sym, err := purego.Dlsym(h, capiEntryPoint)
	if err != nil {
		_ = purego.Dlclose(h)
		return nil, types.InitFailed("load library", errors.Wrapf(err, "dlsym %s", capiEntryPoint))
	}

	lib := &Library{path: path, handle: h}
	table := lib.Call(sym, uintptr(CAPIVersion))
	if table == 0 {
		_ = purego.Dlclose(h)
		return nil, types.InitFailed("load library", errors.Errorf("%s returned null", capiEntryPoint))
	}
	lib.capi = *(*CAPI)(unsafe.Pointer(table))
	if err := validateCAPI(&lib.capi); err != nil {
		_ = purego.Dlclose(h)
		return nil, types.InitFailed("load library", err)
	}
	return lib, nil
}

func (l *Library) Path() string {
	return l.path
}

// Call implements Caller.
func (l *Library) Call(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}

// Version is the VirtualBox release as major*1000000 + minor*1000 + build.
func (l *Library) Version() uint32 {
	return uint32(l.Call(l.capi.GetVersion))
}

// APIVersion is the Main API generation number, for instance 7_001.
func (l *Library) APIVersion() uint32 {
	return uint32(l.Call(l.capi.GetAPIVersion))
}

// ClientInitialize creates the IVirtualBoxClient singleton.
func (l *Library) ClientInitialize() (uintptr, error) {
	out := new(uintptr)
	var pin runtime.Pinner
	pin.Pin(out)
	defer pin.Unpin()

	rc := types.ResultCode(uint32(l.Call(l.capi.ClientInitialize, 0, uintptr(unsafe.Pointer(out)))))
	if rc.Failed() {
		return 0, types.NewNativeError(rc, "VBoxCAPI.ClientInitialize", "")
	}
	if *out == 0 {
		return 0, types.NullPointer("VBoxCAPI.ClientInitialize")
	}
	return *out, nil
}

func (l *Library) ClientUninitialize() {
	l.Call(l.capi.ClientUninitialize)
}

// ThreadInitialize prepares the calling OS thread for API calls. The main
// thread is set up by ClientInitialize.
func (l *Library) ThreadInitialize() error {
	if rc := types.ResultCode(uint32(l.Call(l.capi.ClientThreadInitialize))); rc.Failed() {
		return types.NewNativeError(rc, "VBoxCAPI.ClientThreadInitialize", "")
	}
	return nil
}

func (l *Library) ThreadUninitialize() error {
	if rc := types.ResultCode(uint32(l.Call(l.capi.ClientThreadUninitialize))); rc.Failed() {
		return types.NewNativeError(rc, "VBoxCAPI.ClientThreadUninitialize", "")
	}
	return nil
}

// FreeString implements Freer.
func (l *Library) FreeString(p uintptr) {
	if p != 0 {
		l.Call(l.capi.Utf16Free, p)
	}
}

// FreeMem implements Freer.
func (l *Library) FreeMem(p uintptr) {
	if p != 0 {
		l.Call(l.capi.ComUnallocMem, p)
	}
}

// ProcessEventQueue runs pending XPCOM events for up to timeoutMS
// milliseconds. A negative timeout blocks until an event arrives.
func (l *Library) ProcessEventQueue(timeoutMS int64) int32 {
	return int32(uint32(l.Call(l.capi.ProcessEventQueue, uintptr(timeoutMS))))
}

func (l *Library) InterruptEventQueueProcessing() {
	l.Call(l.capi.InterruptEventQueueProcessing)
}

// GetException returns the pending IErrorInfo of the calling thread, or 0.
func (l *Library) GetException() (uintptr, error) {
	out := new(uintptr)
	var pin runtime.Pinner
	pin.Pin(out)
	defer pin.Unpin()

	rc := types.ResultCode(uint32(l.Call(l.capi.GetException, uintptr(unsafe.Pointer(out)))))
	if rc.Failed() {
		return 0, types.NewNativeError(rc, "VBoxCAPI.GetException", "")
	}
	return *out, nil
}

func (l *Library) ClearException() {
	l.Call(l.capi.ClearException)
}

// Close unloads the library. Every object obtained through it must have
// been released.
func (l *Library) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.handle != 0 {
			err = purego.Dlclose(l.handle)
			l.handle = 0
		}
	})
	return err
}

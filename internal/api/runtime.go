package api

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/vboxgo/vboxapi/internal/ffi"
	"github.com/vboxgo/vboxapi/types"
)

// Runtime bundles everything a native call needs: how to call, how to
// free returned buffers, where reverse objects live, and which vtable
// layouts apply.
type Runtime struct {
	caller      ffi.Caller
	freer       ffi.Freer
	heap        ffi.Heap
	callbacks   ffi.CallbackFactory
	layouts     *Layouts
	log         zerolog.Logger
	autoRelease bool

	fbOnce    sync.Once
	fbFactory *FramebufferFactory
	fbErr     error
}

// Options configure NewRuntime. Caller, Freer and Layouts are required;
// Heap and Callbacks only when host framebuffers are created.
type Options struct {
	Caller      ffi.Caller
	Freer       ffi.Freer
	Heap        ffi.Heap
	Callbacks   ffi.CallbackFactory
	Layouts     *Layouts
	Logger      *zerolog.Logger
	AutoRelease bool
}

func NewRuntime(opts Options) (*Runtime, error) {
	if opts.Caller == nil || opts.Freer == nil || opts.Layouts == nil {
		return nil, errors.New("runtime needs a caller, a freer and layouts")
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Runtime{
		caller:      opts.Caller,
		freer:       opts.Freer,
		heap:        opts.Heap,
		callbacks:   opts.Callbacks,
		layouts:     opts.Layouts,
		log:         logger,
		autoRelease: opts.AutoRelease,
	}, nil
}

func (r *Runtime) Version() types.APIVersion {
	return r.layouts.Version()
}

func (r *Runtime) Layouts() *Layouts {
	return r.layouts
}

func (r *Runtime) Logger() *zerolog.Logger {
	return &r.log
}

// Framebuffers returns the factory for host framebuffers, creating its
// callbacks on first use.
func (r *Runtime) Framebuffers() (*FramebufferFactory, error) {
	r.fbOnce.Do(func() {
		r.fbFactory, r.fbErr = NewFramebufferFactory(r)
	})
	return r.fbFactory, r.fbErr
}

// NewLogger builds the logger for a configured level. An empty level
// disables logging.
func NewLogger(level string, w io.Writer) (zerolog.Logger, error) {
	if level == "" {
		return zerolog.Nop(), nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrap(err, "log level")
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("module", "vboxapi").Logger(), nil
}

// CheckVersion compares the library's release and API generation with
// the configured version.
func CheckVersion(expected types.APIVersion, release, apiVersion uint32) error {
	wantAPI := expected.Major()*1000 + expected.Minor()
	if types.APIVersionFromRelease(release) != expected || apiVersion != wantAPI {
		return types.IncorrectVersion(expected, release, apiVersion)
	}
	return nil
}

// Open loads the glue library named by cfg and builds a runtime on it.
func Open(cfg types.Config, logger zerolog.Logger) (*Runtime, *ffi.Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, types.InitFailed("open", err)
	}
	layouts, err := LoadLayouts(cfg.APIVersion, cfg.LayoutFile)
	if err != nil {
		return nil, nil, types.InitFailed("open", err)
	}
	lib, err := ffi.Load(cfg.LibraryPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("path", lib.Path()).Uint32("version", lib.Version()).
		Uint32("api", lib.APIVersion()).Msg("loaded VBoxXPCOMC")

	if !cfg.SkipVersionCheck {
		if err := CheckVersion(cfg.APIVersion, lib.Version(), lib.APIVersion()); err != nil {
			_ = lib.Close()
			return nil, nil, err
		}
	}
	heap, err := ffi.NewLibcHeap()
	if err != nil {
		_ = lib.Close()
		return nil, nil, types.InitFailed("open", err)
	}
	rt, err := NewRuntime(Options{
		Caller:      lib,
		Freer:       lib,
		Heap:        heap,
		Callbacks:   ffi.PureGoCallbacks{},
		Layouts:     layouts,
		Logger:      &logger,
		AutoRelease: cfg.AutoRelease,
	})
	if err != nil {
		_ = lib.Close()
		return nil, nil, types.InitFailed("open", err)
	}
	return rt, lib, nil
}

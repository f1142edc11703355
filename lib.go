// Package vboxapi drives the VirtualBox Main API in-process through the
// XPCOM C binding (VBoxXPCOMC), without cgo.
package vboxapi

import (
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// Config is the configuration accepted by NewClient.
type Config = types.Config

// HostFramebuffer is an IFramebuffer implemented in Go.
type HostFramebuffer = api.HostFramebuffer

// FramebufferOptions are the initial properties of a HostFramebuffer.
type FramebufferOptions = api.FramebufferOptions

// Frame is one image update received by a HostFramebuffer.
type Frame = api.Frame

// FrameHandler is called for every image update.
type FrameHandler = api.FrameHandler

// DefaultFramebufferOptions is a 640x480, 32 bpp framebuffer.
func DefaultFramebufferOptions() FramebufferOptions {
	return api.DefaultFramebufferOptions()
}

// host is the process-wide part of the glue library.
type host interface {
	Version() uint32
	APIVersion() uint32
	ClientInitialize() (uintptr, error)
	ClientUninitialize()
	ProcessEventQueue(timeoutMS int64) int32
	Close() error
}

// object is embedded by every wrapper.
type object struct {
	obj *api.Object
}

// Release gives back the native reference held by the wrapper. It is
// safe to call more than once.
func (o object) Release() error {
	return o.obj.Release()
}

// Client is the main entry point to this library. It loads the glue
// library, owns the IVirtualBoxClient of the process and hands out the
// IVirtualBox and ISession objects. There should be one per process.
type Client struct {
	object
	rt   *api.Runtime
	host host

	closeOnce sync.Once
	closeErr  error
}

// NewClient loads the library named by cfg (or searches for it), checks
// its version unless cfg.SkipVersionCheck is set, and initializes the
// client. Logs go to stderr at cfg.LogLevel.
func NewClient(cfg Config) (*Client, error) {
	logger, err := api.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return nil, types.InitFailed("new client", err)
	}
	return NewClientWithLogger(cfg, logger)
}

// NewClientWithLogger is NewClient with a caller supplied logger.
func NewClientWithLogger(cfg Config, logger zerolog.Logger) (*Client, error) {
	rt, lib, err := api.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	c, err := newClient(rt, lib)
	if err != nil {
		_ = lib.Close()
		return nil, err
	}
	return c, nil
}

func newClient(rt *api.Runtime, h host) (*Client, error) {
	ptr, err := h.ClientInitialize()
	if err != nil {
		return nil, types.InitFailed("ClientInitialize", err)
	}
	if ptr == 0 {
		h.ClientUninitialize()
		return nil, types.NullPointer("ClientInitialize")
	}
	rt.Logger().Debug().Str("api", rt.Version().String()).Msg("client initialized")
	return &Client{
		object: object{api.NewObject(rt, "IVirtualBoxClient", ptr)},
		rt:     rt,
		host:   h,
	}, nil
}

// APIVersion is the layout generation the client was configured for.
func (c *Client) APIVersion() types.APIVersion {
	return c.rt.Version()
}

// LibraryVersion returns the release (major*1000000 + minor*1000 + build)
// and API version (major*1000 + minor) reported by the loaded library.
func (c *Client) LibraryVersion() (release, apiVersion uint32) {
	return c.host.Version(), c.host.APIVersion()
}

// CheckVersion fails with an incorrect version error when the loaded
// library does not belong to the configured API generation.
func (c *Client) CheckVersion() error {
	return api.CheckVersion(c.rt.Version(), c.host.Version(), c.host.APIVersion())
}

func (c *Client) VirtualBox() (*VirtualBox, error) {
	o, err := api.CallObject(c.obj, "GetVirtualBox", "IVirtualBox")
	if err != nil {
		return nil, err
	}
	return &VirtualBox{object{o}}, nil
}

// Session creates a new, unlocked session object.
func (c *Client) Session() (*Session, error) {
	o, err := api.CallObject(c.obj, "GetSession", "ISession")
	if err != nil {
		return nil, err
	}
	return &Session{object{o}}, nil
}

// EventSource delivers client level events such as VBoxSVC availability.
func (c *Client) EventSource() (*EventSource, error) {
	o, err := api.CallObject(c.obj, "GetEventSource", "IEventSource")
	if err != nil {
		return nil, err
	}
	return &EventSource{object{o}}, nil
}

// CheckMachineError reports why a machine is inaccessible. The result is
// nil when the machine is fine.
func (c *Client) CheckMachineError(m *Machine) error {
	if m == nil {
		return types.NullPointer("IVirtualBoxClient.CheckMachineError")
	}
	return api.CallUnit(c.obj, "CheckMachineError", api.Obj("machine", m.obj))
}

// NewHostFramebuffer creates a framebuffer to attach to a display. The
// caller holds one reference, dropped by its Release.
func (c *Client) NewHostFramebuffer(opts FramebufferOptions) (*HostFramebuffer, error) {
	f, err := c.rt.Framebuffers()
	if err != nil {
		return nil, err
	}
	return f.New(opts)
}

// ProcessEventQueue runs pending XPCOM events on the calling thread for
// up to timeoutMS milliseconds; 0 polls, a negative value waits forever.
func (c *Client) ProcessEventQueue(timeoutMS int64) error {
	if rc := c.host.ProcessEventQueue(timeoutMS); rc < 0 {
		return types.NewNativeError(types.NS_ERROR_FAILURE, "ProcessEventQueue", "")
	}
	return nil
}

// Close releases the client and unloads the library. Wrappers obtained
// from the client must be released before.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		if err := c.Release(); err != nil {
			c.rt.Logger().Error().Err(err).Msg("release client")
		}
		c.host.ClientUninitialize()
		c.closeErr = c.host.Close()
	})
	return c.closeErr
}

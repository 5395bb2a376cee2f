package vkboot

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Core owns one presentation session: instance, diagnostic messenger,
// surface, logical device and swapchain. It is built once by NewCore and
// released by Destroy in exact reverse order.
type Core struct {
	cfg  *Config
	log  *slog.Logger
	sink DiagnosticSink

	window     Window
	instance   Instance
	messenger  Messenger
	surface    vk.Surface
	hasSurface bool
	selection  *Selection
	logical    *LogicalContext
	images     *SwapImageSet
}

type Option func(*Core)

// WithLogger sets the session logger. The default is slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(c *Core) { c.log = log }
}

// WithDiagnosticSink replaces the log-backed diagnostic sink.
func WithDiagnosticSink(sink DiagnosticSink) Option {
	return func(c *Core) { c.sink = sink }
}

// NewCore runs the bootstrap: context, adapter selection, logical device and
// presentation images. Adapters are enumerated before the surface exists, so
// a machine with no adapter fails before anything else is created. On error
// everything created so far is released.
func NewCore(cfg *Config, rt Runtime, window Window, opts ...Option) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	own, err := cfg.Clone()
	if err != nil {
		return nil, err
	}
	c := &Core{cfg: own, window: window}
	for _, opt := range opts {
		opt(c)
	}
	c.log = loggerOrDefault(c.log)
	if c.sink == nil {
		c.sink = LogSink{Logger: c.log}
	}

	if err := c.bootstrap(rt); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}

func (c *Core) bootstrap(rt Runtime) error {
	inst, err := CreateContext(rt, c.cfg, c.window, c.log)
	if err != nil {
		return err
	}
	c.instance = inst
	c.messenger = AttachDiagnosticSink(inst, c.cfg, c.sink, c.log)

	adapters, err := EnumerateAdapters(inst)
	if err != nil {
		return err
	}

	surface, err := c.window.CreateSurface(inst.Handle())
	if err != nil {
		return wrapKind(ErrSurfaceCreation, err, "create surface")
	}
	c.surface, c.hasSurface = surface, true

	c.selection, err = SelectAdapter(adapters, surface, c.cfg.DeviceExtensions, c.log)
	if err != nil {
		return err
	}

	var layers []string
	if c.cfg.Diagnostics {
		layers = c.cfg.ValidationLayers
	}
	c.logical, err = BuildLogicalContext(c.selection.Adapter, c.selection.Roles, c.cfg.DeviceExtensions, layers, c.log)
	if err != nil {
		return err
	}

	c.images, err = CreateImageSet(c.logical, c.selection.Support, surface, c.window, c.log)
	return err
}

// Target hands the session's device, queues and images to a renderer.
func (c *Core) Target() Target {
	return &target{logical: c.logical, images: c.images}
}

// Selection reports the adapter chosen for the session.
func (c *Core) Selection() *Selection {
	return c.selection
}

// FrameFunc is called once per loop iteration after events are polled.
type FrameFunc func(t Target) error

// Run polls window events until the window asks to close, ctx is done or
// frame fails, then waits for the device to go idle.
func (c *Core) Run(ctx context.Context, frame FrameFunc) error {
	t := c.Target()
	var err error
	for !c.window.ShouldClose() {
		if err = ctx.Err(); err != nil {
			break
		}
		c.window.PollEvents()
		if frame != nil {
			if err = frame(t); err != nil {
				err = errors.Wrap(err, "frame")
				break
			}
		}
	}
	if c.logical != nil {
		if werr := c.logical.Device.WaitIdle(); werr != nil && err == nil {
			err = errors.Wrap(werr, "wait idle")
		}
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Destroy releases the session in reverse creation order: image views and
// swapchain, device, surface, messenger, instance. It is safe after a
// partial bootstrap and safe to call twice. The window is not owned.
func (c *Core) Destroy() {
	if c.images != nil {
		c.images.Destroy()
		c.images = nil
	}
	if c.logical != nil {
		c.logical.Destroy()
		c.logical = nil
	}
	if c.hasSurface {
		c.instance.DestroySurface(c.surface)
		c.surface, c.hasSurface = vk.NullSurface, false
	}
	if c.messenger != nil {
		c.messenger.Destroy()
		c.messenger = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
	c.log.Debug("session destroyed")
}

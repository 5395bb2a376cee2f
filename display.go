package vkboot

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Display is a GLFW window with no client API, used as the presentation
// target. GLFW calls must stay on the main OS thread.
type Display struct {
	window *glfw.Window
}

// NewDisplay initialises GLFW and opens the window described by cfg.
func NewDisplay(cfg WindowConfig) (*Display, error) {
	if err := glfw.Init(); err != nil {
		return nil, wrapKind(ErrRuntimeInitialization, err, "init glfw")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, kindf(ErrRuntimeInitialization, "glfw reports no vulkan loader")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, wrapKind(ErrRuntimeInitialization, err, "create window")
	}
	return &Display{window: window}, nil
}

// InitLoader points vulkan-go at the loader GLFW found and loads the global
// entry points. Call it after NewDisplay and before NewVulkanRuntime is used.
func InitLoader() error {
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		return wrapKind(ErrRuntimeInitialization, err, "init vulkan loader")
	}
	return nil
}

func (d *Display) RequiredInstanceExtensions() []string {
	return d.window.GetRequiredInstanceExtensions()
}

func (d *Display) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := d.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "create window surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}

func (d *Display) FramebufferSize() (int, int) {
	return d.window.GetFramebufferSize()
}

func (d *Display) PollEvents() {
	glfw.PollEvents()
}

func (d *Display) ShouldClose() bool {
	return d.window.ShouldClose()
}

// Destroy closes the window and shuts GLFW down.
func (d *Display) Destroy() {
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
	glfw.Terminate()
}

package vkboot

import vk "github.com/vulkan-go/vulkan"

// Runtime is the loaded graphics runtime before an instance exists.
type Runtime interface {
	// Layers lists the installed instance layers.
	Layers() ([]string, error)
	// InstanceExtensions lists the instance extensions the loader offers.
	InstanceExtensions() ([]string, error)
	CreateInstance(info *InstanceInfo) (Instance, error)
}

// InstanceInfo is a fully resolved instance request.
type InstanceInfo struct {
	Application Application
	Extensions  []string
	Layers      []string
	Flags       vk.InstanceCreateFlags
}

// Instance is a live runtime context.
type Instance interface {
	Handle() vk.Instance
	// Extensions reports the extensions the instance was created with.
	Extensions() []string
	// Adapters enumerates physical adapters in runtime order.
	Adapters() ([]Adapter, error)
	// AttachMessenger registers sink for runtime diagnostics. It returns
	// ErrDiagnosticsUnavailable when the entry point could not be resolved.
	AttachMessenger(sink DiagnosticSink) (Messenger, error)
	DestroySurface(surface vk.Surface)
	Destroy()
}

// AdapterProperties is the static description of an adapter used for scoring.
type AdapterProperties struct {
	Name                string
	Type                vk.PhysicalDeviceType
	MaxImageDimension2D uint32
	APIVersion          uint32
	// DeviceLocalMemory is the total size of device-local heaps in bytes.
	DeviceLocalMemory uint64
}

func (p AdapterProperties) Discrete() bool {
	return p.Type == vk.PhysicalDeviceTypeDiscreteGpu
}

// QueueFamily is one entry of an adapter's queue family list.
type QueueFamily struct {
	Flags vk.QueueFlags
	Count uint32
}

func (f QueueFamily) Supports(flags vk.QueueFlags) bool {
	return f.Flags&flags == flags
}

// SurfaceSupport is the presentation capability snapshot of an adapter and
// surface pair, taken once and never refreshed.
type SurfaceSupport struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// Adequate reports whether at least one format and one present mode exist.
func (s *SurfaceSupport) Adequate() bool {
	return s != nil && len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// Adapter is a physical adapter as exposed by an Instance.
type Adapter interface {
	Properties() AdapterProperties
	QueueFamilies() []QueueFamily
	SupportsPresent(family uint32, surface vk.Surface) (bool, error)
	Extensions() ([]string, error)
	SurfaceSupport(surface vk.Surface) (*SurfaceSupport, error)
	CreateDevice(info *DeviceInfo) (Device, error)
}

// QueueRequest asks for queues from one family.
type QueueRequest struct {
	Family     uint32
	Priorities []float32
}

// DeviceInfo is a fully resolved logical device request.
type DeviceInfo struct {
	Queues     []QueueRequest
	Extensions []string
	Layers     []string
}

// SwapchainRequest is a fully resolved swapchain request.
type SwapchainRequest struct {
	Surface        vk.Surface
	MinImageCount  uint32
	Format         vk.SurfaceFormat
	Extent         vk.Extent2D
	Usage          vk.ImageUsageFlags
	SharingMode    vk.SharingMode
	QueueFamilies  []uint32
	PreTransform   vk.SurfaceTransformFlagBits
	CompositeAlpha vk.CompositeAlphaFlagBits
	PresentMode    vk.PresentMode
	Clipped        bool
}

// ImageViewRequest describes a view over one presentable image.
type ImageViewRequest struct {
	Image      vk.Image
	ViewType   vk.ImageViewType
	Format     vk.Format
	Components vk.ComponentMapping
	Range      vk.ImageSubresourceRange
}

// Device is a logical device.
type Device interface {
	Handle() vk.Device
	// Queue returns queue 0 of family.
	Queue(family uint32) vk.Queue
	CreateSwapchain(req *SwapchainRequest) (vk.Swapchain, error)
	SwapchainImages(swapchain vk.Swapchain) ([]vk.Image, error)
	DestroySwapchain(swapchain vk.Swapchain)
	CreateImageView(req *ImageViewRequest) (vk.ImageView, error)
	DestroyImageView(view vk.ImageView)
	WaitIdle() error
	Destroy()
}

// Window is the native windowing collaborator.
type Window interface {
	// RequiredInstanceExtensions lists the extensions the window system needs
	// for surface creation.
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
	// FramebufferSize is the drawable size in pixels.
	FramebufferSize() (width, height int)
	PollEvents()
	ShouldClose() bool
}

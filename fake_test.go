package vkboot

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

var lastHandle uintptr = 0x10000

// fakeHandle returns a unique non-nil handle value. Runtime handles point at
// driver memory, so fakes are plain addresses outside the Go heap.
func fakeHandle() unsafe.Pointer {
	return unsafe.Pointer(atomic.AddUintptr(&lastHandle, 0x10))
}

// recorder keeps the order of create and destroy calls across fakes.
type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...interface{}) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) has(event string) bool {
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

type fakeRuntime struct {
	rec *recorder

	layers       []string
	extensions   []string
	createErr    error
	adapters     []Adapter
	adaptersErr  error
	messengerErr error

	info *InstanceInfo
	sink DiagnosticSink
}

func newFakeRuntime(rec *recorder, adapters ...Adapter) *fakeRuntime {
	return &fakeRuntime{
		rec:        rec,
		layers:     []string{KhronosValidationLayer},
		extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface", PortabilityEnumerationExtension, DebugReportExtension},
		adapters:   adapters,
	}
}

func (rt *fakeRuntime) Layers() ([]string, error) { return rt.layers, nil }

func (rt *fakeRuntime) InstanceExtensions() ([]string, error) { return rt.extensions, nil }

func (rt *fakeRuntime) CreateInstance(info *InstanceInfo) (Instance, error) {
	rt.info = info
	if rt.createErr != nil {
		return nil, rt.createErr
	}
	rt.rec.add("create instance")
	return &fakeInstance{rt: rt, handle: vk.Instance(fakeHandle())}, nil
}

type fakeInstance struct {
	rt     *fakeRuntime
	handle vk.Instance
}

func (i *fakeInstance) Handle() vk.Instance { return i.handle }

func (i *fakeInstance) Extensions() []string { return i.rt.info.Extensions }

func (i *fakeInstance) Adapters() ([]Adapter, error) {
	return i.rt.adapters, i.rt.adaptersErr
}

func (i *fakeInstance) AttachMessenger(sink DiagnosticSink) (Messenger, error) {
	if i.rt.messengerErr != nil {
		return nil, i.rt.messengerErr
	}
	i.rt.sink = sink
	i.rt.rec.add("attach messenger")
	return &fakeMessenger{rec: i.rt.rec}, nil
}

func (i *fakeInstance) DestroySurface(vk.Surface) { i.rt.rec.add("destroy surface") }

func (i *fakeInstance) Destroy() { i.rt.rec.add("destroy instance") }

type fakeMessenger struct {
	rec *recorder
}

func (m *fakeMessenger) Destroy() { m.rec.add("destroy messenger") }

type fakeAdapter struct {
	rec *recorder

	props      AdapterProperties
	families   []QueueFamily
	present    map[uint32]bool
	presentErr error
	extensions []string
	support    *SurfaceSupport
	deviceErr  error

	presentQueries []uint32
	deviceInfo     *DeviceInfo
	device         *fakeDevice
	images         int
}

func graphicsFamily() QueueFamily {
	return QueueFamily{Flags: vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit), Count: 16}
}

func transferFamily() QueueFamily {
	return QueueFamily{Flags: vk.QueueFlags(vk.QueueTransferBit), Count: 2}
}

func defaultSupport() *SurfaceSupport {
	return &SurfaceSupport{
		Capabilities: vk.SurfaceCapabilities{
			MinImageCount:    2,
			MaxImageCount:    0,
			CurrentExtent:    vk.Extent2D{Width: 800, Height: 600},
			MinImageExtent:   vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:   vk.Extent2D{Width: 4096, Height: 4096},
			CurrentTransform: vk.SurfaceTransformIdentityBit,
		},
		Formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
	}
}

// newFakeAdapter is a valid adapter with one family doing graphics and
// present.
func newFakeAdapter(rec *recorder, name string, discrete bool, dim uint32) *fakeAdapter {
	typ := vk.PhysicalDeviceTypeIntegratedGpu
	if discrete {
		typ = vk.PhysicalDeviceTypeDiscreteGpu
	}
	return &fakeAdapter{
		rec: rec,
		props: AdapterProperties{
			Name:                name,
			Type:                typ,
			MaxImageDimension2D: dim,
			DeviceLocalMemory:   4 << 30,
		},
		families:   []QueueFamily{graphicsFamily()},
		present:    map[uint32]bool{0: true},
		extensions: []string{SwapchainExtension, "VK_KHR_maintenance1"},
		support:    defaultSupport(),
		images:     3,
	}
}

func (a *fakeAdapter) Properties() AdapterProperties { return a.props }

func (a *fakeAdapter) QueueFamilies() []QueueFamily { return a.families }

func (a *fakeAdapter) SupportsPresent(family uint32, _ vk.Surface) (bool, error) {
	a.presentQueries = append(a.presentQueries, family)
	if a.presentErr != nil {
		return false, a.presentErr
	}
	return a.present[family], nil
}

func (a *fakeAdapter) Extensions() ([]string, error) { return a.extensions, nil }

func (a *fakeAdapter) SurfaceSupport(vk.Surface) (*SurfaceSupport, error) {
	return a.support, nil
}

func (a *fakeAdapter) CreateDevice(info *DeviceInfo) (Device, error) {
	a.deviceInfo = info
	if a.deviceErr != nil {
		return nil, a.deviceErr
	}
	a.rec.add("create device")
	a.device = newFakeDevice(a.rec, a.images)
	return a.device, nil
}

type fakeDevice struct {
	rec *recorder

	images       int
	swapchainErr error
	imagesErr    error
	waitErr      error
	// viewFailAt makes the n-th view creation fail, -1 never.
	viewFailAt int

	handle     vk.Device
	queues     map[uint32]vk.Queue
	swapchain  *SwapchainRequest
	viewsMade  int
	viewsFreed int
}

func newFakeDevice(rec *recorder, images int) *fakeDevice {
	return &fakeDevice{
		rec:        rec,
		images:     images,
		viewFailAt: -1,
		handle:     vk.Device(fakeHandle()),
		queues:     make(map[uint32]vk.Queue),
	}
}

func (d *fakeDevice) Handle() vk.Device { return d.handle }

func (d *fakeDevice) Queue(family uint32) vk.Queue {
	q, ok := d.queues[family]
	if !ok {
		q = vk.Queue(fakeHandle())
		d.queues[family] = q
	}
	return q
}

func (d *fakeDevice) CreateSwapchain(req *SwapchainRequest) (vk.Swapchain, error) {
	d.swapchain = req
	if d.swapchainErr != nil {
		return vk.NullSwapchain, d.swapchainErr
	}
	d.rec.add("create swapchain")
	return vk.Swapchain(fakeHandle()), nil
}

func (d *fakeDevice) SwapchainImages(vk.Swapchain) ([]vk.Image, error) {
	if d.imagesErr != nil {
		return nil, d.imagesErr
	}
	images := make([]vk.Image, d.images)
	for i := range images {
		images[i] = vk.Image(fakeHandle())
	}
	return images, nil
}

func (d *fakeDevice) DestroySwapchain(vk.Swapchain) { d.rec.add("destroy swapchain") }

func (d *fakeDevice) CreateImageView(req *ImageViewRequest) (vk.ImageView, error) {
	if d.viewsMade == d.viewFailAt {
		var none vk.ImageView
		return none, fmt.Errorf("out of device memory")
	}
	d.viewsMade++
	d.rec.add("create view")
	return vk.ImageView(fakeHandle()), nil
}

func (d *fakeDevice) DestroyImageView(vk.ImageView) {
	d.viewsFreed++
	d.rec.add("destroy view")
}

func (d *fakeDevice) WaitIdle() error {
	d.rec.add("wait idle")
	return d.waitErr
}

func (d *fakeDevice) Destroy() { d.rec.add("destroy device") }

type fakeWindow struct {
	rec *recorder

	extensions    []string
	width, height int
	surfaceErr    error
	// closeAfter is the number of polls before ShouldClose turns true.
	closeAfter int
	polls      int
}

func newFakeWindow(rec *recorder) *fakeWindow {
	return &fakeWindow{
		rec:        rec,
		extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
		width:      800,
		height:     600,
		closeAfter: 1,
	}
}

func (w *fakeWindow) RequiredInstanceExtensions() []string { return w.extensions }

func (w *fakeWindow) CreateSurface(vk.Instance) (vk.Surface, error) {
	if w.surfaceErr != nil {
		return vk.NullSurface, w.surfaceErr
	}
	w.rec.add("create surface")
	return vk.Surface(fakeHandle()), nil
}

func (w *fakeWindow) FramebufferSize() (int, int) { return w.width, w.height }

func (w *fakeWindow) PollEvents() { w.polls++ }

func (w *fakeWindow) ShouldClose() bool { return w.polls >= w.closeAfter }

// memorySink collects diagnostics.
type memorySink struct {
	records []string
}

func (s *memorySink) Record(severity Severity, category Category, message string) {
	s.records = append(s.records, severity.String()+"/"+category.String()+": "+message)
}

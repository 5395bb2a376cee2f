package vkboot

import (
	vk "github.com/vulkan-go/vulkan"
)

// vulkanRuntime drives the loaded vulkan-go bindings. The loader must have
// been initialised first, see InitLoader.
type vulkanRuntime struct{}

// NewVulkanRuntime returns the Runtime backed by the system loader.
func NewVulkanRuntime() Runtime {
	return vulkanRuntime{}
}

func (vulkanRuntime) Layers() ([]string, error) {
	return validationLayers()
}

func (vulkanRuntime) InstanceExtensions() ([]string, error) {
	return instanceExtensions()
}

func (vulkanRuntime) CreateInstance(info *InstanceInfo) (Instance, error) {
	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		Flags:                   info.Flags,
		PApplicationInfo:        info.Application.Info(),
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &instance)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	return &vulkanInstance{
		handle:     instance,
		extensions: info.Extensions,
	}, nil
}

type vulkanInstance struct {
	handle     vk.Instance
	extensions []string
}

func (i *vulkanInstance) Handle() vk.Instance { return i.handle }

func (i *vulkanInstance) Extensions() []string { return i.extensions }

func (i *vulkanInstance) Adapters() (adapters []Adapter, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumeratePhysicalDevices(i.handle, &count, nil)
	orPanic(NewError(ret))
	gpus := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(i.handle, &count, gpus)
	orPanic(NewError(ret))
	for _, gpu := range gpus[:count] {
		adapters = append(adapters, newVulkanAdapter(gpu))
	}
	return adapters, nil
}

func (i *vulkanInstance) AttachMessenger(sink DiagnosticSink) (Messenger, error) {
	// The entry point is only loaded when the extension was enabled.
	if !NewExtensionSet(nil, nil, i.extensions).Has(DebugReportExtension) {
		return nil, kindf(ErrDiagnosticsUnavailable, "%s not enabled on the instance", DebugReportExtension)
	}

	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.handle, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       diagnosticReportFlags,
		PfnCallback: reportCallback(sink),
	}, nil, &callback)
	switch ret {
	case vk.Success:
	case vk.ErrorExtensionNotPresent:
		return nil, wrapKind(ErrDiagnosticsUnavailable, NewError(ret), "create debug report callback")
	default:
		return nil, NewError(ret)
	}
	return &reportMessenger{instance: i.handle, callback: callback}, nil
}

func (i *vulkanInstance) DestroySurface(surface vk.Surface) {
	vk.DestroySurface(i.handle, surface, nil)
}

func (i *vulkanInstance) Destroy() {
	if i.handle != nil {
		vk.DestroyInstance(i.handle, nil)
		i.handle = nil
	}
}

type reportMessenger struct {
	instance vk.Instance
	callback vk.DebugReportCallback
}

func (m *reportMessenger) Destroy() {
	if m.callback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(m.instance, m.callback, nil)
		m.callback = vk.NullDebugReportCallback
	}
}

type vulkanAdapter struct {
	gpu        vk.PhysicalDevice
	properties AdapterProperties
	families   []QueueFamily
}

func newVulkanAdapter(gpu vk.PhysicalDevice) *vulkanAdapter {
	a := &vulkanAdapter{gpu: gpu}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()
	props.Limits.Deref()
	a.properties = AdapterProperties{
		Name:                vk.ToString(props.DeviceName[:]),
		Type:                props.DeviceType,
		MaxImageDimension2D: props.Limits.MaxImageDimension2D,
		APIVersion:          props.ApiVersion,
	}

	var memory vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &memory)
	memory.Deref()
	for i := uint32(0); i < memory.MemoryHeapCount; i++ {
		heap := memory.MemoryHeaps[i]
		heap.Deref()
		if heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0 {
			a.properties.DeviceLocalMemory += uint64(heap.Size)
		}
	}

	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	list := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, list)
	for _, family := range list[:count] {
		family.Deref()
		a.families = append(a.families, QueueFamily{
			Flags: family.QueueFlags,
			Count: family.QueueCount,
		})
	}
	return a
}

func (a *vulkanAdapter) Properties() AdapterProperties { return a.properties }

func (a *vulkanAdapter) QueueFamilies() []QueueFamily { return a.families }

func (a *vulkanAdapter) SupportsPresent(family uint32, surface vk.Surface) (bool, error) {
	var supported vk.Bool32
	ret := vk.GetPhysicalDeviceSurfaceSupport(a.gpu, family, surface, &supported)
	if err := NewError(ret); err != nil {
		return false, err
	}
	return supported.B(), nil
}

func (a *vulkanAdapter) Extensions() ([]string, error) {
	return deviceExtensions(a.gpu)
}

func (a *vulkanAdapter) SurfaceSupport(surface vk.Surface) (support *SurfaceSupport, err error) {
	defer checkErr(&err)
	support = &SurfaceSupport{}

	ret := vk.GetPhysicalDeviceSurfaceCapabilities(a.gpu, surface, &support.Capabilities)
	orPanic(NewError(ret))
	support.Capabilities.Deref()
	support.Capabilities.CurrentExtent.Deref()
	support.Capabilities.MinImageExtent.Deref()
	support.Capabilities.MaxImageExtent.Deref()

	var count uint32
	ret = vk.GetPhysicalDeviceSurfaceFormats(a.gpu, surface, &count, nil)
	orPanic(NewError(ret))
	formats := make([]vk.SurfaceFormat, count)
	ret = vk.GetPhysicalDeviceSurfaceFormats(a.gpu, surface, &count, formats)
	orPanic(NewError(ret))
	for i := range formats[:count] {
		formats[i].Deref()
	}
	support.Formats = formats[:count]

	ret = vk.GetPhysicalDeviceSurfacePresentModes(a.gpu, surface, &count, nil)
	orPanic(NewError(ret))
	modes := make([]vk.PresentMode, count)
	ret = vk.GetPhysicalDeviceSurfacePresentModes(a.gpu, surface, &count, modes)
	orPanic(NewError(ret))
	support.PresentModes = modes[:count]
	return support, nil
}

func (a *vulkanAdapter) CreateDevice(info *DeviceInfo) (Device, error) {
	queueInfos := make([]vk.DeviceQueueCreateInfo, 0, len(info.Queues))
	for _, q := range info.Queues {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.Family,
			QueueCount:       uint32(len(q.Priorities)),
			PQueuePriorities: q.Priorities,
		})
	}
	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)

	var device vk.Device
	ret := vk.CreateDevice(a.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &device)
	if err := NewError(ret); err != nil {
		return nil, err
	}
	return &vulkanDevice{handle: device}, nil
}

type vulkanDevice struct {
	handle vk.Device
}

func (d *vulkanDevice) Handle() vk.Device { return d.handle }

func (d *vulkanDevice) Queue(family uint32) vk.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(d.handle, family, 0, &queue)
	return queue
}

func (d *vulkanDevice) CreateSwapchain(req *SwapchainRequest) (vk.Swapchain, error) {
	clipped := vk.Bool32(vk.False)
	if req.Clipped {
		clipped = vk.Bool32(vk.True)
	}
	var swapchain vk.Swapchain
	ret := vk.CreateSwapchain(d.handle, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               req.Surface,
		MinImageCount:         req.MinImageCount,
		ImageFormat:           req.Format.Format,
		ImageColorSpace:       req.Format.ColorSpace,
		ImageExtent:           req.Extent,
		ImageArrayLayers:      1,
		ImageUsage:            req.Usage,
		ImageSharingMode:      req.SharingMode,
		QueueFamilyIndexCount: uint32(len(req.QueueFamilies)),
		PQueueFamilyIndices:   req.QueueFamilies,
		PreTransform:          req.PreTransform,
		CompositeAlpha:        req.CompositeAlpha,
		PresentMode:           req.PresentMode,
		Clipped:               clipped,
		OldSwapchain:          vk.NullSwapchain,
	}, nil, &swapchain)
	if err := NewError(ret); err != nil {
		return vk.NullSwapchain, err
	}
	return swapchain, nil
}

func (d *vulkanDevice) SwapchainImages(swapchain vk.Swapchain) (images []vk.Image, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.GetSwapchainImages(d.handle, swapchain, &count, nil)
	orPanic(NewError(ret))
	images = make([]vk.Image, count)
	ret = vk.GetSwapchainImages(d.handle, swapchain, &count, images)
	orPanic(NewError(ret))
	return images[:count], nil
}

func (d *vulkanDevice) DestroySwapchain(swapchain vk.Swapchain) {
	vk.DestroySwapchain(d.handle, swapchain, nil)
}

func (d *vulkanDevice) CreateImageView(req *ImageViewRequest) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(d.handle, &vk.ImageViewCreateInfo{
		SType:            vk.StructureTypeImageViewCreateInfo,
		Image:            req.Image,
		ViewType:         req.ViewType,
		Format:           req.Format,
		Components:       req.Components,
		SubresourceRange: req.Range,
	}, nil, &view)
	return view, NewError(ret)
}

func (d *vulkanDevice) DestroyImageView(view vk.ImageView) {
	vk.DestroyImageView(d.handle, view, nil)
}

func (d *vulkanDevice) WaitIdle() error {
	return NewError(vk.DeviceWaitIdle(d.handle))
}

func (d *vulkanDevice) Destroy() {
	if d.handle != nil {
		vk.DestroyDevice(d.handle, nil)
		d.handle = nil
	}
}

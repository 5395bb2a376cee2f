package vkboot

import (
	"log/slog"

	vk "github.com/vulkan-go/vulkan"
)

// ChooseSurfaceFormat prefers 8-bit BGRA sRGB with the nonlinear sRGB color
// space and otherwise takes the first offered format. formats must not be
// empty.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, format := range formats {
		if format.Format == vk.FormatB8g8r8a8Srgb && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format
		}
	}
	return formats[0]
}

// ChoosePresentMode takes mailbox when offered and FIFO otherwise. FIFO is
// guaranteed by the runtime and returned even when not listed.
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}
	return vk.PresentModeFifo
}

// ChooseExtent uses the surface's current extent unless it carries the
// "decided by the swapchain" sentinel, in which case the framebuffer size is
// clamped into the supported range.
func ChooseExtent(caps vk.SurfaceCapabilities, width, height int) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clamp(uint32(max(width, 0)), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(uint32(max(height, 0)), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ImageCount asks for one image above the minimum, capped by the maximum
// when the surface sets one (zero means unbounded).
func ImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// SharingFor picks concurrent sharing across both families when graphics and
// present differ, exclusive ownership with no family list otherwise.
func SharingFor(roles QueueRoles) (vk.SharingMode, []uint32) {
	if roles.Separate() {
		return vk.SharingModeConcurrent, []uint32{roles.Graphics(), roles.Present()}
	}
	return vk.SharingModeExclusive, nil
}

// NewSwapchainRequest assembles the swapchain request: color attachment
// usage, one layer, current transform, opaque alpha, clipped.
func NewSwapchainRequest(surface vk.Surface, caps vk.SurfaceCapabilities, format vk.SurfaceFormat,
	mode vk.PresentMode, extent vk.Extent2D, roles QueueRoles) *SwapchainRequest {

	sharing, families := SharingFor(roles)
	return &SwapchainRequest{
		Surface:        surface,
		MinImageCount:  ImageCount(caps),
		Format:         format,
		Extent:         extent,
		Usage:          vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		SharingMode:    sharing,
		QueueFamilies:  families,
		PreTransform:   caps.CurrentTransform,
		CompositeAlpha: vk.CompositeAlphaOpaqueBit,
		PresentMode:    mode,
		Clipped:        true,
	}
}

// NewImageViewRequest describes a 2D identity-swizzle color view covering
// one mip level and one layer.
func NewImageViewRequest(image vk.Image, format vk.Format) *ImageViewRequest {
	return &ImageViewRequest{
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		Range: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
}

// SwapImageSet is the swapchain with its presentable images and one view
// per image, in the same order.
type SwapImageSet struct {
	device Device

	Swapchain   vk.Swapchain
	Format      vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extent      vk.Extent2D
	Images      []vk.Image
	Views       []vk.ImageView
}

// CreateImageSet configures and creates the swapchain from the capability
// snapshot in support, then creates one view per returned image. The image
// count is whatever the runtime actually returned.
func CreateImageSet(lc *LogicalContext, support *SurfaceSupport, surface vk.Surface, window Window, log *slog.Logger) (*SwapImageSet, error) {
	log = loggerOrDefault(log)
	if !support.Adequate() {
		return nil, kindf(ErrSwapchainCreation, "surface support snapshot is empty")
	}

	caps := support.Capabilities
	format := ChooseSurfaceFormat(support.Formats)
	mode := ChoosePresentMode(support.PresentModes)
	width, height := window.FramebufferSize()
	extent := ChooseExtent(caps, width, height)

	req := NewSwapchainRequest(surface, caps, format, mode, extent, lc.Roles)
	swapchain, err := lc.Device.CreateSwapchain(req)
	if err != nil {
		return nil, wrapKind(ErrSwapchainCreation, err, "create swapchain")
	}

	set := &SwapImageSet{
		device:      lc.Device,
		Swapchain:   swapchain,
		Format:      format,
		PresentMode: mode,
		Extent:      extent,
	}
	set.Images, err = lc.Device.SwapchainImages(swapchain)
	if err != nil {
		set.Destroy()
		return nil, wrapKind(ErrSwapchainCreation, err, "get swapchain images")
	}
	set.Views, err = CreateImageViews(lc.Device, set.Images, format.Format)
	if err != nil {
		set.Destroy()
		return nil, err
	}

	log.Info("swapchain created",
		"format", format.Format,
		"color_space", format.ColorSpace,
		"present_mode", mode,
		"extent", [2]uint32{extent.Width, extent.Height},
		"requested_images", req.MinImageCount,
		"images", len(set.Images),
		"sharing", req.SharingMode)
	return set, nil
}

// CreateImageViews creates one view per image in order. On failure the views
// created so far are released and nothing is returned.
func CreateImageViews(device Device, images []vk.Image, format vk.Format) ([]vk.ImageView, error) {
	views := make([]vk.ImageView, 0, len(images))
	for i, image := range images {
		view, err := device.CreateImageView(NewImageViewRequest(image, format))
		if err != nil {
			for _, v := range views {
				device.DestroyImageView(v)
			}
			return nil, wrapKind(ErrImageViewCreation, err, "image view %d", i)
		}
		views = append(views, view)
	}
	return views, nil
}

// Destroy releases the views and then the swapchain.
func (s *SwapImageSet) Destroy() {
	if s == nil || s.device == nil {
		return
	}
	for _, view := range s.Views {
		s.device.DestroyImageView(view)
	}
	s.Views = nil
	s.device.DestroySwapchain(s.Swapchain)
	s.Swapchain = vk.NullSwapchain
	s.Images = nil
	s.device = nil
}

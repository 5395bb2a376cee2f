package vkboot

import (
	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"
)

// Target is what a rendering pipeline receives once the session is up. It
// stays valid until the session is destroyed.
type Target interface {
	// Device gets the logical device.
	Device() vk.Device
	// GraphicsQueue gets the queue used for rendering.
	GraphicsQueue() vk.Queue
	// PresentQueue gets the queue used for presentation. It equals
	// GraphicsQueue when both roles share a family.
	PresentQueue() vk.Queue
	GraphicsQueueFamilyIndex() uint32
	PresentQueueFamilyIndex() uint32
	// HasSeparatePresentQueue is true when the present family differs from
	// the graphics family.
	HasSeparatePresentQueue() bool
	// Format is the pixel format of the presentable images.
	Format() vk.Format
	Extent() vk.Extent2D
	Images() []vk.Image
	ImageViews() []vk.ImageView
	// Viewport and Scissor cover the full extent.
	Viewport() vk.Viewport
	Scissor() vk.Rect2D
	// Projection is a perspective projection in Vulkan clip space sized to
	// the extent.
	Projection(fovy, near, far float32) lin.Mat4x4
}

type target struct {
	logical *LogicalContext
	images  *SwapImageSet
}

func (t *target) Device() vk.Device {
	return t.logical.Device.Handle()
}

func (t *target) GraphicsQueue() vk.Queue {
	return t.logical.GraphicsQueue
}

func (t *target) PresentQueue() vk.Queue {
	return t.logical.PresentQueue
}

func (t *target) GraphicsQueueFamilyIndex() uint32 {
	return t.logical.Roles.Graphics()
}

func (t *target) PresentQueueFamilyIndex() uint32 {
	return t.logical.Roles.Present()
}

func (t *target) HasSeparatePresentQueue() bool {
	return t.logical.Roles.Separate()
}

func (t *target) Format() vk.Format {
	return t.images.Format.Format
}

func (t *target) Extent() vk.Extent2D {
	return t.images.Extent
}

func (t *target) Images() []vk.Image {
	return t.images.Images
}

func (t *target) ImageViews() []vk.ImageView {
	return t.images.Views
}

func (t *target) Viewport() vk.Viewport {
	return vk.Viewport{
		Width:    float32(t.images.Extent.Width),
		Height:   float32(t.images.Extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
}

func (t *target) Scissor() vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{},
		Extent: t.images.Extent,
	}
}

func (t *target) Projection(fovy, near, far float32) lin.Mat4x4 {
	return PerspectiveFor(t.images.Extent.Width, t.images.Extent.Height, fovy, near, far)
}

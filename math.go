package vkboot

import (
	lin "github.com/xlab/linmath"
)

// VulkanProjectionMat converts a GL style projection matrix to Vulkan clip
// space: Y points down and depth is [0, 1] instead of [-1, 1].
func VulkanProjectionMat(m *lin.Mat4x4, proj *lin.Mat4x4) {
	var clip lin.Mat4x4
	clip.Identity()
	// X = -1, Y = -1 is top left in Vulkan.
	clip[1][1] = -1.0
	// z' = z/2 + w/2
	clip[2][2] = 0.5
	clip[3][2] = 0.5
	m.Mult(&clip, proj)
}

// AspectRatio of an extent, 1 when the height is zero.
func AspectRatio(width, height uint32) float32 {
	if height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// PerspectiveFor builds a Vulkan clip-space perspective projection for a
// swapchain of the given size. fovy is in radians.
func PerspectiveFor(width, height uint32, fovy, near, far float32) lin.Mat4x4 {
	var proj, m lin.Mat4x4
	proj.Perspective(fovy, AspectRatio(width, height), near, far)
	VulkanProjectionMat(&m, &proj)
	return m
}

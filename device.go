package vkboot

import (
	"log/slog"

	vk "github.com/vulkan-go/vulkan"
)

// LogicalContext is the logical device opened on the selected adapter with
// one queue handle per role. Roles sharing a family share the handle.
type LogicalContext struct {
	Device        Device
	Roles         QueueRoles
	GraphicsQueue vk.Queue
	PresentQueue  vk.Queue
	Extensions    []string

	log *slog.Logger
}

// QueueRequests asks for exactly one queue at priority 1.0 from each
// distinct family in roles.
func QueueRequests(roles QueueRoles) []QueueRequest {
	families := roles.UniqueFamilies()
	requests := make([]QueueRequest, 0, len(families))
	for _, family := range families {
		requests = append(requests, QueueRequest{
			Family:     family,
			Priorities: []float32{1.0},
		})
	}
	return requests
}

// BuildLogicalContext opens the logical device with the required extensions
// and fetches queue 0 of each role's family. Layers are passed for
// implementations that still honor device layers.
func BuildLogicalContext(adapter Adapter, roles QueueRoles, extensions, layers []string, log *slog.Logger) (*LogicalContext, error) {
	log = loggerOrDefault(log)
	if !roles.Complete() {
		return nil, kindf(ErrDeviceCreation, "queue roles incomplete, missing %v", roles.Missing())
	}

	info := &DeviceInfo{
		Queues:     QueueRequests(roles),
		Extensions: extensions,
		Layers:     layers,
	}
	device, err := adapter.CreateDevice(info)
	if err != nil {
		return nil, wrapKind(ErrDeviceCreation, err, "create device")
	}
	log.Info("logical device created",
		"queue_families", len(info.Queues),
		"extensions", extensions)

	return &LogicalContext{
		Device:        device,
		Roles:         roles,
		GraphicsQueue: device.Queue(roles.Graphics()),
		PresentQueue:  device.Queue(roles.Present()),
		Extensions:    extensions,
		log:           log,
	}, nil
}

// Destroy waits for the device to go idle and releases it. A failed wait is
// logged and the device is released anyway.
func (lc *LogicalContext) Destroy() {
	if lc == nil || lc.Device == nil {
		return
	}
	if err := lc.Device.WaitIdle(); err != nil {
		loggerOrDefault(lc.log).Warn("device wait idle failed", "error", err)
	}
	lc.Device.Destroy()
	lc.Device = nil
}

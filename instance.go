package vkboot

import (
	"log/slog"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// enumeratePortabilityBit is VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR.
const enumeratePortabilityBit = vk.InstanceCreateFlags(0x00000001)

// RequiredInstanceExtensions collects the window system's surface
// extensions, the portability extension and, with diagnostics on, the
// diagnostic extension. Duplicates are dropped, order is kept.
func RequiredInstanceExtensions(cfg *Config, window Window) []string {
	var required []string
	required = append(required, window.RequiredInstanceExtensions()...)
	if cfg.PortabilityExtension != "" {
		required = append(required, cfg.PortabilityExtension)
	}
	if cfg.Diagnostics {
		required = append(required, cfg.DiagnosticExtension)
	}
	return NewExtensionSet(nil, required, nil).Extensions()
}

// CheckValidationLayers fails with ErrConfiguration naming every requested
// layer the runtime does not have.
func CheckValidationLayers(rt Runtime, layers []string) error {
	available, err := rt.Layers()
	if err != nil {
		return wrapKind(ErrRuntimeInitialization, err, "list layers")
	}
	if ok, missing := NewExtensionSet(nil, layers, available).HasRequired(); !ok {
		return kindf(ErrConfiguration, "validation layers requested but not available: %v", missing)
	}
	return nil
}

// CreateContext creates the runtime instance. With diagnostics on, the
// validation layers must all be present first.
func CreateContext(rt Runtime, cfg *Config, window Window, log *slog.Logger) (Instance, error) {
	log = loggerOrDefault(log)

	var layers []string
	if cfg.Diagnostics {
		if err := CheckValidationLayers(rt, cfg.ValidationLayers); err != nil {
			return nil, err
		}
		layers = cfg.ValidationLayers
	}

	extensions := RequiredInstanceExtensions(cfg, window)
	if available, err := rt.InstanceExtensions(); err == nil {
		if ok, missing := NewExtensionSet(nil, extensions, available).HasRequired(); !ok {
			log.Warn("requested instance extensions not offered", "missing", missing)
		}
	} else {
		log.Warn("could not list instance extensions", "err", err)
	}

	var flags vk.InstanceCreateFlags
	if cfg.PortabilityExtension != "" {
		flags |= enumeratePortabilityBit
	}

	inst, err := rt.CreateInstance(&InstanceInfo{
		Application: cfg.Application,
		Extensions:  extensions,
		Layers:      layers,
		Flags:       flags,
	})
	if err != nil {
		return nil, wrapKind(ErrRuntimeInitialization, err, "create instance")
	}
	log.Info("instance created",
		"application", cfg.Application.Name,
		"api", cfg.Application.APIVersion.String(),
		"extensions", extensions,
		"layers", layers)

	if available, err := rt.InstanceExtensions(); err == nil {
		log.Debug("available instance extensions", "count", len(available), "names", available)
	}
	return inst, nil
}

// AttachDiagnosticSink registers sink when diagnostics are on. A runtime
// without the diagnostic entry point gets a no-op messenger; that is logged,
// never fatal.
func AttachDiagnosticSink(inst Instance, cfg *Config, sink DiagnosticSink, log *slog.Logger) Messenger {
	log = loggerOrDefault(log)
	if !cfg.Diagnostics {
		return nopMessenger{}
	}
	messenger, err := inst.AttachMessenger(sink)
	switch {
	case errors.Is(err, ErrDiagnosticsUnavailable):
		log.Warn("diagnostic messenger unavailable", "extension", cfg.DiagnosticExtension)
		return nopMessenger{}
	case err != nil:
		log.Warn("diagnostic messenger registration failed", "err", err)
		return nopMessenger{}
	}
	log.Debug("diagnostic messenger attached", "extension", cfg.DiagnosticExtension)
	return messenger
}

package vkboot

import (
	"bytes"
	"os"

	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

const (
	KhronosValidationLayer          = "VK_LAYER_KHRONOS_validation"
	DebugReportExtension            = "VK_EXT_debug_report"
	PortabilityEnumerationExtension = "VK_KHR_portability_enumeration"
	SwapchainExtension              = "VK_KHR_swapchain"
)

// WindowConfig sizes the native window the session presents into.
type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File, when set, receives log output instead of stderr.
	File string `toml:"file"`
}

// Config holds everything the bootstrap reads. It is cloned on entry and
// never mutated afterwards.
type Config struct {
	Application Application  `toml:"application"`
	Window      WindowConfig `toml:"window"`
	Log         LogConfig    `toml:"log"`

	// Diagnostics enables validation layers and the diagnostic sink.
	Diagnostics         bool     `toml:"diagnostics"`
	ValidationLayers    []string `toml:"validation_layers"`
	DiagnosticExtension string   `toml:"diagnostic_extension"`

	// PortabilityExtension, when set, is requested together with the
	// enumerate-portability instance flag.
	PortabilityExtension string   `toml:"portability_extension"`
	DeviceExtensions     []string `toml:"device_extensions"`
}

func DefaultConfig() *Config {
	return &Config{
		Application: Application{
			Name:          "Triangle",
			EngineName:    "No Engine",
			Version:       Version{1, 0, 0},
			EngineVersion: Version{1, 0, 0},
			APIVersion:    Version{1, 0, 0},
		},
		Window: WindowConfig{
			Title:  "Triangle",
			Width:  800,
			Height: 600,
		},
		Log: LogConfig{
			Level: "info",
		},
		ValidationLayers:     []string{KhronosValidationLayer},
		DiagnosticExtension:  DebugReportExtension,
		PortabilityExtension: PortabilityEnumerationExtension,
		DeviceExtensions:     []string{SwapchainExtension},
	}
}

// LoadConfig decodes a TOML file over DefaultConfig. Keys the Config does
// not know are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapKind(ErrConfiguration, err, "read %s", path)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, wrapKind(ErrConfiguration, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy, so later edits to c do not reach a session
// already built from it.
func (c *Config) Clone() (*Config, error) {
	var out Config
	if err := copier.CopyWithOption(&out, c, copier.Option{DeepCopy: true}); err != nil {
		return nil, wrapKind(ErrConfiguration, err, "clone config")
	}
	return &out, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Application.Name == "":
		return kindf(ErrConfiguration, "application name is empty")
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return kindf(ErrConfiguration, "window size %dx%d is not positive", c.Window.Width, c.Window.Height)
	case len(c.DeviceExtensions) == 0:
		return kindf(ErrConfiguration, "no device extensions requested")
	}
	if c.Diagnostics {
		if len(c.ValidationLayers) == 0 {
			return kindf(ErrConfiguration, "diagnostics enabled without validation layers")
		}
		switch c.DiagnosticExtension {
		case DebugReportExtension:
		case "":
			return kindf(ErrConfiguration, "diagnostics enabled without a diagnostic extension")
		default:
			return kindf(ErrConfiguration, "diagnostic extension %q not supported, use %s",
				c.DiagnosticExtension, DebugReportExtension)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// WriteConfig encodes c as TOML.
func WriteConfig(path string, c *Config) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}

package vkboot

import (
	"context"
	"log/slog"
	"strings"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Severity of a runtime diagnostic message.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Level maps the severity onto a slog level.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityVerbose:
		return slog.LevelDebug
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Category is a bitset of message categories.
type Category uint32

const (
	CategoryGeneral Category = 1 << iota
	CategoryCorrectness
	CategoryPerformance
)

func (c Category) String() string {
	var parts []string
	if c&CategoryGeneral != 0 {
		parts = append(parts, "general")
	}
	if c&CategoryCorrectness != 0 {
		parts = append(parts, "correctness")
	}
	if c&CategoryPerformance != 0 {
		parts = append(parts, "performance")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// DiagnosticSink receives messages from the runtime's validation machinery.
type DiagnosticSink interface {
	Record(severity Severity, category Category, message string)
}

// LogSink writes diagnostics to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Record(severity Severity, category Category, message string) {
	loggerOrDefault(s.Logger).Log(context.Background(), severity.Level(),
		"validation layer: "+message,
		"severity", severity.String(),
		"category", category.String())
}

// Messenger is a registered diagnostic channel.
type Messenger interface {
	Destroy()
}

type nopMessenger struct{}

func (nopMessenger) Destroy() {}

// diagnosticReportFlags subscribes to every report kind.
const diagnosticReportFlags = vk.DebugReportFlags(vk.DebugReportInformationBit |
	vk.DebugReportWarningBit |
	vk.DebugReportPerformanceWarningBit |
	vk.DebugReportErrorBit |
	vk.DebugReportDebugBit)

// classifyReport maps debug report flags onto a severity and category. The
// most severe bit wins.
func classifyReport(flags vk.DebugReportFlags) (Severity, Category) {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return SeverityError, CategoryCorrectness
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return SeverityWarning, CategoryPerformance
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return SeverityWarning, CategoryCorrectness
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return SeverityInfo, CategoryGeneral
	}
	return SeverityVerbose, CategoryGeneral
}

// reportCallback adapts sink to the runtime's callback signature. Returning
// false lets the triggering call proceed.
func reportCallback(sink DiagnosticSink) vk.DebugReportCallbackFunc {
	return func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
		object uint64, location uint, messageCode int32, pLayerPrefix string,
		pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

		severity, category := classifyReport(flags)
		sink.Record(severity, category, pMessage)
		return vk.Bool32(vk.False)
	}
}

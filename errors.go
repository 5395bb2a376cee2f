package vkboot

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Error kinds surfaced by the bootstrap. Every error returned by this package
// wraps exactly one of them, so callers classify with errors.Is.
var (
	ErrConfiguration          = errors.New("configuration error")
	ErrRuntimeInitialization  = errors.New("runtime initialization error")
	ErrNoAdapter              = errors.New("no adapter")
	ErrNoSuitableAdapter      = errors.New("no suitable adapter")
	ErrDeviceCreation         = errors.New("device creation error")
	ErrSwapchainCreation      = errors.New("swapchain creation error")
	ErrImageViewCreation      = errors.New("image view creation error")
	ErrSurfaceCreation        = errors.New("surface creation error")
	ErrDiagnosticsUnavailable = errors.New("diagnostics unavailable")
)

// kindError attaches a kind to an underlying cause while keeping both
// reachable through errors.Is.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error { return e.cause }

// Cause lets errors.Cause stop at the kind boundary.
func (e *kindError) Cause() error { return e.cause }

// kindf builds an error of the given kind with a formatted message.
func kindf(kind error, format string, args ...interface{}) error {
	return &kindError{kind: kind, cause: errors.Errorf(format, args...)}
}

// wrapKind tags err with kind and prefixes the message. A nil err stays nil.
func wrapKind(kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, cause: errors.Wrapf(err, format, args...)}
}

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError converts a runtime result code into an error, nil on success.
func NewError(ret vk.Result) error {
	if !isError(ret) {
		return nil
	}
	return errors.Errorf("vulkan error: %s (%d)", vk.Error(ret).Error(), ret)
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
			return
		}
		*err = fmt.Errorf("%+v", v)
	}
}

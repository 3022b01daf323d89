package core

import (
	"errors"
	"fmt"
)

var (
	ErrSwapchainBooting = errors.New("swapchain resized or recreated, booting")
	ErrContextReleased  = errors.New("capability context used after its callback returned")
	ErrContextLive      = errors.New("another capability context is still live")
)

// ConfigurationError reports an invalid startup request. It is always fatal.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %s", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// BackendError wraps a failure of the graphics backend, e.g. device
// negotiation, frame acquisition or pipeline construction.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend: %s: %s", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

type ResourceKind uint8

const (
	ResourceSheet ResourceKind = iota
	ResourceBatch
	ResourceFont
	ResourceAsset
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceSheet:
		return "sheet"
	case ResourceBatch:
		return "batch"
	case ResourceFont:
		return "font"
	case ResourceAsset:
		return "asset"
	default:
		return "unknown"
	}
}

// ResourceError is returned to the callback that asked for a resource.
type ResourceError struct {
	Kind ResourceKind
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s: %s", e.Kind, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

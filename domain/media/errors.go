package media

import (
	"errors"
	"fmt"
)

// ErrorKind classifies acquisition failures.
type ErrorKind int

const (
	KindPermissionDenied ErrorKind = iota + 1
	KindDeviceUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission_denied"
	case KindDeviceUnavailable:
		return "device_unavailable"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against *Error values.
var (
	ErrPermissionDenied  = errors.New("media: permission denied")
	ErrDeviceUnavailable = errors.New("media: device unavailable")
)

// User-facing texts for acquisition failures.
const (
	MsgPermissionDenied  = "Camera access denied. Please enable camera permissions and try again."
	MsgDeviceUnavailable = "No camera found. Please connect a camera and try again."
)

// Error reports why a stream could not be acquired.
type Error struct {
	Kind   ErrorKind
	Device string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("media: %s (%s)", e.Kind, e.Device)
	}
	return fmt.Sprintf("media: %s (%s): %v", e.Kind, e.Device, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel that corresponds to the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrPermissionDenied:
		return e.Kind == KindPermissionDenied
	case ErrDeviceUnavailable:
		return e.Kind == KindDeviceUnavailable
	}
	return false
}

// UserMessage returns the text shown to the user for an acquisition error.
func (e *Error) UserMessage() string {
	if e.Kind == KindPermissionDenied {
		return MsgPermissionDenied
	}
	return MsgDeviceUnavailable
}

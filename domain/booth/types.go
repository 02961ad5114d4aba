package booth

import (
	"context"
	"errors"
	"fmt"

	"github.com/soocke/selfie-booth-go/domain/filter"
	"github.com/soocke/selfie-booth-go/domain/media"
	"github.com/soocke/selfie-booth-go/domain/raster"
	"github.com/soocke/selfie-booth-go/domain/upload"
)

// State enumerates the booth flow.
type State int

const (
	StateReady State = iota
	StateCaptured
	StateUploading
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateCaptured:
		return "captured"
	case StateUploading:
		return "uploading"
	default:
		return "unknown"
	}
}

// Listener is called on the controller goroutine after each transition.
type Listener func(prev, next State)

// Uploader submits an encoded still. *upload.Client satisfies it.
type Uploader interface {
	Submit(ctx context.Context, payloadOrDataURI string) (upload.Result, error)
}

// Result is the outcome of the most recent submission.
type Result struct {
	Success bool
	Message string
	PostURL string
	Kind    ErrorKind
}

// Snapshot is a copy of the controller state for presenters.
type Snapshot struct {
	State     State
	Filter    filter.Kind
	Still     raster.Still
	Result    *Result
	LastError error
	HasStream bool
}

// SuccessMessage is shown after the endpoint accepts a still.
const SuccessMessage = "Posted to Bluesky!"

const (
	MsgFrameNotReady   = "Camera not ready. Please wait a moment and try again."
	MsgPayloadTooLarge = "Image is too large. Please try again."
)

var (
	ErrFrameNotReady     = errors.New("booth: frame not ready")
	ErrFilterFrozen      = errors.New("booth: filter can only change while ready")
	ErrUnknownFilter     = errors.New("booth: unknown filter")
	ErrNoStill           = errors.New("booth: no captured still")
	ErrInvalidTransition = errors.New("booth: invalid transition")
	ErrClosed            = errors.New("booth: closed")

	// ErrDeviceUnavailable is returned by Capture when no stream is attached.
	ErrDeviceUnavailable = media.ErrDeviceUnavailable
)

// TransitionError reports an operation attempted in a state that forbids it.
type TransitionError struct {
	From State
	Op   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("booth: cannot %s while %s", e.Op, e.From)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// ErrorKind classifies every error the controller surfaces.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindPermissionDenied
	KindDeviceUnavailable
	KindFrameNotReady
	KindPayloadTooLarge
	KindNetworkFailure
	KindServerRejected
	KindInvalidTransition
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPermissionDenied:
		return "permission_denied"
	case KindDeviceUnavailable:
		return "device_unavailable"
	case KindFrameNotReady:
		return "frame_not_ready"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindNetworkFailure:
		return "network_failure"
	case KindServerRejected:
		return "server_rejected"
	case KindInvalidTransition:
		return "invalid_transition"
	default:
		return "unknown"
	}
}

// KindOf maps err to its ErrorKind. A nil error is KindNone.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, media.ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, media.ErrDeviceUnavailable):
		return KindDeviceUnavailable
	case errors.Is(err, ErrFrameNotReady):
		return KindFrameNotReady
	case errors.Is(err, upload.ErrPayloadTooLarge):
		return KindPayloadTooLarge
	case errors.Is(err, upload.ErrNetworkFailure):
		return KindNetworkFailure
	case errors.Is(err, upload.ErrServerRejected):
		return KindServerRejected
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrFilterFrozen), errors.Is(err, ErrNoStill):
		return KindInvalidTransition
	default:
		return KindUnknown
	}
}

// UserMessage renders err as the text shown in the booth window.
func UserMessage(err error) string {
	var ue *upload.Error
	switch KindOf(err) {
	case KindNone:
		return ""
	case KindPermissionDenied:
		return media.MsgPermissionDenied
	case KindDeviceUnavailable:
		return media.MsgDeviceUnavailable
	case KindFrameNotReady:
		return MsgFrameNotReady
	case KindPayloadTooLarge:
		return MsgPayloadTooLarge
	case KindServerRejected:
		msg := upload.DefaultRejectMessage
		if errors.As(err, &ue) && ue.Message != "" {
			msg = ue.Message
		}
		return "Error: " + msg
	case KindNetworkFailure:
		msg := err.Error()
		if errors.As(err, &ue) && ue.Message != "" {
			msg = ue.Message
		}
		return "Upload failed: " + msg
	default:
		return err.Error()
	}
}

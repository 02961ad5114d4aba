package upload

import (
	"errors"
	"fmt"
)

// Kind classifies a failed submission.
type Kind int

const (
	KindPayloadTooLarge Kind = iota + 1
	KindServerRejected
	KindNetworkFailure
)

func (k Kind) String() string {
	switch k {
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindServerRejected:
		return "server_rejected"
	case KindNetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

var (
	ErrPayloadTooLarge = errors.New("upload: payload too large")
	ErrServerRejected  = errors.New("upload: rejected by server")
	ErrNetworkFailure  = errors.New("upload: network failure")
)

// DefaultRejectMessage is used when the server declines without a reason.
const DefaultRejectMessage = "Upload failed"

// Error is returned by Client.Submit. Message is the text meant for the
// user: the server's reason for KindServerRejected, the transport error
// text for KindNetworkFailure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload: %s", e.Kind)
	}
	return fmt.Sprintf("upload: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrPayloadTooLarge:
		return e.Kind == KindPayloadTooLarge
	case ErrServerRejected:
		return e.Kind == KindServerRejected
	case ErrNetworkFailure:
		return e.Kind == KindNetworkFailure
	}
	return false
}

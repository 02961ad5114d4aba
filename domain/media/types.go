// Package media acquires live video streams and owns their lifecycle.
//
// A Stream publishes only its most recent frame; consumers sample it at their
// own cadence and never see a queue of old frames.
package media

import (
	"context"
	"image"
	"time"
)

// Facing selects which camera to prefer on devices with more than one.
type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// Constraints describe the stream a caller would like. Width and height are
// hints; the device may deliver something else.
type Constraints struct {
	Facing      Facing
	IdealWidth  int
	IdealHeight int
	// DeviceID selects a device explicitly. Negative means pick by Facing.
	DeviceID int
}

// DefaultConstraints requests the front camera at 1280x720.
func DefaultConstraints() Constraints {
	return Constraints{Facing: FacingUser, IdealWidth: 1280, IdealHeight: 720, DeviceID: -1}
}

// deviceIndex resolves the device to open.
func (c Constraints) deviceIndex() int {
	if c.DeviceID >= 0 {
		return c.DeviceID
	}
	if c.Facing == FacingEnvironment {
		return 1
	}
	return 0
}

// Frame carries the latest captured image and metadata. The Image must be
// treated as read-only; it may be shared with other readers.
type Frame struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Empty reports whether no frame has arrived yet.
func (f Frame) Empty() bool { return f.Image == nil }

// Stats summarises stream behaviour for instrumentation.
type Stats struct {
	Captures       uint64
	Skipped        uint64
	AvgGrab        time.Duration
	LastCapture    time.Time
	LatestFrameAge time.Duration
	Sequence       uint64
}

// Stream is a live, exclusively owned video feed.
type Stream interface {
	// Latest returns the freshest frame, or an empty Frame while warming up.
	Latest() Frame
	// Size reports frame dimensions once the first frame has arrived.
	Size() (w, h int, ok bool)
	// Active reports whether the stream is still delivering frames.
	Active() bool
	// Stats returns capture counters.
	Stats() Stats
	// Close stops every track and releases the device. It is idempotent.
	Close() error
}

// Acquirer opens streams matching constraints.
type Acquirer interface {
	Acquire(ctx context.Context, c Constraints) (Stream, error)
}

// Release closes s if it is non-nil. Safe on already released streams.
func Release(s Stream) error {
	if s == nil {
		return nil
	}
	return s.Close()
}

package media

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/vova616/screenshot"
)

// DefaultScreenInterval is the polling period of the screen source.
const DefaultScreenInterval = 50 * time.Millisecond

// ScreenAcquirer streams the primary screen. It stands in for a camera on
// machines without one. Facing and ideal dimensions are ignored; when the
// ideal size is smaller than the screen, a centred region of that size is
// grabbed instead.
type ScreenAcquirer struct {
	Logger   *slog.Logger
	Interval time.Duration
}

// NewScreenAcquirer returns an acquirer polling at interval.
func NewScreenAcquirer(logger *slog.Logger, interval time.Duration) *ScreenAcquirer {
	if interval <= 0 {
		interval = DefaultScreenInterval
	}
	return &ScreenAcquirer{Logger: logger, Interval: interval}
}

func (a *ScreenAcquirer) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Kind: KindDeviceUnavailable, Device: "screen", Err: err}
	}
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, &Error{Kind: KindDeviceUnavailable, Device: "screen", Err: err}
	}
	if screen.Empty() {
		return nil, &Error{Kind: KindDeviceUnavailable, Device: "screen", Err: fmt.Errorf("empty screen rect %v", screen)}
	}
	region := screenRegion(screen, c.IdealWidth, c.IdealHeight)
	if a.Logger != nil {
		a.Logger.Info("screen acquired", "screen", screen.String(), "region", region.String())
	}
	grab := func() (*image.RGBA, error) {
		if region.Eq(screen) {
			return screenshot.CaptureScreen()
		}
		return screenshot.CaptureRect(region)
	}
	return NewStream("screen", grab, nil, a.Interval, a.Logger), nil
}

// screenRegion centres a w x h region inside screen, falling back to the
// whole screen when the hint is absent or larger.
func screenRegion(screen image.Rectangle, w, h int) image.Rectangle {
	if w <= 0 || h <= 0 || w >= screen.Dx() || h >= screen.Dy() {
		return screen
	}
	x := screen.Min.X + (screen.Dx()-w)/2
	y := screen.Min.Y + (screen.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

package media

import (
	"image"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const streamStatsLogInterval = 5 * time.Second

// Grab failures back off exponentially up to maxGrabBackoff. After
// maxGrabFailures in a row the device is treated as gone and the stream
// goes inactive.
const (
	maxGrabFailures = 10
	maxGrabBackoff  = 250 * time.Millisecond
)

// GrabFunc returns the next frame from a device. Returning a nil image with
// a nil error counts as a skipped frame.
type GrabFunc func() (*image.RGBA, error)

// loopStream runs a grab loop on its own goroutine and publishes the latest
// frame. It backs every Stream implementation in this package.
type loopStream struct {
	name     string
	grab     GrabFunc
	release  func() error
	interval time.Duration
	logger   *slog.Logger

	running    atomic.Bool
	latest     atomic.Pointer[Frame]
	captures   atomic.Uint64
	skipped    atomic.Uint64
	grabNanos  atomic.Uint64
	sequence   atomic.Uint64
	done       chan struct{}
	exited     chan struct{}
	closeOnce  sync.Once
	releaseErr error
}

// NewStream starts a stream that calls grab in a loop, sleeping interval
// between grabs. release is invoked once after the loop has exited. Backends
// use it; tests use it to build streams over synthetic frames.
func NewStream(name string, grab GrabFunc, release func() error, interval time.Duration, logger *slog.Logger) Stream {
	s := &loopStream{
		name:     name,
		grab:     grab,
		release:  release,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	s.running.Store(true)
	go s.loop()
	return s
}

func (s *loopStream) Latest() Frame {
	f := s.latest.Load()
	if f == nil {
		return Frame{}
	}
	return *f
}

func (s *loopStream) Size() (int, int, bool) {
	f := s.latest.Load()
	if f == nil || f.Image == nil {
		return 0, 0, false
	}
	b := f.Image.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 0, 0, false
	}
	return b.Dx(), b.Dy(), true
}

func (s *loopStream) Active() bool { return s.running.Load() }

func (s *loopStream) Stats() Stats {
	captures := s.captures.Load()
	total := s.grabNanos.Load()
	var avg time.Duration
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
	}
	frame := s.Latest()
	age := time.Duration(0)
	if !frame.CapturedAt.IsZero() {
		age = time.Since(frame.CapturedAt)
	}
	return Stats{
		Captures:       captures,
		Skipped:        s.skipped.Load(),
		AvgGrab:        avg,
		LastCapture:    frame.CapturedAt,
		LatestFrameAge: age,
		Sequence:       frame.Sequence,
	}
}

// Close stops the grab loop, waits for it to exit and releases the device.
func (s *loopStream) Close() error {
	s.closeOnce.Do(func() {
		s.running.Store(false)
		close(s.done)
		<-s.exited
		if s.release != nil {
			s.releaseErr = s.release()
		}
		if s.logger != nil {
			s.logger.Info("stream released", "stream", s.name, "captures", s.captures.Load())
		}
	})
	return s.releaseErr
}

func (s *loopStream) loop() {
	defer close(s.exited)
	defer func() {
		if r := recover(); r != nil {
			s.running.Store(false)
			if s.logger != nil {
				s.logger.Error("stream panic", "stream", s.name, "error", r, "stack", string(debug.Stack()))
			}
		}
	}()
	logTicker := time.NewTicker(streamStatsLogInterval)
	defer logTicker.Stop()
	base := max(s.interval, time.Millisecond)
	backoff := base
	failures := 0
	for {
		select {
		case <-s.done:
			return
		default:
		}

		start := time.Now()
		img, err := s.grab()
		if err != nil {
			failures++
			s.skipped.Add(1)
			if failures >= maxGrabFailures {
				s.running.Store(false)
				if s.logger != nil {
					s.logger.Error("stream lost", "stream", s.name, "failures", failures, "error", err)
				}
				return
			}
			if failures == 1 && s.logger != nil {
				s.logger.Warn("stream grab", "stream", s.name, "error", err)
			}
			if !s.sleep(backoff) {
				return
			}
			backoff = min(backoff*2, maxGrabBackoff)
			continue
		}
		failures, backoff = 0, base
		if img == nil || img.Rect.Empty() {
			s.skipped.Add(1)
			if !s.sleep(max(s.interval, time.Millisecond)) {
				return
			}
			continue
		}

		s.grabNanos.Add(uint64(time.Since(start).Nanoseconds()))
		s.captures.Add(1)
		seq := s.sequence.Add(1)
		s.latest.Store(&Frame{Image: img, CapturedAt: time.Now(), Sequence: seq})

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}

		if s.interval > 0 && !s.sleep(s.interval) {
			return
		}
	}
}

// sleep waits d or until the stream is closed. It reports false on close.
func (s *loopStream) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-s.done:
		return false
	}
}

func (s *loopStream) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("stream.stats",
		"stream", s.name,
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_grab", stats.AvgGrab,
		"age", stats.LatestFrameAge,
	)
}

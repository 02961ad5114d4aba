// Package booth drives the capture flow: filter selection while the live
// preview runs, capture of a filtered still, retake and submission.
package booth

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/soocke/selfie-booth-go/domain/filter"
	"github.com/soocke/selfie-booth-go/domain/media"
	"github.com/soocke/selfie-booth-go/domain/raster"
	"github.com/soocke/selfie-booth-go/domain/upload"
)

// Options tunes capture and submission.
type Options struct {
	Constraints     media.Constraints
	MaxEdge         int
	JPEGQuality     int
	MaxPayloadBytes int
	UploadTimeout   time.Duration
}

// DefaultOptions mirrors the booth defaults.
func DefaultOptions() Options {
	return Options{
		Constraints:     media.DefaultConstraints(),
		MaxEdge:         raster.DefaultMaxEdge,
		JPEGQuality:     raster.DefaultJPEGQuality,
		MaxPayloadBytes: upload.DefaultMaxPayloadBytes,
	}
}

// Controller owns the flow state. All state is mutated on one goroutine;
// public methods post events to it and wait for the reply when the caller
// needs an error.
type Controller struct {
	logger   *slog.Logger
	acquirer media.Acquirer
	uploader Uploader
	opts     Options

	// loop-owned
	state        State
	filter       filter.Kind
	still        raster.Still
	result       *Result
	lastErr      error
	stream       media.Stream
	scratch      *raster.Surface
	listeners    []Listener
	uploadSeq    uint64
	uploadCancel context.CancelFunc

	// published copy, readable from any goroutine
	mu   sync.RWMutex
	pub  Snapshot
	pubS media.Stream

	events    chan interface{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewController starts the event loop in StateReady with no stream. Call
// Open to acquire one.
func NewController(logger *slog.Logger, acq media.Acquirer, up Uploader, opts Options) *Controller {
	c := &Controller{
		logger:   logger,
		acquirer: acq,
		uploader: up,
		opts:     opts,
		state:    StateReady,
		filter:   filter.None,
		scratch:  &raster.Surface{},
		events:   make(chan interface{}, 64),
		stopped:  make(chan struct{}),
	}
	c.publish()
	go func() {
		defer close(c.stopped)
		defer func() {
			if r := recover(); r != nil {
				if logger != nil {
					logger.Error("booth panic", "error", r, "stack", string(debug.Stack()))
				}
				c.releaseStream()
			}
		}()
		c.loop()
	}()
	return c
}

// events
type (
	evtAddListener struct{ l Listener }
	evtAttach      struct {
		stream media.Stream
		err    error
		reply  chan error
	}
	evtSelect struct {
		kind  filter.Kind
		reply chan error
	}
	evtCapture struct{ reply chan error }
	evtRetake  struct{ reply chan error }
	evtSubmit  struct {
		ctx   context.Context
		reply chan error
	}
	evtUploadDone struct {
		seq uint64
		res upload.Result
		err error
	}
	evtReset struct{ reply chan resetReply }
	evtClose struct{ reply chan error }
)

type resetReply struct {
	needStream bool
	err        error
}

func (c *Controller) loop() {
	for ev := range c.events {
		switch e := ev.(type) {
		case evtAddListener:
			c.listeners = append(c.listeners, e.l)
			e.l(c.state, c.state)
		case evtAttach:
			e.reply <- c.handleAttach(e.stream, e.err)
		case evtSelect:
			e.reply <- c.handleSelect(e.kind)
		case evtCapture:
			e.reply <- c.handleCapture()
		case evtRetake:
			e.reply <- c.handleRetake()
		case evtSubmit:
			e.reply <- c.handleSubmit(e.ctx)
		case evtUploadDone:
			c.handleUploadDone(e)
		case evtReset:
			e.reply <- c.handleReset()
		case evtClose:
			if c.uploadCancel != nil {
				c.uploadCancel()
				c.uploadCancel = nil
			}
			e.reply <- c.releaseStream()
			c.publish()
			return
		}
		c.publish()
	}
}

func (c *Controller) transition(next State) {
	prev := c.state
	if prev == next {
		return
	}
	c.state = next
	if c.logger != nil {
		c.logger.Debug("booth state transition", "from", prev.String(), "to", next.String())
	}
	c.publish()
	for _, l := range c.listeners {
		l(prev, next)
	}
}

func (c *Controller) publish() {
	var res *Result
	if c.result != nil {
		r := *c.result
		res = &r
	}
	c.mu.Lock()
	c.pub = Snapshot{
		State:     c.state,
		Filter:    c.filter,
		Still:     c.still,
		Result:    res,
		LastError: c.lastErr,
		HasStream: c.stream != nil && c.stream.Active(),
	}
	c.pubS = c.stream
	c.mu.Unlock()
}

func (c *Controller) handleAttach(s media.Stream, err error) error {
	if err != nil {
		c.lastErr = err
		if c.logger != nil {
			c.logger.Error("stream acquire", "kind", KindOf(err).String(), "error", err)
		}
		return err
	}
	if c.stream != nil && c.stream.Active() {
		// lost a race with another Open
		_ = media.Release(s)
		return nil
	}
	_ = media.Release(c.stream)
	c.stream = s
	c.lastErr = nil
	return nil
}

func (c *Controller) handleSelect(kind filter.Kind) error {
	if !kind.Valid() {
		return ErrUnknownFilter
	}
	if c.state != StateReady {
		return ErrFilterFrozen
	}
	if c.filter != kind && c.logger != nil {
		c.logger.Debug("filter selected", "filter", kind.String())
	}
	c.filter = kind
	return nil
}

func (c *Controller) handleCapture() error {
	if c.state != StateReady {
		return &TransitionError{From: c.state, Op: "capture"}
	}
	if c.stream == nil || !c.stream.Active() {
		c.lastErr = &media.Error{Kind: media.KindDeviceUnavailable, Device: "stream"}
		return c.lastErr
	}
	if _, _, ok := c.stream.Size(); !ok {
		c.lastErr = ErrFrameNotReady
		return ErrFrameNotReady
	}
	frame := c.stream.Latest()
	if frame.Empty() {
		c.lastErr = ErrFrameNotReady
		return ErrFrameNotReady
	}
	still, err := raster.Bake(c.scratch, frame.Image, c.filter, raster.BakeOptions{
		MaxEdge: c.opts.MaxEdge,
		Quality: c.opts.JPEGQuality,
	})
	if err != nil {
		c.lastErr = err
		if c.logger != nil {
			c.logger.Error("capture bake", "error", err)
		}
		return err
	}
	w, h := still.Bounds()
	if c.logger != nil {
		c.logger.Info("still captured", "filter", c.filter.String(), "width", w, "height", h,
			"bytes", still.Len(), "sequence", frame.Sequence)
	}
	c.still = still
	c.result = nil
	c.lastErr = nil
	c.transition(StateCaptured)
	return nil
}

func (c *Controller) handleRetake() error {
	if c.state != StateCaptured {
		return &TransitionError{From: c.state, Op: "retake"}
	}
	c.still = raster.Still{}
	c.result = nil
	c.lastErr = nil
	c.transition(StateReady)
	return nil
}

func (c *Controller) handleSubmit(ctx context.Context) error {
	if c.state != StateCaptured {
		return &TransitionError{From: c.state, Op: "submit"}
	}
	if c.still.Empty() {
		return ErrNoStill
	}
	payload := c.still.DataURI()
	if err := upload.CheckSize(payload, c.opts.MaxPayloadBytes); err != nil {
		c.lastErr = err
		if c.logger != nil {
			c.logger.Warn("submit blocked", "error", err)
		}
		return err
	}
	if c.uploader == nil {
		c.lastErr = &upload.Error{Kind: upload.KindNetworkFailure, Message: "no uploader configured"}
		return c.lastErr
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var cancel context.CancelFunc
	if c.opts.UploadTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.opts.UploadTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	c.uploadSeq++
	seq := c.uploadSeq
	c.uploadCancel = cancel
	c.result = nil
	c.lastErr = nil
	c.transition(StateUploading)

	up := c.uploader
	go func() {
		defer cancel()
		defer func() {
			// a failed upload must still hand the booth back to Captured
			if r := recover(); r != nil {
				if c.logger != nil {
					c.logger.Error("upload goroutine panic", "error", r, "stack", string(debug.Stack()))
				}
				c.post(evtUploadDone{seq: seq, err: &upload.Error{
					Kind:    upload.KindNetworkFailure,
					Message: fmt.Sprint(r),
				}})
			}
		}()
		res, err := up.Submit(ctx, payload)
		c.post(evtUploadDone{seq: seq, res: res, err: err})
	}()
	return nil
}

func (c *Controller) handleUploadDone(e evtUploadDone) {
	if c.state != StateUploading || e.seq != c.uploadSeq {
		return
	}
	c.uploadCancel = nil
	if e.err != nil {
		c.result = &Result{Message: UserMessage(e.err), Kind: KindOf(e.err)}
		c.lastErr = e.err
		if c.logger != nil {
			c.logger.Warn("upload failed", "kind", c.result.Kind.String(), "error", e.err)
		}
	} else {
		c.result = &Result{Success: true, Message: SuccessMessage, PostURL: e.res.PostURL}
		c.lastErr = nil
		if c.logger != nil {
			c.logger.Info("upload succeeded", "post_url", e.res.PostURL, "request_id", e.res.RequestID)
		}
	}
	c.transition(StateCaptured)
}

func (c *Controller) handleReset() resetReply {
	if c.state == StateUploading {
		return resetReply{err: &TransitionError{From: c.state, Op: "reset"}}
	}
	c.still = raster.Still{}
	c.result = nil
	c.lastErr = nil
	c.filter = filter.None
	c.transition(StateReady)
	return resetReply{needStream: c.stream == nil || !c.stream.Active()}
}

func (c *Controller) releaseStream() error {
	s := c.stream
	c.stream = nil
	return media.Release(s)
}

// post enqueues ev unless the loop has stopped.
func (c *Controller) post(ev interface{}) bool {
	select {
	case <-c.stopped:
		return false
	default:
	}
	select {
	case c.events <- ev:
		return true
	case <-c.stopped:
		return false
	}
}

func await[T any](c *Controller, reply chan T, zero T) (T, bool) {
	select {
	case v := <-reply:
		return v, true
	case <-c.stopped:
		// the loop may have answered just before stopping
		select {
		case v := <-reply:
			return v, true
		default:
			return zero, false
		}
	}
}

func (c *Controller) call(ev interface{}, reply chan error) error {
	if !c.post(ev) {
		return ErrClosed
	}
	err, ok := await(c, reply, ErrClosed)
	if !ok {
		return ErrClosed
	}
	return err
}

// AddListener registers l. It is called once right away with the current
// state as both prev and next, then after every transition.
func (c *Controller) AddListener(l Listener) {
	if l != nil {
		c.post(evtAddListener{l: l})
	}
}

// Open acquires a stream with the configured constraints unless one is
// already attached. A failure leaves the booth in Ready with LastError set.
func (c *Controller) Open(ctx context.Context) error {
	if s := c.Stream(); s != nil && s.Active() {
		return nil
	}
	if c.acquirer == nil {
		err := &media.Error{Kind: media.KindDeviceUnavailable, Device: "none"}
		reply := make(chan error, 1)
		return c.call(evtAttach{err: err, reply: reply}, reply)
	}
	select {
	case <-c.stopped:
		return ErrClosed
	default:
	}
	s, err := c.acquirer.Acquire(ctx, c.opts.Constraints)
	reply := make(chan error, 1)
	err = c.call(evtAttach{stream: s, err: err, reply: reply}, reply)
	if err == ErrClosed {
		_ = media.Release(s)
	}
	return err
}

// SelectFilter changes the filter used by the preview and the next capture.
func (c *Controller) SelectFilter(kind filter.Kind) error {
	reply := make(chan error, 1)
	return c.call(evtSelect{kind: kind, reply: reply}, reply)
}

// Capture bakes the selected filter into a still of the latest frame.
func (c *Controller) Capture() error {
	reply := make(chan error, 1)
	return c.call(evtCapture{reply: reply}, reply)
}

// Retake discards the still and returns to the live preview.
func (c *Controller) Retake() error {
	reply := make(chan error, 1)
	return c.call(evtRetake{reply: reply}, reply)
}

// Submit starts an asynchronous upload of the still. It returns once the
// upload is launched; the outcome arrives as a transition back to Captured
// with Snapshot().Result set.
func (c *Controller) Submit(ctx context.Context) error {
	reply := make(chan error, 1)
	return c.call(evtSubmit{ctx: ctx, reply: reply}, reply)
}

// Reset clears the session back to Ready with the default filter and
// re-acquires the stream if it was lost.
func (c *Controller) Reset(ctx context.Context) error {
	reply := make(chan resetReply, 1)
	if !c.post(evtReset{reply: reply}) {
		return ErrClosed
	}
	r, ok := await(c, reply, resetReply{err: ErrClosed})
	if !ok {
		return ErrClosed
	}
	if r.err != nil {
		return r.err
	}
	if r.needStream {
		return c.Open(ctx)
	}
	return nil
}

// Close cancels a pending upload, releases the stream and stops the loop.
// Calls after the first return nil.
func (c *Controller) Close() error {
	var err error
	c.closeOnce.Do(func() {
		reply := make(chan error, 1)
		if !c.post(evtClose{reply: reply}) {
			return
		}
		err, _ = await(c, reply, error(nil))
		<-c.stopped
	})
	return err
}

// Current returns the flow state.
func (c *Controller) Current() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pub.State
}

// Snapshot returns a copy of the published state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pub
}

// Stream returns the attached stream, or nil. It never blocks on the loop.
func (c *Controller) Stream() media.Stream {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pubS
}

// SelectedFilter returns the current filter. It never blocks on the loop.
func (c *Controller) SelectedFilter() filter.Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pub.Filter
}

// Done is closed once the controller has released its stream and stopped.
func (c *Controller) Done() <-chan struct{} { return c.stopped }

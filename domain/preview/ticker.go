package preview

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/soocke/selfie-booth-go/domain/booth"
	"github.com/soocke/selfie-booth-go/domain/filter"
	"github.com/soocke/selfie-booth-go/domain/media"
)

// DefaultInterval is the preview cadence.
const DefaultInterval = 200 * time.Millisecond

// Source exposes what a tick needs from the controller. Stream and
// SelectedFilter must not block; they are called from the ticker goroutine
// while the controller may be delivering a state change that stops it.
// Done is closed once the source has released its stream for good; a nil
// channel means never.
type Source interface {
	Stream() media.Stream
	SelectedFilter() filter.Kind
	Done() <-chan struct{}
}

// Ticker runs Renderer.RenderOnce on a fixed cadence while the booth is
// Ready. Ticks that fall behind are dropped, not queued.
type Ticker struct {
	Renderer *Renderer
	Source   Source
	Logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	done    chan struct{}
	exited  chan struct{}
}

// NewTicker returns a stopped ticker. A non-positive interval selects
// DefaultInterval.
func NewTicker(r *Renderer, src Source, interval time.Duration, logger *slog.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{Renderer: r, Source: src, Logger: logger, interval: interval}
}

// Interval returns the tick period.
func (t *Ticker) Interval() time.Duration { return t.interval }

// OnState is registered as a booth listener. It starts ticking on entry to
// Ready and stops on every other state.
func (t *Ticker) OnState(prev, next booth.State) {
	if t == nil {
		return
	}
	if next == booth.StateReady {
		t.Start()
		return
	}
	t.Stop()
}

// Running reports whether the tick goroutine is live.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Start launches the tick goroutine. It is a no-op when already running.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.done = make(chan struct{})
	t.exited = make(chan struct{})
	t.running = true
	var srcDone <-chan struct{}
	if t.Source != nil {
		srcDone = t.Source.Done()
	}
	go t.loop(t.done, srcDone, t.exited)
}

// Stop ends the tick goroutine and waits for it, so no tick runs after Stop
// returns. It is a no-op when stopped. The goroutine also ends on its own
// when the source's Done channel closes.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	close(t.done)
	exited := t.exited
	t.running = false
	t.mu.Unlock()
	<-exited
}

func (t *Ticker) loop(done chan struct{}, srcDone <-chan struct{}, exited chan<- struct{}) {
	defer close(exited)
	defer func() {
		if r := recover(); r != nil && t.Logger != nil {
			t.Logger.Error("preview panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-done:
			return
		case <-srcDone:
			t.mu.Lock()
			if t.done == done {
				t.running = false
			}
			t.mu.Unlock()
			if t.Logger != nil {
				t.Logger.Debug("preview source closed, ticker stopped")
			}
			return
		case <-tk.C:
			// a tick racing with Stop must not paint
			select {
			case <-done:
				return
			default:
			}
			t.tick()
		}
	}
}

func (t *Ticker) tick() {
	if t.Renderer == nil || t.Source == nil {
		return
	}
	err := t.Renderer.RenderOnce(t.Source.Stream(), t.Source.SelectedFilter())
	if err != nil && !errors.Is(err, ErrSkipped) && t.Logger != nil {
		t.Logger.Error("preview render", "error", err)
	}
}

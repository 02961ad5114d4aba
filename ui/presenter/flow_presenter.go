package presenter

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/selfie-booth-go/domain/booth"
	"github.com/soocke/selfie-booth-go/domain/filter"
	"github.com/soocke/selfie-booth-go/ui/model"
)

// FlowSource provides the controller state the presenter reflects.
type FlowSource interface {
	Snapshot() booth.Snapshot
}

// Controls lists which user actions are currently allowed.
type Controls struct {
	Capture bool
	Retake  bool
	Submit  bool
	Reset   bool
	Filters bool
}

// ControlsFor derives the allowed actions from a snapshot.
func ControlsFor(s booth.Snapshot) Controls {
	switch s.State {
	case booth.StateReady:
		return Controls{Capture: s.HasStream, Reset: true, Filters: true}
	case booth.StateCaptured:
		return Controls{Retake: true, Submit: !s.Still.Empty(), Reset: true}
	default:
		return Controls{}
	}
}

// FlowView renders the flow state.
type FlowView interface {
	SetStateLabel(text string)
	SetControls(c Controls)
	ShowStill(img image.Image)
	ShowLive()
	SetResult(text, postURL string, success bool)
	SetAlert(text string)
	SetSelectedFilter(kind filter.Kind)
	SetConfigEditable(enabled bool)
}

// transition is a queued state change. For an upload finishing, outcome
// holds the result published with it.
type transition struct {
	prev, next booth.State
	outcome    *booth.Result
}

// FlowPresenter receives controller transitions and mirrors the latest
// snapshot into the view on each Tick.
type FlowPresenter struct {
	src     FlowSource
	view    FlowView
	session *model.SessionModel
	logger  *slog.Logger

	mu      sync.Mutex
	pending []transition

	started    bool
	latest     booth.State
	controls   Controls
	filter     filter.Kind
	result     *booth.Result
	lastErr    error
	stillShown bool
}

func NewFlowPresenter(src FlowSource, view FlowView, session *model.SessionModel, logger *slog.Logger) *FlowPresenter {
	return &FlowPresenter{src: src, view: view, session: session, logger: logger}
}

// OnState queues a transition. It is registered as a controller listener
// and so runs on the controller goroutine.
func (p *FlowPresenter) OnState(prev, next booth.State) {
	if p == nil || prev == next {
		return
	}
	t := transition{prev: prev, next: next}
	if prev == booth.StateUploading && p.src != nil {
		// the controller publishes before notifying, so this is the result
		// of the upload that just finished
		t.outcome = p.src.Snapshot().Result
	}
	p.mu.Lock()
	p.pending = append(p.pending, t)
	p.mu.Unlock()
}

// Tick processes queued transitions and updates the view from the latest
// snapshot. It must run on the Tk thread.
func (p *FlowPresenter) Tick(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	queued := p.pending
	p.pending = nil
	p.mu.Unlock()
	refresh := !p.started
	for _, t := range queued {
		p.count(t)
		if t.prev == booth.StateReady {
			// a new still replaced whatever was shown
			p.stillShown = false
			refresh = true
		}
	}

	snap := p.src.Snapshot()
	if refresh || snap.State != p.latest {
		p.started = true
		p.latest = snap.State
		p.view.SetStateLabel("State: " + snap.State.String())
		p.view.SetConfigEditable(snap.State == booth.StateReady)
		p.showMedia(snap)
	}
	if c := ControlsFor(snap); c != p.controls || len(queued) > 0 {
		p.controls = c
		p.view.SetControls(c)
	}
	if snap.Filter != p.filter || len(queued) > 0 {
		p.filter = snap.Filter
		p.view.SetSelectedFilter(snap.Filter)
	}
	if !sameResult(snap.Result, p.result) {
		p.result = snap.Result
		if snap.Result == nil {
			p.view.SetResult("", "", false)
		} else {
			p.view.SetResult(snap.Result.Message, snap.Result.PostURL, snap.Result.Success)
		}
	}
	if snap.LastError != p.lastErr {
		p.lastErr = snap.LastError
		p.view.SetAlert(booth.UserMessage(snap.LastError))
	}
}

func (p *FlowPresenter) showMedia(snap booth.Snapshot) {
	if snap.State == booth.StateReady || snap.Still.Empty() {
		if p.stillShown || snap.State == booth.StateReady {
			p.view.ShowLive()
			p.stillShown = false
		}
		return
	}
	if p.stillShown {
		return
	}
	img, err := snap.Still.Decode()
	if err != nil {
		if p.logger != nil {
			p.logger.Error("still decode", "error", err)
		}
		return
	}
	p.view.ShowStill(img)
	p.stillShown = true
}

func (p *FlowPresenter) count(t transition) {
	if p.session == nil {
		return
	}
	switch {
	case t.prev == booth.StateReady && t.next == booth.StateCaptured:
		p.session.RecordCapture()
	case t.prev == booth.StateUploading && t.next == booth.StateCaptured:
		if t.outcome != nil {
			p.session.RecordUpload(t.outcome.Success)
		}
	}
}

func sameResult(a, b *booth.Result) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

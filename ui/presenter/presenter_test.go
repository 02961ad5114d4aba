package presenter

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/soocke/selfie-booth-go/domain/booth"
	"github.com/soocke/selfie-booth-go/domain/filter"
	"github.com/soocke/selfie-booth-go/domain/raster"
	"github.com/soocke/selfie-booth-go/domain/upload"
	"github.com/soocke/selfie-booth-go/ui/model"
)

type mockSource struct{ snap booth.Snapshot }

func (m *mockSource) Snapshot() booth.Snapshot { return m.snap }

type mockFlowView struct {
	labels        []string
	controls      Controls
	controlCalls  int
	stills, lives int
	resultText    string
	resultURL     string
	success       bool
	alert         string
	alerts        int
	filter        filter.Kind
	editable      bool
}

func (v *mockFlowView) SetStateLabel(text string)       { v.labels = append(v.labels, text) }
func (v *mockFlowView) SetControls(c Controls)          { v.controls = c; v.controlCalls++ }
func (v *mockFlowView) ShowStill(img image.Image)       { v.stills++ }
func (v *mockFlowView) ShowLive()                       { v.lives++ }
func (v *mockFlowView) SetAlert(text string)            { v.alert = text; v.alerts++ }
func (v *mockFlowView) SetSelectedFilter(k filter.Kind) { v.filter = k }
func (v *mockFlowView) SetConfigEditable(b bool)        { v.editable = b }
func (v *mockFlowView) SetResult(text, url string, ok bool) {
	v.resultText, v.resultURL, v.success = text, url, ok
}

func testStill(t *testing.T) raster.Still {
	t.Helper()
	s, err := raster.EncodeJPEG(image.NewRGBA(image.Rect(0, 0, 4, 4)), 80)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return s
}

func TestFlowPresenter_ReflectsTransitions(t *testing.T) {
	src := &mockSource{snap: booth.Snapshot{State: booth.StateReady, HasStream: true}}
	view := &mockFlowView{}
	sess := model.NewSessionModel()
	p := NewFlowPresenter(src, view, sess, nil)

	p.Tick(time.Now())
	if len(view.labels) != 1 || view.labels[0] != "State: ready" {
		t.Fatalf("unexpected labels %v", view.labels)
	}
	if !view.controls.Capture || !view.controls.Filters || view.controls.Submit || !view.editable || view.lives != 1 {
		t.Fatalf("unexpected ready view state %+v editable=%v", view.controls, view.editable)
	}

	src.snap = booth.Snapshot{State: booth.StateCaptured, Filter: filter.Invert, Still: testStill(t), HasStream: true}
	p.OnState(booth.StateReady, booth.StateCaptured)
	p.Tick(time.Now())
	if view.labels[len(view.labels)-1] != "State: captured" || view.stills != 1 {
		t.Fatalf("captured not shown: labels=%v stills=%d", view.labels, view.stills)
	}
	if view.controls.Capture || view.controls.Filters || !view.controls.Submit || !view.controls.Retake || view.editable {
		t.Fatalf("unexpected captured controls %+v", view.controls)
	}
	if view.filter != filter.Invert {
		t.Fatalf("filter not reflected")
	}
	if c, _, _ := sess.Counts(); c != 1 {
		t.Fatalf("capture not counted")
	}

	src.snap.State = booth.StateUploading
	p.OnState(booth.StateCaptured, booth.StateUploading)
	p.Tick(time.Now())
	if view.controls != (Controls{}) {
		t.Fatalf("expected every control disabled while uploading, got %+v", view.controls)
	}
	if view.stills != 1 {
		t.Fatalf("still must not be re-decoded while uploading")
	}

	src.snap.State = booth.StateCaptured
	src.snap.Result = &booth.Result{Success: true, Message: booth.SuccessMessage, PostURL: "https://example/post/1"}
	p.OnState(booth.StateUploading, booth.StateCaptured)
	p.Tick(time.Now())
	if !view.success || view.resultText != booth.SuccessMessage || view.resultURL != "https://example/post/1" {
		t.Fatalf("unexpected result %q %q %v", view.resultText, view.resultURL, view.success)
	}
	if _, u, _ := sess.Counts(); u != 1 {
		t.Fatalf("upload not counted")
	}
}

func TestFlowPresenter_CountsEachUploadOutcome(t *testing.T) {
	src := &mockSource{snap: booth.Snapshot{State: booth.StateCaptured, Still: testStill(t), HasStream: true}}
	sess := model.NewSessionModel()
	p := NewFlowPresenter(src, &mockFlowView{}, sess, nil)

	// two uploads finish before the UI ticks
	src.snap.Result = &booth.Result{Success: true, Message: booth.SuccessMessage}
	p.OnState(booth.StateUploading, booth.StateCaptured)
	p.OnState(booth.StateCaptured, booth.StateUploading)
	src.snap.State = booth.StateCaptured
	src.snap.Result = &booth.Result{Message: "Error: boom", Kind: booth.KindServerRejected}
	p.OnState(booth.StateUploading, booth.StateCaptured)
	p.Tick(time.Now())

	if _, u, f := sess.Counts(); u != 1 || f != 1 {
		t.Fatalf("expected one success and one failure, got uploads=%d failures=%d", u, f)
	}
}

func TestFlowPresenter_AlertFollowsLastError(t *testing.T) {
	src := &mockSource{snap: booth.Snapshot{State: booth.StateReady}}
	view := &mockFlowView{}
	p := NewFlowPresenter(src, view, nil, nil)
	p.Tick(time.Now())
	if view.alerts != 0 {
		t.Fatalf("no alert expected")
	}
	src.snap.LastError = booth.ErrFrameNotReady
	p.Tick(time.Now())
	p.Tick(time.Now())
	if view.alerts != 1 || view.alert != booth.MsgFrameNotReady {
		t.Fatalf("unexpected alert %q (%d)", view.alert, view.alerts)
	}
	src.snap.LastError = nil
	p.Tick(time.Now())
	if view.alert != "" {
		t.Fatalf("alert should clear")
	}
}

type mockControl struct {
	opened, captured, retaken, submitted, reset int
	selected                                    filter.Kind
	err                                         error
}

func (m *mockControl) Open(ctx context.Context) error   { m.opened++; return nil }
func (m *mockControl) SelectFilter(k filter.Kind) error { m.selected = k; return m.err }
func (m *mockControl) Capture() error                   { m.captured++; return m.err }
func (m *mockControl) Retake() error                    { m.retaken++; return m.err }
func (m *mockControl) Submit(ctx context.Context) error { m.submitted++; return m.err }
func (m *mockControl) Reset(ctx context.Context) error  { m.reset++; return nil }

type mockAlert struct{ text string }

func (a *mockAlert) SetAlert(text string) { a.text = text }

func TestBoothPresenter_ForwardsActions(t *testing.T) {
	ctl := &mockControl{}
	alert := &mockAlert{}
	p := NewBoothPresenter(context.Background(), ctl, alert, nil)
	p.async = func(f func()) { f() }

	p.Open()
	p.SelectFilter(filter.Posterize)
	p.Capture()
	p.Retake()
	p.Submit()
	p.Reset()
	if ctl.opened != 1 || ctl.selected != filter.Posterize || ctl.captured != 1 || ctl.retaken != 1 || ctl.submitted != 1 || ctl.reset != 1 {
		t.Fatalf("actions not forwarded: %+v", ctl)
	}
	if alert.text != "" {
		t.Fatalf("no alert expected, got %q", alert.text)
	}
}

func TestBoothPresenter_AlertsOnRefusal(t *testing.T) {
	ctl := &mockControl{err: &upload.Error{Kind: upload.KindPayloadTooLarge}}
	alert := &mockAlert{}
	p := NewBoothPresenter(context.Background(), ctl, alert, nil)
	p.Submit()
	if alert.text != booth.MsgPayloadTooLarge {
		t.Fatalf("unexpected alert %q", alert.text)
	}
	ctl.err = booth.ErrFrameNotReady
	p.Capture()
	if alert.text != booth.MsgFrameNotReady {
		t.Fatalf("unexpected alert %q", alert.text)
	}
	ctl.err = errors.New("odd")
	p.Retake()
	if alert.text != "odd" {
		t.Fatalf("unexpected alert %q", alert.text)
	}
}

type mockPreviewView struct {
	previews int
	thumbs   map[filter.Kind]int
}

func (v *mockPreviewView) UpdatePreview(img image.Image) { v.previews++ }
func (v *mockPreviewView) UpdateThumbnail(k filter.Kind, img image.Image) {
	if v.thumbs == nil {
		v.thumbs = map[filter.Kind]int{}
	}
	v.thumbs[k]++
}

func TestPreviewPresenter_DropsPreviewWhenNotLive(t *testing.T) {
	src := model.NewPreviewModel()
	view := &mockPreviewView{}
	live := true
	p := NewPreviewPresenter(src, view, func() bool { return live })

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.PresentPreview(img)
	src.PresentThumbnail(filter.Sepia, img)
	p.ProcessFrame()
	if view.previews != 1 || view.thumbs[filter.Sepia] != 1 {
		t.Fatalf("expected preview and thumbnail, got %d %v", view.previews, view.thumbs)
	}
	p.ProcessFrame()
	if view.previews != 1 {
		t.Fatalf("unchanged frame must not be pushed again")
	}

	live = false
	src.PresentPreview(img)
	p.ProcessFrame()
	if view.previews != 1 {
		t.Fatalf("preview pushed while not live")
	}
}

type mockSessionView struct {
	session, total time.Duration
	captures       int
}

func (v *mockSessionView) SetSession(s, t time.Duration) { v.session, v.total = s, t }
func (v *mockSessionView) SetCounts(c, u, f int)         { v.captures = c }

func TestLoop_TicksPresentersAndReschedules(t *testing.T) {
	sess := model.NewSessionModel()
	sv := &mockSessionView{}
	scheduled := 0
	loop := NewLoop(nil, nil, NewSessionPresenter(sess, func() bool { return true }, sv), func() { scheduled++ })
	loop.Tick()
	loop.Tick()
	if scheduled != 2 {
		t.Fatalf("expected two reschedules, got %d", scheduled)
	}
	var nilLoop *Loop
	nilLoop.Tick()
}

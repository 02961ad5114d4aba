package view

import (
	"image"
	"log/slog"
	"strconv"
	"time"

	"github.com/soocke/selfie-booth-go/config"
	"github.com/soocke/selfie-booth-go/domain/filter"
	"github.com/soocke/selfie-booth-go/ui/presenter"
	"github.com/soocke/selfie-booth-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are invoked on user actions. Nil handlers are ignored.
type Handlers struct {
	OnCapture      func()
	OnRetake       func()
	OnSubmit       func()
	OnReset        func()
	OnExit         func()
	OnSelectFilter func(kind filter.Kind)
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	CapturePrev CapturePreview

	// Widgets
	StateLabel   *TLabelWidget
	AlertLabel   *LabelWidget
	ResultLabel  *TLabelWidget
	PostURL      *TextWidget
	FilterSelect *TComboboxWidget

	captureBtn *ButtonWidget
	retakeBtn  *ButtonWidget
	submitBtn  *ButtonWidget
	resetBtn   *ButtonWidget
}

var (
	_ presenter.FlowView    = (*RootView)(nil)
	_ presenter.PreviewView = (*RootView)(nil)
	_ presenter.SessionView = (*RootView)(nil)
	_ presenter.AlertView   = (*RootView)(nil)
)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout and binds h to the controls.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	previewSize, thumbSize := 400, 64
	if rv.cfg != nil {
		previewSize, thumbSize = rv.cfg.PreviewSize, rv.cfg.ThumbnailSize
	}

	// Row 0: state label and session stats
	rv.StateLabel = TLabel(Txt("State: <none>"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, Row(0), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	statsFrame := Frame()
	Grid(statsFrame, Row(0), Column(1), Columnspan(3), Sticky("e"), Padx("0.4m"), Pady("0.3m"))
	rv.Session = NewSessionStats(statsFrame, 0, 0)

	// Row 1: alert line
	rv.AlertLabel = Label(Txt(""), Anchor("w"), Foreground(theme.CurrentPalette().Danger))
	Grid(rv.AlertLabel, Row(1), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"))

	// Rows 2-3: preview and thumbnail strip
	rv.CapturePrev = NewCapturePreview(2, previewSize, thumbSize, func(kind filter.Kind) {
		if h.OnSelectFilter != nil {
			h.OnSelectFilter(kind)
		}
	})

	// Row 4: buttons and filter dropdown
	btnFrame := Frame()
	Grid(btnFrame, Row(4), Column(0), Columnspan(4), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	mk := func(col int, text string, fn func()) *ButtonWidget {
		btn := Button(Txt(text), Command(func() {
			if fn != nil {
				fn()
			}
		}))
		Grid(btn, In(btnFrame), Row(0), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		return btn
	}
	rv.captureBtn = mk(0, "Capture", h.OnCapture)
	rv.retakeBtn = mk(1, "Retake", h.OnRetake)
	rv.submitBtn = mk(2, "Post", h.OnSubmit)
	rv.resetBtn = mk(3, "Start Over", h.OnReset)
	exitBtn := TButton(Txt("Exit"), Style(theme.StyleExitButton), Command(func() {
		if h.OnExit != nil {
			h.OnExit()
		}
	}))
	Grid(exitBtn, In(btnFrame), Row(0), Column(4), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	descs := filter.All()
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.DisplayName
	}
	rv.FilterSelect = TCombobox(Values(names), Width(14))
	Grid(rv.FilterSelect, In(btnFrame), Row(0), Column(5), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.FilterSelect.Current(0)
	Bind(rv.FilterSelect, "<<ComboboxSelected>>", Command(func() {
		if rv.FilterSelect == nil {
			return
		}
		idxStr := rv.FilterSelect.Current(nil)
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= len(descs) {
			if rv.logger != nil {
				rv.logger.Error("filter selection parse error", "value", idxStr, "error", err)
			}
			return
		}
		if h.OnSelectFilter != nil {
			h.OnSelectFilter(descs[idx].Kind)
		}
	}))

	// Row 5: upload result and post link
	rv.ResultLabel = TLabel(Txt(""), Style(theme.StyleResultLabel))
	Grid(rv.ResultLabel, Row(5), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.PostURL = Text(Height(1), Width(48))
	Grid(rv.PostURL, Row(5), Column(1), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.PostURL.Configure(State("disabled"))

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
	rv.ConfigPanel.Build(6)
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

func (rv *RootView) SetControls(c presenter.Controls) {
	if rv == nil {
		return
	}
	setEnabled(rv.captureBtn, c.Capture)
	setEnabled(rv.retakeBtn, c.Retake)
	setEnabled(rv.submitBtn, c.Submit)
	setEnabled(rv.resetBtn, c.Reset)
	if rv.FilterSelect != nil {
		if c.Filters {
			rv.FilterSelect.Configure(State("readonly"))
		} else {
			rv.FilterSelect.Configure(State("disabled"))
		}
	}
	if rv.CapturePrev != nil {
		rv.CapturePrev.SetThumbnailsEnabled(c.Filters)
	}
}

func setEnabled(btn *ButtonWidget, enabled bool) {
	if btn == nil {
		return
	}
	if enabled {
		btn.Configure(State("normal"))
	} else {
		btn.Configure(State("disabled"))
	}
}

// ShowStill freezes the preview on the captured still.
func (rv *RootView) ShowStill(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.ShowStill(img)
	}
}

func (rv *RootView) ShowLive() {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.ShowLive()
	}
}

// SetResult shows the upload outcome. The post link is selectable text.
func (rv *RootView) SetResult(text, postURL string, success bool) {
	if rv == nil || rv.ResultLabel == nil {
		return
	}
	p := theme.CurrentPalette()
	color := p.Danger
	if success {
		color = p.Accent
	}
	rv.ResultLabel.Configure(Txt(text), Foreground(color))
	if rv.PostURL != nil {
		rv.PostURL.Configure(State("normal"))
		rv.PostURL.Delete("1.0", END)
		rv.PostURL.Insert("1.0", postURL)
		rv.PostURL.Configure(State("disabled"))
	}
}

func (rv *RootView) SetAlert(text string) {
	if rv != nil && rv.AlertLabel != nil {
		rv.AlertLabel.Configure(Txt(text))
	}
}

// SetSelectedFilter highlights kind in both the dropdown and the strip.
func (rv *RootView) SetSelectedFilter(kind filter.Kind) {
	if rv == nil {
		return
	}
	if rv.CapturePrev != nil {
		rv.CapturePrev.SetSelected(kind)
	}
	if rv.FilterSelect != nil {
		for i, d := range filter.All() {
			if d.Kind == kind {
				rv.FilterSelect.Current(i)
				break
			}
		}
	}
}

// UpdatePreview proxies to underlying capture preview view.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdatePreview(img)
	}
}

// UpdateThumbnail proxies to underlying capture preview view.
func (rv *RootView) UpdateThumbnail(kind filter.Kind, img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdateThumbnail(kind, img)
	}
}

// SetSession updates both session and total live durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

func (rv *RootView) SetCounts(captures, uploads, failures int) {
	if rv != nil && rv.Session != nil {
		rv.Session.SetCounts(captures, uploads, failures)
	}
}

package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/selfie-booth-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the settings form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	applyBtn  *ButtonWidget
	statusLbl *LabelWidget
	widgets   map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string, width int) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(width))
		Grid(w, Row(row), Column(1), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("endpointURL", "Endpoint URL", c.EndpointURL, 48)
	makeRow("tagID", "Tag ID", c.TagID, 16)
	makeRow("jpegQuality", "JPEG Quality (1-100)", fmt.Sprintf("%d", c.JPEGQuality), 16)
	makeRow("maxEdge", "Max Edge Px", fmt.Sprintf("%d", c.MaxEdge), 16)
	makeRow("previewIntervalMS", "Preview Interval ms", fmt.Sprintf("%d", c.PreviewIntervalMS), 16)
	makeRow("uploadTimeoutSeconds", "Upload Timeout Seconds", fmt.Sprintf("%d", c.UploadTimeoutSeconds), 16)
	makeRow("source", "Source (camera/screen)", c.Source, 16)
	makeRow("deviceID", "Camera Device (-1 = by facing)", fmt.Sprintf("%d", c.DeviceID), 16)
	v.applyBtn = Button(Txt("Save Settings"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	v.statusLbl = Label(Txt(""), Anchor("w"))
	Grid(v.statusLbl, Row(row), Column(1), Columnspan(3), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignInt := func(id string, dst *int) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if i, ok := parseIntField(strings.TrimSpace(v.text(w))); ok {
			*dst = i
		}
	}
	assignString := func(id string, dst *string) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if val := strings.TrimSpace(v.text(w)); val != "" {
			*dst = val
		}
	}
	assignString("endpointURL", &cfg.EndpointURL)
	assignString("tagID", &cfg.TagID)
	assignInt("jpegQuality", &cfg.JPEGQuality)
	assignInt("maxEdge", &cfg.MaxEdge)
	assignInt("previewIntervalMS", &cfg.PreviewIntervalMS)
	assignInt("uploadTimeoutSeconds", &cfg.UploadTimeoutSeconds)
	assignString("source", &cfg.Source)
	assignInt("deviceID", &cfg.DeviceID)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		v.setStatus("Save failed: " + err.Error())
		return
	}
	if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	v.setStatus("Saved. Restart to apply.")
}

func (v *configPanel) setStatus(text string) {
	if v.statusLbl != nil {
		v.statusLbl.Configure(Txt(text))
	}
}

// parsing helpers (unexported)
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/selfie-booth-go/config"
	"github.com/soocke/selfie-booth-go/debug"
	"github.com/soocke/selfie-booth-go/ui/theme"
	"github.com/soocke/selfie-booth-go/ui/view"
)

const (
	tick          = 100 * time.Millisecond
	debugInterval = 30 * time.Second
)

type app struct {
	config  *config.Config
	cfgPath string
	logger  *slog.Logger
	width   int
	height  int
	afterID string

	ctx       context.Context
	cancel    context.CancelFunc
	container *AppContainer
	exiting   bool
}

func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	a := &app{config: cfg, cfgPath: cfgPath, logger: logger, width: width, height: height}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a
}

func (a *app) Start() {
	if a.config.DarkMode {
		theme.SetDark(true)
	} else {
		theme.InitStyles()
	}
	if a.config.Debug {
		debug.StartGoroutineLogger(debugInterval, a.logger)
		debug.StartMemLogger(debugInterval, a.logger)
	}

	c := BuildContainer(a.ctx, a.config, a.logger, a.cfgPath)
	a.container = c
	bp := c.BoothPresenter
	c.RootView.Build(view.Handlers{
		OnCapture:      bp.Capture,
		OnRetake:       bp.Retake,
		OnSubmit:       bp.Submit,
		OnReset:        bp.Reset,
		OnExit:         a.exitHandler,
		OnSelectFilter: bp.SelectFilter,
	})
	c.Loop.Schedule = a.scheduleUpdate

	bp.Open()
	a.scheduleUpdate()

	App.Wait()
}

func (a *app) exitHandler() {
	if a.exiting {
		return
	}
	a.exiting = true
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	a.cancel()
	if c := a.container; c != nil {
		if err := c.Controller.Close(); err != nil && a.logger != nil {
			a.logger.Warn("controller close failed", "error", err)
		}
		c.Ticker.Stop()
	}
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	if a.exiting {
		return
	}
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.update() })
}

func (a *app) update() {
	defer func() {
		if r := recover(); r != nil && a.logger != nil {
			a.logger.Error("ui update panic", "error", r)
			a.scheduleUpdate()
		}
	}()
	if a.container != nil {
		a.container.Loop.Tick()
	}
}

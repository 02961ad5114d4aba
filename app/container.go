package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/soocke/selfie-booth-go/config"
	"github.com/soocke/selfie-booth-go/domain/booth"
	"github.com/soocke/selfie-booth-go/domain/media"
	"github.com/soocke/selfie-booth-go/domain/preview"
	"github.com/soocke/selfie-booth-go/domain/upload"
	"github.com/soocke/selfie-booth-go/internal/httpc"
	"github.com/soocke/selfie-booth-go/ui/model"
	"github.com/soocke/selfie-booth-go/ui/presenter"
	"github.com/soocke/selfie-booth-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	Logger  *slog.Logger
	Session *model.SessionModel
	Preview *model.PreviewModel

	Acquirer   media.Acquirer
	Uploader   *upload.Client
	Controller *booth.Controller
	Renderer   *preview.Renderer
	Ticker     *preview.Ticker
	RootView   *view.RootView

	// Presenters
	FlowPresenter    *presenter.FlowPresenter
	BoothPresenter   *presenter.BoothPresenter
	PreviewPresenter *presenter.PreviewPresenter
	SessionPresenter *presenter.SessionPresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs all components. The controller loop is running on
// return but no device has been opened yet.
func BuildContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, cfgPath string) *AppContainer {
	c := &AppContainer{Config: cfg, Logger: logger}
	c.Session = model.NewSessionModel()
	c.Preview = model.NewPreviewModel()

	c.Acquirer = newAcquirer(cfg, logger)
	timeout := time.Duration(cfg.UploadTimeoutSeconds) * time.Second
	c.Uploader = upload.NewClient(cfg.EndpointURL, cfg.TagID, cfg.MaxPayloadBytes, httpc.NewClient(timeout), logger)
	c.Controller = booth.NewController(logger, c.Acquirer, c.Uploader, controllerOptions(cfg))

	c.Renderer = preview.NewRenderer(c.Preview, cfg.PreviewSize, cfg.ThumbnailSize, logger)
	interval := time.Duration(cfg.PreviewIntervalMS) * time.Millisecond
	c.Ticker = preview.NewTicker(c.Renderer, c.Controller, interval, logger)

	// View
	c.RootView = view.NewRootView(cfg, cfgPath, logger)

	live := func() bool { return c.Controller.Current() == booth.StateReady }
	c.FlowPresenter = presenter.NewFlowPresenter(c.Controller, c.RootView, c.Session, logger)
	c.BoothPresenter = presenter.NewBoothPresenter(ctx, c.Controller, c.RootView, logger)
	c.PreviewPresenter = presenter.NewPreviewPresenter(c.Preview, c.RootView, live)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, live, c.RootView)
	// Loop scheduling is attached by the app once Tk is running.
	c.Loop = presenter.NewLoop(c.FlowPresenter, c.PreviewPresenter, c.SessionPresenter, nil)

	c.Controller.AddListener(c.Ticker.OnState)
	c.Controller.AddListener(func(_, next booth.State) {
		if next != booth.StateReady {
			c.Preview.Clear() // drop frames rendered before the still
		}
	})
	c.Controller.AddListener(c.FlowPresenter.OnState)
	return c
}

func newAcquirer(cfg *config.Config, logger *slog.Logger) media.Acquirer {
	if cfg.Source == config.SourceScreen {
		return media.NewScreenAcquirer(logger, media.DefaultScreenInterval)
	}
	return media.NewCameraAcquirer(logger)
}

func controllerOptions(cfg *config.Config) booth.Options {
	opts := booth.DefaultOptions()
	opts.Constraints = media.Constraints{
		Facing:      media.FacingUser,
		IdealWidth:  cfg.IdealWidth,
		IdealHeight: cfg.IdealHeight,
		DeviceID:    cfg.DeviceID,
	}
	if cfg.Facing == string(media.FacingEnvironment) {
		opts.Constraints.Facing = media.FacingEnvironment
	}
	opts.MaxEdge = cfg.MaxEdge
	opts.JPEGQuality = cfg.JPEGQuality
	opts.MaxPayloadBytes = cfg.MaxPayloadBytes
	opts.UploadTimeout = time.Duration(cfg.UploadTimeoutSeconds) * time.Second
	return opts
}

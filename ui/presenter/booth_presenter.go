package presenter

import (
	"context"
	"log/slog"

	"github.com/soocke/selfie-booth-go/domain/booth"
	"github.com/soocke/selfie-booth-go/domain/filter"
)

// BoothControl narrows the controller to the user actions.
type BoothControl interface {
	Open(ctx context.Context) error
	SelectFilter(kind filter.Kind) error
	Capture() error
	Retake() error
	Submit(ctx context.Context) error
	Reset(ctx context.Context) error
}

// AlertView shows a blocking message for a refused action.
type AlertView interface {
	SetAlert(text string)
}

// BoothPresenter turns button presses into controller calls. Refusals are
// shown as alerts; the flow presenter picks up every state change.
type BoothPresenter struct {
	ctl    BoothControl
	view   AlertView
	logger *slog.Logger
	ctx    context.Context
	// async runs slow calls off the Tk thread; tests replace it.
	async func(func())
}

func NewBoothPresenter(ctx context.Context, ctl BoothControl, view AlertView, logger *slog.Logger) *BoothPresenter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &BoothPresenter{ctl: ctl, view: view, logger: logger, ctx: ctx, async: func(f func()) { go f() }}
}

func (p *BoothPresenter) report(op string, err error) {
	if err == nil {
		return
	}
	if p.logger != nil {
		p.logger.Info("action refused", "op", op, "kind", booth.KindOf(err).String(), "error", err)
	}
	if p.view != nil {
		p.view.SetAlert(booth.UserMessage(err))
	}
}

// Open acquires the stream without blocking the caller. An acquisition
// failure surfaces through the controller snapshot.
func (p *BoothPresenter) Open() {
	if p == nil || p.ctl == nil {
		return
	}
	p.async(func() {
		if err := p.ctl.Open(p.ctx); err != nil && p.logger != nil {
			p.logger.Warn("open failed", "error", err)
		}
	})
}

// SelectFilter applies kind to the live preview.
func (p *BoothPresenter) SelectFilter(kind filter.Kind) {
	if p == nil || p.ctl == nil {
		return
	}
	p.report("select", p.ctl.SelectFilter(kind))
}

// Capture takes the still.
func (p *BoothPresenter) Capture() {
	if p == nil || p.ctl == nil {
		return
	}
	p.report("capture", p.ctl.Capture())
}

// Retake returns to the live preview.
func (p *BoothPresenter) Retake() {
	if p == nil || p.ctl == nil {
		return
	}
	p.report("retake", p.ctl.Retake())
}

// Submit starts the upload.
func (p *BoothPresenter) Submit() {
	if p == nil || p.ctl == nil {
		return
	}
	p.report("submit", p.ctl.Submit(p.ctx))
}

// Reset starts a fresh session. Re-acquisition may block, so it runs async.
func (p *BoothPresenter) Reset() {
	if p == nil || p.ctl == nil {
		return
	}
	p.async(func() {
		if err := p.ctl.Reset(p.ctx); err != nil && p.logger != nil {
			p.logger.Warn("reset failed", "error", err)
		}
	})
}

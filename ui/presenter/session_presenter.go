package presenter

import (
	"time"

	"github.com/soocke/selfie-booth-go/ui/model"
)

// SessionView displays formatted session durations and counters.
type SessionView interface {
	SetSession(session, total time.Duration)
	SetCounts(captures, uploads, failures int)
}

// SessionPresenter formats session and total durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	live func() bool
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter. live reports whether
// the preview is running.
func NewSessionPresenter(sess *model.SessionModel, live func() bool, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, live: live, view: view}
}

// Tick updates the presenter: advance the session model and push values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.live == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.live(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
	p.view.SetCounts(p.sess.Counts())
}

package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It calls Tick/ProcessFrame on the sub-presenters and invokes a
// scheduler callback. The zero value is usable (methods are nil-safe).
type Loop struct {
	Flow     *FlowPresenter
	Preview  *PreviewPresenter
	Session  *SessionPresenter
	Schedule func()
}

func NewLoop(flow *FlowPresenter, preview *PreviewPresenter, sess *SessionPresenter, schedule func()) *Loop {
	return &Loop{Flow: flow, Preview: preview, Session: sess, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	// Flow first so a still replaces the preview before new frames land.
	if l.Flow != nil {
		l.Flow.Tick(now)
	}
	if l.Preview != nil {
		l.Preview.ProcessFrame()
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}

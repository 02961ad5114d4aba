package model

import (
	"time"
)

// SessionModel tracks how long the live preview has been running, in the
// current stretch and in total, plus capture and upload counters.
// It is decoupled from the UI; presenters should poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	active              bool
	liveStart           time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration

	captures int
	uploads  int
	failures int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the durations using whether the preview is live.
// Call periodically (for example, from a presenter tick).
func (m *SessionModel) OnTick(live bool, now time.Time) {
	if m == nil {
		return
	}
	if live {
		if !m.active { // off -> on
			m.active = true
			m.liveStart = now
			m.lastSessionDuration = 0
		}
		m.lastSessionDuration = now.Sub(m.liveStart)
	} else if m.active { // on -> off
		m.lastSessionDuration = now.Sub(m.liveStart)
		m.accumulated += m.lastSessionDuration
		m.active = false
	}
}

// Values returns the current session duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSessionDuration
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// RecordCapture counts one captured still.
func (m *SessionModel) RecordCapture() {
	if m != nil {
		m.captures++
	}
}

// RecordUpload counts one finished submission.
func (m *SessionModel) RecordUpload(success bool) {
	if m == nil {
		return
	}
	if success {
		m.uploads++
		return
	}
	m.failures++
}

// Counts returns captures, successful uploads and failed uploads.
func (m *SessionModel) Counts() (captures, uploads, failures int) {
	if m == nil {
		return 0, 0, 0
	}
	return m.captures, m.uploads, m.failures
}

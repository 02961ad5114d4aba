package model

import (
	"testing"
	"time"
)

func TestSessionModel_BasicLifecycle(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	// Live at t0 for 5s.
	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	session, total := m.Values()
	if session != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s session & total; got session=%v total=%v", session, total)
	}

	// Captured at 5s, preview stops.
	m.OnTick(false, base.Add(5*time.Second))
	m.OnTick(false, base.Add(7*time.Second))
	session2, total2 := m.Values()
	if session2 != session || total2 != total {
		t.Fatalf("idle tick should not change durations: session=%v total=%v", session2, total2)
	}

	// Retake at 10s, live for 3s.
	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(13*time.Second))
	s3, t3 := m.Values()
	if s3 != 3*time.Second || t3 != 8*time.Second {
		t.Fatalf("expected session 3s total 8s; got %v %v", s3, t3)
	}
}

func TestSessionModel_Counts(t *testing.T) {
	m := NewSessionModel()
	m.RecordCapture()
	m.RecordCapture()
	m.RecordUpload(true)
	m.RecordUpload(false)
	c, u, f := m.Counts()
	if c != 2 || u != 1 || f != 1 {
		t.Fatalf("unexpected counts %d %d %d", c, u, f)
	}
	var nilModel *SessionModel
	nilModel.RecordCapture()
	if c, _, _ := nilModel.Counts(); c != 0 {
		t.Fatalf("nil model should report zero")
	}
}

package debug

import (
	"runtime"
	"testing"
)

func TestResidentSetSize(t *testing.T) {
	rss, err := residentSetSize()
	if runtime.GOOS == "linux" || runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		if err != nil {
			t.Fatalf("rss: %v", err)
		}
		if rss == 0 {
			t.Fatalf("expected non-zero rss")
		}
	}
}

func TestStartLoggers_NilLogger(t *testing.T) {
	StartGoroutineLogger(0, nil)
	StartMemLogger(0, nil)
}

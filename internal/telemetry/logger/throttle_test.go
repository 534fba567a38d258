package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func newBufferLogger(t *testing.T, buf *bytes.Buffer) Logger {
	t.Helper()
	l, err := New(Config{Level: "debug", Format: "json", Output: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func countLines(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), "\n")
}

func TestThrottle_SuppressesRepeats(t *testing.T) {
	var buf bytes.Buffer
	th := NewThrottle(newBufferLogger(t, &buf), time.Hour, 1)

	for i := 0; i < 10; i++ {
		th.Warn("lock busy", "attempt", i)
	}
	if n := countLines(&buf); n != 1 {
		t.Errorf("wrote %d lines, want 1", n)
	}

	th.Warn("other message")
	if n := countLines(&buf); n != 2 {
		t.Errorf("distinct messages should not share a limiter, got %d lines", n)
	}
}

func TestThrottle_ReportsSuppressedCount(t *testing.T) {
	var buf bytes.Buffer
	th := NewThrottle(newBufferLogger(t, &buf), 20*time.Millisecond, 1)

	th.Error("publish failed")
	th.Error("publish failed")
	th.Error("publish failed")

	time.Sleep(30 * time.Millisecond)
	buf.Reset()
	th.Error("publish failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	if got, ok := entry["suppressed"].(float64); !ok || got != 2 {
		t.Errorf("suppressed = %v, want 2", entry["suppressed"])
	}
}

func TestThrottle_DebugNotThrottled(t *testing.T) {
	var buf bytes.Buffer
	th := NewThrottle(newBufferLogger(t, &buf), time.Hour, 1)

	for i := 0; i < 5; i++ {
		th.Debug("tick")
	}
	if n := countLines(&buf); n != 5 {
		t.Errorf("wrote %d debug lines, want 5", n)
	}
}

func TestThrottle_ZeroIntervalDisables(t *testing.T) {
	var buf bytes.Buffer
	th := NewThrottle(newBufferLogger(t, &buf), 0, 1)

	for i := 0; i < 3; i++ {
		th.Info("same")
	}
	if n := countLines(&buf); n != 3 {
		t.Errorf("wrote %d lines, want 3", n)
	}
}

func TestThrottle_Reset(t *testing.T) {
	var buf bytes.Buffer
	th := NewThrottle(newBufferLogger(t, &buf), time.Hour, 1)

	th.Warn("busy")
	th.Warn("busy")
	th.Reset()
	th.Warn("busy")

	if n := countLines(&buf); n != 2 {
		t.Errorf("wrote %d lines, want 2", n)
	}
}

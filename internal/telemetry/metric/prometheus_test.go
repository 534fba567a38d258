package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.Ticks == nil || r.Published == nil || r.Skipped == nil {
		t.Error("flight loop series not initialized")
	}
}

func TestGlobal(t *testing.T) {
	r1 := Global()
	r2 := Global()
	if r1 != r2 {
		t.Error("Global() should return the same instance")
	}
}

func TestHandler(t *testing.T) {
	h := NewRegistry().Handler()
	if h == nil {
		t.Fatal("Handler() returned nil")
	}

	body := scrape(t, h)

	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
}

func TestFlightLoopMetrics(t *testing.T) {
	r := NewRegistry()

	r.IncTick()
	r.IncTick()
	r.IncTick()
	r.IncCaptureFailure()
	r.RecordPublished(412)
	r.RecordSkipped(ReasonCaptureUnavailable)
	r.RecordSkipped(ReasonLockUnavailable)
	r.RecordSkipped(ReasonLockUnavailable)
	r.ObservePublishDuration(0.0002)

	body := scrape(t, r.Handler())

	for _, want := range []string{
		"xpconnect_ticks_total 3",
		"xpconnect_capture_failures_total 1",
		"xpconnect_published_total 1",
		"xpconnect_payload_bytes 412",
		`xpconnect_skipped_total{reason="capture_unavailable"} 1`,
		`xpconnect_skipped_total{reason="lock_unavailable"} 2`,
		"xpconnect_publish_seconds_count 1",
		"xpconnect_publish_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestChannelCollector(t *testing.T) {
	r := NewRegistry()

	var mu sync.Mutex
	stats := ChannelStats{Name: "LittleXpConnect", State: "created", Capacity: 8196}
	present := true

	err := r.Register(NewChannelCollector(func() (ChannelStats, bool) {
		mu.Lock()
		defer mu.Unlock()
		return stats, present
	}))
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	body := scrape(t, r.Handler())
	for _, want := range []string{
		`xpconnect_channel_capacity_bytes{name="LittleXpConnect"} 8196`,
		`xpconnect_channel_state{name="LittleXpConnect",state="created"} 1`,
		`xpconnect_channel_state{name="LittleXpConnect",state="attached"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}

	mu.Lock()
	present = false
	mu.Unlock()

	body = scrape(t, r.Handler())
	if strings.Contains(body, "xpconnect_channel_capacity_bytes{") {
		t.Error("no channel series expected once the channel is gone")
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.IncTick()
				r.RecordPublished(100)
				r.RecordSkipped(ReasonOversize)
				r.ObservePublishDuration(0.001)
			}
		}()
	}
	wg.Wait()

	body := scrape(t, r.Handler())
	if !strings.Contains(body, "xpconnect_ticks_total 1000") {
		t.Error("expected xpconnect_ticks_total 1000")
	}
}

package logger

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits how often identical messages are written. A failure that
// repeats on every flight loop tick is logged once per interval, together
// with how many repeats were dropped since the last write.
type Throttle struct {
	log   Logger
	every time.Duration
	burst int

	mu       sync.Mutex
	limiters map[string]*throttleState
}

type throttleState struct {
	limiter    *rate.Limiter
	suppressed int
}

// NewThrottle wraps l. Each distinct message may be written burst times,
// then at most once per every.
func NewThrottle(l Logger, every time.Duration, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		log:      l,
		every:    every,
		burst:    burst,
		limiters: make(map[string]*throttleState),
	}
}

// Debug is never throttled.
func (t *Throttle) Debug(msg string, args ...any) {
	t.log.Debug(msg, args...)
}

// Info logs msg unless it was written too recently.
func (t *Throttle) Info(msg string, args ...any) {
	if args, ok := t.allow(msg, args); ok {
		t.log.Info(msg, args...)
	}
}

// Warn logs msg unless it was written too recently.
func (t *Throttle) Warn(msg string, args ...any) {
	if args, ok := t.allow(msg, args); ok {
		t.log.Warn(msg, args...)
	}
}

// Error logs msg unless it was written too recently.
func (t *Throttle) Error(msg string, args ...any) {
	if args, ok := t.allow(msg, args); ok {
		t.log.Error(msg, args...)
	}
}

// Reset forgets all suppression state.
func (t *Throttle) Reset() {
	t.mu.Lock()
	clear(t.limiters)
	t.mu.Unlock()
}

func (t *Throttle) allow(msg string, args []any) ([]any, bool) {
	if t.every <= 0 {
		return args, true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.limiters[msg]
	if !ok {
		st = &throttleState{limiter: rate.NewLimiter(rate.Every(t.every), t.burst)}
		t.limiters[msg] = st
	}
	if !st.limiter.Allow() {
		st.suppressed++
		return nil, false
	}
	if st.suppressed > 0 {
		args = append(args, "suppressed", st.suppressed)
		st.suppressed = 0
	}
	return args, true
}

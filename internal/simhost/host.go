package simhost

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/xpconnect-go/internal/plugin"
	"github.com/yndnr/xpconnect-go/internal/source"
	"github.com/yndnr/xpconnect-go/internal/telemetry/logger"
)

// ErrClosed is returned when registering on a closed Host.
var ErrClosed = errors.New("simhost: host closed")

// framesPerSecond converts negative callback results, which count frames.
const framesPerSecond = 60

// Host schedules flight loops and serves simulated datarefs.
type Host struct {
	access    *source.MemoryAccess
	timeScale float64
	log       logger.Logger

	mu       sync.Mutex
	flight   *Flight
	lastStep time.Time
	loops    map[plugin.LoopHandle]*runner
	next     plugin.LoopHandle
	closed   bool
}

type runner struct {
	cancel chan struct{}
	done   chan struct{}
}

// Option configures a Host.
type Option func(*Host)

// WithTimeScale runs simulated time faster or slower than wall time.
func WithTimeScale(scale float64) Option {
	return func(h *Host) {
		if scale > 0 {
			h.timeScale = scale
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// New creates a Host flying params.
func New(params FlightParams, opts ...Option) *Host {
	h := &Host{
		access:    source.NewMemoryAccess(),
		timeScale: 1,
		log:       logger.Default(),
		loops:     make(map[plugin.LoopHandle]*runner),
		lastStep:  time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.flight = NewFlight(params, h.access)
	return h
}

// DataAccess implements plugin.Host.
func (h *Host) DataAccess() source.DataAccess {
	return h.access
}

// Memory returns the dataref table, for tests and diagnostics.
func (h *Host) Memory() *source.MemoryAccess {
	return h.access
}

// RegisterFlightLoop implements plugin.Host. Each loop runs on its own
// goroutine, so calls of one callback never overlap.
func (h *Host) RegisterFlightLoop(cb plugin.FlightLoopFunc, interval float32) (plugin.LoopHandle, error) {
	if cb == nil {
		return 0, errors.New("simhost: nil flight loop")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}

	h.next++
	handle := h.next
	r := &runner{cancel: make(chan struct{}), done: make(chan struct{})}
	h.loops[handle] = r

	go h.run(r, cb, interval)
	h.log.Debug("flight loop registered", "handle", uint64(handle), "interval", interval)
	return handle, nil
}

// UnregisterFlightLoop implements plugin.Host. It waits for a running
// callback to return, so it must not be called from inside one.
func (h *Host) UnregisterFlightLoop(handle plugin.LoopHandle) {
	h.mu.Lock()
	r, ok := h.loops[handle]
	delete(h.loops, handle)
	h.mu.Unlock()

	if !ok {
		return
	}
	close(r.cancel)
	<-r.done
	h.log.Debug("flight loop unregistered", "handle", uint64(handle))
}

// Loops returns the number of registered flight loops.
func (h *Host) Loops() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.loops)
}

// Run blocks until ctx is done, then closes the host.
func (h *Host) Run(ctx context.Context) {
	<-ctx.Done()
	logger.L(ctx).Info("simulated host stopping", "elapsed", h.Elapsed())
	h.Close()
}

// Close unregisters every flight loop. Further registrations fail.
func (h *Host) Close() {
	h.mu.Lock()
	h.closed = true
	handles := make([]plugin.LoopHandle, 0, len(h.loops))
	for handle := range h.loops {
		handles = append(handles, handle)
	}
	h.mu.Unlock()

	for _, handle := range handles {
		h.UnregisterFlightLoop(handle)
	}
}

// Elapsed returns the simulated flight time.
func (h *Host) Elapsed() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flight.Elapsed()
}

func (h *Host) advance(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	dt := now.Sub(h.lastStep).Seconds()
	h.lastStep = now
	h.flight.Step(dt * h.timeScale)
}

func (h *Host) run(r *runner, cb plugin.FlightLoopFunc, interval float32) {
	defer close(r.done)

	wait := delay(interval)
	last := time.Now()
	lastLoop := last
	counter := 0

	for {
		if wait <= 0 {
			// Deactivated until unregistered.
			<-r.cancel
			return
		}

		timer := time.NewTimer(wait)
		select {
		case <-r.cancel:
			timer.Stop()
			return
		case now := <-timer.C:
			h.advance(now)
			counter++
			sinceCall := float32(now.Sub(last).Seconds())
			sinceLoop := float32(now.Sub(lastLoop).Seconds())
			last = now
			next := cb(sinceCall, sinceLoop, counter)
			lastLoop = time.Now()
			wait = delay(next)
		}
	}
}

// delay converts a callback result to a wait: positive values are
// seconds, negative values are frames, zero stops the loop.
func delay(v float32) time.Duration {
	switch {
	case v > 0:
		return time.Duration(float64(v) * float64(time.Second))
	case v < 0:
		return time.Duration(float64(-v) * float64(time.Second) / framesPerSecond)
	default:
		return 0
	}
}

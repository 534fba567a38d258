package publish

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/yndnr/xpconnect-go/internal/core/domain"
	"github.com/yndnr/xpconnect-go/internal/telemetry/logger"
	"github.com/yndnr/xpconnect-go/internal/telemetry/metric"
)

const (
	// DefaultInterval is the seconds returned to the host between callbacks.
	DefaultInterval float32 = 1.0

	// DefaultWarnEvery bounds how often a repeating failure is logged.
	DefaultWarnEvery = time.Minute
)

// Capturer produces one snapshot per call.
type Capturer interface {
	Capture() (*domain.Snapshot, error)
}

// Encoder turns a snapshot into a frame. The returned slice is only valid
// until the next call.
type Encoder interface {
	Encode(s *domain.Snapshot) ([]byte, error)
}

// Publisher writes a frame into the shared region.
type Publisher interface {
	Publish(frame []byte) error
}

// Outcome is the result of one cycle.
type Outcome int

const (
	OutcomePublished Outcome = iota
	OutcomeCaptureUnavailable
	OutcomeOversize
	OutcomeLockUnavailable
	OutcomeChannelClosed
	OutcomeFailed
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomePublished:
		return "published"
	case OutcomeCaptureUnavailable:
		return "capture_unavailable"
	case OutcomeOversize:
		return "oversize"
	case OutcomeLockUnavailable:
		return "lock_unavailable"
	case OutcomeChannelClosed:
		return "channel_closed"
	case OutcomeFailed:
		return "failed"
	case OutcomeBusy:
		return "busy"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Stats are cumulative cycle counts.
type Stats struct {
	Ticks     uint64
	Published uint64
	Skipped   uint64
	LastSize  int
}

// Loop is the per-tick pipeline.
type Loop struct {
	source   Capturer
	encoder  Encoder
	channel  Publisher
	interval float32

	log       logger.Logger
	warn      *logger.Throttle
	warnEvery time.Duration
	metrics   *metric.Registry

	running   atomic.Bool
	failing   atomic.Bool
	ticks     atomic.Uint64
	published atomic.Uint64
	skipped   atomic.Uint64
	lastSize  atomic.Int64
}

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the seconds returned to the host.
func WithInterval(seconds float32) Option {
	return func(l *Loop) {
		if seconds > 0 {
			l.interval = seconds
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// WithMetrics records cycle results in r.
func WithMetrics(r *metric.Registry) Option {
	return func(l *Loop) {
		l.metrics = r
	}
}

// WithWarnEvery sets how often a repeating warning or error is logged.
// Zero logs every occurrence.
func WithWarnEvery(d time.Duration) Option {
	return func(l *Loop) {
		if d >= 0 {
			l.warnEvery = d
		}
	}
}

// New creates a Loop reading from source, encoding with encoder and
// publishing to channel.
func New(source Capturer, encoder Encoder, channel Publisher, opts ...Option) *Loop {
	l := &Loop{
		source:    source,
		encoder:   encoder,
		channel:   channel,
		interval:  DefaultInterval,
		log:       logger.Default(),
		warnEvery: DefaultWarnEvery,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.warn = logger.NewThrottle(l.log, l.warnEvery, 1)
	return l
}

// OnTick matches the host flight loop callback. It runs one cycle and
// returns the seconds until the next call.
func (l *Loop) OnTick(sinceLastCall, sinceLastLoop float32, counter int) float32 {
	l.Tick()
	return l.interval
}

// Tick runs one cycle. It never panics.
func (l *Loop) Tick() (out Outcome) {
	if !l.running.CompareAndSwap(false, true) {
		l.log.Debug("flight loop reentered, skipping tick")
		return OutcomeBusy
	}
	defer l.running.Store(false)

	start := time.Now()
	l.ticks.Add(1)
	if l.metrics != nil {
		l.metrics.IncTick()
	}

	defer func() {
		if r := recover(); r != nil {
			l.warn.Error("flight loop panic recovered", "panic", fmt.Sprint(r))
			out = OutcomeFailed
		}
		l.track(out)
		l.record(out, time.Since(start))
	}()

	return l.cycle()
}

func (l *Loop) cycle() Outcome {
	snap, err := l.source.Capture()
	if err != nil {
		if errors.Is(err, domain.ErrCaptureUnavailable) {
			l.log.Debug("simulator data unavailable, skipping tick")
			return OutcomeCaptureUnavailable
		}
		l.warn.Error("capture failed", "error", err, "code", domain.GetErrorCode(err))
		return OutcomeFailed
	}

	frame, err := l.encoder.Encode(snap)
	if err != nil {
		if errors.Is(err, domain.ErrOversizePayload) {
			l.warn.Warn("snapshot exceeds shared region, skipping tick", "error", err, "code", domain.GetErrorCode(err))
			return OutcomeOversize
		}
		l.warn.Error("encode failed", "error", err, "code", domain.GetErrorCode(err))
		return OutcomeFailed
	}

	if err := l.channel.Publish(frame); err != nil {
		switch {
		case errors.Is(err, domain.ErrLockUnavailable):
			l.log.Debug("shared region busy, skipping tick", "error", err)
			return OutcomeLockUnavailable
		case errors.Is(err, domain.ErrOversizePayload):
			l.warn.Warn("frame exceeds shared region, skipping tick", "error", err, "code", domain.GetErrorCode(err))
			return OutcomeOversize
		case errors.Is(err, domain.ErrChannelClosed):
			l.warn.Warn("shared region closed, skipping tick", "code", domain.GetErrorCode(err))
			return OutcomeChannelClosed
		default:
			l.warn.Error("publish failed", "error", err, "code", domain.GetErrorCode(err))
			return OutcomeFailed
		}
	}

	l.lastSize.Store(int64(len(frame)))
	return OutcomePublished
}

// track notes failure streaks. The first publication after logged failures
// is reported once and re-arms the throttle so the next failure is seen.
func (l *Loop) track(out Outcome) {
	switch out {
	case OutcomePublished:
		if l.failing.Swap(false) {
			l.log.Info("publication resumed")
			l.warn.Reset()
		}
	case OutcomeOversize, OutcomeChannelClosed, OutcomeFailed:
		l.failing.Store(true)
	}
}

func (l *Loop) record(out Outcome, elapsed time.Duration) {
	if out == OutcomePublished {
		l.published.Add(1)
	} else {
		l.skipped.Add(1)
	}

	if l.metrics == nil {
		return
	}
	l.metrics.ObservePublishDuration(elapsed.Seconds())
	switch out {
	case OutcomePublished:
		l.metrics.RecordPublished(int(l.lastSize.Load()))
	case OutcomeCaptureUnavailable:
		l.metrics.IncCaptureFailure()
		l.metrics.RecordSkipped(metric.ReasonCaptureUnavailable)
	case OutcomeOversize:
		l.metrics.RecordSkipped(metric.ReasonOversize)
	case OutcomeLockUnavailable:
		l.metrics.RecordSkipped(metric.ReasonLockUnavailable)
	case OutcomeChannelClosed:
		l.metrics.RecordSkipped(metric.ReasonChannelClosed)
	default:
		l.metrics.RecordSkipped(metric.ReasonError)
	}
}

// Stats returns cumulative counts. Safe for concurrent use.
func (l *Loop) Stats() Stats {
	return Stats{
		Ticks:     l.ticks.Load(),
		Published: l.published.Load(),
		Skipped:   l.skipped.Load(),
		LastSize:  int(l.lastSize.Load()),
	}
}

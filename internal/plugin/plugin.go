package plugin

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/xpconnect-go/internal/codec"
	"github.com/yndnr/xpconnect-go/internal/publish"
	"github.com/yndnr/xpconnect-go/internal/shm"
	"github.com/yndnr/xpconnect-go/internal/source"
	"github.com/yndnr/xpconnect-go/internal/telemetry/logger"
	"github.com/yndnr/xpconnect-go/internal/telemetry/metric"
)

// ErrTruncated is returned by Start when a metadata string did not fit.
var ErrTruncated = errors.New("plugin: metadata truncated")

// Options configures a Plugin.
type Options struct {
	ChannelName string
	ChannelDir  string
	LockTimeout time.Duration
	LockPoll    time.Duration

	// Interval is requested from the host between callbacks.
	Interval   time.Duration
	RetryEvery int
	WarnEvery  time.Duration

	Logger  logger.Logger
	Metrics *metric.Registry
}

// DefaultOptions returns the settings the simulator build uses.
func DefaultOptions() Options {
	return Options{
		ChannelName: shm.DefaultName,
		LockTimeout: shm.DefaultLockTimeout,
		LockPoll:    shm.DefaultLockPoll,
		Interval:    time.Duration(publish.DefaultInterval * float32(time.Second)),
		RetryEvery:  source.DefaultRetryEvery,
		WarnEvery:   publish.DefaultWarnEvery,
	}
}

// Plugin owns the shared channel and the flight loop for one enable
// session.
type Plugin struct {
	host Host
	opts Options
	log  logger.Logger

	mu      sync.Mutex
	enabled bool
	session string
	ctx     context.Context
	channel *shm.Channel
	loop    *publish.Loop
	handle  LoopHandle
}

// New creates a plugin bound to host.
func New(host Host, opts Options) *Plugin {
	def := DefaultOptions()
	if opts.ChannelName == "" {
		opts.ChannelName = def.ChannelName
	}
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	p := &Plugin{
		host: host,
		opts: opts,
		log:  opts.Logger.With("plugin", Name),
	}
	if opts.Metrics != nil {
		if err := opts.Metrics.Register(metric.NewChannelCollector(p.ChannelStats)); err != nil {
			p.log.Warn("channel metrics not registered", "error", err)
		}
	}
	return p
}

// Start reports the plugin metadata into the host supplied buffers.
func (p *Plugin) Start(name, signature, description []byte) error {
	var truncated []string
	if PutCString(name, Name) {
		truncated = append(truncated, "name")
	}
	if PutCString(signature, Signature) {
		truncated = append(truncated, "signature")
	}
	if PutCString(description, Description) {
		truncated = append(truncated, "description")
	}

	p.log.Info("plugin started", "signature", Signature)
	if len(truncated) > 0 {
		p.log.Warn("plugin metadata truncated", "fields", truncated)
		return fmt.Errorf("%w: %v", ErrTruncated, truncated)
	}
	return nil
}

// Enable opens the shared channel and registers the flight loop. When the
// channel cannot be opened the loop is not registered and publication
// stays off until the next Enable.
func (p *Plugin) Enable() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.enabled {
		return nil
	}

	session := newSessionID()
	ctx := logger.WithSessionID(logger.WithLogger(context.Background(), p.log), session)
	log := logger.L(ctx)

	ch, err := shm.Open(p.opts.ChannelName, shm.Capacity,
		shm.WithDir(p.opts.ChannelDir),
		shm.WithLockTimeout(p.opts.LockTimeout),
		shm.WithLockPoll(p.opts.LockPoll),
	)
	if err != nil {
		log.Error("shared channel unavailable, publication disabled", "name", p.opts.ChannelName, "error", err)
		return err
	}
	log.Info("shared channel open",
		"name", ch.Name(),
		"path", ch.Path(),
		"state", ch.State().String(),
		"capacity", ch.Capacity(),
	)

	interval := float32(p.opts.Interval.Seconds())
	loop := publish.New(
		source.New(p.host.DataAccess(), source.WithRetryEvery(p.opts.RetryEvery)),
		codec.NewEncoder(ch.Capacity()),
		ch,
		publish.WithInterval(interval),
		publish.WithLogger(log),
		publish.WithMetrics(p.opts.Metrics),
		publish.WithWarnEvery(p.opts.WarnEvery),
	)

	handle, err := p.host.RegisterFlightLoop(loop.OnTick, interval)
	if err != nil {
		_ = ch.Close()
		log.Error("flight loop registration failed", "error", err)
		return fmt.Errorf("register flight loop: %w", err)
	}

	p.session = session
	p.ctx = ctx
	p.channel = ch
	p.loop = loop
	p.handle = handle
	p.enabled = true
	log.Info("plugin enabled", "interval", p.opts.Interval)
	return nil
}

// Disable unregisters the flight loop and closes the channel. It is a
// no-op when the plugin is not enabled.
func (p *Plugin) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disableLocked()
}

func (p *Plugin) disableLocked() {
	if !p.enabled {
		return
	}
	log := logger.L(p.ctx)

	p.host.UnregisterFlightLoop(p.handle)
	if err := p.channel.Close(); err != nil {
		log.Warn("closing shared channel", "error", err)
	}

	stats := p.loop.Stats()
	log.Info("plugin disabled",
		"ticks", stats.Ticks,
		"published", stats.Published,
		"skipped", stats.Skipped,
	)

	// The closed channel stays until the next Enable so metrics report it.
	p.enabled = false
	p.handle = 0
}

// Stop disables the plugin if needed. The host calls it once before
// unloading.
func (p *Plugin) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disableLocked()
	p.log.Info("plugin stopped")
}

// ReceiveMessage handles inter-plugin messages. None are used.
func (p *Plugin) ReceiveMessage(from, message int, param uintptr) {
	p.log.Debug("message ignored", "from", from, "message", message)
}

// Enabled reports whether the flight loop is registered.
func (p *Plugin) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Session returns the ID of the current or last enable session.
func (p *Plugin) Session() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// Stats returns the flight loop counts of the current or last session.
func (p *Plugin) Stats() publish.Stats {
	p.mu.Lock()
	loop := p.loop
	p.mu.Unlock()
	if loop == nil {
		return publish.Stats{}
	}
	return loop.Stats()
}

// ChannelStats reports the channel of the current or last session for
// metrics.
func (p *Plugin) ChannelStats() (metric.ChannelStats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return metric.ChannelStats{}, false
	}
	return metric.ChannelStats{
		Name:     p.channel.Name(),
		State:    p.channel.State().String(),
		Capacity: p.channel.Capacity(),
	}, true
}

func newSessionID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/xpconnect-go/internal/config"
	"github.com/yndnr/xpconnect-go/internal/infra/buildinfo"
	"github.com/yndnr/xpconnect-go/internal/infra/confloader"
	"github.com/yndnr/xpconnect-go/internal/infra/shutdown"
	"github.com/yndnr/xpconnect-go/internal/plugin"
	"github.com/yndnr/xpconnect-go/internal/simhost"
	"github.com/yndnr/xpconnect-go/internal/telemetry/logger"
	"github.com/yndnr/xpconnect-go/internal/telemetry/metric"
)

const shutdownTimeout = 5 * time.Second

// RunCommand starts the simulated host with the plugin enabled.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Fly the simulated aircraft and publish snapshots until interrupted",
		Action: func(c *cli.Context) error {
			path := c.String("config")
			over := overrides(c)

			cfg, err := config.Load(path, over)
			if err != nil {
				return cli.Exit(fmt.Sprintf("settings rejected: %v", err), 2)
			}

			return Serve(cfg, ServeOptions{
				ConfigPath: path,
				Overrides:  over,
				Stderr:     c.App.ErrWriter,
				Shutdown:   shutdown.NewHandler(shutdownTimeout),
				Metrics:    metric.Global(),
			})
		},
	}
}

// ServeOptions carries what Serve needs besides the settings.
type ServeOptions struct {
	// ConfigPath is watched for log level changes when set.
	ConfigPath string
	Overrides  map[string]any
	Stderr     io.Writer
	Shutdown   *shutdown.Handler
	Metrics    *metric.Registry
	// Ready is called once the plugin is enabled.
	Ready func(Runtime)
}

// Runtime describes a started host.
type Runtime struct {
	Plugin      *plugin.Plugin
	Host        *simhost.Host
	MetricsAddr string
}

// Serve runs the simulated host and the plugin until the shutdown
// handler fires.
func Serve(cfg *config.Config, opts ServeOptions) error {
	sd := opts.Shutdown
	if sd == nil {
		sd = shutdown.NewHandler(shutdownTimeout)
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Metrics == nil {
		opts.Metrics = metric.NewRegistry()
	}

	log, err := initLogger(cfg.Log, opts.Stderr, sd)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting xpconnect-host",
		"version", info.Version,
		"commit", info.Commit,
		"config", opts.ConfigPath,
	)

	host := simhost.New(flightParams(cfg.Sim),
		simhost.WithTimeScale(cfg.Sim.TimeScale),
		simhost.WithLogger(log),
	)
	go host.Run(logger.WithLogger(sd.Context(), log))

	p := plugin.New(host, plugin.Options{
		ChannelName: cfg.Channel.Name,
		ChannelDir:  cfg.Channel.Dir,
		LockTimeout: cfg.Channel.LockTimeout,
		LockPoll:    cfg.Channel.LockPoll,
		Interval:    cfg.Loop.Interval,
		RetryEvery:  cfg.Loop.RetryEvery,
		WarnEvery:   cfg.Loop.WarnEvery,
		Logger:      log,
		Metrics:     opts.Metrics,
	})
	sd.OnShutdown("plugin", func(ctx context.Context) error {
		p.Stop()
		return nil
	})

	var name, sig, desc [plugin.MetadataBufferSize]byte
	if err := p.Start(name[:], sig[:], desc[:]); err != nil {
		log.Warn("plugin metadata", "error", err)
	}
	if err := p.Enable(); err != nil {
		sd.Trigger()
		_ = sd.Wait()
		return fmt.Errorf("enable plugin: %w", err)
	}

	rt := Runtime{Plugin: p, Host: host}

	if cfg.Metrics.Addr != "" {
		addr, err := serveMetrics(cfg.Metrics.Addr, opts.Metrics, log, sd)
		if err != nil {
			sd.Trigger()
			_ = sd.Wait()
			return fmt.Errorf("metrics endpoint: %w", err)
		}
		rt.MetricsAddr = addr
	}

	if opts.ConfigPath != "" {
		watchLogLevel(opts.ConfigPath, opts.Overrides, log, sd)
	}

	if opts.Ready != nil {
		opts.Ready(rt)
	}

	log.Info("host running, press Ctrl+C to stop", "session", p.Session())
	if err := sd.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("host stopped", "elapsed", host.Elapsed())
	return nil
}

// initLogger writes to stderr and, when configured, appends to the log
// file. The file is closed last on shutdown.
func initLogger(cfg config.LogSection, stderr io.Writer, sd *shutdown.Handler) (logger.Logger, error) {
	out := stderr
	if cfg.File != "" {
		f, err := logger.OpenFile(cfg.File)
		if err != nil {
			return nil, err
		}
		sd.OnShutdown("log file", func(ctx context.Context) error {
			return f.Close()
		})
		out = io.MultiWriter(stderr, f)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: out,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

func serveMetrics(addr string, reg *metric.Registry, log logger.Logger, sd *shutdown.Handler) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	sd.OnShutdown("metrics", func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	})

	log.Info("metrics listening", "addr", ln.Addr().String())
	return ln.Addr().String(), nil
}

// watchLogLevel applies log level changes from the settings file. Other
// settings take effect on the next start.
func watchLogLevel(path string, over map[string]any, log logger.Logger, sd *shutdown.Handler) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		log.Warn("settings watcher unavailable", "error", err)
		return
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		log.Warn("settings file not watched", "path", path, "error", err)
		return
	}

	w.OnChange(func(string) {
		cfg, err := config.Load(path, over)
		if err != nil {
			log.Warn("settings reload rejected", "error", err)
			return
		}
		if !strings.EqualFold(cfg.Log.Level, logger.GetLevel()) {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()

	sd.OnShutdown("settings watcher", func(ctx context.Context) error {
		return w.Stop()
	})
}

func flightParams(s config.SimSection) simhost.FlightParams {
	return simhost.FlightParams{
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		AltitudeFt: s.AltitudeFt,
		SpeedKt:    s.SpeedKt,
		RadiusNM:   s.RadiusNM,
		Aircraft:   s.Aircraft,
		TailNumber: s.TailNumber,
		ICAOType:   s.ICAOType,
		ReadyAfter: s.ReadyAfter,
	}
}

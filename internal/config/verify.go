package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/yndnr/xpconnect-go/internal/telemetry/logger"
)

// Verify validates the configuration and reports every problem found.
func Verify(cfg *Config) error {
	return errors.Join(
		verifyChannel(&cfg.Channel),
		verifyLoop(&cfg.Loop),
		verifyLog(&cfg.Log),
		verifyMetrics(&cfg.Metrics),
		verifySim(&cfg.Sim),
	)
}

func verifyChannel(c *ChannelSection) error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("channel.name is required"))
	} else if strings.ContainsRune(c.Name, filepath.Separator) {
		errs = append(errs, fmt.Errorf("channel.name %q must not contain %q", c.Name, filepath.Separator))
	}
	if c.LockTimeout <= 0 {
		errs = append(errs, errors.New("channel.lock_timeout must be positive"))
	}
	if c.LockPoll <= 0 {
		errs = append(errs, errors.New("channel.lock_poll must be positive"))
	} else if c.LockPoll > c.LockTimeout && c.LockTimeout > 0 {
		errs = append(errs, errors.New("channel.lock_poll must not exceed channel.lock_timeout"))
	}
	// The wait runs on the simulator thread.
	if c.LockTimeout > DefaultInterval/10 {
		errs = append(errs, fmt.Errorf("channel.lock_timeout %v is too long for the flight loop", c.LockTimeout))
	}
	return errors.Join(errs...)
}

func verifyLoop(l *LoopSection) error {
	var errs []error
	if l.Interval <= 0 {
		errs = append(errs, errors.New("loop.interval must be positive"))
	}
	if l.RetryEvery < 1 {
		errs = append(errs, errors.New("loop.retry_every must be at least 1"))
	}
	if l.WarnEvery < 0 {
		errs = append(errs, errors.New("loop.warn_every must not be negative"))
	}
	return errors.Join(errs...)
}

func verifyLog(l *LogSection) error {
	var errs []error
	if !logger.ValidLevel(l.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", l.Level))
	}
	switch strings.ToLower(l.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or text", l.Format))
	}
	return errors.Join(errs...)
}

func verifyMetrics(m *MetricsSection) error {
	if m.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(m.Addr); err != nil {
		return fmt.Errorf("metrics.addr: %w", err)
	}
	return nil
}

func verifySim(s *SimSection) error {
	var errs []error
	if s.Latitude < -90 || s.Latitude > 90 {
		errs = append(errs, fmt.Errorf("sim.latitude %v out of range", s.Latitude))
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		errs = append(errs, fmt.Errorf("sim.longitude %v out of range", s.Longitude))
	}
	if s.SpeedKt < 0 {
		errs = append(errs, errors.New("sim.speed_kt must not be negative"))
	}
	if s.RadiusNM <= 0 {
		errs = append(errs, errors.New("sim.radius_nm must be positive"))
	}
	if s.TimeScale <= 0 {
		errs = append(errs, errors.New("sim.time_scale must be positive"))
	}
	if s.ReadyAfter < 0 {
		errs = append(errs, errors.New("sim.ready_after must not be negative"))
	}
	return errors.Join(errs...)
}

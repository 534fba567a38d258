package config

import "time"

// Config is the root configuration for xpconnect-host.
type Config struct {
	Channel ChannelSection `koanf:"channel"`
	Loop    LoopSection    `koanf:"loop"`
	Log     LogSection     `koanf:"log"`
	Metrics MetricsSection `koanf:"metrics"`
	Sim     SimSection     `koanf:"sim"`
}

// ChannelSection configures the shared region.
type ChannelSection struct {
	// Name is the key readers look the region up by.
	Name string `koanf:"name"`
	// Dir holds the region and lock files. Empty selects /dev/shm when
	// present, the temp dir otherwise.
	Dir string `koanf:"dir"`
	// LockTimeout bounds the wait for the region lock on each tick.
	LockTimeout time.Duration `koanf:"lock_timeout"`
	// LockPoll is the retry interval while waiting.
	LockPoll time.Duration `koanf:"lock_poll"`
}

// LoopSection configures the flight loop.
type LoopSection struct {
	// Interval is requested from the host between callbacks.
	Interval time.Duration `koanf:"interval"`
	// RetryEvery is how many ticks pass before missing datarefs are
	// looked up again.
	RetryEvery int `koanf:"retry_every"`
	// WarnEvery bounds how often a repeating failure is logged.
	WarnEvery time.Duration `koanf:"warn_every"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	// File receives a copy of every entry. Empty disables the file.
	File string `koanf:"file"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	// Addr is the listen address. Empty disables the endpoint.
	Addr string `koanf:"addr"`
}

// SimSection configures the synthetic flight of the simulated host.
type SimSection struct {
	Latitude   float64 `koanf:"latitude"`
	Longitude  float64 `koanf:"longitude"`
	AltitudeFt float64 `koanf:"altitude_ft"`
	SpeedKt    float64 `koanf:"speed_kt"`
	RadiusNM   float64 `koanf:"radius_nm"`
	Aircraft   string  `koanf:"aircraft"`
	TailNumber string  `koanf:"tail_number"`
	ICAOType   string  `koanf:"icao_type"`
	TimeScale  float64 `koanf:"time_scale"`
	ReadyAfter int     `koanf:"ready_after"`
}

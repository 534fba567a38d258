package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/xpconnect-go/internal/publish"
	"github.com/yndnr/xpconnect-go/internal/shm"
	"github.com/yndnr/xpconnect-go/internal/source"
)

// Default configuration values. Channel and loop defaults belong to the
// packages that use them.
const (
	DefaultInterval = time.Duration(publish.DefaultInterval * float32(time.Second))

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultLogName   = "little_xpconnect.log"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Channel: ChannelSection{
			Name:        shm.DefaultName,
			LockTimeout: shm.DefaultLockTimeout,
			LockPoll:    shm.DefaultLockPoll,
		},
		Loop: LoopSection{
			Interval:   DefaultInterval,
			RetryEvery: source.DefaultRetryEvery,
			WarnEvery:  publish.DefaultWarnEvery,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			File:   filepath.Join(os.TempDir(), DefaultLogName),
		},
		Sim: SimSection{
			Latitude:   47.4502,
			Longitude:  -122.3088,
			AltitudeFt: 3000,
			SpeedKt:    110,
			RadiusNM:   3,
			Aircraft:   "Cessna 172 SP Skyhawk",
			TailNumber: "N172SP",
			ICAOType:   "C172",
			TimeScale:  1,
			ReadyAfter: 2,
		},
	}
}

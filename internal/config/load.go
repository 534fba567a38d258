package config

import (
	"fmt"

	"github.com/yndnr/xpconnect-go/internal/infra/confloader"
)

// Load builds the configuration from defaults, the optional settings
// file, XPCONNECT_ environment variables and overrides, then verifies it.
func Load(path string, overrides map[string]any) (*Config, error) {
	cfg := Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

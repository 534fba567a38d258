package command

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/xpconnect-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "xpconnect-host",
		Usage:     "Publish simulated flight data to shared memory",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			RunCommand(),
			CheckCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the settings file (YAML)",
			EnvVars: []string{"XPCONNECT_CONFIG_FILE"},
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "Shared region name",
		},
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Directory holding the shared region",
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "Listen address for /metrics, empty to disable",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

// flagKeys maps flags to the settings they override.
var flagKeys = map[string]string{
	"name":         "channel.name",
	"dir":          "channel.dir",
	"metrics-addr": "metrics.addr",
	"log-level":    "log.level",
}

// overrides collects the flags set on the command line.
func overrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			out[key] = c.String(flag)
		}
	}
	return out
}

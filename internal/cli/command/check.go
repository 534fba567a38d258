package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/xpconnect-go/internal/cli/output"
	"github.com/yndnr/xpconnect-go/internal/config"
)

// CheckCommand loads and verifies the settings and prints the effective
// values without starting anything.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify the settings and print the effective values",
		Flags: []cli.Flag{outputFlag()},
		Action: func(c *cli.Context) error {
			format, err := output.ParseFormat(c.String("output"))
			if err != nil {
				return err
			}

			cfg, err := config.Load(c.String("config"), overrides(c))
			if err != nil {
				return cli.Exit(fmt.Sprintf("settings rejected: %v", err), 2)
			}

			return output.NewFormatter(format).Format(c.App.Writer, output.Flatten(cfg, "koanf"))
		},
	}
}

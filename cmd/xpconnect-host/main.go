// Package main provides the entry point for xpconnect-host.
//
// xpconnect-host loads the flight data plugin into a simulated host and
// publishes snapshots to the shared region that Little Navmap reads.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/xpconnect-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Package command defines the xpconnect-host command line.
//
// run loads the settings, starts the simulated host with the plugin
// enabled and serves metrics until interrupted. check prints the
// effective settings. version prints build information.
package command

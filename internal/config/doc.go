// Package config defines the host harness configuration.
//
// The plugin itself has no settings the simulator could pass it; these
// values tune the channel, the flight loop and the simulated host used to
// run the plugin outside the simulator. Region capacity is fixed by the
// readers and is not a setting.
package config

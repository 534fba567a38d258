// Package plugin is the process-wide context the simulator talks to.
//
// The simulator loads one plugin per process and drives it through four
// calls: Start once, then Enable and Disable any number of times, then
// Stop. Enable opens the shared channel and registers the flight loop;
// Disable undoes both. A failed Enable leaves the plugin disabled until
// the next Enable.
package plugin

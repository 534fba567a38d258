// Package shutdown runs cleanup hooks when the process is asked to stop.
//
// A Handler waits for SIGINT, SIGTERM or an explicit Trigger, cancels its
// context and runs the registered hooks in reverse order under a timeout.
// The host harness registers the plugin Stop and the metrics server here.
package shutdown

// Package simhost runs the plugin outside the simulator.
//
// Host implements the plugin host interface with a goroutine per
// registered flight loop and serves datarefs from a source.MemoryAccess
// that a synthetic Flight updates before every callback. The aircraft
// flies a level circle around a configurable point.
package simhost

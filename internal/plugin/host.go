package plugin

import "github.com/yndnr/xpconnect-go/internal/source"

// FlightLoopFunc is the host callback signature. The return value is the
// number of seconds until the next call.
type FlightLoopFunc func(sinceLastCall, sinceLastLoop float32, counter int) float32

// LoopHandle identifies a registered flight loop.
type LoopHandle uint64

// Host is the part of the simulator API the plugin consumes.
type Host interface {
	// RegisterFlightLoop schedules cb to run first after interval seconds.
	RegisterFlightLoop(cb FlightLoopFunc, interval float32) (LoopHandle, error)
	// UnregisterFlightLoop stops calling the loop. Unknown handles are
	// ignored.
	UnregisterFlightLoop(h LoopHandle)
	// DataAccess returns the dataref query interface.
	DataAccess() source.DataAccess
}

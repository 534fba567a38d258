package plugin

import (
	"sync"

	"github.com/yndnr/xpconnect-go/internal/source"
)

// fakeHost records registrations and lets tests fire callbacks directly.
type fakeHost struct {
	mu          sync.Mutex
	access      *source.MemoryAccess
	loops       map[LoopHandle]FlightLoopFunc
	intervals   map[LoopHandle]float32
	next        LoopHandle
	registerErr error
}

func newFakeHost() *fakeHost {
	m := source.NewMemoryAccess()
	m.SetDouble(source.RefLatitude, 50.03)
	m.SetDouble(source.RefLongitude, 8.57)
	m.SetFloat(source.RefGroundSpeed, 70)
	m.SetBytes(source.RefTitle, []byte("Boeing 737-800"))
	return &fakeHost{
		access:    m,
		loops:     make(map[LoopHandle]FlightLoopFunc),
		intervals: make(map[LoopHandle]float32),
	}
}

func (h *fakeHost) RegisterFlightLoop(cb FlightLoopFunc, interval float32) (LoopHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.registerErr != nil {
		return 0, h.registerErr
	}
	h.next++
	h.loops[h.next] = cb
	h.intervals[h.next] = interval
	return h.next, nil
}

func (h *fakeHost) UnregisterFlightLoop(handle LoopHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.loops, handle)
	delete(h.intervals, handle)
}

func (h *fakeHost) DataAccess() source.DataAccess {
	return h.access
}

// fire runs every registered callback once and returns their results.
func (h *fakeHost) fire() []float32 {
	h.mu.Lock()
	cbs := make([]FlightLoopFunc, 0, len(h.loops))
	for _, cb := range h.loops {
		cbs = append(cbs, cb)
	}
	h.mu.Unlock()

	out := make([]float32, 0, len(cbs))
	for i, cb := range cbs {
		out = append(out, cb(1, 1, i+1))
	}
	return out
}

func (h *fakeHost) registered() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.loops)
}

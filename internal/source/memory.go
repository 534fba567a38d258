package source

import "sync"

// MemoryAccess is a DataAccess backed by an in-process table. The
// simulated host and tests publish values through it.
type MemoryAccess struct {
	mu     sync.RWMutex
	ready  bool
	names  map[string]DataRef
	values []memoryValue
}

type memoryValue struct {
	types DataType
	i     int32
	f     float32
	d     float64
	b     []byte
}

// NewMemoryAccess creates an empty, ready MemoryAccess.
func NewMemoryAccess() *MemoryAccess {
	return &MemoryAccess{
		ready: true,
		names: make(map[string]DataRef),
	}
}

// SetReady toggles whether the data interface can be read.
func (m *MemoryAccess) SetReady(ready bool) {
	m.mu.Lock()
	m.ready = ready
	m.mu.Unlock()
}

// SetInt publishes an int dataref.
func (m *MemoryAccess) SetInt(name string, v int32) {
	m.update(name, func(mv *memoryValue) {
		mv.types = TypeInt
		mv.i = v
	})
}

// SetFloat publishes a float dataref that also answers double reads,
// like most simulator position values.
func (m *MemoryAccess) SetFloat(name string, v float32) {
	m.update(name, func(mv *memoryValue) {
		mv.types = TypeFloat | TypeDouble
		mv.f = v
		mv.d = float64(v)
	})
}

// SetDouble publishes a double dataref that also answers float reads.
func (m *MemoryAccess) SetDouble(name string, v float64) {
	m.update(name, func(mv *memoryValue) {
		mv.types = TypeFloat | TypeDouble
		mv.f = float32(v)
		mv.d = v
	})
}

// SetBytes publishes a data dataref.
func (m *MemoryAccess) SetBytes(name string, v []byte) {
	m.update(name, func(mv *memoryValue) {
		mv.types = TypeData
		mv.b = append(mv.b[:0], v...)
	})
}

// SetTypes overrides the advertised types of a dataref.
func (m *MemoryAccess) SetTypes(name string, types DataType) {
	m.update(name, func(mv *memoryValue) {
		mv.types = types
	})
}

func (m *MemoryAccess) update(name string, fn func(*memoryValue)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref, ok := m.names[name]
	if !ok {
		m.values = append(m.values, memoryValue{})
		ref = DataRef(len(m.values))
		m.names[name] = ref
	}
	fn(&m.values[ref-1])
}

func (m *MemoryAccess) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

func (m *MemoryAccess) Find(name string) (DataRef, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.names[name]
	return ref, ok
}

func (m *MemoryAccess) value(ref DataRef) memoryValue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ref == 0 || int(ref) > len(m.values) {
		return memoryValue{}
	}
	return m.values[ref-1]
}

func (m *MemoryAccess) Types(ref DataRef) DataType {
	return m.value(ref).types
}

func (m *MemoryAccess) Int(ref DataRef) int32 {
	return m.value(ref).i
}

func (m *MemoryAccess) Float(ref DataRef) float32 {
	return m.value(ref).f
}

func (m *MemoryAccess) Double(ref DataRef) float64 {
	return m.value(ref).d
}

func (m *MemoryAccess) Bytes(ref DataRef, dst []byte) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ref == 0 || int(ref) > len(m.values) {
		return 0
	}
	return copy(dst, m.values[ref-1].b)
}

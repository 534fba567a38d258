package source

// DataRef is an opaque handle to a simulator value. Zero is invalid.
type DataRef uintptr

// DataType is a bit set of the representations a dataref supports.
type DataType int

const (
	TypeInt DataType = 1 << iota
	TypeFloat
	TypeDouble
	TypeFloatArray
	TypeIntArray
	TypeData
)

// DataAccess is the read side of the host's data access interface.
type DataAccess interface {
	// Ready reports whether the simulation is loaded and values can be read.
	Ready() bool
	// Find looks up a dataref by name.
	Find(name string) (DataRef, bool)
	// Types returns the representations ref supports.
	Types(ref DataRef) DataType
	Int(ref DataRef) int32
	Float(ref DataRef) float32
	Double(ref DataRef) float64
	// Bytes copies up to len(dst) bytes of a data dataref and returns the count.
	Bytes(ref DataRef, dst []byte) int
}

package plugin

// Plugin metadata reported at Start.
const (
	Name        = "Little XpConnect"
	Signature   = "ABarthel.LittleXpConnect.Connect"
	Description = "Connects Little Navmap to X-Plane."
)

// MetadataBufferSize is the size of each buffer the simulator passes to
// Start.
const MetadataBufferSize = 256

// PutCString writes s into dst as a NUL-terminated string, truncating it
// to fit. It reports whether s was truncated. A zero-length dst receives
// nothing and always counts as truncated.
func PutCString(dst []byte, s string) (truncated bool) {
	if len(dst) == 0 {
		return true
	}
	n := copy(dst[:len(dst)-1], s)
	dst[n] = 0
	return n < len(s)
}

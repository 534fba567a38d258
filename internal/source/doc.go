// Package source captures flight snapshots from the simulator's data access API.
//
// The simulator exposes named, typed values ("datarefs"). Source resolves
// the fixed set it needs once, caches the handles and reads them on every
// tick. A dataref that is missing or has an unexpected type leaves its
// field at zero; only an unusable data interface fails the capture.
package source

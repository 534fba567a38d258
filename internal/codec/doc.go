// Package codec encodes flight snapshots into the shared-memory wire format.
//
// Frame layout (big-endian):
//
//	[magic:4 "XPCS"][version:2][flags:2][length:4][checksum:4][payload:length]
//
// Where:
//   - length is the payload size in bytes
//   - checksum is CRC-32 (IEEE) over the payload
//   - payload holds the snapshot fields in a fixed order: the float64
//     block, the float32 block, day of year (int32), a state bit set
//     (uint8) and three strings, each as [len:2][bytes]
//
// Encoding is deterministic: equal snapshots yield identical frames.
// The frame size is known before any byte is written so oversize
// snapshots are rejected instead of truncated.
package codec

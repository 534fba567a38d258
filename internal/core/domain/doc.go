// Package domain defines the core values shared by the publication pipeline.
//
// It has no IO dependencies. This package contains:
//
//   - Snapshot: one tick worth of simulator state
//   - Errors: coded errors for capture, encoding and the shared channel
package domain

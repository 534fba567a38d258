// Package shm owns the named shared-memory region snapshots are published to.
//
// A region is a file of fixed size under a shared-memory directory
// (/dev/shm where available) mapped read-write into every attached
// process. The companion file "<name>.lock" carries an exclusive flock
// that writer and readers take around every access, so a reader holding
// the lock never sees a partially copied frame.
//
// Open tries to create the region and falls back to attaching when the
// name already exists, for example after another process or an earlier
// crash left it behind. Close never removes the name: other processes
// may still be attached.
//
// Region and Locker are interfaces so tests can run the channel against
// in-memory doubles (NewMemoryRegion, NewMutexLocker).
package shm

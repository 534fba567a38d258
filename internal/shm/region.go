package shm

import (
	"errors"
	"time"
)

// Region abstracts the mapped bytes of a shared segment.
// Implementations may be backed by mmap or by an in-memory buffer.
type Region interface {
	Size() int
	ReadAt(offset int, dest []byte) error
	WriteAt(offset int, src []byte) error
	Close() error
}

// Locker is the inter-process lock guarding a Region.
type Locker interface {
	// Lock waits at most timeout for the lock and returns ErrLockTimeout
	// when it is still held elsewhere.
	Lock(timeout time.Duration) error
	Unlock() error
	// Close releases the lock if held and frees the underlying handle.
	Close() error
}

var (
	ErrOutOfBounds = errors.New("shm: offset out of bounds")
	ErrLockTimeout = errors.New("shm: lock wait timed out")
	ErrNotLocked   = errors.New("shm: lock not held")
	ErrClosed      = errors.New("shm: handle closed")
)

// MemoryRegion stores region data in a local byte slice.
type MemoryRegion struct {
	data []byte
}

// NewMemoryRegion creates an in-memory region of the requested size.
func NewMemoryRegion(size int) *MemoryRegion {
	return &MemoryRegion{data: make([]byte, size)}
}

func (m *MemoryRegion) Size() int {
	return len(m.data)
}

func (m *MemoryRegion) ReadAt(offset int, dest []byte) error {
	if offset < 0 || offset+len(dest) > len(m.data) {
		return ErrOutOfBounds
	}
	copy(dest, m.data[offset:])
	return nil
}

func (m *MemoryRegion) WriteAt(offset int, src []byte) error {
	if offset < 0 || offset+len(src) > len(m.data) {
		return ErrOutOfBounds
	}
	copy(m.data[offset:], src)
	return nil
}

func (m *MemoryRegion) Close() error {
	m.data = nil
	return nil
}

// MutexLocker is an in-process Locker with a bounded wait.
type MutexLocker struct {
	sem chan struct{}
}

// NewMutexLocker creates an unlocked MutexLocker.
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{sem: make(chan struct{}, 1)}
}

func (l *MutexLocker) Lock(timeout time.Duration) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	default:
	}
	if timeout <= 0 {
		return ErrLockTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrLockTimeout
	}
}

func (l *MutexLocker) Unlock() error {
	select {
	case <-l.sem:
		return nil
	default:
		return ErrNotLocked
	}
}

func (l *MutexLocker) Close() error {
	return nil
}

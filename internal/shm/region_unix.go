//go:build unix

package shm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// fileMode allows a reader running as another user of the same group.
const fileMode = 0o660

// mappedRegion is a file-backed region mapped with MAP_SHARED.
type mappedRegion struct {
	path string
	file *os.File
	data []byte
}

// createRegion builds a full-size file under a temporary name and links it
// to path, so path never names a short file. The error wraps fs.ErrExist
// when the name is already taken.
func createRegion(path string, size int) (*mappedRegion, error) {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create region file: %w", err)
	}
	tmp := file.Name()
	defer os.Remove(tmp)

	if err := file.Chmod(fileMode); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("chmod region file: %w", err)
	}
	if err := file.Truncate(int64(size)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("truncate region file: %w", err)
	}
	if err := unix.Link(tmp, path); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("link region file: %w", err)
	}

	region, err := mapRegion(path, file, size)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return region, nil
}

// attachRegion maps an existing region of at least size bytes.
func attachRegion(path string, size int) (*mappedRegion, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat region file: %w", err)
	}
	if info.Size() < int64(size) {
		_ = file.Close()
		return nil, fmt.Errorf("region file has %d bytes, need %d", info.Size(), size)
	}

	return mapRegion(path, file, size)
}

func mapRegion(path string, file *os.File, size int) (*mappedRegion, error) {
	data, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("mmap region file: %w", err)
	}
	return &mappedRegion{
		path: path,
		file: file,
		data: data,
	}, nil
}

func (r *mappedRegion) Size() int {
	return len(r.data)
}

func (r *mappedRegion) ReadAt(offset int, dest []byte) error {
	if offset < 0 || offset+len(dest) > len(r.data) {
		return ErrOutOfBounds
	}
	copy(dest, r.data[offset:])
	return nil
}

func (r *mappedRegion) WriteAt(offset int, src []byte) error {
	if offset < 0 || offset+len(src) > len(r.data) {
		return ErrOutOfBounds
	}
	copy(r.data[offset:], src)
	return nil
}

func (r *mappedRegion) Close() error {
	var err error
	if r.data != nil {
		if unmapErr := unix.Munmap(r.data); unmapErr != nil {
			err = unmapErr
		}
		r.data = nil
	}
	if r.file != nil {
		if closeErr := r.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.file = nil
	}
	return err
}

// fileLock is an exclusive flock on a companion lock file. The kernel
// drops it when the holder exits, so a crashed writer cannot wedge readers.
type fileLock struct {
	file *os.File
	fd   int
	poll time.Duration
	held bool
}

func openFileLock(path string, poll time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, fileMode)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return &fileLock{
		file: file,
		fd:   int(file.Fd()),
		poll: poll,
	}, nil
}

func (l *fileLock) Lock(timeout time.Duration) error {
	if l.file == nil {
		return ErrClosed
	}

	deadline := time.Now().Add(timeout)
	for {
		err := unix.Flock(l.fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			l.held = true
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			return fmt.Errorf("flock: %w", err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ErrLockTimeout
		}
		time.Sleep(min(l.poll, remaining))
	}
}

func (l *fileLock) Unlock() error {
	if l.file == nil || !l.held {
		return ErrNotLocked
	}
	if err := unix.Flock(l.fd, unix.LOCK_UN); err != nil {
		return fmt.Errorf("flock unlock: %w", err)
	}
	l.held = false
	return nil
}

func (l *fileLock) Close() error {
	if l.file == nil {
		return nil
	}
	if l.held {
		_ = unix.Flock(l.fd, unix.LOCK_UN)
		l.held = false
	}
	err := l.file.Close()
	l.file = nil
	return err
}

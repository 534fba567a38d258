//go:build !unix

package shm

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("shm: shared regions are not supported on this platform")

func createRegion(path string, size int) (Region, error) {
	return nil, errUnsupported
}

func attachRegion(path string, size int) (Region, error) {
	return nil, errUnsupported
}

func openFileLock(path string, poll time.Duration) (Locker, error) {
	return nil, errUnsupported
}

package shm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/xpconnect-go/internal/core/domain"
)

// Region defaults.
const (
	// Capacity is the size of the shared region in bytes. Readers map the
	// same number of bytes, so it only changes together with the readers.
	Capacity = 8196

	// DefaultName is the key readers look the region up by.
	DefaultName = "LittleXpConnect"

	DefaultLockTimeout = 5 * time.Millisecond
	DefaultLockPoll    = 250 * time.Microsecond

	lockSuffix = ".lock"
)

// State is the lifecycle position of a Channel.
type State int

const (
	StateUnopened State = iota
	StateCreated
	StateAttached
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateCreated:
		return "created"
	case StateAttached:
		return "attached"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultDir returns the directory regions are created in.
func DefaultDir() string {
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

type options struct {
	dir         string
	lockTimeout time.Duration
	lockPoll    time.Duration
}

// Option configures Open.
type Option func(*options)

// WithDir places the region files in dir instead of DefaultDir().
func WithDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.dir = dir
		}
	}
}

// WithLockTimeout bounds how long Publish waits for the region lock.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.lockTimeout = d
		}
	}
}

// WithLockPoll sets the retry interval while waiting for the lock.
func WithLockPoll(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.lockPoll = d
		}
	}
}

// Channel publishes frames into a shared region.
//
// A Channel is used by a single writer. Publish and Close may be called
// from different goroutines.
type Channel struct {
	mu          sync.Mutex
	name        string
	path        string
	capacity    int
	lockTimeout time.Duration
	region      Region
	lock        Locker
	state       State
}

// Open creates the named region with the given capacity, or attaches to
// it when the name is already in use.
//
// Failures carry domain.ErrChannelCreateFailed or
// domain.ErrChannelAttachFailed depending on which step failed.
func Open(name string, capacity int, opts ...Option) (*Channel, error) {
	if capacity <= 0 {
		return nil, domain.ErrInvalidCapacity.WithDetails(fmt.Sprintf("capacity %d", capacity))
	}
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return nil, domain.ErrChannelCreateFailed.WithDetails(fmt.Sprintf("invalid name %q", name))
	}

	o := options{
		dir:         DefaultDir(),
		lockTimeout: DefaultLockTimeout,
		lockPoll:    DefaultLockPoll,
	}
	for _, opt := range opts {
		opt(&o)
	}

	path := filepath.Join(o.dir, name)

	var region Region
	state := StateCreated
	created, err := createRegion(path, capacity)
	if err == nil {
		region = created
	} else {
		if !errors.Is(err, fs.ErrExist) {
			return nil, domain.ErrChannelCreateFailed.WithDetails(path).WithCause(err)
		}
		attached, err := attachRegion(path, capacity)
		if err != nil {
			return nil, domain.ErrChannelAttachFailed.WithDetails(path).WithCause(err)
		}
		region = attached
		state = StateAttached
	}

	lock, err := openFileLock(path+lockSuffix, o.lockPoll)
	if err != nil {
		_ = region.Close()
		if state == StateAttached {
			return nil, domain.ErrChannelAttachFailed.WithDetails(path).WithCause(err)
		}
		return nil, domain.ErrChannelCreateFailed.WithDetails(path).WithCause(err)
	}

	return &Channel{
		name:        name,
		path:        path,
		capacity:    capacity,
		lockTimeout: o.lockTimeout,
		region:      region,
		lock:        lock,
		state:       state,
	}, nil
}

// NewChannel wraps an already established region and lock. The channel
// reports StateAttached.
func NewChannel(region Region, lock Locker, lockTimeout time.Duration) (*Channel, error) {
	if region == nil || region.Size() <= 0 {
		return nil, domain.ErrInvalidCapacity
	}
	if lock == nil {
		return nil, domain.ErrChannelAttachFailed.WithDetails("no locker")
	}
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Channel{
		capacity:    region.Size(),
		lockTimeout: lockTimeout,
		region:      region,
		lock:        lock,
		state:       StateAttached,
	}, nil
}

// Name returns the region key.
func (c *Channel) Name() string {
	return c.name
}

// Path returns the region file path, empty for wrapped regions.
func (c *Channel) Path() string {
	return c.path
}

// Capacity returns the region size in bytes.
func (c *Channel) Capacity() int {
	return c.capacity
}

// State returns the lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Publish copies frame to the start of the region while holding the
// region lock. It fails with domain.ErrOversizePayload before touching the
// lock when the frame does not fit, and with domain.ErrLockUnavailable when
// the lock is not acquired within the configured wait. In both cases the
// region keeps its previous contents.
func (c *Channel) Publish(frame []byte) error {
	if len(frame) > c.capacity {
		return domain.OversizeError(len(frame), c.capacity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCreated && c.state != StateAttached {
		return domain.ErrChannelClosed.WithDetails(c.state.String())
	}

	if err := c.lock.Lock(c.lockTimeout); err != nil {
		return domain.ErrLockUnavailable.WithCause(err)
	}

	err := c.region.WriteAt(0, frame)
	if unlockErr := c.lock.Unlock(); unlockErr != nil && err == nil {
		err = unlockErr
	}
	if err != nil {
		return fmt.Errorf("shm: publish %d bytes: %w", len(frame), err)
	}
	return nil
}

// Close releases the lock if held and unmaps the region. It is safe to
// call more than once and on a nil or never opened Channel.
func (c *Channel) Close() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed

	var errs []error
	if c.lock != nil {
		errs = append(errs, c.lock.Close())
		c.lock = nil
	}
	if c.region != nil {
		errs = append(errs, c.region.Close())
		c.region = nil
	}
	return errors.Join(errs...)
}

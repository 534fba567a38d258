package source

import (
	"bytes"

	"github.com/yndnr/xpconnect-go/internal/core/domain"
)

const (
	// DefaultRetryEvery is how many captures pass before missing datarefs
	// are looked up again.
	DefaultRetryEvery = 50

	// maxStringBytes bounds reads of data datarefs.
	maxStringBytes = 260
)

type resolvedRef struct {
	ref   DataRef
	types DataType
}

// Source reads snapshots from a DataAccess. It is not safe for concurrent
// use; the host calls it from its flight loop only.
type Source struct {
	access     DataAccess
	retryEvery int

	refs       []resolvedRef
	resolved   bool
	missing    int
	sinceRetry int

	scratch [maxStringBytes]byte
}

// Option configures a Source.
type Option func(*Source)

// WithRetryEvery sets how often missing datarefs are looked up again.
func WithRetryEvery(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.retryEvery = n
		}
	}
}

// New creates a Source reading from access.
func New(access DataAccess, opts ...Option) *Source {
	s := &Source{
		access:     access,
		retryEvery: DefaultRetryEvery,
		refs:       make([]resolvedRef, len(fields)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture reads a fresh snapshot. It fails with domain.ErrCaptureUnavailable
// only when the data interface is not ready.
func (s *Source) Capture() (*domain.Snapshot, error) {
	if s.access == nil || !s.access.Ready() {
		return nil, domain.ErrCaptureUnavailable
	}

	s.resolve()

	snap := &domain.Snapshot{}
	for i := range fields {
		r := s.refs[i]
		if r.ref == 0 {
			continue
		}
		s.read(&fields[i], r, snap)
	}
	return snap, nil
}

// Missing returns the names of datarefs that are currently unresolved.
func (s *Source) Missing() []string {
	var names []string
	for i, r := range s.refs {
		if r.ref == 0 {
			names = append(names, fields[i].name)
		}
	}
	return names
}

// resolve looks up all datarefs on first use and retries the missing ones
// every retryEvery captures.
func (s *Source) resolve() {
	if s.resolved {
		if s.missing == 0 {
			return
		}
		s.sinceRetry++
		if s.sinceRetry < s.retryEvery {
			return
		}
	}
	s.sinceRetry = 0

	missing := 0
	for i := range fields {
		if s.refs[i].ref != 0 {
			continue
		}
		ref, ok := s.access.Find(fields[i].name)
		if !ok || ref == 0 {
			missing++
			continue
		}
		s.refs[i] = resolvedRef{ref: ref, types: s.access.Types(ref)}
	}
	s.missing = missing
	s.resolved = true
}

func (s *Source) read(f *field, r resolvedRef, snap *domain.Snapshot) {
	switch f.kind {
	case kindFloat:
		switch {
		case r.types&TypeFloat != 0:
			f.setFloat(snap, s.access.Float(r.ref))
		case r.types&TypeDouble != 0:
			f.setFloat(snap, float32(s.access.Double(r.ref)))
		case r.types&TypeInt != 0:
			f.setFloat(snap, float32(s.access.Int(r.ref)))
		}
	case kindDouble:
		switch {
		case r.types&TypeDouble != 0:
			f.setDouble(snap, s.access.Double(r.ref))
		case r.types&TypeFloat != 0:
			f.setDouble(snap, float64(s.access.Float(r.ref)))
		}
	case kindInt, kindBool:
		switch {
		case r.types&TypeInt != 0:
			f.setInt(snap, s.access.Int(r.ref))
		case r.types&TypeFloat != 0:
			f.setInt(snap, int32(s.access.Float(r.ref)))
		}
	case kindString:
		if r.types&TypeData == 0 {
			return
		}
		n := s.access.Bytes(r.ref, s.scratch[:])
		if n < 0 {
			return
		}
		raw := s.scratch[:min(n, len(s.scratch))]
		if i := bytes.IndexByte(raw, 0); i >= 0 {
			raw = raw[:i]
		}
		*f.setString(snap) = string(raw)
	}
}

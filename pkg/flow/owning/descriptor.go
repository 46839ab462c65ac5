// Package owning holds the two leaf RAII-style values the rest of flow is
// built on: a descriptor that owns at most one open file descriptor, and a
// pid that owns at most one unreaped child. Go has no destructors, so
// "drop releases" becomes "Close (or Wait) must be called"; every owner in
// pkg/flow/instantiate and pkg/flow/channel calls these explicitly on every
// exit path, mirroring the discipline the C++ original enforced with scope
// guards.
package owning

import (
	"github.com/sirupsen/logrus"
)

// InvalidFD is the sentinel held by a Descriptor that owns nothing.
const InvalidFD = -1

// Descriptor owns at most one OS file descriptor. The zero value owns
// nothing. A Descriptor must not be copied after it has been assigned a
// live fd; pass it by pointer once opened.
type Descriptor struct {
	fd int
}

// NewDescriptor wraps an already-open fd.
func NewDescriptor(fd int) *Descriptor {
	return &Descriptor{fd: fd}
}

// Invalid returns a Descriptor that owns nothing.
func Invalid() *Descriptor {
	return &Descriptor{fd: InvalidFD}
}

// FD returns the underlying descriptor number, or InvalidFD if none is
// held.
func (d *Descriptor) FD() int {
	if d == nil {
		return InvalidFD
	}
	return d.fd
}

// Valid reports whether d currently owns an open descriptor.
func (d *Descriptor) Valid() bool {
	return d != nil && d.fd != InvalidFD
}

// Release yields the descriptor number without closing it; the caller
// takes over ownership. d is left owning nothing.
func (d *Descriptor) Release() int {
	if d == nil {
		return InvalidFD
	}
	fd := d.fd
	d.fd = InvalidFD
	return fd
}

// Close closes the held descriptor, if any, and reports the resulting
// error. Calling Close on an already-closed (or never-opened) Descriptor is
// a no-op that returns nil. Errors are logged by the caller; Close itself
// never logs so that callers that expect EBADF/EINTR races on double-close
// can decide whether that's noteworthy.
func (d *Descriptor) Close() error {
	if d == nil || d.fd == InvalidFD {
		return nil
	}
	err := closeFD(d.fd)
	d.fd = InvalidFD
	return err
}

// CloseLogged closes d and logs any error at Warn level tagged with who,
// the idiom the rest of the channel layer uses instead of silently
// swallowing close failures.
func (d *Descriptor) CloseLogged(who string) {
	if err := d.Close(); err != nil {
		logrus.Warnf("%s: close fd failed: %v", who, err)
	}
}

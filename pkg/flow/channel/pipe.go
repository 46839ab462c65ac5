package channel

import (
	"io"

	"github.com/procflow/flow/pkg/flow/owning"
	"github.com/sirupsen/logrus"
)

// Side names one end of a PipeChannel.
type Side int

const (
	ReadSide Side = iota
	WriteSide
)

func (s Side) String() string {
	if s == ReadSide {
		return "read"
	}
	return "write"
}

// PipeChannel owns both ends of an anonymous OS pipe. Each end may be
// closed independently; closing both detaches the channel from any live
// descriptor.
type PipeChannel struct {
	read  *owning.Descriptor
	write *owning.Descriptor
}

func (*PipeChannel) Kind() Kind { return KindPipe }

// NewPipe creates an anonymous pipe via the OS. Both ends start open and
// close-on-exec; the instantiation engine clears CLOEXEC on whichever end
// a specific child needs to inherit.
func NewPipe() (*PipeChannel, error) {
	r, w, err := newPipePair()
	if err != nil {
		return nil, err
	}
	return &PipeChannel{read: owning.NewDescriptor(r), write: owning.NewDescriptor(w)}, nil
}

// FD returns the current descriptor number for side, or owning.InvalidFD
// if that side is closed.
func (p *PipeChannel) FD(side Side) int {
	if side == ReadSide {
		return p.read.FD()
	}
	return p.write.FD()
}

func (p *PipeChannel) descriptor(side Side) *owning.Descriptor {
	if side == ReadSide {
		return p.read
	}
	return p.write
}

// Close closes one side. It is idempotent: closing an already-closed side
// is a no-op. Failures are logged with the side and descriptor, per spec,
// and swallowed — a failed close on a pipe end is not actionable by the
// caller.
func (p *PipeChannel) Close(side Side) {
	d := p.descriptor(side)
	fd := d.FD()
	if err := d.Close(); err != nil {
		logrus.Warnf("pipe: close %s side (fd %d) failed: %v", side, fd, err)
	}
}

// CloseBoth closes both ends, detaching the channel entirely.
func (p *PipeChannel) CloseBoth() {
	p.Close(ReadSide)
	p.Close(WriteSide)
}

// DupTo duplicates one side's descriptor onto targetFD, atomically closing
// whatever previously occupied that slot (dup2 semantics), and updates the
// channel's bookkeeping to the new descriptor number.
func (p *PipeChannel) DupTo(side Side, targetFD int) error {
	d := p.descriptor(side)
	if err := dup2(d.FD(), targetFD); err != nil {
		return err
	}
	// The old fd is still open at its original number unless it happened
	// to equal targetFD; close it now that the dup exists, then adopt the
	// new number.
	old := d.Release()
	if old != targetFD {
		_ = closeRaw(old)
	}
	*d = *owning.NewDescriptor(targetFD)
	return nil
}

// Read reads from the pipe's read end.
func (p *PipeChannel) Read(buf []byte) (int, error) {
	return readFD(p.read.FD(), buf)
}

// Write writes to the pipe's write end, looping to cover short writes the
// same way ForwardingChannel's copy loop does.
func (p *PipeChannel) Write(buf []byte) (int, error) {
	return writeFD(p.write.FD(), buf)
}

// ReadCloser returns the read end of the pipe wrapped as an
// io.ReadCloser, for handing a UserEndpoint's reading side back to a
// caller as an ordinary Go value.
func (p *PipeChannel) ReadCloser() io.ReadCloser {
	return &pipeEnd{p: p, side: ReadSide}
}

// WriteCloser returns the write end of the pipe wrapped as an
// io.WriteCloser.
func (p *PipeChannel) WriteCloser() io.WriteCloser {
	return &pipeEnd{p: p, side: WriteSide}
}

type pipeEnd struct {
	p    *PipeChannel
	side Side
}

func (e *pipeEnd) Read(buf []byte) (int, error) {
	if e.side != ReadSide {
		return 0, errNotReadable
	}
	return e.p.Read(buf)
}

func (e *pipeEnd) Write(buf []byte) (int, error) {
	if e.side != WriteSide {
		return 0, errNotWritable
	}
	return e.p.Write(buf)
}

func (e *pipeEnd) Close() error {
	e.p.Close(e.side)
	return nil
}

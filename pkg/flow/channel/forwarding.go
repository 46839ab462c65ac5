package channel

import (
	"sync"

	"github.com/procflow/flow/pkg/flow/owning"
)

// ForwardingResult is the final tally a ForwardingChannel's background
// worker reports once the source has hit EOF.
type ForwardingResult struct {
	Reads  int64
	Writes int64
	Bytes  int64
	Err    error
}

// ForwardingChannel owns a source and destination descriptor and a
// background worker that copies bytes source -> destination until EOF on
// the source. It has no cancellation path besides closing the source
// descriptor (an explicit Stop is exposed as an improvement flagged, but
// not implemented, in the original design notes); closing Source causes
// the loop to exit on its next read.
type ForwardingChannel struct {
	source *owning.Descriptor
	dest   *owning.Descriptor

	once   sync.Once
	done   chan struct{}
	result ForwardingResult
}

func (*ForwardingChannel) Kind() Kind { return KindForwarding }

const forwardingBufferSize = 4096

// NewForwarding starts the background copy worker and returns the owning
// channel. source and dest are owned by the returned channel from this
// point on.
func NewForwarding(source, dest *owning.Descriptor) *ForwardingChannel {
	f := &ForwardingChannel{source: source, dest: dest, done: make(chan struct{})}
	go f.run()
	return f
}

func (f *ForwardingChannel) run() {
	defer close(f.done)
	buf := make([]byte, forwardingBufferSize)
	for {
		n, err := readFD(f.source.FD(), buf)
		if n > 0 {
			f.result.Reads++
			written, werr := writeFD(f.dest.FD(), buf[:n])
			f.result.Writes++
			f.result.Bytes += int64(written)
			if werr != nil {
				f.result.Err = werr
				return
			}
		}
		if err != nil {
			f.result.Err = err
			return
		}
		if n == 0 {
			// EOF: a zero-byte, error-free read on a pipe or file.
			return
		}
	}
}

// Result blocks until the worker has observed EOF (or an error) on the
// source, then returns the final counters. It is safe to call Result more
// than once; later calls return the same cached result.
func (f *ForwardingChannel) Result() ForwardingResult {
	<-f.done
	return f.result
}

// Stop closes the source descriptor, which causes the worker to observe
// EOF (or an error) on its next read and exit. It is the explicit
// cancellation hook the original design notes flagged as missing.
func (f *ForwardingChannel) Stop() {
	f.once.Do(func() {
		f.source.CloseLogged("forwarding-channel")
	})
}

package instantiate

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// diagHandle is a leaf's diagnostic stream: the fd handed to the child as
// its diagnostics descriptor, and the ReadWriteCloser the parent retains
// to read it back (or, for a shared log file, to leave writing).
type diagHandle struct {
	writeFD int
	stream  io.ReadWriteCloser
	path    string
}

// newDiag opens a leaf's diagnostic stream per opts: its own append-mode,
// write-only open of the DiagnosticsLog's Filename if one was configured
// (the Logger itself is never written through, so its rotation does not
// apply), otherwise a fresh uuid-named temp file private to this leaf.
func newDiag(opts Options) (diagHandle, error) {
	if opts.DiagnosticsLog != nil {
		path := opts.DiagnosticsLog.Filename
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return diagHandle{}, errors.Wrap(err, "opening shared diagnostics log")
		}
		return diagHandle{writeFD: int(f.Fd()), stream: f, path: path}, nil
	}

	path := filepath.Join(os.TempDir(), "flow-diag-"+uuid.NewString())
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return diagHandle{}, errors.Wrap(err, "creating diagnostics file")
	}
	return diagHandle{writeFD: int(f.Fd()), stream: f, path: path}, nil
}

package channel

import "github.com/procflow/flow/pkg/flow"

// FileChannel carries only metadata: a path and a required direction. It
// has no runtime OS resources of its own — the child that reaches it opens
// the file itself during rewiring, after fork.
type FileChannel struct {
	Path      string
	Direction flow.Direction
}

func (*FileChannel) Kind() Kind { return KindFile }

// OpenFlags returns the POSIX open(2) flags this channel's direction
// implies. Per an explicit open question in the original source, bidir
// (and, historically, even read-only) directions were opened O_RDWR with
// mode 0600; here direction is honored precisely instead of carrying that
// bug forward.
func (f *FileChannel) OpenFlags() int {
	switch f.Direction {
	case flow.DirIn:
		return OpenReadOnly
	case flow.DirOut:
		return OpenWriteOnly
	default:
		return OpenReadWrite
	}
}

// Open opens the file for the channel's direction with mode 0600, the
// fixed mode spec.md's child-side rewiring step uses.
func (f *FileChannel) Open() (int, error) {
	return openFile(f.Path, f.OpenFlags(), 0600)
}

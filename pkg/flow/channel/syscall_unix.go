//go:build unix

package channel

import "golang.org/x/sys/unix"

func newPipePair() (r, w int, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		return -1, -1, &osError{op: "pipe2", err: err}
	}
	return fds[0], fds[1], nil
}

func dup2(oldfd, newfd int) error {
	if err := unix.Dup2(oldfd, newfd); err != nil {
		return &osError{op: "dup2", err: err}
	}
	return nil
}

func closeRaw(fd int) error {
	return unix.Close(fd)
}

func readFD(fd int, buf []byte) (int, error) {
	n, err := unix.Read(fd, buf)
	if err != nil {
		return n, &osError{op: "read", err: err}
	}
	return n, nil
}

func writeFD(fd int, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := unix.Write(fd, buf[total:])
		if n > 0 {
			total += n
		}
		if err != nil {
			return total, &osError{op: "write", err: err}
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

func openFile(path string, flags int, mode uint32) (int, error) {
	fd, err := unix.Open(path, flags, mode)
	if err != nil {
		return -1, &osError{op: "open", err: err}
	}
	return fd, nil
}

func setpgid(pid, pgid int) error {
	if err := unix.Setpgid(pid, pgid); err != nil {
		return &osError{op: "setpgid", err: err}
	}
	return nil
}

const (
	OpenReadOnly  = unix.O_RDONLY
	OpenWriteOnly = unix.O_WRONLY
	OpenReadWrite = unix.O_RDWR
)

package channel

import "errors"

var (
	errNotReadable = errors.New("channel: write end is not readable")
	errNotWritable = errors.New("channel: read end is not writable")
)

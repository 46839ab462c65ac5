package main

import (
	"fmt"
	"io"
	"os"

	"github.com/procflow/flow/pkg/flow/channel"
	"github.com/procflow/flow/pkg/flow/instance"
	"github.com/procflow/flow/pkg/flow/wait"
	"github.com/sirupsen/logrus"
)

// userPipe returns the channel at index idx of root's own Channels array as
// a PipeChannel, the way a caller reaches the read or write end a
// UserEndpoint link was resolved to.
func userPipe(root *instance.Instance, idx int) (*channel.PipeChannel, error) {
	custom, ok := root.AsCustom()
	if !ok {
		return nil, fail("root instance is not a System")
	}
	if idx < 0 || idx >= len(custom.Channels) {
		return nil, fail("channel index %d out of range (have %d)", idx, len(custom.Channels))
	}
	pc, ok := channel.Deref(custom.Channels[idx]).(*channel.PipeChannel)
	if !ok {
		return nil, fail("channel %d is not a pipe", idx)
	}
	return pc, nil
}

// drainAndWait copies everything written to the user-facing read end of
// pipe index idx to stdout, waits for every leaf to exit while forwarding
// SIGINT/SIGTERM to the process group, and reports each leaf's result.
func drainAndWait(root *instance.Instance, idx int) error {
	pc, err := userPipe(root, idx)
	if err != nil {
		return err
	}
	reader := pc.ReadCloser()

	custom, _ := root.AsCustom()
	stop := wait.WatchForInterrupt(-custom.Pgrp)
	defer stop()

	if _, err := io.Copy(os.Stdout, reader); err != nil {
		logrus.Warnf("flowctl: copying captured output: %v", err)
	}
	reader.Close()

	for _, r := range wait.Wait(root) {
		fmt.Fprintln(os.Stderr, "flowctl:", r.String())
	}
	return nil
}

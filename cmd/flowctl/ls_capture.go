package main

import (
	"github.com/procflow/flow/pkg/flow"
	"github.com/procflow/flow/pkg/flow/instantiate"
	"github.com/urfave/cli/v2"
)

// newLsCaptureCommand builds the simplest possible graph: a single leaf
// whose stdout is captured back to the caller as a pipe, everything else
// left undeclared so the leaf never needs a file redirection for ports it
// isn't using.
func newLsCaptureCommand() *cli.Command {
	return &cli.Command{
		Name:      "ls-capture",
		Usage:     "run ls against a directory and capture its stdout",
		ArgsUsage: "[directory]",
		Action: func(c *cli.Context) error {
			dir := c.Args().First()
			var args []string
			if dir != "" {
				args = []string{dir}
			}

			leaf := flow.NewExecutable("/bin/ls", args, "").WithPorts(flow.Ports{
				flow.Stdout: {Direction: flow.DirOut, Comment: "captured by the caller"},
			})

			nodes := flow.NewNodeMap()
			nodes.Set("ls", leaf)
			links := []flow.Link{
				flow.NewLink(flow.NewNodeEndpoint("ls", flow.Stdout), flow.NewUserEndpoint("out")),
			}
			root := flow.NewSystem(nil, nodes, links)

			inst, err := instantiate.Instantiate(root, instantiate.Options{})
			if err != nil {
				return err
			}
			return drainAndWait(inst, 0)
		},
	}
}

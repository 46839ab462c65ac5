package main

import (
	"github.com/procflow/flow/pkg/flow"
	"github.com/procflow/flow/pkg/flow/instantiate"
	"github.com/procflow/flow/pkg/flow/pipeline"
	"github.com/urfave/cli/v2"
)

// newPipelineCommand builds `ls | wc -l` with the pipeline.Builder: the Go
// stand-in for the original source's operator| chaining.
func newPipelineCommand() *cli.Command {
	return &cli.Command{
		Name:      "pipeline",
		Usage:     "run ls | wc -l over a directory via the pipeline builder",
		ArgsUsage: "[directory]",
		Action: func(c *cli.Context) error {
			dir := c.Args().First()
			var lsArgs []string
			if dir != "" {
				lsArgs = []string{dir}
			}

			head := flow.NewExecutable("/bin/ls", lsArgs, "").WithPorts(flow.Ports{
				flow.Stdout: {Direction: flow.DirOut},
			})
			tail := flow.NewExecutable("/usr/bin/wc", []string{"-l"}, "").WithPorts(flow.Ports{
				flow.Stdin:  {Direction: flow.DirIn},
				flow.Stdout: {Direction: flow.DirOut},
			})

			b := pipeline.New().
				Append(head).
				Append(tail).
				AppendEndpoint(flow.NewUserEndpoint("out"))
			if err := b.Err(); err != nil {
				return err
			}

			inst, err := b.Instantiate(instantiate.Options{})
			if err != nil {
				return err
			}
			return drainAndWait(inst, 1)
		},
	}
}

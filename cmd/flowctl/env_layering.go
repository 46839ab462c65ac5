package main

import (
	"github.com/procflow/flow/pkg/flow"
	"github.com/procflow/flow/pkg/flow/instantiate"
	"github.com/urfave/cli/v2"
)

// newEnvLayeringCommand demonstrates a System's Environment overlay on top
// of Options.BaseEnvironment: the child's FLOWCTL_LAYER reflects the
// System's own declaration, while FLOWCTL_SOURCE survives untouched from
// the base, showing that a System's Environment only overrides the keys it
// actually names.
func newEnvLayeringCommand() *cli.Command {
	return &cli.Command{
		Name:  "env-layering",
		Usage: "run env to show System.Environment overlaid on Options.BaseEnvironment",
		Action: func(c *cli.Context) error {
			leaf := flow.NewExecutable("/usr/bin/env", nil, "").WithPorts(flow.Ports{
				flow.Stdout: {Direction: flow.DirOut},
			})

			nodes := flow.NewNodeMap()
			nodes.Set("env", leaf)
			links := []flow.Link{
				flow.NewLink(flow.NewNodeEndpoint("env", flow.Stdout), flow.NewUserEndpoint("out")),
			}
			root := flow.NewSystem(map[string]string{
				"FLOWCTL_LAYER": "system",
			}, nodes, links)

			opts := instantiate.Options{
				BaseEnvironment: map[string]string{
					"FLOWCTL_LAYER":  "base",
					"FLOWCTL_SOURCE": "base",
				},
			}

			inst, err := instantiate.Instantiate(root, opts)
			if err != nil {
				return err
			}
			return drainAndWait(inst, 0)
		},
	}
}

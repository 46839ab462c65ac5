// Command flowctl is a thin driver over the flow library: it exposes a
// handful of built-in example graphs rather than a config-file graph
// parser, the way cmd/k3s's multicall binary exposes subcommands instead
// of a single monolithic flag set.
package main

import (
	"fmt"
	"os"

	"github.com/procflow/flow/pkg/flow/instantiate"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	// Must run before anything else touches flags or stdout: when this
	// binary is re-exec'd as the flow-child trampoline, MaybeRunTrampoline
	// never returns to the rest of main.
	instantiate.MaybeRunTrampoline()

	app := &cli.App{
		Name:  "flowctl",
		Usage: "instantiate a declarative process graph",
		Commands: []*cli.Command{
			newLsCaptureCommand(),
			newPipelineCommand(),
			newEnvLayeringCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func fail(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

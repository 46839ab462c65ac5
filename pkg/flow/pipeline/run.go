package pipeline

import (
	"github.com/procflow/flow/pkg/flow/instance"
	"github.com/procflow/flow/pkg/flow/instantiate"
	"github.com/procflow/flow/pkg/flow/wait"
)

// Instantiate builds the pipeline and forks it, the Go equivalent of the
// original source's node_pipeline::instantiate().
func (b *Builder) Instantiate(opts instantiate.Options) (*instance.Instance, error) {
	node, err := b.Build()
	if err != nil {
		return nil, err
	}
	return instantiate.Instantiate(node, opts)
}

// Run instantiates the pipeline and waits for every leaf to reach a
// terminal status, the Go equivalent of node_pipeline::wait() when called
// directly from the setup state.
func (b *Builder) Run(opts instantiate.Options) ([]wait.Result, error) {
	inst, err := b.Instantiate(opts)
	if err != nil {
		return nil, err
	}
	return wait.Wait(inst), nil
}

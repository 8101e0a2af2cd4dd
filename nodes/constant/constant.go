// Package constant implements the "constant" demonstration node: a
// source that emits its single tunable property unchanged every tick.
// It is spec §8 scenario 1's upstream node, the manifest-backed
// counterpart of internal/engine's throwaway test fixture.
package constant

import "github.com/minicortex/core/internal/nodeclass"

func init() {
	nodeclass.Register("constant", func() nodeclass.Implementation { return &Node{} })
}

// Node holds no state of its own; its output is entirely a function of
// the "value" property for the current tick.
type Node struct{}

func (Node) Process(ctx *nodeclass.Context) error {
	ctx.SetOutput("out", ctx.GetProperty("value"))
	return nil
}

// Package passthrough implements the "passthrough" demonstration node:
// it forwards its input to its output unchanged. Two instances wired
// a->b->a form the two-node cycle of spec §8 scenario 3, exercising the
// scheduler's force-schedule/feedback-edge classification on a type
// that isn't otherwise coupled to the cycle it happens to sit in.
package passthrough

import "github.com/minicortex/core/internal/nodeclass"

func init() {
	nodeclass.Register("passthrough", func() nodeclass.Implementation { return &Node{} })
}

type Node struct{}

func (Node) Process(ctx *nodeclass.Context) error {
	v, ok := ctx.GetInput("in")
	if !ok {
		v = nil
	}
	ctx.SetOutput("out", v)
	return nil
}

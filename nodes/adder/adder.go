// Package adder implements the "adder" demonstration node: input x plus
// the "bias" property, written to output y every tick — spec §8
// scenario 1, the canonical feedforward example.
package adder

import "github.com/minicortex/core/internal/nodeclass"

func init() {
	nodeclass.Register("adder", func() nodeclass.Implementation { return &Node{} })
}

type Node struct{}

func (Node) Process(ctx *nodeclass.Context) error {
	x, ok := ctx.GetInput("x")
	if !ok {
		x = 0.0
	}
	bias, _ := ctx.GetProperty("bias").(float64)
	ctx.SetOutput("y", x.(float64)+bias)
	return nil
}

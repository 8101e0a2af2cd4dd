// Package counter implements the "counter" demonstration node: it adds
// 1 to its own previous output every tick via a self-loop connection
// from "curr" back to "prev" — spec §8 scenario 2, the canonical
// feedback example. Tick 0 reads "prev" as unset and treats it as zero.
// Its "total" store accumulates the sum of every value curr has
// emitted, and its
// "reset" action (§4/§6) clears that store back to zero on demand.
package counter

import "github.com/minicortex/core/internal/nodeclass"

func init() {
	nodeclass.Register("counter", func() nodeclass.Implementation { return &Node{} })
}

type Node struct {
	ctx *nodeclass.Context
}

// BindContext lets Reset reach its own cells even though action
// callbacks are invoked with only a params map (§4/§6).
func (n *Node) BindContext(ctx *nodeclass.Context) {
	n.ctx = ctx
}

func (Node) Process(ctx *nodeclass.Context) error {
	prev, ok := ctx.GetInput("prev")
	if !ok {
		prev = 0.0
	}
	curr := prev.(float64) + 1
	ctx.SetOutput("curr", curr)
	ctx.SetStore("total", ctx.GetStore("total").(float64)+curr)
	return nil
}

// Reset zeroes the "total" store, ignoring params — the action
// callback contract is func(map[string]any) (any, error) (§4/§6) even
// when an action takes no meaningful input.
func (n *Node) Reset(params map[string]any) (any, error) {
	n.ctx.SetStore("total", 0.0)
	return n.ctx.GetStore("total"), nil
}

// Package display implements the "display" demonstration node: a sink
// with no outputs of its own, writing its input's current value to a
// text display cell each tick, and to a numeric display cell when the
// value is a float64 — the minimal UI-facing
// leaf spec §8's scenarios terminate into.
package display

import (
	"fmt"

	"github.com/minicortex/core/internal/nodeclass"
)

func init() {
	nodeclass.Register("display", func() nodeclass.Implementation { return &Node{} })
}

type Node struct{}

// Init seeds both display cells so the UI shows something sane before
// the first tick runs, rather than the zero value of an untouched
// display cell (nil).
func (*Node) Init(ctx *nodeclass.Context) {
	ctx.SetDisplay("numeric", 0.0)
	ctx.SetDisplay("text", "")
}

func (*Node) Process(ctx *nodeclass.Context) error {
	v, ok := ctx.GetInput("in")
	if !ok {
		ctx.SetDisplay("numeric", 0.0)
		ctx.SetDisplay("text", "")
		return nil
	}

	if f, ok := v.(float64); ok {
		ctx.SetDisplay("numeric", f)
	}
	ctx.SetDisplay("text", fmt.Sprintf("%v", v))
	return nil
}

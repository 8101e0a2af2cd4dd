package engine

import (
	"fmt"
	"runtime/debug"

	"github.com/minicortex/core/internal/ndarray"
	"github.com/minicortex/core/internal/nodeclass"
	"github.com/minicortex/core/internal/registry"
	"github.com/minicortex/core/internal/scheduler"
	"github.com/minicortex/core/internal/signalstore"
)

// RuntimeError describes a node's Process failure: the scheduler
// captures (instance-id, class-type, message, stack trace) and stops
// the tick (§7). Trace is captured at the point of failure since Go
// errors, unlike the original's exceptions, don't carry one implicitly.
type RuntimeError struct {
	InstanceID nodeclass.InstanceID
	TypeName   string
	Err        error
	Trace      string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("node %q (%s): %v", e.InstanceID, e.TypeName, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// run executes every live instance exactly once, in scheduler order,
// and returns the first Process error encountered (stopping the pass at
// that point, per §7). advance controls whether the signal store's
// generation is swapped at the end — Probe passes false so a probing
// pass doesn't perturb feedback timing (§4.4 "Probing").
func run(reg *registry.Registry, advance bool) error {
	view := reg.BuildTickView()
	plan := scheduler.Compute(reg.Graph(), view.NodeInfos)
	store := reg.Signals()

	for _, id := range plan.Order {
		inst := view.Instances[id]
		gatherInputs(reg, store, plan, inst)

		ctx := nodeclass.NewContext(inst)
		if err := inst.Impl.Process(ctx); err != nil {
			reg.SetInstanceError(id, err)
			return &RuntimeError{InstanceID: id, TypeName: inst.Class.TypeName, Err: err, Trace: string(debug.Stack())}
		}
		reg.SetInstanceError(id, nil)

		harvestOutputs(store, inst)
	}

	if advance {
		store.Advance()
	}
	return nil
}

// Tick advances the clock: a full evaluation pass followed by a signal
// store generation swap.
func Tick(reg *registry.Registry) error {
	return run(reg, true)
}

// Probe runs a single evaluation pass without advancing the signal
// store generation, used to refresh display outputs after a topology
// change while the network is stopped (§4.4 "Probing").
func Probe(reg *registry.Registry) error {
	return run(reg, false)
}

func gatherInputs(reg *registry.Registry, store *signalstore.Store, plan scheduler.Plan, inst *nodeclass.Instance) {
	for _, edge := range reg.Graph().InEdges(inst.ID) {
		class := plan.EdgeClasses[edge]
		key := signalstore.Key{InstanceID: string(edge.FromID), OutputKey: edge.FromKey}

		var value any
		var ok bool
		if class == scheduler.Feedback {
			value, ok = store.ReadPrevious(key)
		} else {
			value, ok = store.ReadCurrent(key)
		}

		if !ok {
			inst.Cells.Inputs[edge.ToKey] = nodeclass.Unset
			continue
		}
		inst.Cells.Inputs[edge.ToKey] = cloneIfArray(value)
	}
}

func harvestOutputs(store *signalstore.Store, inst *nodeclass.Instance) {
	for key, value := range inst.Cells.Outputs {
		store.WriteCurrent(signalstore.Key{InstanceID: string(inst.ID), OutputKey: key}, value)
	}
}

// cloneIfArray deep-copies ndarray.Array values before handoff so no two
// nodes ever observe the same mutable buffer; scalars and strings are
// already immutable in Go and pass by value (§4.4 step 2).
func cloneIfArray(v any) any {
	arr, ok := v.(*ndarray.Array)
	if !ok {
		return v
	}
	return arr.Clone()
}

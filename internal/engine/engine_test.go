package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/engine"
	"github.com/minicortex/core/internal/nodeclass"
	"github.com/minicortex/core/internal/registry"
	"github.com/minicortex/core/internal/signalstore"
)

// constantImpl always emits a fixed number on its output port.
type constantImpl struct{ value float64 }

func (c *constantImpl) Process(ctx *nodeclass.Context) error {
	ctx.SetOutput("out", c.value)
	return nil
}

// adderImpl reads x and the bias property, writes y = x + bias.
type adderImpl struct{}

func (adderImpl) Process(ctx *nodeclass.Context) error {
	x, ok := ctx.GetInput("x")
	if !ok {
		return nil
	}
	bias := ctx.GetProperty("bias").(float64)
	ctx.SetOutput("y", x.(float64)+bias)
	return nil
}

// counterImpl adds 1 to its feedback input every tick, treating an
// unset input (tick 0) as zero.
type counterImpl struct{}

func (counterImpl) Process(ctx *nodeclass.Context) error {
	prev, ok := ctx.GetInput("prev")
	if !ok {
		prev = 0.0
	}
	ctx.SetOutput("curr", prev.(float64)+1)
	return nil
}

func buildTwoNodeGraph(t *testing.T) (*registry.Registry, nodeclass.InstanceID, nodeclass.InstanceID) {
	t.Helper()
	r := registry.New()

	aClass := &nodeclass.Class{
		TypeName: "constant",
		Outputs:  []descriptor.Port{{Key: "out", DataType: "float"}},
		Factory:  func() nodeclass.Implementation { return &constantImpl{value: 7} },
	}
	bClass := &nodeclass.Class{
		TypeName:   "adder",
		Inputs:     []descriptor.Port{{Key: "x", DataType: "float"}},
		Outputs:    []descriptor.Port{{Key: "y", DataType: "float"}},
		Properties: []descriptor.Property{{Key: "bias", Kind: descriptor.RangeKind, Default: 3.0, Range: descriptor.Range{Min: 0, Max: 10}}},
		Factory:    func() nodeclass.Implementation { return adderImpl{} },
	}
	require.NoError(t, r.RegisterClass(aClass))
	require.NoError(t, r.RegisterClass(bClass))

	idA, err := r.CreateInstance("constant", nodeclass.Position{})
	require.NoError(t, err)
	idB, err := r.CreateInstance("adder", nodeclass.Position{})
	require.NoError(t, err)
	require.NoError(t, r.Connect(idA, "out", idB, "x"))

	return r, idA, idB
}

func TestTick_TwoNodeFeedforward(t *testing.T) {
	r, idA, idB := buildTwoNodeGraph(t)

	require.NoError(t, engine.Tick(r))

	snap := r.Snapshot()
	var bProps map[string]any
	for _, inst := range snap.Instances {
		if inst.ID == idB {
			bProps = inst.Properties
		}
	}
	require.NotNil(t, bProps)
	assert.Equal(t, 3.0, bProps["bias"])

	// Tick ends with Advance, which moves the finished tick's outputs
	// into the previous generation.
	yVal, ok := r.Signals().ReadPrevious(signalKey(idB, "y"))
	require.True(t, ok)
	assert.Equal(t, 10.0, yVal)

	outVal, ok := r.Signals().ReadPrevious(signalKey(idA, "out"))
	require.True(t, ok)
	assert.Equal(t, 7.0, outVal)
}

func TestTick_SelfLoopFeedback(t *testing.T) {
	r := registry.New()
	cClass := &nodeclass.Class{
		TypeName: "counter",
		Inputs:   []descriptor.Port{{Key: "prev", DataType: "float"}},
		Outputs:  []descriptor.Port{{Key: "curr", DataType: "float"}},
		Factory:  func() nodeclass.Implementation { return counterImpl{} },
	}
	require.NoError(t, r.RegisterClass(cClass))

	id, err := r.CreateInstance("counter", nodeclass.Position{})
	require.NoError(t, err)
	require.NoError(t, r.Connect(id, "curr", id, "prev"))

	var got []float64
	for i := 0; i < 6; i++ {
		require.NoError(t, engine.Tick(r))
		v, ok := r.Signals().ReadPrevious(signalKey(id, "curr"))
		require.True(t, ok)
		got = append(got, v.(float64))
	}

	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, got)
}

// passthroughImpl forwards its single input to its single output
// unchanged, treating an unset input as nil.
type passthroughImpl struct{}

func (passthroughImpl) Process(ctx *nodeclass.Context) error {
	v, _ := ctx.GetInput("in")
	ctx.SetOutput("out", v)
	return nil
}

// TestTick_TwoCycleFeedback wires two distinct instances into a cycle
// (a.out -> b.in, b.out -> a.in) rather than a single node's self-loop,
// exercising the scheduler's cycle-break classification across more
// than one node (§4.4).
func TestTick_TwoCycleFeedback(t *testing.T) {
	r := registry.New()
	ptClass := &nodeclass.Class{
		TypeName: "passthrough",
		Inputs:   []descriptor.Port{{Key: "in", DataType: "any"}},
		Outputs:  []descriptor.Port{{Key: "out", DataType: "any"}},
		Factory:  func() nodeclass.Implementation { return passthroughImpl{} },
	}
	require.NoError(t, r.RegisterClass(ptClass))

	idA, err := r.CreateInstance("passthrough", nodeclass.Position{})
	require.NoError(t, err)
	idB, err := r.CreateInstance("passthrough", nodeclass.Position{})
	require.NoError(t, err)
	require.NoError(t, r.Connect(idA, "out", idB, "in"))
	require.NoError(t, r.Connect(idB, "out", idA, "in"))

	require.NoError(t, engine.Tick(r))
	aOut, ok := r.Signals().ReadPrevious(signalKey(idA, "out"))
	require.True(t, ok)
	assert.Nil(t, aOut)
	bOut, ok := r.Signals().ReadPrevious(signalKey(idB, "out"))
	require.True(t, ok)
	assert.Nil(t, bOut)

	require.NoError(t, engine.Tick(r))
	require.NoError(t, engine.Tick(r))
	_, ok = r.Signals().ReadPrevious(signalKey(idA, "out"))
	assert.True(t, ok)
	_, ok = r.Signals().ReadPrevious(signalKey(idB, "out"))
	assert.True(t, ok)
}

func signalKey(id nodeclass.InstanceID, key string) signalstore.Key {
	return signalstore.Key{InstanceID: string(id), OutputKey: key}
}

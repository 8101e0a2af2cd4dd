package adder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/nodeclass"
	_ "github.com/minicortex/core/nodes/adder"
)

func newAdderInstance(t *testing.T) *nodeclass.Instance {
	t.Helper()
	factory, ok := nodeclass.FactoryFor("adder")
	require.True(t, ok)

	class := &nodeclass.Class{
		TypeName:   "adder",
		Inputs:     []descriptor.Port{{Key: "x", DataType: "float"}},
		Outputs:    []descriptor.Port{{Key: "y", DataType: "float"}},
		Properties: []descriptor.Property{{Key: "bias", Kind: descriptor.RangeKind, Default: 0.0, Range: descriptor.Range{Min: -1000, Max: 1000}}},
		Factory:    factory,
	}
	return nodeclass.NewInstance("n1", class, nodeclass.Position{})
}

func TestAdder_AddsBiasToInput(t *testing.T) {
	inst := newAdderInstance(t)
	inst.Cells.Inputs["x"] = 4.0
	inst.Cells.Properties["bias"] = 3.0

	require.NoError(t, inst.Impl.Process(nodeclass.NewContext(inst)))
	assert.Equal(t, 7.0, inst.Cells.Outputs["y"])
}

func TestAdder_UnsetInputTreatedAsZero(t *testing.T) {
	inst := newAdderInstance(t)
	inst.Cells.Properties["bias"] = 3.0

	require.NoError(t, inst.Impl.Process(nodeclass.NewContext(inst)))
	assert.Equal(t, 3.0, inst.Cells.Outputs["y"])
}

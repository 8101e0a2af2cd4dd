package passthrough_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/nodeclass"
	_ "github.com/minicortex/core/nodes/passthrough"
)

func TestPassthrough_ForwardsInputUnchanged(t *testing.T) {
	factory, ok := nodeclass.FactoryFor("passthrough")
	require.True(t, ok)

	class := &nodeclass.Class{
		TypeName: "passthrough",
		Inputs:   []descriptor.Port{{Key: "in", DataType: "any"}},
		Outputs:  []descriptor.Port{{Key: "out", DataType: "any"}},
		Factory:  factory,
	}
	inst := nodeclass.NewInstance("n1", class, nodeclass.Position{})
	inst.Cells.Inputs["in"] = "hello"

	require.NoError(t, inst.Impl.Process(nodeclass.NewContext(inst)))
	assert.Equal(t, "hello", inst.Cells.Outputs["out"])
}

func TestPassthrough_UnsetInputForwardsNil(t *testing.T) {
	factory, _ := nodeclass.FactoryFor("passthrough")
	class := &nodeclass.Class{
		TypeName: "passthrough",
		Inputs:   []descriptor.Port{{Key: "in", DataType: "any"}},
		Outputs:  []descriptor.Port{{Key: "out", DataType: "any"}},
		Factory:  factory,
	}
	inst := nodeclass.NewInstance("n1", class, nodeclass.Position{})

	require.NoError(t, inst.Impl.Process(nodeclass.NewContext(inst)))
	assert.Nil(t, inst.Cells.Outputs["out"])
}

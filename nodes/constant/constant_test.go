package constant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/nodeclass"
	_ "github.com/minicortex/core/nodes/constant"
)

func TestConstant_EmitsValueProperty(t *testing.T) {
	factory, ok := nodeclass.FactoryFor("constant")
	require.True(t, ok, "constant node must register itself via init()")

	class := &nodeclass.Class{
		TypeName:   "constant",
		Outputs:    []descriptor.Port{{Key: "out", DataType: "float"}},
		Properties: []descriptor.Property{{Key: "value", Kind: descriptor.RangeKind, Default: 1.0, Range: descriptor.Range{Min: -1000, Max: 1000}}},
		Factory:    factory,
	}

	inst := nodeclass.NewInstance("n1", class, nodeclass.Position{})
	inst.Cells.Properties["value"] = 42.0
	ctx := nodeclass.NewContext(inst)

	require.NoError(t, inst.Impl.Process(ctx))
	assert.Equal(t, 42.0, inst.Cells.Outputs["out"])
}

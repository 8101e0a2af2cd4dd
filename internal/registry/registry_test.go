package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/nodeclass"
	"github.com/minicortex/core/internal/registry"
)

type passthroughImpl struct{}

func (passthroughImpl) Process(ctx *nodeclass.Context) error { return nil }

// resettableImpl exercises the action-callback path (§4/§6): a
// single-argument `func(map[string]any) (any, error)` method bound to
// its own cells via nodeclass.ContextBinder.
type resettableImpl struct {
	ctx *nodeclass.Context
}

func (r *resettableImpl) Process(ctx *nodeclass.Context) error { return nil }

func (r *resettableImpl) BindContext(ctx *nodeclass.Context) { r.ctx = ctx }

func (r *resettableImpl) Reset(params map[string]any) (any, error) {
	to, _ := params["to"].(float64)
	r.ctx.SetStore("count", to)
	return to, nil
}

func newTestClass(t *testing.T, typeName string, inputs, outputs []descriptor.Port) *nodeclass.Class {
	t.Helper()
	class := &nodeclass.Class{
		TypeName: typeName,
		Category: "Test",
		Dynamic:  false,
		Inputs:   inputs,
		Outputs:  outputs,
		Factory:  func() nodeclass.Implementation { return passthroughImpl{} },
	}
	require.NoError(t, class.Validate())
	return class
}

func TestConnect_PortBusyRejection(t *testing.T) {
	r := registry.New()
	a := newTestClass(t, "a", nil, []descriptor.Port{{Key: "out", DataType: "int"}})
	b := newTestClass(t, "b", []descriptor.Port{{Key: "x", DataType: "int"}}, nil)
	require.NoError(t, r.RegisterClass(a))
	require.NoError(t, r.RegisterClass(b))

	idA, err := r.CreateInstance("a", nodeclass.Position{})
	require.NoError(t, err)
	idA2, err := r.CreateInstance("a", nodeclass.Position{})
	require.NoError(t, err)
	idB, err := r.CreateInstance("b", nodeclass.Position{})
	require.NoError(t, err)

	require.NoError(t, r.Connect(idA, "out", idB, "x"))
	err = r.Connect(idA2, "out", idB, "x")
	require.Error(t, err)
	assert.True(t, registry.IsKind(err, registry.KindPortBusy))
}

func TestConnect_TypeMismatch(t *testing.T) {
	r := registry.New()
	a := newTestClass(t, "a", nil, []descriptor.Port{{Key: "out", DataType: "ndarray"}})
	b := newTestClass(t, "b", []descriptor.Port{{Key: "x", DataType: "int"}}, nil)
	require.NoError(t, r.RegisterClass(a))
	require.NoError(t, r.RegisterClass(b))

	idA, _ := r.CreateInstance("a", nodeclass.Position{})
	idB, _ := r.CreateInstance("b", nodeclass.Position{})

	err := r.Connect(idA, "out", idB, "x")
	require.Error(t, err)
	assert.True(t, registry.IsKind(err, registry.KindTypeMismatch))
}

func TestConnect_AnyTypeAlwaysCompatible(t *testing.T) {
	r := registry.New()
	a := newTestClass(t, "a", nil, []descriptor.Port{{Key: "out", DataType: "ndarray"}})
	b := newTestClass(t, "b", []descriptor.Port{{Key: "x", DataType: "any"}}, nil)
	require.NoError(t, r.RegisterClass(a))
	require.NoError(t, r.RegisterClass(b))

	idA, _ := r.CreateInstance("a", nodeclass.Position{})
	idB, _ := r.CreateInstance("b", nodeclass.Position{})

	require.NoError(t, r.Connect(idA, "out", idB, "x"))
}

func TestDeleteInstance_RemovesConnections(t *testing.T) {
	r := registry.New()
	a := newTestClass(t, "a", nil, []descriptor.Port{{Key: "out", DataType: "any"}})
	b := newTestClass(t, "b", []descriptor.Port{{Key: "x", DataType: "any"}}, nil)
	require.NoError(t, r.RegisterClass(a))
	require.NoError(t, r.RegisterClass(b))

	idA, _ := r.CreateInstance("a", nodeclass.Position{})
	idB, _ := r.CreateInstance("b", nodeclass.Position{})
	require.NoError(t, r.Connect(idA, "out", idB, "x"))

	require.NoError(t, r.DeleteInstance(idA))
	snap := r.Snapshot()
	assert.Empty(t, snap.Connections)
}

func TestInvokeAction_RunsCallbackAndReturnsResult(t *testing.T) {
	r := registry.New()
	class := &nodeclass.Class{
		TypeName: "resettable",
		Stores:   []descriptor.Store{{Key: "count", Default: 5.0}},
		Actions:  []descriptor.Action{{Key: "reset", Label: "Reset", Callback: "Reset"}},
		Factory:  func() nodeclass.Implementation { return &resettableImpl{} },
	}
	require.NoError(t, r.RegisterClass(class))

	id, err := r.CreateInstance("resettable", nodeclass.Position{})
	require.NoError(t, err)

	result, err := r.InvokeAction(id, "reset", map[string]any{"to": 9.0})
	require.NoError(t, err)
	assert.Equal(t, 9.0, result)

	snap := r.Snapshot()
	require.Len(t, snap.Instances, 1)
	assert.Equal(t, 9.0, snap.Instances[0].Stores["count"])
}

func TestInvokeAction_UnknownActionSuggestsClosest(t *testing.T) {
	r := registry.New()
	class := &nodeclass.Class{
		TypeName: "resettable",
		Actions:  []descriptor.Action{{Key: "reset", Label: "Reset", Callback: "Reset"}},
		Factory:  func() nodeclass.Implementation { return &resettableImpl{} },
	}
	require.NoError(t, r.RegisterClass(class))
	id, err := r.CreateInstance("resettable", nodeclass.Position{})
	require.NoError(t, err)

	_, err = r.InvokeAction(id, "rset", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset")
}

func TestCreateInstance_NotFoundSuggestsClosest(t *testing.T) {
	r := registry.New()
	a := newTestClass(t, "adder", nil, nil)
	require.NoError(t, r.RegisterClass(a))

	_, err := r.CreateInstance("addr", nodeclass.Position{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adder")
}

// TestMutationHook_FiresOnEverySuccessfulMutation exercises spec.md:127's
// "probe on any graph-mutation event" requirement at the registry
// layer: the composition root wires this hook to a supervisor probe.
// CreateInstance, Connect, Disconnect, ToggleOutputEnabled, SetProperty
// and SetStore call it, and only on success; DeleteInstance,
// SetPosition and HotReload do not call it.
func TestMutationHook_FiresOnEverySuccessfulMutation(t *testing.T) {
	r := registry.New()
	a := newTestClass(t, "a", nil, []descriptor.Port{{Key: "out", DataType: "any"}})
	b := newTestClass(t, "b", []descriptor.Port{{Key: "x", DataType: "any"}}, nil)
	require.NoError(t, r.RegisterClass(a))
	require.NoError(t, r.RegisterClass(b))

	fires := 0
	r.SetMutationHook(func() { fires++ })

	idA, err := r.CreateInstance("a", nodeclass.Position{})
	require.NoError(t, err)
	idB, err := r.CreateInstance("b", nodeclass.Position{})
	require.NoError(t, err)
	assert.Equal(t, 2, fires)

	require.NoError(t, r.Connect(idA, "out", idB, "x"))
	assert.Equal(t, 3, fires)

	r.Disconnect(idA, "out", idB, "x")
	assert.Equal(t, 4, fires)

	_, err = r.CreateInstance("missing", nodeclass.Position{})
	require.Error(t, err)
	assert.Equal(t, 4, fires, "a failed mutation must not fire the hook")
}

package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/nodeclass"
	"github.com/minicortex/core/internal/registry"
)

type accumulatorImpl struct{}

func (accumulatorImpl) Init(ctx *nodeclass.Context) {
	if ctx.GetStore("total") == nil {
		ctx.SetStore("total", 0.0)
	}
}

func (accumulatorImpl) Process(ctx *nodeclass.Context) error { return nil }

const accumulatorV1 = `
node "accumulator" {
  category = "Test"
  dynamic  = true

  store "total" {
    default = 0
  }

  lifecycle {
    init    = "Init"
    process = "Process"
  }
}
`

const accumulatorV2 = `
node "accumulator" {
  category = "Test"
  dynamic  = true

  input "reset" {
    data_type = "bool"
  }

  store "total" {
    default = 0
  }

  property "step" {
    kind    = "range"
    default = 1
    min     = 0
    max     = 10
  }

  lifecycle {
    init    = "Init"
    process = "Process"
  }
}
`

// TestHotReload_PreservesStoresAndAppliesNewDefaults builds a class
// from accumulatorV1, creates an unconnected instance, sets its store,
// then rewrites the manifest file to accumulatorV2 (adding a "reset"
// input and a "step" property) and reloads. The surviving store value
// and the new property's default must both be present afterward.
func TestHotReload_PreservesStoresAndAppliesNewDefaults(t *testing.T) {
	nodeclass.Register("accumulator", func() nodeclass.Implementation { return accumulatorImpl{} })

	dir := t.TempDir()
	path := filepath.Join(dir, "accumulator.hcl")
	require.NoError(t, os.WriteFile(path, []byte(accumulatorV1), 0o644))

	r := registry.New()
	require.NoError(t, r.Discover(t.Context(), dir))

	id, err := r.CreateInstance("accumulator", nodeclass.Position{})
	require.NoError(t, err)
	require.NoError(t, r.SetStore(id, "total", 42.0))

	require.NoError(t, os.WriteFile(path, []byte(accumulatorV2), 0o644))
	require.NoError(t, r.HotReload("accumulator"))

	snap := r.Snapshot()
	var got *registry.InstanceSnapshot
	for i := range snap.Instances {
		if snap.Instances[i].ID == id {
			got = &snap.Instances[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, 42.0, got.Stores["total"])
	assert.Equal(t, 1.0, got.Properties["step"])
}

func TestHotReload_RejectsNonDynamicClass(t *testing.T) {
	r := registry.New()
	a := newTestClass(t, "static", nil, nil)
	a.Dynamic = false
	require.NoError(t, r.RegisterClass(a))

	err := r.HotReload("static")
	require.Error(t, err)
	assert.True(t, registry.IsKind(err, registry.KindReloadFailed))
}

package app_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/app"

	_ "github.com/minicortex/core/nodes/adder"
	_ "github.com/minicortex/core/nodes/constant"
	_ "github.com/minicortex/core/nodes/counter"
	_ "github.com/minicortex/core/nodes/display"
	_ "github.com/minicortex/core/nodes/passthrough"
)

func TestNewApp_DiscoversDemonstrationNodes(t *testing.T) {
	var out bytes.Buffer
	cfg, err := app.NewConfig(app.Config{NodesPath: "../../nodes", WorkspacesDir: t.TempDir(), LogFormat: "text", LogLevel: "debug"})
	require.NoError(t, err)

	a, err := app.NewApp(&out, cfg)
	require.NoError(t, err)

	classes := a.Registry().ClassNames()
	assert.Contains(t, classes, "adder")
	assert.Contains(t, classes, "constant")
	assert.Contains(t, classes, "counter")
	assert.Contains(t, classes, "display")
	assert.Contains(t, classes, "passthrough")

	assert.NotNil(t, a.Supervisor())
	assert.NotNil(t, a.Workspace())
	assert.NotNil(t, a.Observer())
}

func TestNewApp_ReturnsErrorOnMissingNodesDir(t *testing.T) {
	var out bytes.Buffer
	cfg, err := app.NewConfig(app.Config{NodesPath: "./does-not-exist"})
	require.NoError(t, err)

	_, err = app.NewApp(&out, cfg)
	require.Error(t, err)
}

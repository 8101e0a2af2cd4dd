package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minicortex/core/internal/ctxlog"
	"github.com/minicortex/core/internal/observer"
	"github.com/minicortex/core/internal/registry"
	"github.com/minicortex/core/internal/supervisor"
	"github.com/minicortex/core/internal/workspace"
)

// App encapsulates the running system's dependencies: the registry
// (palette + live graph), the supervisor (tick/broadcast loops), the
// workspace store (persistence), and the observer fan-out (event
// stream), plus its own isolated logger.
type App struct {
	outW   io.Writer
	logger *slog.Logger

	registry   *registry.Registry
	supervisor *supervisor.Supervisor
	workspace  *workspace.Store
	observer   observer.Fanout
}

// NewApp discovers every node manifest under cfg.NodesPath, wires the
// registry/supervisor/workspace object graph, and returns a ready App.
// A failure to discover node manifests is a fatal startup error.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("logger configured")

	reg := registry.New()
	if err := reg.Discover(ctx, cfg.NodesPath); err != nil {
		return nil, fmt.Errorf("discover node manifests under %s: %w", cfg.NodesPath, err)
	}
	logger.Info("node classes discovered", "count", len(reg.ClassNames()))

	fan := observer.New()
	sup := supervisor.New(reg, fan, cfg.TickHz)
	store := workspace.New(cfg.WorkspacesDir)

	// Any graph-mutating call (create/connect/disconnect/toggle/set) runs
	// a probing tick while stopped, so display outputs never go stale
	// waiting for Start (spec.md:127) — the same need workspace.Load
	// already meets with its own direct probe after restoring a document.
	reg.SetMutationHook(func() {
		if sup.State().Running {
			return
		}
		if err := sup.Probe(); err != nil {
			logger.Warn("probe after mutation failed", "error", err)
		}
	})

	return &App{
		outW:       outW,
		logger:     logger,
		registry:   reg,
		supervisor: sup,
		workspace:  store,
		observer:   fan,
	}, nil
}

// Registry returns the application's registry, primarily for testing
// and for wiring an outer transport's request handlers.
func (a *App) Registry() *registry.Registry { return a.registry }

// Supervisor returns the tick/broadcast supervisor.
func (a *App) Supervisor() *supervisor.Supervisor { return a.supervisor }

// Workspace returns the persistence store.
func (a *App) Workspace() *workspace.Store { return a.workspace }

// Observer returns the event-stream fan-out, for an outer transport
// (internal/transport/socketio) to subscribe to.
func (a *App) Observer() observer.Fanout { return a.observer }

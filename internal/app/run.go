package app

import "context"

// Run starts the supervisor's computation loop and drives both loops
// until ctx is canceled, returning the first error either loop produces.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("minicortex starting", "target_hz", a.supervisor.State().TargetHz, "classes", len(a.registry.ClassNames()))
	a.supervisor.Start()
	return a.supervisor.Run(ctx)
}

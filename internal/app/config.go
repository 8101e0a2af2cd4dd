package app

import "errors"

// Config holds everything needed to construct a runnable App.
type Config struct {
	NodesPath     string // directory of node manifests + Go implementations
	WorkspacesDir string // directory saved/loaded workspace documents live in

	TickHz float64

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults for optional fields.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.NodesPath == "" {
		return nil, errors.New("NodesPath is a required configuration field and cannot be empty")
	}
	if cfg.WorkspacesDir == "" {
		cfg.WorkspacesDir = "workspaces"
	}
	if cfg.TickHz <= 0 {
		cfg.TickHz = 30
	}
	return &cfg, nil
}

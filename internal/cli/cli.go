package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/minicortex/core/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageWrapWidth = 78

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly,
// or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("minicortex", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		intro := "MiniCortex - a node-based, tick-driven computational graph engine " +
			"with hot-reload and workspace persistence.\n\n" +
			"Usage:\n  minicortex [options] [NODES_PATH]\n\n" +
			"Arguments:\n  NODES_PATH\n    Directory of node manifests (.hcl) and their Go implementations.\n\n" +
			"Options:"
		fmt.Fprintln(output, wordwrap.WrapString(intro, usageWrapWidth))
		flagSet.PrintDefaults()
	}

	nodesFlag := flagSet.String("nodes", "", "Path to the node manifest directory.")
	nFlag := flagSet.String("n", "", "Path to the node manifest directory (shorthand).")
	workspacesFlag := flagSet.String("workspaces", "workspaces", "Directory saved/loaded workspace documents live in.")
	hzFlag := flagSet.Float64("hz", 30, "Initial computation tick rate in Hz (1-300, clamped).")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *nodesFlag != "" {
		path = *nodesFlag
	} else if *nFlag != "" {
		path = *nFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Nodes path determined.", "path", path)

	if path == "" {
		slog.Debug("No nodes path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		NodesPath:     path,
		WorkspacesDir: *workspacesFlag,
		TickHz:        *hzFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// Command minicortex runs a MiniCortex computation graph: it discovers
// node manifests, starts the tick/broadcast supervisor, and serves the
// event stream over socket.io until interrupted.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/minicortex/core/internal/app"
	"github.com/minicortex/core/internal/cli"
	"github.com/minicortex/core/internal/transport/socketio"
)

const eventStreamAddr = ":8090"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, color.Red.Sprint(err))
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	application, err := app.NewApp(outW, cfg)
	if err != nil {
		return err
	}

	sio := socket.NewServer(nil, nil)
	obs := socketio.New(sio)
	unsubscribe := application.Observer().Subscribe(obs)
	defer unsubscribe()

	httpServer := &http.Server{Addr: eventStreamAddr, Handler: sio.ServeHandler(nil)}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("socketio transport stopped", "error", err)
		}
	}()
	defer httpServer.Close()
	defer sio.Close(nil)

	fmt.Fprintln(outW, color.Green.Sprintf("minicortex: %d node classes discovered, tick rate %.0f Hz, event stream on %s",
		len(application.Registry().ClassNames()), cfg.TickHz, eventStreamAddr))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return application.Run(ctx)
}

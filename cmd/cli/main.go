package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/assetgrid/internal/app"
	"github.com/specialistvlad/assetgrid/internal/cli"
	"github.com/specialistvlad/assetgrid/internal/feeders"
)

// main is the entrypoint for the assetgrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:])
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	inv, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	assetgridApp, err := startApp(outW, inv.Config)
	if err != nil {
		return err
	}
	return cli.Execute(ctx, assetgridApp, inv, outW)
}

// startApp builds the application. The app panics on critical startup
// errors, so we recover here to return a clean error. Configuration problems
// are usage errors.
func startApp(outW io.Writer, cfg *app.Config) (a *app.App, err error) {
	defer func() {
		if r := recover(); r != nil {
			a = nil
			err = fmt.Errorf("application startup panicked: %v", r)
			if cause, ok := r.(error); ok && errors.Is(cause, app.ErrConfig) {
				err = &cli.ExitError{Code: 2, Message: err.Error()}
			}
		}
	}()
	return app.NewApp(outW, cfg, feeders.New()), nil
}

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/specialistvlad/assetgrid/internal/app"
	"github.com/specialistvlad/assetgrid/internal/config"
	"github.com/specialistvlad/assetgrid/internal/feeders"
	"github.com/spf13/cobra"
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

// usageError wraps a command-line mistake in the exit code for usage errors.
func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Invocation is a parsed command line. Exactly one of Target, Tasks or List
// selects what to do.
type Invocation struct {
	Config *app.Config
	Target string
	Tasks  []string
	List   bool
}

type flagValues struct {
	configPath string
	source     string
	output     string
	host       string
	port       int
	workers    int
	logLevel   string
	logFormat  string
}

// Parse processes command-line arguments. It returns the Invocation, a
// boolean indicating if the program should exit cleanly (help was shown), or
// an ExitError.
func Parse(args []string, output io.Writer) (*Invocation, bool, error) {
	slog.Debug("CLI parser started.")
	var (
		fv  flagValues
		inv *Invocation
	)

	finish := func(cmd *cobra.Command, chosen *Invocation) error {
		cfg, err := fv.config(cmd)
		if err != nil {
			return err
		}
		chosen.Config = cfg
		inv = chosen
		return nil
	}

	root := &cobra.Command{
		Use:   "assetgrid",
		Short: "Build front-end assets from a source tree into a distributable output tree.",
		Long: `assetgrid concatenates, transpiles, minifies and copies CSS, JS, HTML,
image and SVG assets from a source tree into an output tree, and can serve
the result with live reload while watching for changes.

Set NODE_ENV=production to minify and drop source maps.

Without a command, assetgrid runs "dev".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return finish(cmd, &Invocation{Target: "dev"})
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVarP(&fv.configPath, "config", "c", "", "Config file (.hcl, .yaml, .yml or .toml). Default: first of "+strings.Join(feeders.DefaultNames, ", ")+" that exists.")
	pf.StringVar(&fv.source, "source", "", "Source directory (overrides the config file).")
	pf.StringVar(&fv.output, "output", "", "Output directory (overrides the config file).")
	pf.StringVar(&fv.host, "host", "", "Dev server host (overrides the config file).")
	pf.IntVar(&fv.port, "port", 0, "Dev server port (overrides the config file). 0 picks a free port.")
	pf.IntVar(&fv.workers, "workers", 0, "Number of concurrent workers for the executor (overrides the config file).")
	pf.StringVar(&fv.logLevel, "log-level", "info", "Set the logging level. Options: "+strings.Join(app.LogLevels, ", ")+".")
	pf.StringVar(&fv.logFormat, "log-format", "text", "Log output format. Options: "+strings.Join(app.LogFormats, ", ")+".")

	for _, target := range []struct{ name, short string }{
		{"build", "Clean, then build every asset once and exit."},
		{"dev", "Clean, build, then serve the output with live reload and watch for changes."},
		{"watch", "Serve the output with live reload and watch for changes, without an initial build."},
	} {
		name := target.name
		root.AddCommand(&cobra.Command{
			Use:   name,
			Short: target.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return finish(cmd, &Invocation{Target: name})
			},
		})
	}
	root.AddCommand(&cobra.Command{
		Use:   "run TASK...",
		Short: "Run the named tasks, without an implicit clean.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return finish(cmd, &Invocation{Tasks: args})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered tasks with their source globs, and the targets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return finish(cmd, &Invocation{List: true})
		},
	})

	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)
	if err := root.Execute(); err != nil {
		return nil, false, usageError(err)
	}
	if inv == nil {
		slog.Debug("No command ran, help was printed.")
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "target", inv.Target, "tasks", inv.Tasks, "list", inv.List)
	return inv, false, nil
}

// config validates the flag values and turns them into an app.Config.
func (fv *flagValues) config(cmd *cobra.Command) (*app.Config, error) {
	logLevel := strings.ToLower(fv.logLevel)
	if !slices.Contains(app.LogLevels, logLevel) {
		return nil, fmt.Errorf("invalid log-level: must be one of %s", strings.Join(app.LogLevels, ", "))
	}
	logFormat := strings.ToLower(fv.logFormat)
	if !slices.Contains(app.LogFormats, logFormat) {
		return nil, fmt.Errorf("invalid log-format: must be one of %s", strings.Join(app.LogFormats, ", "))
	}

	cfg := &app.Config{
		ConfigPath: fv.configPath,
		Mode:       config.ModeFromEnv(os.LookupEnv),
		SourceDir:  fv.source,
		OutputDir:  fv.output,
		Host:       fv.host,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	}
	if cmd.Flags().Changed("port") {
		port := fv.port
		cfg.Port = &port
	}
	if cmd.Flags().Changed("workers") {
		if fv.workers < 1 {
			return nil, fmt.Errorf("invalid workers: must be at least 1, got %d", fv.workers)
		}
		workers := fv.workers
		cfg.Workers = &workers
	}
	return cfg, nil
}

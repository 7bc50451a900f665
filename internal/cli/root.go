// Package cli implements the workweek command line.
package cli

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/workweek/internal/config"
	"github.com/alexanderramin/workweek/internal/server"
	"github.com/alexanderramin/workweek/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Reports  service.ReportService
	Tracking service.TrackingService

	Config  config.Config
	Logger  *slog.Logger
	Version server.VersionInfo

	// Open wires the services once flags and configuration are resolved.
	// Tests leave it nil and set the services directly.
	Open func(a *App) (cleanup func(), err error)

	// IsInteractive reports whether stdin is a terminal. Defaults to an
	// isatty check.
	IsInteractive func() bool

	// Now is the reference clock. Defaults to time.Now.
	Now func() time.Time

	cleanup func()
}

// NewRootCmd creates the top-level "workweek" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "workweek",
		Short:         "Track login sessions and idle time, report weekly productivity",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			app.Close()
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newReportCmd(app),
		newSessionCmd(app),
		newAgentCmd(app),
		newServeCmd(app),
		newVersionCmd(app),
	)
	return root
}

func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.Config = cfg
	if a.Logger == nil {
		a.Logger = cfg.NewLogger(cmd.ErrOrStderr())
	}
	if a.Open != nil {
		cleanup, err := a.Open(a)
		if err != nil {
			return err
		}
		a.cleanup = cleanup
	}
	if a.Reports == nil || a.Tracking == nil {
		return errors.New("services are not initialised")
	}
	return nil
}

// Close releases what Open acquired. Cobra skips PersistentPostRun when a
// command fails, so callers defer Close after Execute. It is safe to call
// more than once.
func (a *App) Close() {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	if a.IsInteractive != nil {
		return a.IsInteractive()
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (a *App) location() *time.Location {
	loc, err := a.Config.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

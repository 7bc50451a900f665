package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/workweek/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := server.New(app.Config, app.Reports, app.Tracking,
				server.WithVersion(app.Version),
				server.WithLogger(app.Logger),
			)
			if port := server.FindAvailablePort(app.Config.Host, app.Config.Port); port != app.Config.Port {
				fmt.Fprintf(cmd.OutOrStdout(), "Port %d is in use, using %d\n", app.Config.Port, port)
				srv.SetPort(port)
			}

			ln, err := srv.Listen()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Serve(ln) }()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", ln.Addr())

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("host", "", "Listen host (default 127.0.0.1)")
	cmd.Flags().Int("port", 0, "Listen port (default 8080)")
	return cmd
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs neither configuration nor a database.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			v := app.Version
			if v.Version == "" {
				v.Version = "dev"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workweek %s", v.Version)
			if v.Commit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s", v.Commit)
				if v.BuildDate != "" {
					fmt.Fprintf(cmd.OutOrStdout(), ", %s", v.BuildDate)
				}
				fmt.Fprint(cmd.OutOrStdout(), ")")
			}
			fmt.Fprintln(cmd.OutOrStdout())
		},
	}
}

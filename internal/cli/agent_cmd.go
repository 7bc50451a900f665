package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/workweek/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newAgentCmd(app *App) *cobra.Command {
	var (
		user, machine string
		simulate      bool
		seed          int64
		tui           bool
	)

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the tracking agent for this machine until interrupted",
		Long: `Run the tracking agent.

The agent opens a session, polls for user activity every --interval and
records an idle period whenever no activity was seen for --threshold.
Activity is read from the logind IdleHint of the current session, or
simulated with --simulate. Interrupt (Ctrl+C) closes the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if machine == "" {
				machine, _ = os.Hostname()
			}
			source, closeSource, err := activitySource(simulate, seed, app)
			if err != nil {
				return err
			}
			defer closeSource()

			var notifier tracker.Notifier = tracker.NoopNotifier{}
			if app.Config.Notify {
				notifier = tracker.BeeepNotifier{AppName: "workweek"}
			}

			agent, err := tracker.New(app.Tracking, tracker.Options{
				UserID:        user,
				MachineID:     machine,
				Threshold:     app.Config.IdleThreshold,
				CheckInterval: app.Config.CheckInterval,
				Source:        source,
				Notifier:      notifier,
				Logger:        app.Logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if tui {
				if !app.interactive() {
					return errors.New("--tui needs an interactive terminal")
				}
				return runAgentTUI(ctx, agent, app.Config.HighlightRatio)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s on %s (threshold %s). Press Ctrl+C to stop.\n",
				user, machine, app.Config.IdleThreshold)
			if err := agent.Run(ctx); err != nil {
				return err
			}
			st := agent.Status()
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s closed, %d idle periods recorded.\n", st.SessionID, st.IdlePeriods)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User id (required)")
	cmd.Flags().StringVar(&machine, "machine", "", "Machine id (default hostname)")
	cmd.Flags().String("threshold", "", "Inactivity before idle starts, seconds or duration (default 120s)")
	cmd.Flags().String("interval", "", "Polling interval, seconds or duration (default 2s)")
	cmd.Flags().Bool("notify", false, "Show a desktop notification when idle starts")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Simulate activity instead of reading logind")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed for --simulate")
	cmd.Flags().BoolVar(&tui, "tui", false, "Show a live status view")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func activitySource(simulate bool, seed int64, app *App) (tracker.ActivitySource, func(), error) {
	if simulate {
		return tracker.NewSimulatedSource(seed, app.Config.IdleThreshold), func() {}, nil
	}
	src, err := tracker.NewLogindSource()
	if err != nil {
		return nil, nil, fmt.Errorf("reading activity from logind: %w (use --simulate on systems without logind)", err)
	}
	return src, func() { src.Close() }, nil
}

// runAgentTUI runs the agent in the background while the status view is
// shown. Quitting the view stops the agent and waits for the session to
// close; the view also quits when the agent stops on its own.
func runAgentTUI(ctx context.Context, agent *tracker.Agent, highlight float64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newAgentModel(agent, cancel, highlight))
	errc := make(chan error, 1)
	go func() {
		errc <- agent.Run(ctx)
		p.Quit()
	}()

	_, viewErr := p.Run()
	cancel()
	runErr := <-errc
	if viewErr != nil {
		return viewErr
	}
	return runErr
}

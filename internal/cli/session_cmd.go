package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/workweek/internal/cli/formatter"
	"github.com/alexanderramin/workweek/internal/repository"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Record and inspect login sessions",
	}
	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionEndCmd(app),
		newSessionIdleCmd(app),
		newSessionListCmd(app),
		newSessionShowCmd(app),
		newSessionDeleteCmd(app),
	)
	return cmd
}

func newSessionStartCmd(app *App) *cobra.Command {
	var user, machine, at string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			login, err := parseTimeFlag(at, app.location())
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			sess, err := app.Tracking.StartSession(cmd.Context(), user, machine, login)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionLine(sess))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User id (required)")
	cmd.Flags().StringVar(&machine, "machine", "", "Machine id")
	cmd.Flags().StringVar(&at, "at", "", "Login time (RFC3339 or \"2006-01-02 15:04\"; default now)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newSessionEndCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "end SESSION_ID",
		Short: "Close a session and settle its idle counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logout, err := parseTimeFlag(at, app.location())
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			sess, err := app.Tracking.EndSession(cmd.Context(), args[0], logout)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionLine(sess))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Logout time (RFC3339 or \"2006-01-02 15:04\"; default now)")
	return cmd
}

func newSessionIdleCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "idle SESSION_ID",
		Short: "Record a closed idle period for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := app.location()
			from, err := parseTimeFlag(start, loc)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := parseTimeFlag(end, loc)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			iv, err := app.Tracking.RecordIdle(cmd.Context(), args[0], from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatIdleLine(iv))
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Idle start (required)")
	cmd.Flags().StringVar(&end, "end", "", "Idle end (default now)")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var (
		user, machine string
		open          bool
		limit         int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}
			sessions, err := app.Tracking.ListSessions(cmd.Context(), repository.SessionFilter{
				UserID:    user,
				MachineID: machine,
				OpenOnly:  open,
				Limit:     limit,
			})
			if err != nil {
				return err
			}
			loc := app.location()
			for _, s := range sessions {
				s.LoginTime = s.LoginTime.In(loc)
				if s.LogoutTime != nil {
					out := s.LogoutTime.In(loc)
					s.LogoutTime = &out
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(sessions, app.now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Only sessions of this user")
	cmd.Flags().StringVar(&machine, "machine", "", "Only sessions on this machine")
	cmd.Flags().BoolVar(&open, "open", false, "Only sessions without a logout")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of sessions (0 for all)")
	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show SESSION_ID",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.Tracking.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionLine(sess))
			return nil
		},
	}
}

func newSessionDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete SESSION_ID",
		Short: "Delete a session and its idle periods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tracking.DeleteSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
			return nil
		},
	}
}

// parseTimeFlag accepts RFC3339 or a local "2006-01-02 15:04" in loc. An
// empty value yields the zero time, which the services treat as now.
func parseTimeFlag(v string, loc *time.Location) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339 or YYYY-MM-DD HH:MM", v)
	}
	return t, nil
}

// Package tracker runs the desktop agent that opens a session, watches for
// inactivity, and records idle periods through the tracking service.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/alexanderramin/workweek/internal/service"
)

const (
	DefaultThreshold     = 120 * time.Second
	DefaultCheckInterval = 2 * time.Second
)

var (
	ErrNotStarted = errors.New("agent not started")
	// ErrAlreadyTracking is returned by Start when the user already has an
	// open session on the same machine.
	ErrAlreadyTracking = errors.New("session already open on this machine")
)

type State string

const (
	StateStarting State = "starting"
	StateActive   State = "active"
	StateIdle     State = "idle"
	StateStopped  State = "stopped"
)

// Status is a point-in-time view of the agent for display.
type Status struct {
	SessionID    string
	UserID       string
	MachineID    string
	State        State
	StartedAt    time.Time
	LastActivity time.Time
	IdleSince    time.Time
	IdlePeriods  int
	IdleSeconds  int64
	LastErr      error
}

type Options struct {
	UserID        string
	MachineID     string
	Threshold     time.Duration
	CheckInterval time.Duration
	Source        ActivitySource
	Notifier      Notifier
	Logger        *slog.Logger
	Now           func() time.Time
}

type Agent struct {
	tracking service.TrackingService
	opts     Options
	logger   *slog.Logger

	mu        sync.Mutex
	status    Status
	idleStart time.Time
	stopped   chan struct{}
}

func New(tracking service.TrackingService, opts Options) (*Agent, error) {
	if opts.UserID == "" {
		return nil, fmt.Errorf("agent: user id is required: %w", domain.ErrInvalidInput)
	}
	if opts.Source == nil {
		return nil, fmt.Errorf("agent: activity source is required: %w", domain.ErrInvalidInput)
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = DefaultCheckInterval
	}
	if opts.Notifier == nil {
		opts.Notifier = NoopNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Agent{
		tracking: tracking,
		opts:     opts,
		logger:   logger.With("component", "agent", "user", opts.UserID),
		status: Status{
			UserID:    opts.UserID,
			MachineID: opts.MachineID,
			State:     StateStarting,
		},
		stopped: make(chan struct{}),
	}, nil
}

func (a *Agent) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Done is closed once Stop has finished.
func (a *Agent) Done() <-chan struct{} { return a.stopped }

// Start opens a new session for the configured user and machine.
func (a *Agent) Start(ctx context.Context) error {
	open, err := a.tracking.OpenSessions(ctx, a.opts.UserID)
	if err != nil {
		return fmt.Errorf("agent start: %w", err)
	}
	for _, s := range open {
		if s.MachineID == a.opts.MachineID {
			return fmt.Errorf("agent start: session %s for %s on %q: %w (end it with `workweek session end %s`)",
				s.ID, a.opts.UserID, a.opts.MachineID, ErrAlreadyTracking, s.ID)
		}
	}

	now := a.opts.Now()
	sess, err := a.tracking.StartSession(ctx, a.opts.UserID, a.opts.MachineID, now)
	if err != nil {
		return fmt.Errorf("agent start: %w", err)
	}

	a.mu.Lock()
	a.status.SessionID = sess.ID
	a.status.StartedAt = sess.LoginTime
	a.status.LastActivity = sess.LoginTime
	a.status.State = StateActive
	a.mu.Unlock()

	a.logger.InfoContext(ctx, "session started", "session", sess.ID, "machine", a.opts.MachineID,
		"threshold", a.opts.Threshold, "interval", a.opts.CheckInterval)
	return nil
}

// Tick polls the activity source once and applies any idle transition.
func (a *Agent) Tick(ctx context.Context) error {
	a.mu.Lock()
	state, sessionID := a.status.State, a.status.SessionID
	a.mu.Unlock()
	if sessionID == "" || state == StateStopped {
		return ErrNotStarted
	}

	now := a.opts.Now()
	last, err := a.opts.Source.LastActivity(ctx, now)
	if err != nil {
		a.setErr(err)
		return fmt.Errorf("reading activity: %w", err)
	}
	inactive := now.Sub(last)

	switch {
	case state == StateActive && inactive >= a.opts.Threshold:
		a.mu.Lock()
		a.idleStart = now
		a.status.State = StateIdle
		a.status.IdleSince = now
		a.status.LastActivity = last
		a.mu.Unlock()

		a.logger.InfoContext(ctx, "idle started", "session", sessionID, "inactive", inactive.Truncate(time.Second))
		msg := fmt.Sprintf("No activity for %s; idle time is being recorded.", inactive.Truncate(time.Second))
		if err := a.opts.Notifier.Notify("workweek", msg); err != nil {
			a.logger.WarnContext(ctx, "notification failed", "error", err)
		}
	case state == StateIdle && inactive < a.opts.Threshold:
		if err := a.closeIdle(ctx, sessionID, now); err != nil {
			return err
		}
		a.mu.Lock()
		a.status.LastActivity = last
		a.mu.Unlock()
	default:
		a.mu.Lock()
		a.status.LastActivity = last
		a.mu.Unlock()
	}
	return nil
}

func (a *Agent) closeIdle(ctx context.Context, sessionID string, end time.Time) error {
	a.mu.Lock()
	start := a.idleStart
	a.mu.Unlock()

	iv, err := a.tracking.RecordIdle(ctx, sessionID, start, end)
	if err != nil {
		a.setErr(err)
		return fmt.Errorf("recording idle: %w", err)
	}

	a.mu.Lock()
	a.idleStart = time.Time{}
	a.status.State = StateActive
	a.status.IdleSince = time.Time{}
	a.status.IdlePeriods++
	a.status.IdleSeconds += iv.DurationSeconds
	a.mu.Unlock()

	a.logger.InfoContext(ctx, "idle ended", "session", sessionID, "duration_seconds", iv.DurationSeconds)
	return nil
}

// Run starts the agent and polls until ctx is cancelled, then stops it.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(a.opts.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return a.Stop(context.WithoutCancel(ctx))
		case <-ticker.C:
			if err := a.Tick(ctx); err != nil {
				a.logger.WarnContext(ctx, "poll failed", "error", err)
			}
		}
	}
}

// Stop records any open idle period and ends the session.
func (a *Agent) Stop(ctx context.Context) error {
	a.mu.Lock()
	state, sessionID := a.status.State, a.status.SessionID
	a.mu.Unlock()
	if state == StateStopped {
		return nil
	}
	if sessionID == "" {
		return ErrNotStarted
	}

	now := a.opts.Now()
	if state == StateIdle {
		if err := a.closeIdle(ctx, sessionID, now); err != nil {
			return err
		}
	}
	sess, err := a.tracking.EndSession(ctx, sessionID, now)
	if err != nil {
		a.setErr(err)
		return fmt.Errorf("agent stop: %w", err)
	}

	a.mu.Lock()
	a.status.State = StateStopped
	a.status.IdleSeconds = sess.TotalIdleSeconds
	a.mu.Unlock()
	close(a.stopped)

	a.logger.InfoContext(ctx, "session ended", "session", sessionID, "total_idle_seconds", sess.TotalIdleSeconds)
	return nil
}

func (a *Agent) setErr(err error) {
	a.mu.Lock()
	a.status.LastErr = err
	a.mu.Unlock()
}

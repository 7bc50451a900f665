package testutil

import (
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/google/uuid"
)

// Session options
type SessionOption func(*domain.Session)

func WithMachine(id string) SessionOption {
	return func(s *domain.Session) {
		s.MachineID = id
	}
}

func WithLogout(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.LogoutTime = &t
	}
}

// WithDuration closes the session d after login.
func WithDuration(d time.Duration) SessionOption {
	return func(s *domain.Session) {
		out := s.LoginTime.Add(d)
		s.LogoutTime = &out
	}
}

func WithIdleCounter(seconds int64) SessionOption {
	return func(s *domain.Session) {
		s.TotalIdleSeconds = seconds
	}
}

// NewTestSession returns an open session for user starting at login.
func NewTestSession(userID string, login time.Time, opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		MachineID: "ws-" + userID,
		LoginTime: login.UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestIdle returns an idle interval of the given length inside session.
func NewTestIdle(sessionID string, start time.Time, d time.Duration) *domain.IdleInterval {
	return &domain.IdleInterval{
		ID:              uuid.New().String(),
		SessionID:       sessionID,
		IdleStart:       start.UTC(),
		DurationSeconds: int64(d / time.Second),
	}
}

// MustTime parses an RFC3339 timestamp and panics on malformed input.
func MustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

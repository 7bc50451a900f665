package domain

import "time"

// Session is one login/logout pair on a workstation. LogoutTime is nil while
// the session is still open.
type Session struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	MachineID        string     `json:"machine_id"`
	LoginTime        time.Time  `json:"login_time"`
	LogoutTime       *time.Time `json:"logout_time"`
	TotalIdleSeconds int64      `json:"total_idle_seconds"`
}

// IsOpen reports whether the session has not been closed by a logout.
func (s *Session) IsOpen() bool {
	return s.LogoutTime == nil
}

// EffectiveEnd returns the logout time, or now for an open session.
func (s *Session) EffectiveEnd(now time.Time) time.Time {
	if s.LogoutTime != nil {
		return *s.LogoutTime
	}
	return now
}

// LoggedSeconds returns the whole seconds between login and the effective
// end, clamped at zero.
func (s *Session) LoggedSeconds(now time.Time) int64 {
	secs := int64(s.EffectiveEnd(now).Sub(s.LoginTime) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// Contains reports whether t falls within [login, logout-or-now].
func (s *Session) Contains(t, now time.Time) bool {
	return !t.Before(s.LoginTime) && !t.After(s.EffectiveEnd(now))
}

// IdleInterval is a closed idle period detected inside a session.
type IdleInterval struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	IdleStart       time.Time `json:"idle_start"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// IdleEnd returns the instant the idle period closed.
func (i *IdleInterval) IdleEnd() time.Time {
	return i.IdleStart.Add(time.Duration(i.DurationSeconds) * time.Second)
}

package productivity

import (
	"fmt"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

// Validate checks a snapshot against the record invariants. It returns an
// error wrapping domain.ErrInvalidTimestamp for missing timestamps and
// domain.ErrDataIntegrity for records that contradict each other.
//
// A logout before its login is rejected rather than clamped to zero.
func Validate(sessions []domain.Session, idle []domain.IdleInterval, now time.Time) error {
	if now.IsZero() {
		return fmt.Errorf("evaluation instant: %w", domain.ErrInvalidTimestamp)
	}

	byID := make(map[string]*domain.Session, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		if s.LoginTime.IsZero() {
			return fmt.Errorf("session %s: login time: %w", s.ID, domain.ErrInvalidTimestamp)
		}
		if s.LogoutTime != nil {
			if s.LogoutTime.IsZero() {
				return fmt.Errorf("session %s: logout time: %w", s.ID, domain.ErrInvalidTimestamp)
			}
			if s.LogoutTime.Before(s.LoginTime) {
				return fmt.Errorf("session %s: logout %s precedes login %s: %w",
					s.ID, s.LogoutTime.Format(time.RFC3339), s.LoginTime.Format(time.RFC3339), domain.ErrDataIntegrity)
			}
		}
		if s.TotalIdleSeconds < 0 {
			return fmt.Errorf("session %s: negative idle counter %d: %w", s.ID, s.TotalIdleSeconds, domain.ErrDataIntegrity)
		}
		if _, dup := byID[s.ID]; dup {
			return fmt.Errorf("session %s: duplicate id: %w", s.ID, domain.ErrDataIntegrity)
		}
		byID[s.ID] = s
	}

	for _, iv := range idle {
		if iv.IdleStart.IsZero() {
			return fmt.Errorf("idle interval %s: start time: %w", iv.ID, domain.ErrInvalidTimestamp)
		}
		if iv.DurationSeconds < 0 {
			return fmt.Errorf("idle interval %s: negative duration %d: %w", iv.ID, iv.DurationSeconds, domain.ErrDataIntegrity)
		}
		owner, ok := byID[iv.SessionID]
		if !ok {
			return fmt.Errorf("idle interval %s: unknown session %s: %w", iv.ID, iv.SessionID, domain.ErrDataIntegrity)
		}
		if !owner.Contains(iv.IdleStart, now) {
			return fmt.Errorf("idle interval %s: start %s outside session %s: %w",
				iv.ID, iv.IdleStart.Format(time.RFC3339), owner.ID, domain.ErrDataIntegrity)
		}
	}
	return nil
}

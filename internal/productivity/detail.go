package productivity

import (
	"sort"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

// ProjectDetails returns one SessionDetailRow per session whose login falls in
// filter (all sessions when filter is nil), newest login first.
//
// Idle time comes from the session's running counter rather than from its
// idle intervals. Logged and productive seconds are clamped at zero so an
// inconsistent counter never produces negative output.
func ProjectDetails(sessions []domain.Session, now time.Time, filter *domain.WeekKey) []domain.SessionDetailRow {
	rows := make([]domain.SessionDetailRow, 0, len(sessions))
	for i := range sessions {
		s := &sessions[i]
		if filter != nil {
			week, err := WeekOf(s.LoginTime)
			if err != nil || week != *filter {
				continue
			}
		}
		rows = append(rows, detailRow(s, now))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.LoginTime.Equal(b.LoginTime) {
			return a.LoginTime.After(b.LoginTime)
		}
		return a.SessionID < b.SessionID
	})
	return rows
}

func detailRow(s *domain.Session, now time.Time) domain.SessionDetailRow {
	logged := s.LoggedSeconds(now)
	idle := max(s.TotalIdleSeconds, 0)
	productive := max(logged-idle, 0)

	var logout *time.Time
	if s.LogoutTime != nil {
		t := *s.LogoutTime
		logout = &t
	}
	return domain.SessionDetailRow{
		SessionID:         s.ID,
		UserID:            s.UserID,
		MachineID:         s.MachineID,
		LoginTime:         s.LoginTime,
		LogoutTime:        logout,
		LoggedSeconds:     logged,
		IdleSeconds:       idle,
		ProductiveSeconds: productive,
		LoggedHours:       Hours(logged),
		IdleHours:         Hours(idle),
		ProductiveHours:   Hours(productive),
	}
}

package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

// FormatSessionList renders stored sessions. Open sessions show their
// running length at now.
func FormatSessionList(sessions []*domain.Session, now time.Time) string {
	if len(sessions) == 0 {
		return Dim("No sessions found.") + "\n"
	}
	cells := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		logout := StyleGreen.Render("open")
		if s.LogoutTime != nil {
			logout = FormatClock(*s.LogoutTime)
		}
		cells = append(cells, []string{
			s.ID,
			s.UserID,
			s.MachineID,
			FormatClock(s.LoginTime),
			logout,
			FormatSeconds(s.LoggedSeconds(now)),
			FormatSeconds(s.TotalIdleSeconds),
		})
	}
	return RenderAlignedTable(
		[]string{"ID", "USER", "MACHINE", "LOGIN", "LOGOUT", "LENGTH", "IDLE"},
		[]Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight},
		cells,
	)
}

// FormatSessionLine summarises one session on a single line.
func FormatSessionLine(s *domain.Session) string {
	state := StyleGreen.Render("open")
	if s.LogoutTime != nil {
		state = "closed " + s.LogoutTime.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s %s  user=%s machine=%s login=%s idle=%s",
		Bold("session"), s.ID, s.UserID, s.MachineID,
		s.LoginTime.Format(time.RFC3339), FormatSeconds(s.TotalIdleSeconds)) + "  " + state
}

// FormatIdleLine summarises one recorded idle interval.
func FormatIdleLine(iv *domain.IdleInterval) string {
	return fmt.Sprintf("%s %s  session=%s start=%s duration=%s",
		Bold("idle"), iv.ID, iv.SessionID, iv.IdleStart.Format(time.RFC3339), FormatSeconds(iv.DurationSeconds))
}

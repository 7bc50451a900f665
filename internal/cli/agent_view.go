package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/workweek/internal/cli/formatter"
	"github.com/alexanderramin/workweek/internal/tracker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const statusRefresh = 500 * time.Millisecond

type statusSource interface {
	Status() tracker.Status
}

type statusTickMsg time.Time

type agentKeyMap struct {
	Quit key.Binding
}

func defaultAgentKeys() agentKeyMap {
	return agentKeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "stop and quit")),
	}
}

// agentModel is the live status view of a running agent.
type agentModel struct {
	source    statusSource
	stop      func()
	highlight float64
	now       func() time.Time

	keys     agentKeyMap
	spinner  spinner.Model
	status   tracker.Status
	stopping bool
}

func newAgentModel(source statusSource, stop func(), highlight float64) agentModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StylePurple
	return agentModel{
		source:    source,
		stop:      stop,
		highlight: highlight,
		now:       time.Now,
		keys:      defaultAgentKeys(),
		spinner:   sp,
		status:    source.Status(),
	}
}

func tickStatus() tea.Cmd {
	return tea.Tick(statusRefresh, func(t time.Time) tea.Msg { return statusTickMsg(t) })
}

func (m agentModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickStatus())
}

func (m agentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.stopping {
			m.stopping = true
			if m.stop != nil {
				m.stop()
			}
			return m, tickStatus()
		}
	case statusTickMsg:
		m.status = m.source.Status()
		if m.status.State == tracker.StateStopped {
			return m, tea.Quit
		}
		return m, tickStatus()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m agentModel) View() string {
	st := m.status
	now := m.now()
	var b strings.Builder

	b.WriteString(formatter.Header("workweek agent"))
	b.WriteString("\n\n")

	state := formatter.StateIndicator(string(st.State))
	if st.State == tracker.StateActive || st.State == tracker.StateIdle {
		state = m.spinner.View() + " " + state
	}
	row := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", formatter.Dim(fmt.Sprintf("%-13s", label)), value)
	}
	row("state", state)
	row("session", orDash(st.SessionID))
	row("user", st.UserID+" @ "+orDash(st.MachineID))

	var elapsed int64
	if !st.StartedAt.IsZero() {
		elapsed = int64(now.Sub(st.StartedAt) / time.Second)
		row("logged in", formatter.FormatSeconds(elapsed))
	}
	idle := st.IdleSeconds
	if st.State == tracker.StateIdle && !st.IdleSince.IsZero() {
		current := int64(now.Sub(st.IdleSince) / time.Second)
		row("idle for", formatter.StyleYellow.Render(formatter.FormatSeconds(current)))
		idle += current
	}
	ratio := 0.0
	if elapsed > 0 {
		ratio = float64(idle) / float64(elapsed)
	}
	row("idle total", fmt.Sprintf("%s in %d periods", formatter.FormatSeconds(st.IdleSeconds), st.IdlePeriods))
	row("idle share", formatter.RenderIdleBar(ratio, m.highlight, 20)+" "+formatter.FormatRatio(ratio))
	if st.LastErr != nil {
		row("last error", formatter.StyleRed.Render(st.LastErr.Error()))
	}

	b.WriteString("\n")
	if m.stopping {
		b.WriteString(formatter.Dim("  closing session..."))
	} else {
		b.WriteString(formatter.Dim("  " + m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc))
	}
	b.WriteString("\n")
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

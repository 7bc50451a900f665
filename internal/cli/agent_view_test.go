package cli

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/workweek/internal/teatest"
	"github.com/alexanderramin/workweek/internal/tracker"
	"github.com/stretchr/testify/assert"
)

var viewNow = time.Date(2025, time.January, 8, 10, 0, 0, 0, time.UTC)

type fakeStatus struct {
	mu sync.Mutex
	st tracker.Status
}

func (f *fakeStatus) Status() tracker.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st
}

func (f *fakeStatus) set(st tracker.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st = st
}

func activeStatus() tracker.Status {
	return tracker.Status{
		SessionID:   "sess-1",
		UserID:      "alice",
		MachineID:   "ws-1",
		State:       tracker.StateActive,
		StartedAt:   viewNow.Add(-time.Hour),
		IdlePeriods: 2,
		IdleSeconds: 600,
	}
}

func newAgentDriver(t *testing.T, src *fakeStatus, stop func()) *teatest.Driver {
	t.Helper()
	m := newAgentModel(src, stop, 0.2)
	m.now = func() time.Time { return viewNow }
	d := teatest.New(t, m, teatest.WithSize(80, 24))
	d.DrainInit()
	return d
}

func TestAgentView_ShowsActiveStatus(t *testing.T) {
	src := &fakeStatus{st: activeStatus()}
	d := newAgentDriver(t, src, nil)

	d.RequireViewContains("WORKWEEK AGENT", "ACTIVE", "sess-1", "alice @ ws-1", "1h", "10m in 2 periods", "16.7%", "stop and quit")
	assert.NotContains(t, d.View(), "idle for")
}

func TestAgentView_RefreshesOnTick(t *testing.T) {
	src := &fakeStatus{st: activeStatus()}
	d := newAgentDriver(t, src, nil)

	st := activeStatus()
	st.State = tracker.StateIdle
	st.IdleSince = viewNow.Add(-5 * time.Minute)
	src.set(st)
	d.RequireViewContains("ACTIVE")

	d.Send(statusTickMsg(viewNow))
	d.RequireViewContains("IDLE", "idle for", "5m", "25.0%")
	assert.False(t, d.Quitting)
}

func TestAgentView_ShowsLastError(t *testing.T) {
	st := activeStatus()
	st.LastErr = errors.New("database is locked")
	d := newAgentDriver(t, &fakeStatus{st: st}, nil)

	d.RequireViewContains("last error", "database is locked")
}

func TestAgentView_QuitStopsAgentOnce(t *testing.T) {
	src := &fakeStatus{st: activeStatus()}
	stops := 0
	d := newAgentDriver(t, src, func() { stops++ })

	d.PressKey('q')
	assert.Equal(t, 1, stops)
	d.RequireViewContains("closing session...")
	assert.False(t, d.Quitting, "waits for the agent to report stopped")

	d.PressCtrlC()
	assert.Equal(t, 1, stops)

	st := activeStatus()
	st.State = tracker.StateStopped
	src.set(st)
	d.Send(statusTickMsg(viewNow))
	assert.True(t, d.Quitting)
	d.RequireViewContains("STOPPED")
}

func TestAgentView_QuitsWhenAgentStopsOnItsOwn(t *testing.T) {
	src := &fakeStatus{st: activeStatus()}
	d := newAgentDriver(t, src, nil)

	st := activeStatus()
	st.State = tracker.StateStopped
	src.set(st)
	d.Send(statusTickMsg(viewNow))
	assert.True(t, d.Quitting)
}

func TestAgentView_KeepsZeroHighlight(t *testing.T) {
	m := newAgentModel(&fakeStatus{st: activeStatus()}, nil, 0)
	assert.Equal(t, 0.0, m.highlight)
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "ws-1", orDash("ws-1"))
}

package productivity

import (
	"testing"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedSession(t *testing.T, id, user, login, logout string, idle int64) domain.Session {
	t.Helper()
	out := ts(t, logout)
	return domain.Session{
		ID:               id,
		UserID:           user,
		MachineID:        "ws-" + user,
		LoginTime:        ts(t, login),
		LogoutTime:       &out,
		TotalIdleSeconds: idle,
	}
}

func openSession(t *testing.T, id, user, login string) domain.Session {
	t.Helper()
	return domain.Session{ID: id, UserID: user, MachineID: "ws-" + user, LoginTime: ts(t, login)}
}

func idleAt(t *testing.T, id, session, start string, secs int64) domain.IdleInterval {
	t.Helper()
	return domain.IdleInterval{ID: id, SessionID: session, IdleStart: ts(t, start), DurationSeconds: secs}
}

func TestAggregate_SingleSessionWithIdle(t *testing.T) {
	now := ts(t, "2025-01-10T00:00:00Z")
	sessions := []domain.Session{
		closedSession(t, "s1", "alice", "2025-01-06T09:00:00Z", "2025-01-06T17:00:00Z", 1800),
	}
	idle := []domain.IdleInterval{
		idleAt(t, "i1", "s1", "2025-01-06T12:00:00Z", 1800),
	}

	rows, err := Aggregate(sessions, idle, now, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "alice", row.UserID)
	assert.Equal(t, domain.WeekKey{Year: 2025, Week: 2}, row.Key())
	assert.Equal(t, int64(28800), row.LoggedSeconds)
	assert.Equal(t, int64(1800), row.IdleSeconds)
	assert.Equal(t, int64(27000), row.ProductiveSeconds)
	assert.Equal(t, 8.0, row.LoggedHours)
	assert.Equal(t, 0.5, row.IdleHours)
	assert.Equal(t, 7.5, row.ProductiveHours)
	assert.InDelta(t, 0.0625, row.IdleRatio, 1e-12)
}

func TestAggregate_BucketWithoutIdleReportsZero(t *testing.T) {
	now := ts(t, "2025-01-10T00:00:00Z")
	sessions := []domain.Session{
		closedSession(t, "s1", "bob", "2025-01-07T09:00:00Z", "2025-01-07T13:00:00Z", 0),
	}

	rows, err := Aggregate(sessions, nil, now, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].IdleSeconds)
	assert.Equal(t, 0.0, rows[0].IdleRatio)
	assert.Equal(t, 4.0, rows[0].ProductiveHours)
}

func TestAggregate_ZeroLengthSessionHasZeroRatio(t *testing.T) {
	now := ts(t, "2025-01-10T00:00:00Z")
	sessions := []domain.Session{
		closedSession(t, "s1", "carol", "2025-01-07T09:00:00Z", "2025-01-07T09:00:00Z", 0),
	}

	rows, err := Aggregate(sessions, nil, now, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(0), rows[0].LoggedSeconds)
	assert.Equal(t, 0.0, rows[0].IdleRatio)
}

func TestAggregate_OpenSessionRunsUntilNow(t *testing.T) {
	sessions := []domain.Session{openSession(t, "s1", "alice", "2025-01-08T10:00:00Z")}

	rows, err := Aggregate(sessions, nil, ts(t, "2025-01-08T12:00:00Z"), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].LoggedHours)

	rows, err = Aggregate(sessions, nil, ts(t, "2025-01-08T13:00:00Z"), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3.0, rows[0].LoggedHours)
}

func TestAggregate_SumsMultipleSessionsPerBucket(t *testing.T) {
	now := ts(t, "2025-01-12T00:00:00Z")
	sessions := []domain.Session{
		closedSession(t, "s1", "alice", "2025-01-06T09:00:00Z", "2025-01-06T12:00:00Z", 600),
		closedSession(t, "s2", "alice", "2025-01-08T09:00:00Z", "2025-01-08T10:00:00Z", 1200),
	}
	idle := []domain.IdleInterval{
		idleAt(t, "i1", "s1", "2025-01-06T10:00:00Z", 600),
		idleAt(t, "i2", "s2", "2025-01-08T09:30:00Z", 1200),
	}

	rows, err := Aggregate(sessions, idle, now, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(4*3600), rows[0].LoggedSeconds)
	assert.Equal(t, int64(1800), rows[0].IdleSeconds)
	assert.InDelta(t, 0.125, rows[0].IdleRatio, 1e-12)
}

func TestAggregate_IdleBucketedByIdleStartWeek(t *testing.T) {
	now := ts(t, "2025-01-12T00:00:00Z")
	// s1 starts Sunday of week 1 and runs into Monday of week 2.
	sessions := []domain.Session{
		closedSession(t, "s1", "alice", "2025-01-05T22:00:00Z", "2025-01-06T02:00:00Z", 1800),
		closedSession(t, "s2", "alice", "2025-01-06T09:00:00Z", "2025-01-06T10:00:00Z", 0),
	}
	idle := []domain.IdleInterval{
		idleAt(t, "i1", "s1", "2025-01-06T00:30:00Z", 1800),
	}

	rows, err := Aggregate(sessions, idle, now, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byWeek := map[domain.WeekKey]domain.WeeklySummaryRow{}
	for _, r := range rows {
		byWeek[r.Key()] = r
	}
	w1 := byWeek[domain.WeekKey{Year: 2025, Week: 1}]
	w2 := byWeek[domain.WeekKey{Year: 2025, Week: 2}]

	assert.Equal(t, int64(4*3600), w1.LoggedSeconds)
	assert.Equal(t, int64(0), w1.IdleSeconds)
	assert.Equal(t, int64(3600), w2.LoggedSeconds)
	assert.Equal(t, int64(1800), w2.IdleSeconds)
}

func TestAggregate_DropsIdleOnlyBuckets(t *testing.T) {
	now := ts(t, "2025-01-12T00:00:00Z")
	sessions := []domain.Session{
		closedSession(t, "s1", "alice", "2025-01-05T22:00:00Z", "2025-01-06T02:00:00Z", 1800),
	}
	idle := []domain.IdleInterval{
		idleAt(t, "i1", "s1", "2025-01-06T00:30:00Z", 1800),
	}

	rows, err := Aggregate(sessions, idle, now, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.WeekKey{Year: 2025, Week: 1}, rows[0].Key())
	assert.Equal(t, int64(0), rows[0].IdleSeconds)
}

func TestAggregate_SortOrder(t *testing.T) {
	now := ts(t, "2025-01-20T00:00:00Z")
	sessions := []domain.Session{
		// alice: 10% idle in week 2
		closedSession(t, "a1", "alice", "2025-01-06T08:00:00Z", "2025-01-06T18:00:00Z", 3600),
		// bob: 30% idle in week 2
		closedSession(t, "b1", "bob", "2025-01-07T08:00:00Z", "2025-01-07T18:00:00Z", 3*3600),
		// carol and dave tie at 25%, carol in two weeks
		closedSession(t, "c1", "carol", "2025-01-13T08:00:00Z", "2025-01-13T12:00:00Z", 3600),
		closedSession(t, "c2", "carol", "2025-01-06T08:00:00Z", "2025-01-06T12:00:00Z", 3600),
		closedSession(t, "d1", "dave", "2025-01-06T08:00:00Z", "2025-01-06T12:00:00Z", 3600),
	}
	idle := []domain.IdleInterval{
		idleAt(t, "ia1", "a1", "2025-01-06T10:00:00Z", 3600),
		idleAt(t, "ib1", "b1", "2025-01-07T10:00:00Z", 3*3600),
		idleAt(t, "ic1", "c1", "2025-01-13T09:00:00Z", 3600),
		idleAt(t, "ic2", "c2", "2025-01-06T09:00:00Z", 3600),
		idleAt(t, "id1", "d1", "2025-01-06T09:00:00Z", 3600),
	}

	rows, err := Aggregate(sessions, idle, now, nil)
	require.NoError(t, err)

	type key struct {
		user string
		week int
	}
	got := make([]key, len(rows))
	for i, r := range rows {
		got[i] = key{r.UserID, r.Week}
	}
	assert.Equal(t, []key{
		{"bob", 2},
		{"carol", 2},
		{"carol", 3},
		{"dave", 2},
		{"alice", 2},
	}, got)
}

func TestAggregate_FilterRestrictsToWeek(t *testing.T) {
	now := ts(t, "2025-01-20T00:00:00Z")
	sessions := []domain.Session{
		closedSession(t, "s1", "alice", "2025-01-06T08:00:00Z", "2025-01-06T10:00:00Z", 0),
		closedSession(t, "s2", "alice", "2025-01-13T08:00:00Z", "2025-01-13T11:00:00Z", 0),
		closedSession(t, "s3", "bob", "2025-01-14T08:00:00Z", "2025-01-14T09:00:00Z", 0),
	}
	week := domain.WeekKey{Year: 2025, Week: 3}

	rows, err := Aggregate(sessions, nil, now, &week)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, week, r.Key())
	}
	assert.Equal(t, "alice", rows[0].UserID)
	assert.Equal(t, 3.0, rows[0].LoggedHours)
}

func TestAggregate_EmptyInput(t *testing.T) {
	rows, err := Aggregate(nil, nil, ts(t, "2025-01-20T00:00:00Z"), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAggregate_RejectsInvalidRecords(t *testing.T) {
	now := ts(t, "2025-01-20T00:00:00Z")
	good := closedSession(t, "s1", "alice", "2025-01-06T08:00:00Z", "2025-01-06T10:00:00Z", 0)

	tests := []struct {
		name     string
		sessions []domain.Session
		idle     []domain.IdleInterval
		now      time.Time
		want     error
	}{
		{
			name:     "logout before login",
			sessions: []domain.Session{closedSession(t, "s1", "alice", "2025-01-06T10:00:00Z", "2025-01-06T08:00:00Z", 0)},
			now:      now,
			want:     domain.ErrDataIntegrity,
		},
		{
			name:     "zero login",
			sessions: []domain.Session{{ID: "s1", UserID: "alice"}},
			now:      now,
			want:     domain.ErrInvalidTimestamp,
		},
		{
			name:     "zero now",
			sessions: []domain.Session{good},
			want:     domain.ErrInvalidTimestamp,
		},
		{
			name:     "negative counter",
			sessions: []domain.Session{closedSession(t, "s1", "alice", "2025-01-06T08:00:00Z", "2025-01-06T10:00:00Z", -5)},
			now:      now,
			want:     domain.ErrDataIntegrity,
		},
		{
			name:     "duplicate session",
			sessions: []domain.Session{good, good},
			now:      now,
			want:     domain.ErrDataIntegrity,
		},
		{
			name:     "negative idle duration",
			sessions: []domain.Session{good},
			idle:     []domain.IdleInterval{idleAt(t, "i1", "s1", "2025-01-06T09:00:00Z", -1)},
			now:      now,
			want:     domain.ErrDataIntegrity,
		},
		{
			name:     "idle for unknown session",
			sessions: []domain.Session{good},
			idle:     []domain.IdleInterval{idleAt(t, "i1", "nope", "2025-01-06T09:00:00Z", 60)},
			now:      now,
			want:     domain.ErrDataIntegrity,
		},
		{
			name:     "idle outside session",
			sessions: []domain.Session{good},
			idle:     []domain.IdleInterval{idleAt(t, "i1", "s1", "2025-01-06T11:00:00Z", 60)},
			now:      now,
			want:     domain.ErrDataIntegrity,
		},
		{
			name:     "zero idle start",
			sessions: []domain.Session{good},
			idle:     []domain.IdleInterval{{ID: "i1", SessionID: "s1", DurationSeconds: 60}},
			now:      now,
			want:     domain.ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Aggregate(tt.sessions, tt.idle, tt.now, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, rows)
		})
	}
}

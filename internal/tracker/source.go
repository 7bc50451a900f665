package tracker

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// ActivitySource reports when the user was last active.
type ActivitySource interface {
	LastActivity(ctx context.Context, now time.Time) (time.Time, error)
}

// SimulatedSource produces alternating bursts of activity and quiet
// stretches. Quiet stretches last between half and three times the idle
// threshold, so some of them cross it and some do not. Phases advance on the
// clock passed to LastActivity, which keeps a seeded source deterministic.
type SimulatedSource struct {
	mu        sync.Mutex
	rng       *rand.Rand
	threshold time.Duration

	last     time.Time
	phaseEnd time.Time
	active   bool
}

func NewSimulatedSource(seed int64, threshold time.Duration) *SimulatedSource {
	return &SimulatedSource{
		rng:       rand.New(rand.NewSource(seed)),
		threshold: threshold,
	}
}

func (s *SimulatedSource) LastActivity(_ context.Context, now time.Time) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phaseEnd.IsZero() {
		s.last = now
		s.beginPhase(now)
	}
	for !now.Before(s.phaseEnd) {
		if s.active {
			s.last = s.phaseEnd
		}
		s.beginPhase(s.phaseEnd)
	}
	if s.active {
		s.last = now
	}
	return s.last, nil
}

func (s *SimulatedSource) beginPhase(at time.Time) {
	if s.rng.Float64() < 0.7 {
		s.active = true
		s.phaseEnd = at.Add(s.uniform(5*time.Second, 30*time.Second))
		return
	}
	s.active = false
	s.phaseEnd = at.Add(s.uniform(s.threshold/2, s.threshold*3))
}

func (s *SimulatedSource) uniform(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return max(lo, time.Second)
	}
	return lo + time.Duration(s.rng.Int63n(int64(hi-lo)))
}

package timing

import (
	"sync"
	"time"

	apperrors "github.com/julianstephens/chronos/internal/errors"
)

// Stopwatch is an ephemeral, wall-clock based stopwatch. Elapsed time is
// now - start + accumulated, so missed ticks never cause drift.
type Stopwatch struct {
	mu          sync.Mutex
	running     bool
	startedAt   time.Time
	accumulated time.Duration
	laps        []time.Duration
	lastLap     time.Duration
}

func (s *Stopwatch) Start(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.startedAt = now
}

func (s *Stopwatch) Pause(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.accumulated += now.Sub(s.startedAt)
	s.running = false
}

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.startedAt = time.Time{}
	s.accumulated = 0
	s.laps = nil
	s.lastLap = 0
}

// Running reports whether the stopwatch is counting.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Stopwatch) Elapsed(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed(now)
}

func (s *Stopwatch) elapsed(now time.Time) time.Duration {
	if !s.running {
		return s.accumulated
	}
	return s.accumulated + now.Sub(s.startedAt)
}

// Lap records the time since the previous lap (or the start). It requires a
// running stopwatch or some elapsed time.
func (s *Stopwatch) Lap(now time.Time) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.elapsed(now)
	if !s.running && current == 0 {
		return 0, apperrors.Invalid("stopwatch has not been started")
	}
	lap := current - s.lastLap
	s.lastLap = current
	s.laps = append(s.laps, lap)
	return lap, nil
}

// Laps returns the recorded lap durations in order.
func (s *Stopwatch) Laps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.laps...)
}

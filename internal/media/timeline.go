package media

import "time"

// Timeline simulates a clip's playback clock for hosts that cannot report
// real media time.
type Timeline struct {
	Duration time.Duration
	Elapsed  time.Duration
}

func NewTimeline(d time.Duration) *Timeline {
	return &Timeline{Duration: d}
}

// Advance moves the clock forward and reports whether the clip has ended.
func (t *Timeline) Advance(d time.Duration) bool {
	t.Elapsed += d
	if t.Elapsed >= t.Duration {
		t.Elapsed = t.Duration
		return true
	}
	return false
}

// Progress is the played fraction in [0, 1].
func (t *Timeline) Progress() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return float64(t.Elapsed) / float64(t.Duration)
}

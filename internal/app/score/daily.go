// Package score computes the canonical daily doom score and the streak
// derived from it. Both functions are pure: order-independent over their
// inputs and free of I/O, so the persistence layer can call them without
// re-deriving anything on retry.
package score

import (
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

const (
	maxScore              = 10
	maxInterventionPoints = 3
	maxIgnoredPoints      = 2
	lateNightPoints       = 1

	// StreakGate is the highest daily score that still counts as a
	// successful day.
	StreakGate = 4
)

// durationBrackets maps total doom-scroll time to 0–4 points.
// Half-open brackets scanned in ascending order; first match wins.
var durationBrackets = []struct {
	max    time.Duration
	points int
}{
	{15 * time.Minute, 0},
	{30 * time.Minute, 1},
	{time.Hour, 2},
	{2 * time.Hour, 3},
}

// Daily computes the canonical 0–10 doom score for one day's closed
// sessions. Idempotent and invariant under input reordering.
func Daily(sessions []domain.Session) int {
	score := 0

	// Factor 1: total doom scroll time (0–4 points)
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration
	}
	points := 4
	for _, b := range durationBrackets {
		if total < b.max {
			points = b.points
			break
		}
	}
	score += points

	// Factor 2: interrupted sessions (0–3 points)
	interrupted := 0
	for _, s := range sessions {
		if s.WasInterrupted {
			interrupted++
		}
	}
	score += min(interrupted, maxInterventionPoints)

	// Factor 3: ignored interventions (0–2 points)
	ignored := 0
	for _, s := range sessions {
		if s.WasIgnored {
			ignored++
		}
	}
	score += min(ignored, maxIgnoredPoints)

	// Factor 4: any late-night session (+1)
	for _, s := range sessions {
		if domain.IsLateNight(s.StartTime.Hour()) {
			score += lateNightPoints
			break
		}
	}

	return min(score, maxScore)
}

// DoomScrollTime sums the day's session durations.
func DoomScrollTime(sessions []domain.Session) time.Duration {
	var total time.Duration
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}

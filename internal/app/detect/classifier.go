// Package detect classifies usage sessions as doom scrolling and scores
// live severity. Everything here is a pure function over a session
// snapshot plus fixed thresholds.
package detect

import (
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

// Thresholds are the classifier gates. Zero value is not usable;
// start from DefaultThresholds.
type Thresholds struct {
	// MinDuration is the floor below which a session is never doom
	// scrolling, regardless of other factors.
	MinDuration time.Duration
	// MaxInteractionRatio: above this the user is actively engaging.
	MaxInteractionRatio float64
	// MinScrollVelocity: below this the user is reading, not scrolling.
	MinScrollVelocity float64
	// MaxAppSwitches: above this the user is multitasking.
	MaxAppSwitches int
}

// DefaultThresholds returns the stock detection gates.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinDuration:         25 * time.Minute,
		MaxInteractionRatio: 0.10,
		MinScrollVelocity:   50.0,
		MaxAppSwitches:      5,
	}
}

// IsDoomScrolling evaluates the four gates against a session or live
// snapshot. The late-night multiplier never flips the verdict — it only
// scales the separate severity score.
func IsDoomScrolling(s domain.Session, th Thresholds) bool {
	if s.Duration < th.MinDuration {
		return false
	}
	if s.InteractionRatio() > th.MaxInteractionRatio {
		// More than 10% active — they're engaging, not doom scrolling.
		return false
	}
	if s.AverageScrollVelocity < th.MinScrollVelocity {
		// Slow, deliberate scrolling — probably reading.
		return false
	}
	if s.AppSwitches > th.MaxAppSwitches {
		// Context switching = active use.
		return false
	}
	return true
}

// SeverityScore computes the live 0–10 severity estimate from a session
// snapshot. Advisory only — distinct from the canonical daily score.
func SeverityScore(s domain.Session) int {
	score := 0

	// Time spent (0–4 points)
	switch d := s.Duration; {
	case d < 15*time.Minute:
	case d < 30*time.Minute:
		score++
	case d < time.Hour:
		score += 2
	case d < 2*time.Hour:
		score += 3
	default:
		score += 4
	}

	// Low interaction ratio penalty (0–2 points)
	ratio := s.InteractionRatio()
	switch {
	case ratio < 0.05:
		score += 2
	case ratio < 0.10:
		score++
	}

	// High velocity scrolling (0–2 points)
	switch v := s.AverageScrollVelocity; {
	case v > 150:
		score += 2
	case v > 100:
		score++
	}

	// Late night bonus penalty (0–2 points)
	if domain.IsLateNight(s.StartTime.Hour()) {
		score += 2
	}

	if score > 10 {
		score = 10
	}
	return score
}

// DoomMultiplier reports the late-night severity multiplier for the given
// start hour. Surfaced for reporting only; no persisted value applies it.
func DoomMultiplier(hour int) float64 {
	if domain.IsLateNight(hour) {
		return 1.5
	}
	return 1.0
}

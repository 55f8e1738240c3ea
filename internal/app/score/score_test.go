package score_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/spiral-app/spiral/internal/app/score"
	"github.com/spiral-app/spiral/internal/domain"
)

func afternoon(d time.Duration) domain.Session {
	return domain.Session{
		StartTime: time.Date(2025, 11, 5, 14, 0, 0, 0, time.UTC),
		Duration:  d,
	}
}

func TestDaily_DurationBrackets(t *testing.T) {
	tests := []struct {
		name  string
		total time.Duration
		want  int
	}{
		{"under 15 minutes", 10 * time.Minute, 0},
		{"exactly 15 minutes", 15 * time.Minute, 1},
		{"under 30 minutes", 29 * time.Minute, 1},
		{"exactly 30 minutes", 30 * time.Minute, 2},
		{"under an hour", 59 * time.Minute, 2},
		{"90 minutes", 90 * time.Minute, 3},
		{"two hours", 2 * time.Hour, 4},
		{"five hours", 5 * time.Hour, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := score.Daily([]domain.Session{afternoon(tt.total)}); got != tt.want {
				t.Errorf("Daily = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaily_InterventionAndIgnoredCaps(t *testing.T) {
	var sessions []domain.Session
	for i := 0; i < 5; i++ {
		s := afternoon(time.Minute)
		s.WasInterrupted = true
		sessions = append(sessions, s)
	}
	for i := 0; i < 4; i++ {
		s := afternoon(time.Minute)
		s.WasIgnored = true
		sessions = append(sessions, s)
	}

	// Duration 9m → 0 pts; interrupted capped at 3; ignored capped at 2.
	if got := score.Daily(sessions); got != 5 {
		t.Errorf("Daily = %d, want 5", got)
	}
}

func TestDaily_LateNightPoint(t *testing.T) {
	s := domain.Session{
		StartTime: time.Date(2025, 11, 5, 3, 0, 0, 0, time.UTC),
		Duration:  time.Minute,
	}
	if got := score.Daily([]domain.Session{s}); got != 1 {
		t.Errorf("Daily = %d, want 1 (late-night point only)", got)
	}
}

func TestDaily_ClampsAtTen(t *testing.T) {
	var sessions []domain.Session
	for i := 0; i < 4; i++ {
		sessions = append(sessions, domain.Session{
			StartTime:      time.Date(2025, 11, 5, 2, 0, 0, 0, time.UTC),
			Duration:       time.Hour,
			WasInterrupted: true,
			WasIgnored:     true,
		})
	}
	if got := score.Daily(sessions); got != 10 {
		t.Errorf("Daily = %d, want 10", got)
	}
}

func TestDaily_OrderIndependent(t *testing.T) {
	sessions := []domain.Session{
		afternoon(20 * time.Minute),
		{StartTime: time.Date(2025, 11, 5, 1, 0, 0, 0, time.UTC), Duration: 40 * time.Minute, WasIgnored: true},
		{StartTime: time.Date(2025, 11, 5, 9, 0, 0, 0, time.UTC), Duration: 5 * time.Minute, WasInterrupted: true},
	}
	want := score.Daily(sessions)
	if want < 0 || want > 10 {
		t.Fatalf("Daily out of range: %d", want)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.Session, len(sessions))
		copy(shuffled, sessions)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := score.Daily(shuffled); got != want {
			t.Fatalf("Daily varies with order: %d vs %d", got, want)
		}
	}
}

func TestDaily_EmptyDay(t *testing.T) {
	if got := score.Daily(nil); got != 0 {
		t.Errorf("Daily(nil) = %d, want 0", got)
	}
}

// ─── Streak ─────────────────────────────────────────────────────────────────

func day(offset int) time.Time {
	base := time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func stat(offset, doomScore int) domain.DailyStat {
	return domain.DailyStat{Date: day(offset), DoomScore: doomScore}
}

func TestStreak_EmptyHistory(t *testing.T) {
	current, longest := score.Streak(nil, day(0))
	if current != 0 || longest != 0 {
		t.Errorf("Streak = (%d, %d), want (0, 0)", current, longest)
	}
}

func TestStreak_SingleQualifyingDay(t *testing.T) {
	current, longest := score.Streak([]domain.DailyStat{stat(0, 2)}, day(0))
	if current != 1 || longest != 1 {
		t.Errorf("Streak = (%d, %d), want (1, 1)", current, longest)
	}
}

func TestStreak_BadDayBreaksRun(t *testing.T) {
	history := []domain.DailyStat{
		stat(-2, 2),
		stat(-1, 5), // fails the ≤4 gate
		stat(0, 1),
	}
	current, _ := score.Streak(history, day(0))
	if current != 1 {
		t.Errorf("current = %d, want 1 (score-5 day breaks the run)", current)
	}
}

func TestStreak_GateBoundary(t *testing.T) {
	history := []domain.DailyStat{stat(-1, 4), stat(0, 4)}
	current, _ := score.Streak(history, day(0))
	if current != 2 {
		t.Errorf("current = %d, want 2 (score 4 still qualifies)", current)
	}
}

func TestStreak_MissingDayBreaksRun(t *testing.T) {
	history := []domain.DailyStat{
		stat(-3, 0),
		stat(-2, 0),
		// day -1 missing — treated as a failure, not skipped
		stat(0, 0),
	}
	current, _ := score.Streak(history, day(0))
	if current != 1 {
		t.Errorf("current = %d, want 1 (missing day breaks streak)", current)
	}
}

func TestStreak_LongestIsMonotonic(t *testing.T) {
	history := []domain.DailyStat{
		{Date: day(-1), DoomScore: 9, LongestStreak: 12},
		stat(0, 1),
	}
	current, longest := score.Streak(history, day(0))
	if current != 1 {
		t.Errorf("current = %d, want 1", current)
	}
	if longest != 12 {
		t.Errorf("longest = %d, want 12 (never decreases)", longest)
	}
}

func TestStreak_CurrentRunBecomesLongest(t *testing.T) {
	history := []domain.DailyStat{stat(-2, 1), stat(-1, 0), stat(0, 3)}
	current, longest := score.Streak(history, day(0))
	if current != 3 || longest != 3 {
		t.Errorf("Streak = (%d, %d), want (3, 3)", current, longest)
	}
}

func TestStreak_TodayUnrecorded(t *testing.T) {
	history := []domain.DailyStat{stat(-1, 0)}
	current, _ := score.Streak(history, day(0))
	if current != 0 {
		t.Errorf("current = %d, want 0 (today has no stat yet)", current)
	}
}

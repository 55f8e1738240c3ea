package domain

import (
	"fmt"
	"time"
)

// DailyStat is the per-calendar-day aggregate the engine maintains.
// Created lazily the first time a day is touched, mutated throughout the
// day, never deleted. PercentileRank is externally supplied (the engine
// does not compute cross-user ranks).
type DailyStat struct {
	Date             time.Time                `json:"date"`
	DoomScore        int                      `json:"doom_score"` // 0–10
	TotalScreenTime  time.Duration            `json:"total_screen_time"`
	DoomScrollTime   time.Duration            `json:"doom_scroll_time"`
	Interventions    int                      `json:"interventions"`
	SuccessfulBreaks int                      `json:"successful_breaks"`
	Ignored          int                      `json:"ignored"`
	CurrentStreak    int                      `json:"current_streak"`
	LongestStreak    int                      `json:"longest_streak"`
	AppUsage         map[string]time.Duration `json:"app_usage,omitempty"`
	TimeSaved        time.Duration            `json:"time_saved"`
	PercentileRank   int                      `json:"percentile_rank"` // 0–100
}

// ScoreMessage returns the verdict line shown next to the doom score.
func (d DailyStat) ScoreMessage() string {
	switch {
	case d.DoomScore == 0:
		return "Perfect!"
	case d.DoomScore <= 2:
		return "Doing great!"
	case d.DoomScore <= 4:
		return "Not bad"
	case d.DoomScore <= 6:
		return "Could be better"
	case d.DoomScore <= 8:
		return "Yikes..."
	case d.DoomScore == 9:
		return "Terminally online"
	default:
		return "Touch grass. Seriously."
	}
}

// PercentileMessage returns the comparative line for the rank card.
func (d DailyStat) PercentileMessage() string {
	p := d.PercentileRank
	switch {
	case p <= 10:
		return fmt.Sprintf("You're in the top %d%%! Legend status.", p)
	case p <= 25:
		return fmt.Sprintf("Top %d%%. Doing great!", p)
	case p <= 50:
		return fmt.Sprintf("Better than %d%% of users. Not bad!", 100-p)
	case p <= 75:
		return fmt.Sprintf("%d%% of users scroll more than you. Could be worse!", 100-p)
	default:
		return fmt.Sprintf("Top %d%%... room for improvement.", p)
	}
}

// FormatDuration renders a duration as "Xh Ym" or "X minutes".
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// TimeSavedComparison renders the saved time as something relatable.
func TimeSavedComparison(d time.Duration) string {
	minutes := int(d.Minutes())
	switch {
	case minutes < 1:
		return "Nothing saved yet. There's still time."
	case minutes < 25:
		return fmt.Sprintf("That's %d minutes back. A decent walk.", minutes)
	case minutes < 90:
		return fmt.Sprintf("That's %d minutes back. An episode of something good.", minutes)
	default:
		return fmt.Sprintf("That's %s back. A whole movie, with credits.", FormatDuration(d))
	}
}

// Day truncates t to its local calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

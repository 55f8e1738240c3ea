package score

import (
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

// Streak walks calendar days backward from today and counts consecutive
// qualifying days (recorded stat with score ≤ StreakGate). A missing day
// breaks the streak — it is a failure, not a skip. Longest is monotonic:
// the greater of the best previously recorded longest and the current run.
func Streak(history []domain.DailyStat, today time.Time) (current, longest int) {
	byDay := make(map[time.Time]domain.DailyStat, len(history))
	for _, st := range history {
		byDay[domain.Day(st.Date)] = st
		if st.LongestStreak > longest {
			longest = st.LongestStreak
		}
	}

	day := domain.Day(today)
	for {
		st, ok := byDay[day]
		if !ok || st.DoomScore > StreakGate {
			break
		}
		current++
		day = day.AddDate(0, 0, -1)
	}

	if current > longest {
		longest = current
	}
	return current, longest
}

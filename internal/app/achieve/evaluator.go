// Package achieve evaluates the achievement rule set.
//
// Evaluation is an ordered list of independent predicates over the
// current daily stat plus session history, each guarded by an
// already-unlocked check. Unlocking is append-only and idempotent:
// re-running with the same inputs never double-unlocks.
package achieve

import (
	"sort"
	"strings"
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

// addictMarker is the app-identifier substring the addict rule counts.
const addictMarker = "TikTok"

// Input is the snapshot a rule predicate sees. Same-day rules (nightOwl,
// addict) filter Sessions down to Stats.Date's day; lifetime rules scan
// the whole history.
type Input struct {
	Stats    domain.DailyStat // today's aggregate, streak included
	Sessions []domain.Session // session history as supplied by the caller
}

// Rule pairs an achievement with its predicate.
type Rule struct {
	ID        domain.AchievementID
	Predicate func(Input) bool
}

// Rules returns the fixed rule set in evaluation order.
func Rules() []Rule {
	return []Rule{
		// Positive
		{domain.AchTouchGrass, func(in Input) bool { return in.Stats.CurrentStreak >= 1 }},
		{domain.AchWeekWarrior, func(in Input) bool { return in.Stats.CurrentStreak >= 7 }},
		{domain.AchReformed, func(in Input) bool {
			// Same-day doom time stands in for the 30-day average — the
			// shipped behavior, kept as is.
			return in.Stats.CurrentStreak >= 30 && in.Stats.DoomScrollTime < 30*time.Minute
		}},
		{domain.AchTopTen, func(in Input) bool { return in.Stats.PercentileRank <= 10 }},
		{domain.AchMonthClean, func(in Input) bool { return in.Stats.CurrentStreak >= 30 }},
		{domain.AchStreakMaster, func(in Input) bool { return in.Stats.CurrentStreak >= 100 }},

		// Sarcastic
		{domain.AchDoomLord, func(in Input) bool { return in.Stats.DoomScrollTime >= 10*time.Hour }},
		{domain.AchNightOwl, func(in Input) bool {
			day := domain.Day(in.Stats.Date)
			for _, s := range in.Sessions {
				if s.Day().Equal(day) && s.StartTime.Hour() == 3 {
					return true
				}
			}
			return false
		}},
		{domain.AchSerialScroller, func(in Input) bool {
			ignored := 0
			for _, s := range in.Sessions {
				if s.WasIgnored {
					ignored++
				}
			}
			return ignored >= 50
		}},
		{domain.AchAddict, func(in Input) bool {
			// Per-day count: 100 opens on the stat's day, not lifetime.
			day := domain.Day(in.Stats.Date)
			opened := 0
			for _, s := range in.Sessions {
				if s.Day().Equal(day) && strings.Contains(s.AppID, addictMarker) {
					opened++
				}
			}
			return opened >= 100
		}},
		{domain.AchIgnorant, consecutiveIgnores},
	}
}

// consecutiveIgnores looks for 10 ignored sessions in a row, in start
// order. An interrupted session resets the run; sessions that are
// neither ignored nor interrupted leave it untouched.
func consecutiveIgnores(in Input) bool {
	sessions := make([]domain.Session, len(in.Sessions))
	copy(sessions, in.Sessions)
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.Before(sessions[j].StartTime)
	})

	run := 0
	for _, s := range sessions {
		switch {
		case s.WasIgnored:
			run++
			if run >= 10 {
				return true
			}
		case s.WasInterrupted:
			run = 0
		}
	}
	return false
}

// Evaluate runs every rule whose achievement is not yet unlocked and
// returns the newly unlocked identifiers, in rule order. The unlocked
// set is supplied by the caller — the evaluator never reaches out to
// storage itself.
func Evaluate(in Input, unlocked map[domain.AchievementID]bool) []domain.AchievementID {
	var newly []domain.AchievementID
	for _, rule := range Rules() {
		if unlocked[rule.ID] {
			continue
		}
		if rule.Predicate(in) {
			newly = append(newly, rule.ID)
		}
	}
	return newly
}

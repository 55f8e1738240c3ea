package domain

import "time"

// AchievementID identifies one of the fixed achievement set.
// The set is closed: 6 positive, 5 sarcastic.
type AchievementID string

const (
	// Positive
	AchTouchGrass   AchievementID = "touchGrass"
	AchWeekWarrior  AchievementID = "weekWarrior"
	AchReformed     AchievementID = "reformed"
	AchTopTen       AchievementID = "topTen"
	AchMonthClean   AchievementID = "monthClean"
	AchStreakMaster AchievementID = "streakMaster"

	// Sarcastic
	AchDoomLord       AchievementID = "doomLord"
	AchNightOwl       AchievementID = "nightOwl"
	AchSerialScroller AchievementID = "serialScroller"
	AchAddict         AchievementID = "addict"
	AchIgnorant       AchievementID = "ignorant"
)

// AchievementDef is the display metadata for one achievement.
// Predicates live in the achieve package; this table only carries
// presentation so the catalog stays serializable.
type AchievementDef struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Emoji       string        `json:"emoji"`
	Positive    bool          `json:"positive"`
}

// AchievementCatalog is the full closed catalog, in evaluation order.
func AchievementCatalog() []AchievementDef {
	return []AchievementDef{
		{ID: AchTouchGrass, Name: "Touch Grass", Description: "24 hours clean", Emoji: "🌱", Positive: true},
		{ID: AchWeekWarrior, Name: "Week Warrior", Description: "7 day streak", Emoji: "🔥", Positive: true},
		{ID: AchReformed, Name: "Reformed", Description: "30 days with <30min daily avg", Emoji: "✨", Positive: true},
		{ID: AchTopTen, Name: "Top 10%", Description: "Top 10% of users", Emoji: "🎯", Positive: true},
		{ID: AchMonthClean, Name: "Month Clean", Description: "30 day streak", Emoji: "👑", Positive: true},
		{ID: AchStreakMaster, Name: "Streak Master", Description: "100 day streak", Emoji: "💎", Positive: true},
		{ID: AchDoomLord, Name: "Doom Lord", Description: "Scrolled 10+ hours in a day", Emoji: "💀"},
		{ID: AchNightOwl, Name: "Night Owl", Description: "3am doom scroll session", Emoji: "🦉"},
		{ID: AchSerialScroller, Name: "Serial Scroller", Description: "Dismissed 50 interventions", Emoji: "📱"},
		{ID: AchAddict, Name: "Addict", Description: "Opened TikTok 100 times in a day", Emoji: "🤡"},
		{ID: AchIgnorant, Name: "Ignorant", Description: "Ignored 10 interventions in a row", Emoji: "🙈"},
	}
}

// LookupAchievement returns the catalog entry for id.
func LookupAchievement(id AchievementID) (AchievementDef, bool) {
	for _, def := range AchievementCatalog() {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDef{}, false
}

// AchievementRecord is a persisted unlock. Created at most once per
// identifier; only Shared ever changes afterwards.
type AchievementRecord struct {
	ID         AchievementID `json:"id"`
	UnlockedAt time.Time     `json:"unlocked_at"`
	Shared     bool          `json:"shared"`
}

package achieve

import (
	"time"

	"github.com/spiral-app/spiral/internal/domain"
	"github.com/spiral-app/spiral/internal/infra/sqlite"
)

// Service persists rule evaluation results. The evaluator stays pure;
// this wrapper loads the unlocked set, runs the rules, and appends new
// unlock records.
type Service struct {
	db  *sqlite.DB
	now func() time.Time
}

// NewService creates an achievement service over the store.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// CheckAndUnlock evaluates all rules against current stats and history.
// Returns the newly unlocked definitions (idempotent — already-unlocked
// identifiers are skipped).
func (a *Service) CheckAndUnlock(stats domain.DailyStat, sessions []domain.Session) ([]domain.AchievementDef, error) {
	unlocked, err := a.db.UnlockedSet()
	if err != nil {
		return nil, err
	}

	newly := Evaluate(Input{Stats: stats, Sessions: sessions}, unlocked)

	var defs []domain.AchievementDef
	for _, id := range newly {
		isNew, err := a.db.UnlockAchievement(id, a.now())
		if err != nil {
			return nil, err
		}
		if !isNew {
			continue
		}
		if def, ok := domain.LookupAchievement(id); ok {
			defs = append(defs, def)
		}
	}
	return defs, nil
}

// ListUnlocked returns all achievements the user has earned.
func (a *Service) ListUnlocked() ([]domain.AchievementRecord, error) {
	return a.db.ListUnlockedAchievements()
}

// MarkShared flips the shared flag on an unlocked achievement.
func (a *Service) MarkShared(id domain.AchievementID) error {
	if _, ok := domain.LookupAchievement(id); !ok {
		return domain.ErrUnknownAchievement
	}
	return a.db.MarkAchievementShared(id)
}

// Progress returns unlocked and total counts for display.
func (a *Service) Progress() (unlocked, total int, err error) {
	unlocked, err = a.db.UnlockedAchievementCount()
	if err != nil {
		return 0, 0, err
	}
	return unlocked, len(domain.AchievementCatalog()), nil
}

package sqlite

import (
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

// ─── Achievements ───────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func (d *DB) UnlockAchievement(id domain.AchievementID, at time.Time) (bool, error) {
	result, err := d.db.Exec(
		`INSERT OR IGNORE INTO achievements (id, unlocked_at, shared) VALUES (?, ?, 0)`,
		string(id), at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// IsAchievementUnlocked checks whether an achievement has been unlocked.
func (d *DB) IsAchievementUnlocked(id domain.AchievementID) (bool, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements WHERE id = ?`, string(id)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UnlockedSet returns the set of unlocked identifiers.
func (d *DB) UnlockedSet() (map[domain.AchievementID]bool, error) {
	rows, err := d.db.Query(`SELECT id FROM achievements`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[domain.AchievementID]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set[domain.AchievementID(id)] = true
	}
	return set, rows.Err()
}

// ListUnlockedAchievements returns all unlocked achievements, newest first.
func (d *DB) ListUnlockedAchievements() ([]domain.AchievementRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, unlocked_at, shared FROM achievements ORDER BY unlocked_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.AchievementRecord
	for rows.Next() {
		var r domain.AchievementRecord
		var id string
		var unlockedAt int64
		if err := rows.Scan(&id, &unlockedAt, &r.Shared); err != nil {
			return nil, err
		}
		r.ID = domain.AchievementID(id)
		r.UnlockedAt = time.Unix(unlockedAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// MarkAchievementShared flips the shared flag — the only mutation an
// unlock record ever sees.
func (d *DB) MarkAchievementShared(id domain.AchievementID) error {
	_, err := d.db.Exec(`UPDATE achievements SET shared = 1 WHERE id = ?`, string(id))
	return err
}

// UnlockedAchievementCount returns the total number of unlocked achievements.
func (d *DB) UnlockedAchievementCount() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM achievements`).Scan(&count)
	return count, err
}

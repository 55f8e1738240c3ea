package sqlite

import (
	"database/sql"
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

// UpsertDailyStat writes a day's aggregate, replacing any prior row, and
// rewrites the day's per-app usage mapping.
func (d *DB) UpsertDailyStat(st domain.DailyStat) error {
	day := domain.Day(st.Date).Format(dayFormat)

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO daily_stats
		 (day, doom_score, total_screen_ms, doom_scroll_ms, interventions,
		  successful_breaks, ignored, current_streak, longest_streak,
		  time_saved_ms, percentile_rank)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET
		  doom_score=excluded.doom_score,
		  total_screen_ms=excluded.total_screen_ms,
		  doom_scroll_ms=excluded.doom_scroll_ms,
		  interventions=excluded.interventions,
		  successful_breaks=excluded.successful_breaks,
		  ignored=excluded.ignored,
		  current_streak=excluded.current_streak,
		  longest_streak=excluded.longest_streak,
		  time_saved_ms=excluded.time_saved_ms,
		  percentile_rank=excluded.percentile_rank`,
		day, st.DoomScore, st.TotalScreenTime.Milliseconds(),
		st.DoomScrollTime.Milliseconds(), st.Interventions,
		st.SuccessfulBreaks, st.Ignored, st.CurrentStreak,
		st.LongestStreak, st.TimeSaved.Milliseconds(), st.PercentileRank,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM app_usage WHERE day = ?`, day); err != nil {
		return err
	}
	for app, dur := range st.AppUsage {
		if _, err := tx.Exec(
			`INSERT INTO app_usage (day, app_id, duration_ms) VALUES (?, ?, ?)`,
			day, app, dur.Milliseconds(),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetDailyStat returns the stat for the given day.
// The second return is false if the day has no row yet.
func (d *DB) GetDailyStat(day time.Time) (domain.DailyStat, bool, error) {
	key := domain.Day(day).Format(dayFormat)
	row := d.db.QueryRow(
		`SELECT day, doom_score, total_screen_ms, doom_scroll_ms, interventions,
		        successful_breaks, ignored, current_streak, longest_streak,
		        time_saved_ms, percentile_rank
		 FROM daily_stats WHERE day = ?`, key,
	)

	st, err := scanStat(row)
	if err == sql.ErrNoRows {
		return domain.DailyStat{}, false, nil
	}
	if err != nil {
		return domain.DailyStat{}, false, err
	}

	usage, err := d.appUsage(key)
	if err != nil {
		return domain.DailyStat{}, false, err
	}
	st.AppUsage = usage
	return st, true, nil
}

// ListStats returns all daily stats from the given day onward, ascending.
func (d *DB) ListStats(since time.Time) ([]domain.DailyStat, error) {
	rows, err := d.db.Query(
		`SELECT day, doom_score, total_screen_ms, doom_scroll_ms, interventions,
		        successful_breaks, ignored, current_streak, longest_streak,
		        time_saved_ms, percentile_rank
		 FROM daily_stats WHERE day >= ? ORDER BY day`,
		domain.Day(since).Format(dayFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.DailyStat
	for rows.Next() {
		st, err := scanStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// ListAllStats returns the full daily history, ascending.
func (d *DB) ListAllStats() ([]domain.DailyStat, error) {
	return d.ListStats(time.Unix(0, 0).UTC())
}

func (d *DB) appUsage(day string) (map[string]time.Duration, error) {
	rows, err := d.db.Query(
		`SELECT app_id, duration_ms FROM app_usage WHERE day = ?`, day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make(map[string]time.Duration)
	for rows.Next() {
		var app string
		var ms int64
		if err := rows.Scan(&app, &ms); err != nil {
			return nil, err
		}
		usage[app] = time.Duration(ms) * time.Millisecond
	}
	return usage, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStat(row scanner) (domain.DailyStat, error) {
	var (
		st                        domain.DailyStat
		day                       string
		screenMS, doomMS, savedMS int64
	)
	if err := row.Scan(&day, &st.DoomScore, &screenMS, &doomMS,
		&st.Interventions, &st.SuccessfulBreaks, &st.Ignored,
		&st.CurrentStreak, &st.LongestStreak, &savedMS,
		&st.PercentileRank); err != nil {
		return domain.DailyStat{}, err
	}
	date, err := time.ParseInLocation(dayFormat, day, time.Local)
	if err != nil {
		return domain.DailyStat{}, err
	}
	st.Date = date
	st.TotalScreenTime = time.Duration(screenMS) * time.Millisecond
	st.DoomScrollTime = time.Duration(doomMS) * time.Millisecond
	st.TimeSaved = time.Duration(savedMS) * time.Millisecond
	return st, nil
}

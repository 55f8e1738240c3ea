package sqlite

import (
	"database/sql"
	"time"

	"github.com/spiral-app/spiral/internal/domain"
)

// InsertSession stores a closed session. The row is immutable except for
// the post-intervention response fields, updated via RecordResponse.
func (d *DB) InsertSession(s domain.Session) error {
	if s.Duration < 0 {
		return domain.ErrNegativeDuration
	}
	var end int64
	if !s.EndTime.IsZero() {
		end = s.EndTime.Unix()
	}
	_, err := d.db.Exec(
		`INSERT INTO sessions
		 (id, day, start_time, end_time, app_id, duration_ms, scroll_events,
		  interactions, app_switches, avg_velocity, was_interrupted,
		  was_ignored, user_response, user_note, message_shown, intervention_mode)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Day().Format(dayFormat), s.StartTime.Unix(), end, s.AppID,
		s.Duration.Milliseconds(), s.ScrollEvents, s.Interactions,
		s.AppSwitches, s.AverageScrollVelocity, s.WasInterrupted,
		s.WasIgnored, string(s.UserResponse), s.UserNote, s.MessageShown,
		string(s.InterventionMode),
	)
	return err
}

// RecordResponse attaches the user's post-intervention answer to a session.
func (d *DB) RecordResponse(sessionID string, response domain.ResponseType, note string) error {
	_, err := d.db.Exec(
		`UPDATE sessions SET user_response = ?, user_note = ? WHERE id = ?`,
		string(response), note, sessionID,
	)
	return err
}

// ListSessionsByDay returns the day's sessions in start order.
func (d *DB) ListSessionsByDay(day time.Time) ([]domain.Session, error) {
	return d.querySessions(
		`SELECT id, start_time, end_time, app_id, duration_ms, scroll_events,
		        interactions, app_switches, avg_velocity, was_interrupted,
		        was_ignored, user_response, user_note, message_shown, intervention_mode
		 FROM sessions WHERE day = ? ORDER BY start_time`,
		domain.Day(day).Format(dayFormat),
	)
}

// ListAllSessions returns the full session history in start order.
func (d *DB) ListAllSessions() ([]domain.Session, error) {
	return d.querySessions(
		`SELECT id, start_time, end_time, app_id, duration_ms, scroll_events,
		        interactions, app_switches, avg_velocity, was_interrupted,
		        was_ignored, user_response, user_note, message_shown, intervention_mode
		 FROM sessions ORDER BY start_time`,
	)
}

func (d *DB) querySessions(query string, args ...any) ([]domain.Session, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(rows *sql.Rows) (domain.Session, error) {
	var (
		s          domain.Session
		start, end int64
		durationMS int64
		response   string
		mode       string
	)
	if err := rows.Scan(&s.ID, &start, &end, &s.AppID, &durationMS,
		&s.ScrollEvents, &s.Interactions, &s.AppSwitches,
		&s.AverageScrollVelocity, &s.WasInterrupted, &s.WasIgnored,
		&response, &s.UserNote, &s.MessageShown, &mode); err != nil {
		return domain.Session{}, err
	}
	s.StartTime = time.Unix(start, 0)
	if end > 0 {
		s.EndTime = time.Unix(end, 0)
	}
	s.Duration = time.Duration(durationMS) * time.Millisecond
	s.UserResponse = domain.ResponseType(response)
	s.InterventionMode = domain.InterventionMode(mode)
	return s, nil
}

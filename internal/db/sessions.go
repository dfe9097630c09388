package db

import (
	"fmt"
	"time"

	"github.com/tgienger/focusflow/internal/models"
)

// RecordSession stores a finished focus or break interval
func (db *DB) RecordSession(s models.FocusSession) error {
	seconds := int64(s.Duration / time.Second)
	if seconds <= 0 {
		return fmt.Errorf("session duration must be positive, got %s", s.Duration)
	}
	completedAt := s.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO focus_sessions (mode, task_id, duration_seconds, completed_at) VALUES (?, ?, ?, ?)
	`, s.Mode, s.TaskID, seconds, completedAt.UTC())
	return err
}

// ListSessions returns all sessions, newest first
func (db *DB) ListSessions() ([]models.FocusSession, error) {
	rows, err := db.Query(`
		SELECT id, mode, task_id, duration_seconds, completed_at
		FROM focus_sessions
		ORDER BY completed_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.FocusSession
	for rows.Next() {
		var s models.FocusSession
		var seconds int64
		if err := rows.Scan(&s.ID, &s.Mode, &s.TaskID, &seconds, &s.CompletedAt); err != nil {
			return nil, err
		}
		s.Duration = time.Duration(seconds) * time.Second
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SessionStats counts sessions and sums focused (work) minutes
func (db *DB) SessionStats() (models.FocusStats, error) {
	var st models.FocusStats
	var workSeconds int64
	err := db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN mode = 'work' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN mode = 'work' THEN duration_seconds ELSE 0 END), 0)
		FROM focus_sessions
	`).Scan(&st.Sessions, &st.WorkSessions, &workSeconds)
	if err != nil {
		return st, err
	}
	st.FocusedMinutes = int(workSeconds / 60)
	return st, nil
}

// TaskFocusMinutes returns the work minutes spent on one task
func (db *DB) TaskFocusMinutes(taskID string) (int, error) {
	var seconds int64
	err := db.QueryRow(`
		SELECT COALESCE(SUM(duration_seconds), 0)
		FROM focus_sessions
		WHERE task_id = ? AND mode = 'work'
	`, taskID).Scan(&seconds)
	return int(seconds / 60), err
}

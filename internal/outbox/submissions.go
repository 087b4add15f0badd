package outbox

import (
	"database/sql"
	"fmt"
	"time"
)

// Submission is one recorded delivery of an action point to a provider.
type Submission struct {
	ID          int64
	Project     string
	NoteID      string
	ActionID    string
	Provider    string
	Status      string
	Detail      *string
	SubmittedAt int64
}

// WasSubmitted reports whether the action point was already delivered to
// the named provider. Failed attempts do not count, so they are retried.
func (db *DB) WasSubmitted(noteID, actionID, provider string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM submissions
		WHERE note_id = ? AND action_id = ? AND provider = ? AND status = 'sent'
	`, noteID, actionID, provider).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check submission: %w", err)
	}
	return count > 0, nil
}

// RecordSent marks an action point as delivered. A previous failed row for
// the same (note, action, provider) is upgraded in place.
func (db *DB) RecordSent(project, noteID, actionID, provider string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO submissions (project, note_id, action_id, provider, status, submitted_at)
		VALUES (?, ?, ?, ?, 'sent', ?)
		ON CONFLICT (note_id, action_id, provider)
		DO UPDATE SET status = 'sent', detail = NULL, submitted_at = excluded.submitted_at
	`, project, noteID, actionID, provider, now)
	if err != nil {
		return fmt.Errorf("record sent: %w", err)
	}
	return nil
}

// RecordFailed records a delivery failure with its error detail.
func (db *DB) RecordFailed(project, noteID, actionID, provider, detail string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO submissions (project, note_id, action_id, provider, status, detail, submitted_at)
		VALUES (?, ?, ?, ?, 'failed', ?, ?)
		ON CONFLICT (note_id, action_id, provider)
		DO UPDATE SET status = 'failed', detail = excluded.detail, submitted_at = excluded.submitted_at
	`, project, noteID, actionID, provider, detail, now)
	if err != nil {
		return fmt.Errorf("record failed: %w", err)
	}
	return nil
}

// History returns recent submissions, newest first. An empty noteID returns
// submissions for all notes.
func (db *DB) History(noteID string, limit int) ([]Submission, error) {
	query := `
		SELECT id, project, note_id, action_id, provider, status, detail, submitted_at
		FROM submissions
	`
	args := []any{}
	if noteID != "" {
		query += " WHERE note_id = ?"
		args = append(args, noteID)
	}
	query += " ORDER BY submitted_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.Project, &s.NoteID, &s.ActionID, &s.Provider, &s.Status, &s.Detail, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// LastSubmission returns the most recent submission for an action point and
// provider, or nil when none exists.
func (db *DB) LastSubmission(noteID, actionID, provider string) (*Submission, error) {
	var s Submission
	err := db.QueryRow(`
		SELECT id, project, note_id, action_id, provider, status, detail, submitted_at
		FROM submissions
		WHERE note_id = ? AND action_id = ? AND provider = ?
	`, noteID, actionID, provider).Scan(&s.ID, &s.Project, &s.NoteID, &s.ActionID, &s.Provider, &s.Status, &s.Detail, &s.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &s, nil
}

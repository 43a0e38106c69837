package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/uvdocs"
)

// Compile-time interface verification.
var _ uvdocs.NoteService = (*NoteService)(nil)

// NoteService implements uvdocs.NoteService using SQLite. Notes live in the
// same file as the cache they annotate.
type NoteService struct {
	db *DB
}

// NewNoteService creates a new NoteService.
func NewNoteService(db *DB) *NoteService {
	return &NoteService{db: db}
}

// SetNote creates or replaces a note.
func (s *NoteService) SetNote(ctx context.Context, note *uvdocs.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}
	note.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (name, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at
	`, note.Name, note.Content, formatTime(note.UpdatedAt))
	return err
}

// FindNote retrieves a note by name.
func (s *NoteService) FindNote(ctx context.Context, name string) (*uvdocs.Note, error) {
	note := uvdocs.Note{Name: name}
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT content, updated_at FROM notes WHERE name = ?
	`, name).Scan(&note.Content, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, uvdocs.Errorf(uvdocs.ENOTFOUND, "note %q not found", name)
	}
	if err != nil {
		return nil, err
	}

	if note.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &note, nil
}

// FindNotes returns all notes ordered by name.
func (s *NoteService) FindNotes(ctx context.Context) ([]*uvdocs.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, content, updated_at FROM notes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*uvdocs.Note, 0)
	for rows.Next() {
		var note uvdocs.Note
		var updatedAt string
		if err := rows.Scan(&note.Name, &note.Content, &updatedAt); err != nil {
			return nil, err
		}
		if note.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		notes = append(notes, &note)
	}
	return notes, rows.Err()
}

// DeleteNote removes a note.
func (s *NoteService) DeleteNote(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return uvdocs.Errorf(uvdocs.ENOTFOUND, "note %q not found", name)
	}
	return nil
}

package uvdocs

import (
	"context"
	"time"
)

// Note is a free-form named note kept alongside the cache.
type Note struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the note contains invalid fields.
func (n *Note) Validate() error {
	if n.Name == "" {
		return Errorf(EINVALID, "note name required")
	}
	return nil
}

// NoteService manages notes. Notes are scoped to the store that owns them.
type NoteService interface {
	// SetNote creates or replaces a note.
	SetNote(ctx context.Context, note *Note) error

	// FindNote retrieves a note by name.
	// Returns ENOTFOUND if the note does not exist.
	FindNote(ctx context.Context, name string) (*Note, error)

	// FindNotes returns all notes ordered by name.
	FindNotes(ctx context.Context) ([]*Note, error)

	// DeleteNote removes a note.
	// Returns ENOTFOUND if the note does not exist.
	DeleteNote(ctx context.Context, name string) error
}

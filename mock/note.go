package mock

import (
	"context"

	"github.com/fwojciec/uvdocs"
)

var _ uvdocs.NoteService = (*NoteService)(nil)

// NoteService is a mock implementation of uvdocs.NoteService.
type NoteService struct {
	SetNoteFn    func(ctx context.Context, note *uvdocs.Note) error
	FindNoteFn   func(ctx context.Context, name string) (*uvdocs.Note, error)
	FindNotesFn  func(ctx context.Context) ([]*uvdocs.Note, error)
	DeleteNoteFn func(ctx context.Context, name string) error
}

func (s *NoteService) SetNote(ctx context.Context, note *uvdocs.Note) error {
	return s.SetNoteFn(ctx, note)
}

func (s *NoteService) FindNote(ctx context.Context, name string) (*uvdocs.Note, error) {
	return s.FindNoteFn(ctx, name)
}

func (s *NoteService) FindNotes(ctx context.Context) ([]*uvdocs.Note, error) {
	return s.FindNotesFn(ctx)
}

func (s *NoteService) DeleteNote(ctx context.Context, name string) error {
	return s.DeleteNoteFn(ctx, name)
}

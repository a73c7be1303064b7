package domain

import (
	"context"

	"github.com/vetwriter/vetwriter/internal/ports"
)

type noteService struct {
	repo ports.NoteRepo
}

func NewNoteService(repo ports.NoteRepo) ports.NoteService {
	return &noteService{repo: repo}
}

// Get hides other owners' notes behind ErrNotFound rather than
// admitting they exist.
func (s *noteService) Get(ctx context.Context, ownerID, noteID int64) (*ports.Note, error) {
	note, err := s.repo.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.OwnerID != ownerID {
		return nil, ports.ErrNotFound
	}
	return note, nil
}

func (s *noteService) List(ctx context.Context, ownerID int64) ([]ports.Note, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

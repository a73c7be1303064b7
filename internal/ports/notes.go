package ports

import (
	"context"
	"time"
)

// Note — the persisted clinical-record result of a completed job.
// Transcription and Reply are always both set: a note row is only
// written after both pipeline stages produced output.
type Note struct {
	ID            int64     `json:"id"`
	JobID         int64     `json:"-"`
	OwnerID       int64     `json:"-"`
	PatientName   string    `json:"patientName"`
	Transcription string    `json:"transcription"`
	Reply         string    `json:"reply"`
	CreatedAt     time.Time `json:"createdAt"`
}

type NewNote struct {
	JobID         int64
	OwnerID       int64
	PatientName   string
	Transcription string
	Reply         string
}

// NoteRepo — note persistence. Create is idempotent on job id: a
// redelivered job can never produce a second row.
type NoteRepo interface {
	Create(ctx context.Context, note NewNote) (int64, error)
	GetByID(ctx context.Context, id int64) (*Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Note, error)
}

// NoteService — owner-scoped read access for the web tier.
type NoteService interface {
	Get(ctx context.Context, ownerID, noteID int64) (*Note, error)
	List(ctx context.Context, ownerID int64) ([]Note, error)
}

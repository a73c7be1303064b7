package infra

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vetwriter/vetwriter/internal/ports"
)

type noteRepo struct {
	db *sql.DB
}

func NewNoteRepo(db *sql.DB) ports.NoteRepo {
	return &noteRepo{db: db}
}

// Create inserts a note keyed by job id. A redelivered job hits the
// unique constraint and gets the already-written row back instead of
// producing a duplicate.
func (r *noteRepo) Create(ctx context.Context, note ports.NewNote) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO notes (job_id, owner_id, patient_name, transcription, reply, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_id) DO NOTHING
		RETURNING id
	`, note.JobID, note.OwnerID, note.PatientName, note.Transcription, note.Reply, time.Now()).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		err = r.db.QueryRowContext(ctx, `
			SELECT id FROM notes WHERE job_id = $1
		`, note.JobID).Scan(&id)
	}
	if err != nil {
		return 0, &ports.PersistenceError{Op: "note insert", Err: err}
	}
	return id, nil
}

func (r *noteRepo) GetByID(ctx context.Context, id int64) (*ports.Note, error) {
	var n ports.Note
	err := r.db.QueryRowContext(ctx, `
		SELECT id, job_id, owner_id, patient_name, transcription, reply, created_at
		FROM notes
		WHERE id = $1
	`, id).Scan(&n.ID, &n.JobID, &n.OwnerID, &n.PatientName, &n.Transcription, &n.Reply, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, &ports.PersistenceError{Op: "note get", Err: err}
	}
	return &n, nil
}

func (r *noteRepo) ListByOwner(ctx context.Context, ownerID int64) ([]ports.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job_id, owner_id, patient_name, transcription, reply, created_at
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, &ports.PersistenceError{Op: "note list", Err: err}
	}
	defer rows.Close()

	var notes []ports.Note
	for rows.Next() {
		var n ports.Note
		if err := rows.Scan(&n.ID, &n.JobID, &n.OwnerID, &n.PatientName, &n.Transcription, &n.Reply, &n.CreatedAt); err != nil {
			return nil, &ports.PersistenceError{Op: "note scan", Err: err}
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, &ports.PersistenceError{Op: "note list", Err: err}
	}
	return notes, nil
}

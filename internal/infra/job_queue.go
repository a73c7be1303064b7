package infra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vetwriter/vetwriter/internal/ports"
)

// pgJobQueue — durable job queue on a Postgres table. Claiming uses
// FOR UPDATE SKIP LOCKED, so no two consumers ever hold the same job.
// A claimed job carries a lease; if the worker dies before reaching a
// terminal state, the expired lease makes the job claimable again
// (at-least-once delivery).
type pgJobQueue struct {
	db           *sql.DB
	leaseSeconds int
}

func NewJobQueue(db *sql.DB, leaseSeconds int) ports.JobQueue {
	if leaseSeconds <= 0 {
		leaseSeconds = 600
	}
	return &pgJobQueue{db: db, leaseSeconds: leaseSeconds}
}

func (q *pgJobQueue) Enqueue(ctx context.Context, job ports.NewJob) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO jobs (owner_id, patient_name, blob_key, mime_type, model, state)
		VALUES ($1, $2, $3, $4, $5, 'queued')
		RETURNING id
	`, job.OwnerID, job.PatientName, job.BlobKey, job.MimeType, job.Model).Scan(&id)
	if err != nil {
		return 0, &ports.QueueUnavailableError{Err: err}
	}
	return id, nil
}

func (q *pgJobQueue) Dequeue(ctx context.Context) (*ports.Job, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE jobs
		SET state = 'processing',
		    attempts = attempts + 1,
		    leased_until = now() + make_interval(secs => $1)
		WHERE id = (
			SELECT id FROM jobs
			WHERE state = 'queued'
			   OR (state = 'processing' AND leased_until < now())
			ORDER BY id
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING id, owner_id, patient_name, blob_key, mime_type, model, state, attempts, created_at
	`, q.leaseSeconds)

	var job ports.Job
	err := row.Scan(
		&job.ID,
		&job.OwnerID,
		&job.PatientName,
		&job.BlobKey,
		&job.MimeType,
		&job.Model,
		&job.State,
		&job.Attempts,
		&job.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &ports.QueueUnavailableError{Err: err}
	}
	return &job, nil
}

func (q *pgJobQueue) Release(ctx context.Context, jobID int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE jobs
		SET state = 'queued', leased_until = NULL
		WHERE id = $1 AND state = 'processing'
	`, jobID)
	if err != nil {
		return &ports.QueueUnavailableError{Err: err}
	}
	return nil
}

func (q *pgJobQueue) Complete(ctx context.Context, jobID int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE jobs
		SET state = 'succeeded', leased_until = NULL
		WHERE id = $1 AND state = 'processing'
	`, jobID)
	if err != nil {
		return &ports.QueueUnavailableError{Err: err}
	}
	return nil
}

func (q *pgJobQueue) Fail(ctx context.Context, jobID int64, reason string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE jobs
		SET state = 'failed', leased_until = NULL, last_error = $2
		WHERE id = $1 AND state = 'processing'
	`, jobID, reason)
	if err != nil {
		return &ports.QueueUnavailableError{Err: err}
	}
	return nil
}

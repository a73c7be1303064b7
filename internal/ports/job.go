package ports

import (
	"context"
	"time"
)

type JobState string

const (
	JobQueued     JobState = "queued"
	JobProcessing JobState = "processing"
	JobSucceeded  JobState = "succeeded"
	JobFailed     JobState = "failed"
)

// Job — one queued unit of audio-to-note pipeline work.
type Job struct {
	ID          int64
	OwnerID     int64
	PatientName string
	BlobKey     string
	MimeType    string
	Model       string
	State       JobState
	Attempts    int
	CreatedAt   time.Time
}

type NewJob struct {
	OwnerID     int64
	PatientName string
	BlobKey     string
	MimeType    string
	Model       string
}

// JobQueue — durable at-least-once work queue. A claimed job is held
// under a lease; a worker that dies without reaching a terminal state
// gets its job redelivered once the lease expires.
type JobQueue interface {
	// Enqueue appends a job and returns its id. A backend failure
	// comes back as *QueueUnavailableError.
	Enqueue(ctx context.Context, job NewJob) (int64, error)

	// Dequeue claims at most one pending job for this consumer.
	// Returns (nil, nil) when the queue is empty.
	Dequeue(ctx context.Context) (*Job, error)

	// Release puts a claimed job back for redelivery.
	Release(ctx context.Context, jobID int64) error

	Complete(ctx context.Context, jobID int64) error
	Fail(ctx context.Context, jobID int64, reason string) error
}

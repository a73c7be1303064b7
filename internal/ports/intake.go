package ports

import (
	"context"
	"io"
)

// IntakeService — uploads visit audio and enqueues a processing job.
// Returns the job id immediately; the note appears later via listing.
type IntakeService interface {
	Submit(ctx context.Context, ownerID int64, patientName, filename, contentType string, audio io.Reader, size int64) (jobID int64, err error)
}

// Notificator — operator alerting for terminal pipeline failures.
type Notificator interface {
	Notify(ctx context.Context, err error, details string) error
}

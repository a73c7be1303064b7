package domain

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vetwriter/vetwriter/internal/ports"
)

type intakeService struct {
	blobs ports.BlobStore
	queue ports.JobQueue
	model string
}

func NewIntakeService(blobs ports.BlobStore, queue ports.JobQueue, model string) ports.IntakeService {
	if model == "" {
		model = "whisper-1"
	}
	return &intakeService{
		blobs: blobs,
		queue: queue,
		model: model,
	}
}

// Submit uploads the audio and enqueues the job. It returns as soon as
// the job id exists; all model work happens in the worker.
func (s *intakeService) Submit(
	ctx context.Context,
	ownerID int64,
	patientName, filename, contentType string,
	audio io.Reader,
	size int64,
) (int64, error) {

	if ownerID <= 0 {
		return 0, ports.ErrUnauthorized
	}

	if contentType == "" {
		contentType = "audio/webm"
	}

	key := blobKey(filename)
	if err := s.blobs.Put(ctx, key, audio, size, contentType); err != nil {
		return 0, err
	}

	jobID, err := s.queue.Enqueue(ctx, ports.NewJob{
		OwnerID:     ownerID,
		PatientName: patientName,
		BlobKey:     key,
		MimeType:    contentType,
		Model:       s.model,
	})
	if err != nil {
		// The blob would otherwise be orphaned; the error still goes
		// back to the caller as retryable.
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			log.Printf("[intake] orphan blob %s: %v", key, derr)
		}
		return 0, err
	}

	log.Printf("[intake] job=%d owner=%d key=%s", jobID, ownerID, key)
	return jobID, nil
}

func blobKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" {
		ext = ".webm"
	}
	return "visit_" + uuid.NewString() + ext
}

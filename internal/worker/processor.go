package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/vetwriter/vetwriter/internal/ports"
)

type Config struct {
	MaxAttempts  int           // redeliveries before a job goes terminal
	StageTimeout time.Duration // bound on every external call
	PollInterval time.Duration // sleep when the queue is empty
}

// Processor is the long-lived consumer loop behind the intake path.
// It owns the whole pipeline for a claimed job: fetch blob, transcribe,
// summarize, persist the note, delete the blob. One job's failure never
// stops the loop.
type Processor struct {
	queue    ports.JobQueue
	blobs    ports.BlobStore
	stt      ports.TranscriptionClient
	llm      ports.SummarizationClient
	notes    ports.NoteRepo
	notifier ports.Notificator
	cfg      Config
}

func New(
	queue ports.JobQueue,
	blobs ports.BlobStore,
	stt ports.TranscriptionClient,
	llm ports.SummarizationClient,
	notes ports.NoteRepo,
	notifier ports.Notificator,
	cfg Config,
) *Processor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.StageTimeout <= 0 {
		cfg.StageTimeout = 120 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return &Processor{
		queue:    queue,
		blobs:    blobs,
		stt:      stt,
		llm:      llm,
		notes:    notes,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Run consumes jobs until ctx is cancelled.
func (p *Processor) Run(ctx context.Context) {
	log.Printf("[worker] started")

	for {
		select {
		case <-ctx.Done():
			log.Printf("[worker] stopped: %v", ctx.Err())
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			log.Printf("[worker] dequeue: %v", err)
			p.sleep(ctx)
			continue
		}
		if job == nil {
			p.sleep(ctx)
			continue
		}

		p.Handle(ctx, job)
	}
}

func (p *Processor) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(p.cfg.PollInterval):
	}
}

// Handle runs the pipeline for one claimed job and drives it to either
// a terminal state or back onto the queue for redelivery.
func (p *Processor) Handle(ctx context.Context, job *ports.Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[worker] job=%d panic: %v", job.ID, r)
			p.fail(ctx, job, fmt.Errorf("panic: %v", r))
		}
	}()

	err := p.process(ctx, job)
	if err == nil {
		if cerr := p.queue.Complete(ctx, job.ID); cerr != nil {
			log.Printf("[worker] job=%d complete: %v", job.ID, cerr)
		}
		log.Printf("[worker] job=%d succeeded", job.ID)
		return
	}

	if retryable(err) && job.Attempts < p.cfg.MaxAttempts {
		log.Printf("[worker] job=%d attempt=%d retrying: %v", job.ID, job.Attempts, err)
		if rerr := p.queue.Release(ctx, job.ID); rerr != nil {
			log.Printf("[worker] job=%d release: %v", job.ID, rerr)
		}
		return
	}

	p.fail(ctx, job, err)
}

func (p *Processor) fail(ctx context.Context, job *ports.Job, err error) {
	log.Printf("[worker] job=%d failed after %d attempts: %v", job.ID, job.Attempts, err)

	if ferr := p.queue.Fail(ctx, job.ID, err.Error()); ferr != nil {
		log.Printf("[worker] job=%d fail mark: %v", job.ID, ferr)
	}

	_ = p.notifier.Notify(ctx, err,
		fmt.Sprintf("job %d (owner %d) failed after %d attempts", job.ID, job.OwnerID, job.Attempts))
}

// process runs the ordered stages. The note is written only when both
// the transcript and the reply exist; there are no partial writes.
func (p *Processor) process(ctx context.Context, job *ports.Job) error {
	audio, err := p.fetchBlob(ctx, job)
	if err != nil {
		return err
	}

	transcript, err := p.transcribe(ctx, job, audio)
	if err != nil {
		return err
	}

	reply, err := p.summarize(ctx, job, transcript)
	if err != nil {
		return err
	}

	if err := p.persist(ctx, job, transcript, reply); err != nil {
		return err
	}

	// Blob cleanup is best-effort: a persisted note is never rolled
	// back because the delete failed.
	dctx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()
	if err := p.blobs.Delete(dctx, job.BlobKey); err != nil {
		log.Printf("[worker] job=%d blob delete %s: %v", job.ID, job.BlobKey, err)
	}

	return nil
}

func (p *Processor) fetchBlob(ctx context.Context, job *ports.Job) ([]byte, error) {
	sctx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	audio, err := p.blobs.Get(sctx, job.BlobKey)
	if err != nil {
		log.Printf("[worker] job=%d stage=fetch: %v", job.ID, err)
		return nil, err
	}
	return audio, nil
}

func (p *Processor) transcribe(ctx context.Context, job *ports.Job, audio []byte) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	transcript, err := p.stt.Transcribe(sctx, audio, filepath.Base(job.BlobKey), job.MimeType, job.Model)
	if err != nil {
		log.Printf("[worker] job=%d stage=transcribe: %v", job.ID, err)
		return "", err
	}
	return transcript, nil
}

func (p *Processor) summarize(ctx context.Context, job *ports.Job, transcript string) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	reply, err := p.llm.Summarize(sctx, transcript)
	if err != nil {
		log.Printf("[worker] job=%d stage=summarize: %v", job.ID, err)
		return "", err
	}
	return reply, nil
}

func (p *Processor) persist(ctx context.Context, job *ports.Job, transcript, reply string) error {
	sctx, cancel := context.WithTimeout(ctx, p.cfg.StageTimeout)
	defer cancel()

	_, err := p.notes.Create(sctx, ports.NewNote{
		JobID:         job.ID,
		OwnerID:       job.OwnerID,
		PatientName:   job.PatientName,
		Transcription: transcript,
		Reply:         reply,
	})
	if err != nil {
		log.Printf("[worker] job=%d stage=persist: %v", job.ID, err)
		return err
	}
	return nil
}

// retryable reports whether the error class is eligible for queue
// redelivery. Everything in the taxonomy retries within the attempt
// budget; unclassified errors go terminal immediately.
func retryable(err error) bool {
	var (
		transient   *ports.TransientIOError
		upstream    *ports.UpstreamError
		network     *ports.NetworkError
		persistence *ports.PersistenceError
	)
	return errors.As(err, &transient) ||
		errors.As(err, &upstream) ||
		errors.As(err, &network) ||
		errors.As(err, &persistence)
}

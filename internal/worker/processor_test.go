package worker

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/vetwriter/vetwriter/internal/ports"
)

// --- fakes ---

type fakeQueue struct {
	released  []int64
	completed []int64
	failed    []int64
	reasons   []string
}

func (q *fakeQueue) Enqueue(ctx context.Context, job ports.NewJob) (int64, error) { return 0, nil }

func (q *fakeQueue) Dequeue(ctx context.Context) (*ports.Job, error) { return nil, nil }

func (q *fakeQueue) Release(ctx context.Context, jobID int64) error {
	q.released = append(q.released, jobID)
	return nil
}

func (q *fakeQueue) Complete(ctx context.Context, jobID int64) error {
	q.completed = append(q.completed, jobID)
	return nil
}

func (q *fakeQueue) Fail(ctx context.Context, jobID int64, reason string) error {
	q.failed = append(q.failed, jobID)
	q.reasons = append(q.reasons, reason)
	return nil
}

type fakeBlobs struct {
	data      map[string][]byte
	getErr    error
	deleteErr error
	deleted   []string
}

func (b *fakeBlobs) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return nil
}

func (b *fakeBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.data[key], nil
}

func (b *fakeBlobs) Delete(ctx context.Context, key string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, key)
	return nil
}

type fakeSTT struct {
	text  string
	err   error
	panic bool
}

func (s *fakeSTT) Transcribe(ctx context.Context, audio []byte, filename, mimeType, model string) (string, error) {
	if s.panic {
		panic("stt blew up")
	}
	return s.text, s.err
}

type fakeLLM struct {
	reply string
	err   error
}

func (l *fakeLLM) Summarize(ctx context.Context, transcript string) (string, error) {
	return l.reply, l.err
}

// fakeNotes dedups on job id, like the real repo's unique constraint.
type fakeNotes struct {
	rows map[int64]ports.NewNote
	err  error
}

func (n *fakeNotes) Create(ctx context.Context, note ports.NewNote) (int64, error) {
	if n.err != nil {
		return 0, n.err
	}
	if n.rows == nil {
		n.rows = make(map[int64]ports.NewNote)
	}
	if _, ok := n.rows[note.JobID]; !ok {
		n.rows[note.JobID] = note
	}
	return note.JobID, nil
}

func (n *fakeNotes) GetByID(ctx context.Context, id int64) (*ports.Note, error) {
	return nil, ports.ErrNotFound
}

func (n *fakeNotes) ListByOwner(ctx context.Context, ownerID int64) ([]ports.Note, error) {
	return nil, nil
}

type fakeNotifier struct {
	calls int
}

func (f *fakeNotifier) Notify(ctx context.Context, err error, details string) error {
	f.calls++
	return nil
}

type env struct {
	queue    *fakeQueue
	blobs    *fakeBlobs
	stt      *fakeSTT
	llm      *fakeLLM
	notes    *fakeNotes
	notifier *fakeNotifier
	proc     *Processor
}

func newEnv() *env {
	e := &env{
		queue:    &fakeQueue{},
		blobs:    &fakeBlobs{data: map[string][]byte{"visit_abc.webm": []byte("audio")}},
		stt:      &fakeSTT{text: "Patient vomiting since yesterday, no appetite."},
		llm:      &fakeLLM{reply: "SUMMARY ... PLAN ..."},
		notes:    &fakeNotes{},
		notifier: &fakeNotifier{},
	}
	e.proc = New(e.queue, e.blobs, e.stt, e.llm, e.notes, e.notifier, Config{
		MaxAttempts:  3,
		StageTimeout: time.Second,
		PollInterval: time.Millisecond,
	})
	return e
}

func testJob(attempts int) *ports.Job {
	return &ports.Job{
		ID:       42,
		OwnerID:  7,
		BlobKey:  "visit_abc.webm",
		MimeType: "audio/webm",
		Model:    "whisper-1",
		State:    ports.JobProcessing,
		Attempts: attempts,
	}
}

// TestPipelineSuccess verifies the full happy path: one note with both
// fields set, blob deleted, job completed.
func TestPipelineSuccess(t *testing.T) {
	e := newEnv()
	e.proc.Handle(context.Background(), testJob(1))

	if len(e.queue.completed) != 1 || e.queue.completed[0] != 42 {
		t.Fatalf("completed = %v, want [42]", e.queue.completed)
	}
	if len(e.notes.rows) != 1 {
		t.Fatalf("note rows = %d, want 1", len(e.notes.rows))
	}
	note := e.notes.rows[42]
	if note.Transcription == "" || note.Reply == "" {
		t.Fatalf("note has empty fields: %+v", note)
	}
	if len(e.blobs.deleted) != 1 || e.blobs.deleted[0] != "visit_abc.webm" {
		t.Fatalf("deleted = %v, want the job blob", e.blobs.deleted)
	}
}

// TestTranscriptionFailureProducesNoNote checks that a job whose
// transcription stage fails terminally never writes a note row.
func TestTranscriptionFailureProducesNoNote(t *testing.T) {
	e := newEnv()
	e.stt.err = &ports.UpstreamError{Service: "transcription", Status: 500, Body: "boom"}

	e.proc.Handle(context.Background(), testJob(3)) // budget spent

	if len(e.notes.rows) != 0 {
		t.Fatalf("note rows = %d, want 0", len(e.notes.rows))
	}
	if len(e.queue.failed) != 1 {
		t.Fatalf("failed = %v, want [42]", e.queue.failed)
	}
	if e.notifier.calls != 1 {
		t.Fatalf("notifier calls = %d, want 1", e.notifier.calls)
	}
	if !strings.Contains(e.queue.reasons[0], "boom") {
		t.Fatalf("fail reason %q should carry the upstream body", e.queue.reasons[0])
	}
}

// TestUpstreamErrorRetriesWithinBudget verifies redelivery instead of
// a terminal state while attempts remain.
func TestUpstreamErrorRetriesWithinBudget(t *testing.T) {
	e := newEnv()
	e.llm.err = &ports.UpstreamError{Service: "summarization", Status: 429, Body: "rate limited"}

	e.proc.Handle(context.Background(), testJob(1))

	if len(e.queue.released) != 1 {
		t.Fatalf("released = %v, want [42]", e.queue.released)
	}
	if len(e.queue.failed) != 0 {
		t.Fatalf("failed = %v, want none", e.queue.failed)
	}
	if len(e.notes.rows) != 0 {
		t.Fatalf("note rows = %d, want 0", len(e.notes.rows))
	}
}

// TestTransientFetchReleases confirms a blob fetch error goes back to
// the queue rather than failing the job.
func TestTransientFetchReleases(t *testing.T) {
	e := newEnv()
	e.blobs.getErr = &ports.TransientIOError{Op: "blob get", Err: errors.New("connection reset")}

	e.proc.Handle(context.Background(), testJob(1))

	if len(e.queue.released) != 1 {
		t.Fatalf("released = %v, want [42]", e.queue.released)
	}
	if len(e.queue.failed) != 0 {
		t.Fatalf("failed = %v, want none", e.queue.failed)
	}
}

// TestBlobDeleteFailureStillSucceeds checks cleanup is best-effort:
// the persisted note stays and the job completes.
func TestBlobDeleteFailureStillSucceeds(t *testing.T) {
	e := newEnv()
	e.blobs.deleteErr = errors.New("delete denied")

	e.proc.Handle(context.Background(), testJob(1))

	if len(e.queue.completed) != 1 {
		t.Fatalf("completed = %v, want [42]", e.queue.completed)
	}
	if len(e.notes.rows) != 1 {
		t.Fatalf("note rows = %d, want 1", len(e.notes.rows))
	}
}

// TestRedeliveryWritesOneNote simulates the same job id being
// processed twice: the job-id dedup keeps it to a single note row.
func TestRedeliveryWritesOneNote(t *testing.T) {
	e := newEnv()
	e.proc.Handle(context.Background(), testJob(1))
	e.proc.Handle(context.Background(), testJob(2))

	if len(e.notes.rows) != 1 {
		t.Fatalf("note rows = %d, want 1", len(e.notes.rows))
	}
}

// TestPersistenceErrorNotSucceeded verifies a failed note write never
// completes the job.
func TestPersistenceErrorNotSucceeded(t *testing.T) {
	e := newEnv()
	e.notes.err = &ports.PersistenceError{Op: "note insert", Err: errors.New("disk full")}

	e.proc.Handle(context.Background(), testJob(1))

	if len(e.queue.completed) != 0 {
		t.Fatalf("completed = %v, want none", e.queue.completed)
	}
	if len(e.queue.released) != 1 {
		t.Fatalf("released = %v, want [42]", e.queue.released)
	}
}

// TestUnclassifiedErrorGoesTerminal checks that an error outside the
// taxonomy is not retried.
func TestUnclassifiedErrorGoesTerminal(t *testing.T) {
	e := newEnv()
	e.llm.err = errors.New("something odd")

	e.proc.Handle(context.Background(), testJob(1))

	if len(e.queue.failed) != 1 {
		t.Fatalf("failed = %v, want [42]", e.queue.failed)
	}
	if len(e.queue.released) != 0 {
		t.Fatalf("released = %v, want none", e.queue.released)
	}
}

// TestPanicInStageFailsJobOnly verifies the consumer survives a stage
// panic and the job goes terminal.
func TestPanicInStageFailsJobOnly(t *testing.T) {
	e := newEnv()
	e.stt.panic = true

	e.proc.Handle(context.Background(), testJob(1))

	if len(e.queue.failed) != 1 {
		t.Fatalf("failed = %v, want [42]", e.queue.failed)
	}
	if e.notifier.calls != 1 {
		t.Fatalf("notifier calls = %d, want 1", e.notifier.calls)
	}
}

package ports

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// QueueUnavailableError — the queue backend could not be reached.
// Surfaced synchronously to the intake caller as a retryable failure.
type QueueUnavailableError struct {
	Err error
}

func (e *QueueUnavailableError) Error() string {
	return fmt.Sprintf("queue unavailable: %v", e.Err)
}

func (e *QueueUnavailableError) Unwrap() error { return e.Err }

// TransientIOError — retryable I/O failure (blob fetch etc).
// Never terminal on its own: the job goes back to the queue.
type TransientIOError struct {
	Op  string
	Err error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("transient io (%s): %v", e.Op, e.Err)
}

func (e *TransientIOError) Unwrap() error { return e.Err }

// UpstreamError — non-2xx response from a model API.
// Body is kept for diagnosis.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s upstream error: status=%d body=%s", e.Service, e.Status, e.Body)
}

// NetworkError — connection-level failure to an upstream.
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s network error: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// PersistenceError — database write failure. A job whose note write
// failed must never be marked succeeded.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

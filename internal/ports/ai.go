package ports

import "context"

// TranscriptionClient — speech-to-text over a remote model endpoint.
// An empty transcript is an error, never an empty string: callers rely
// on knowing whether output was genuinely produced.
type TranscriptionClient interface {
	Transcribe(ctx context.Context, audio []byte, filename, mimeType, model string) (string, error)
}

// SummarizationClient — drafts a SOAP note from a transcript.
type SummarizationClient interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

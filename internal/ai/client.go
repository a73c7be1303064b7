package ai

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/vetwriter/vetwriter/internal/ports"
)

// Transcripts longer than this are trimmed with tiktoken before the
// completion call, leaving room for the prompt and the reply inside
// the model's 16k context window.
const (
	maxTranscriptChars  = 48000
	maxTranscriptTokens = 12000
)

// Client wraps both upstreams: Whisper transcription and the chat
// completion that drafts the SOAP note.
type Client struct {
	api       *openai.Client
	chatModel string
}

func NewClient() *Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	chatModel := os.Getenv("CHAT_MODEL")
	if chatModel == "" {
		chatModel = openai.GPT3Dot5Turbo16K
	}

	return &Client{
		api:       openai.NewClient(apiKey),
		chatModel: chatModel,
	}
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, filename, mimeType, model string) (string, error) {
	if model == "" {
		model = openai.Whisper1
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", classify("transcription", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", &ports.UpstreamError{Service: "transcription", Status: 200, Body: "empty transcript"}
	}
	return text, nil
}

func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	transcript = c.fitTranscript(transcript)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: soapSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		return "", classify("summarization", err)
	}

	if len(resp.Choices) == 0 {
		return "", &ports.UpstreamError{Service: "summarization", Status: 200, Body: "no choices in completion"}
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", &ports.UpstreamError{Service: "summarization", Status: 200, Body: "empty completion"}
	}
	return reply, nil
}

// fitTranscript trims oversized transcripts to the token budget. On
// tokenizer failure the transcript goes through untouched and the
// upstream rejects it with a context-length error instead.
func (c *Client) fitTranscript(transcript string) string {
	if len(transcript) <= maxTranscriptChars {
		return transcript
	}

	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		log.Printf("[ai] tokenizer init fail: %v", err)
		return transcript
	}

	tokens := enc.Encode(transcript, nil, nil)
	if len(tokens) <= maxTranscriptTokens {
		return transcript
	}

	log.Printf("[ai] transcript trimmed: %d -> %d tokens", len(tokens), maxTranscriptTokens)
	return enc.Decode(tokens[:maxTranscriptTokens])
}

// classify maps go-openai failures onto the pipeline error taxonomy:
// a response the API actually produced becomes UpstreamError, anything
// below that is NetworkError.
func classify(service string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ports.UpstreamError{Service: service, Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ports.UpstreamError{Service: service, Status: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}

	return &ports.NetworkError{Service: service, Err: err}
}

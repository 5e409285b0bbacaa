package domain

import "context"

// Transcriber defines the capability interface for speech-to-text providers.
// The concrete provider is selected once at startup, never per request.
type Transcriber interface {
	// Transcribe converts the audio file at filePath to plain text.
	// Silent or empty audio yields empty text, not an error.
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// LLMClient defines the capability interface for schema-constrained language
// model completion. A nil RawCommand with a nil error means the model
// legitimately produced nothing (refusal or empty output), which is distinct
// from a provider failure.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userText string) (*RawCommand, error)
}

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"voicetrade/internal/domain"
)

// WhisperTranscriber implements domain.Transcriber against the OpenAI audio
// transcription endpoint.
type WhisperTranscriber struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewWhisperTranscriber creates a new Whisper transcriber. An empty model
// falls back to whisper-1.
func NewWhisperTranscriber(apiKey, model string, timeout time.Duration) *WhisperTranscriber {
	if model == "" {
		model = "whisper-1"
	}
	return &WhisperTranscriber{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Transcribe sends the audio file as a multipart upload and returns the
// recognized text. Silent audio yields empty text.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := writer.WriteField("model", t.model); err != nil {
		return "", fmt.Errorf("failed to build multipart request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build multipart request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/audio/transcriptions", t.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Whisper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Whisper transcription failed: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	var transcription struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&transcription); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return transcription.Text, nil
}

var _ domain.Transcriber = (*WhisperTranscriber)(nil)

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"voicetrade/internal/domain"
)

// AssemblyAITranscriber implements domain.Transcriber against the AssemblyAI
// REST API: upload the raw audio, create a transcript job, then poll until
// the job settles.
type AssemblyAITranscriber struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	jobTimeout   time.Duration
}

// NewAssemblyAITranscriber creates a new AssemblyAI transcriber. The timeout
// bounds the transcription job as a whole, polling included, as well as each
// individual HTTP call.
func NewAssemblyAITranscriber(apiKey string, timeout time.Duration) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{
		apiKey:  apiKey,
		baseURL: "https://api.assemblyai.com",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pollInterval: 2 * time.Second,
		jobTimeout:   timeout,
	}
}

type assemblyAITranscript struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Text   *string `json:"text"`
	Error  string  `json:"error"`
}

// Transcribe converts the audio file to text. A completed job with no speech
// yields empty text, not an error.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	// the transcript job is asynchronous; a job stuck in processing must
	// become a stage failure, not a hang, even when the caller's context
	// carries no deadline
	ctx, cancel := context.WithTimeout(ctx, t.jobTimeout)
	defer cancel()

	audioURL, err := t.upload(ctx, filePath)
	if err != nil {
		return "", err
	}

	id, err := t.createTranscript(ctx, audioURL)
	if err != nil {
		return "", err
	}

	return t.waitForTranscript(ctx, id)
}

func (t *AssemblyAITranscriber) upload(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	url := fmt.Sprintf("%s/v2/upload", t.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, file)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio to AssemblyAI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AssemblyAI upload failed: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var uploadResp struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	return uploadResp.UploadURL, nil
}

func (t *AssemblyAITranscriber) createTranscript(ctx context.Context, audioURL string) (string, error) {
	reqBody := map[string]string{
		"audio_url":    audioURL,
		"speech_model": "universal",
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/transcript", t.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create transcript request: %w", err)
	}
	req.Header.Set("Authorization", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create AssemblyAI transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AssemblyAI transcript creation failed: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var transcript assemblyAITranscript
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		return "", fmt.Errorf("failed to decode transcript response: %w", err)
	}
	return transcript.ID, nil
}

func (t *AssemblyAITranscriber) waitForTranscript(ctx context.Context, id string) (string, error) {
	url := fmt.Sprintf("%s/v2/transcript/%s", t.baseURL, id)

	for {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create poll request: %w", err)
		}
		req.Header.Set("Authorization", t.apiKey)

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("failed to poll AssemblyAI transcript: %w", err)
		}

		var transcript assemblyAITranscript
		decodeErr := json.NewDecoder(resp.Body).Decode(&transcript)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("AssemblyAI transcript poll failed: status=%d", resp.StatusCode)
		}
		if decodeErr != nil {
			return "", fmt.Errorf("failed to decode transcript poll response: %w", decodeErr)
		}

		switch transcript.Status {
		case "completed":
			if transcript.Text == nil {
				return "", nil
			}
			return *transcript.Text, nil
		case "error":
			return "", fmt.Errorf("AssemblyAI transcription failed: %s", transcript.Error)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transcription cancelled: %w", ctx.Err())
		case <-time.After(t.pollInterval):
		}
	}
}

// assert interface compliance
var _ domain.Transcriber = (*AssemblyAITranscriber)(nil)

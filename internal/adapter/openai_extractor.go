package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voicetrade/internal/domain"
)

// commandSchema constrains the model output to the trade command shape.
// Strict mode requires every property to be listed as required; optionality
// is expressed through nullable types.
const commandSchema = `{
  "type": "object",
  "properties": {
    "amount":   {"type": ["number", "null"]},
    "token":    {"type": ["string", "null"]},
    "leverage": {"type": ["integer", "null"]},
    "position": {"type": ["string", "null"], "enum": ["long", "short", null]},
    "edit":     {"type": "boolean"}
  },
  "required": ["amount", "token", "leverage", "position", "edit"],
  "additionalProperties": false
}`

// OpenAIExtractor implements domain.LLMClient over the chat completions API
// with schema-constrained JSON output.
type OpenAIExtractor struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIExtractor creates a new extractor client.
func NewOpenAIExtractor(apiKey, model string, timeout time.Duration) *OpenAIExtractor {
	return &OpenAIExtractor{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Complete asks the model for a trade command candidate. A refusal or empty
// completion returns (nil, nil); transport, HTTP, and malformed-output
// failures return an error.
func (e *OpenAIExtractor) Complete(ctx context.Context, systemPrompt, userText string) (*domain.RawCommand, error) {
	reqBody := map[string]any{
		"model": e.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userText},
		},
		"temperature": 0,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "trade_command",
				"strict": true,
				"schema": json.RawMessage(commandSchema),
			},
		},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", e.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("OpenAI completion failed: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
				Refusal string `json:"refusal"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("OpenAI completion returned no choices")
	}

	msg := completion.Choices[0].Message
	if msg.Refusal != "" {
		return nil, nil
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return nil, nil
	}

	var raw domain.RawCommand
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("model output is not valid JSON: %w", err)
	}
	return &raw, nil
}

var _ domain.LLMClient = (*OpenAIExtractor)(nil)

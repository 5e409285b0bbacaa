package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAudioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.audio")
	require.NoError(t, os.WriteFile(path, []byte("fake audio bytes"), 0o644))
	return path
}

func newAssemblyAI(baseURL string) *AssemblyAITranscriber {
	tr := NewAssemblyAITranscriber("test-key", 5*time.Second)
	tr.baseURL = baseURL
	tr.pollInterval = time.Millisecond
	return tr
}

func TestAssemblyAITranscribe(t *testing.T) {
	t.Parallel()

	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		switch {
		case r.Method == "POST" && r.URL.Path == "/v2/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio"})
		case r.Method == "POST" && r.URL.Path == "/v2/transcript":
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://cdn.example/audio", req["audio_url"])
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})
		case r.Method == "GET" && r.URL.Path == "/v2/transcript/tr-1":
			if polls.Add(1) < 3 {
				json.NewEncoder(w).Encode(map[string]any{"id": "tr-1", "status": "processing"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"id": "tr-1", "status": "completed", "text": "buy 1 eth long"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	text, err := newAssemblyAI(srv.URL).Transcribe(context.Background(), writeAudioFile(t))
	require.NoError(t, err)
	assert.Equal(t, "buy 1 eth long", text)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}

func TestAssemblyAITranscribeSilentAudio(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v2/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"})
		case r.URL.Path == "/v2/transcript":
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-2"})
		default:
			// completed job with null text: nothing was said
			json.NewEncoder(w).Encode(map[string]any{"id": "tr-2", "status": "completed", "text": nil})
		}
	}))
	defer srv.Close()

	text, err := newAssemblyAI(srv.URL).Transcribe(context.Background(), writeAudioFile(t))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestAssemblyAITranscribeJobError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v2/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"})
		case r.URL.Path == "/v2/transcript":
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-3"})
		default:
			json.NewEncoder(w).Encode(map[string]any{"id": "tr-3", "status": "error", "error": "audio too short"})
		}
	}))
	defer srv.Close()

	_, err := newAssemblyAI(srv.URL).Transcribe(context.Background(), writeAudioFile(t))
	assert.ErrorContains(t, err, "audio too short")
}

func TestAssemblyAITranscribeUploadRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "bad api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newAssemblyAI(srv.URL).Transcribe(context.Background(), writeAudioFile(t))
	assert.ErrorContains(t, err, "status=401")
}

func TestAssemblyAITranscribeCancelledWhilePolling(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v2/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"})
		case r.URL.Path == "/v2/transcript":
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-4"})
		default:
			json.NewEncoder(w).Encode(map[string]any{"id": "tr-4", "status": "processing"})
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newAssemblyAI(srv.URL).Transcribe(ctx, writeAudioFile(t))
	assert.Error(t, err)
}

func TestAssemblyAITranscribeJobDeadline(t *testing.T) {
	t.Parallel()

	// a job that never leaves processing must fail once the job timeout
	// expires, even without a caller deadline
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v2/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "u"})
		case r.URL.Path == "/v2/transcript":
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-5"})
		default:
			json.NewEncoder(w).Encode(map[string]any{"id": "tr-5", "status": "processing"})
		}
	}))
	defer srv.Close()

	tr := newAssemblyAI(srv.URL)
	tr.jobTimeout = 30 * time.Millisecond

	start := time.Now()
	_, err := tr.Transcribe(context.Background(), writeAudioFile(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestAssemblyAITranscribeMissingFile(t *testing.T) {
	t.Parallel()

	tr := newAssemblyAI("http://127.0.0.1:0")
	_, err := tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "gone.audio"))
	assert.ErrorContains(t, err, "failed to open audio file")
}

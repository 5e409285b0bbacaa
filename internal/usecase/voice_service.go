package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"voicetrade/internal/domain"
	"voicetrade/internal/logger"
)

// Content types accepted for the voice upload.
var allowedContentTypes = map[string]bool{
	"audio/webm":  true,
	"audio/wav":   true,
	"audio/mpeg":  true,
	"audio/ogg":   true,
	"audio/x-wav": true,
}

// uploads are streamed to disk in bounded chunks
const uploadChunkSize = 1 << 20

// VoiceResult carries the interpreted command plus per-stage timings.
type VoiceResult struct {
	Command            *domain.TradeCommand
	STTDuration        time.Duration
	ExtractionDuration time.Duration
}

// VoiceService drives the upload pipeline: validate, stream to a temp file,
// transcribe, extract, respond. Every exit path that is not full success
// removes the temp file before the error is surfaced; on success the file is
// removed as well, since nothing consumes the audio after transcription.
type VoiceService struct {
	transcriber domain.Transcriber
	commands    *CommandService
	uploadDir   string
	maxBytes    int64
}

// NewVoiceService creates a new VoiceService.
func NewVoiceService(transcriber domain.Transcriber, commands *CommandService, uploadDir string, maxBytes int64) *VoiceService {
	return &VoiceService{
		transcriber: transcriber,
		commands:    commands,
		uploadDir:   uploadDir,
		maxBytes:    maxBytes,
	}
}

// AllowedContentType reports whether the declared media type is accepted.
// Checked before a single byte is read.
func AllowedContentType(contentType string) bool {
	return allowedContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

// Process runs one upload through the pipeline. A caller disconnect surfaces
// as a read error and takes the same cleanup path as any other failure.
func (s *VoiceService) Process(ctx context.Context, audio io.Reader, contentType string) (*VoiceResult, error) {
	if !AllowedContentType(contentType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMediaType, contentType)
	}

	path, size, err := s.saveUpload(audio)
	if err != nil {
		return nil, err
	}
	defer s.removeUpload(ctx, path)

	logger.Info(ctx, "voice upload received", "path", path, "bytes", size, "content_type", contentType)

	sttTimer := logger.StartOperation(ctx, "stt-transcribe")
	transcript, err := s.transcriber.Transcribe(sttTimer.Context(), path)
	if err != nil {
		sttTimer.EndWithError(err)
		return nil, &domain.TranscriptionError{Err: err}
	}
	sttDuration := sttTimer.End()

	if strings.TrimSpace(transcript) == "" {
		logger.Info(ctx, "transcript empty, no command produced")
		return nil, domain.ErrNoCommand
	}
	logger.Debug(ctx, "transcript ready", "transcript", transcript)

	extractTimer := logger.StartOperation(ctx, "command-extract")
	command, err := s.commands.Extract(extractTimer.Context(), transcript)
	if err != nil {
		extractTimer.EndWithError(err)
		return nil, err
	}
	extractionDuration := extractTimer.End()

	if command == nil {
		logger.Info(ctx, "model produced no trade command", "transcript", transcript)
		return nil, domain.ErrNoCommand
	}

	return &VoiceResult{
		Command:            command,
		STTDuration:        sttDuration,
		ExtractionDuration: extractionDuration,
	}, nil
}

// saveUpload streams the audio to a uniquely named file under the upload
// directory, enforcing the size limit as bytes arrive. The partial file is
// deleted before any error returns.
func (s *VoiceService) saveUpload(audio io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(s.uploadDir, uuid.New().String()+".audio")
	out, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload file: %w", err)
	}

	discard := func(cause error) (string, int64, error) {
		out.Close()
		os.Remove(path)
		return "", 0, cause
	}

	var size int64
	buf := make([]byte, uploadChunkSize)
	for {
		n, readErr := audio.Read(buf)
		if n > 0 {
			size += int64(n)
			if size > s.maxBytes {
				return discard(fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrPayloadTooLarge, s.maxBytes))
			}
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return discard(fmt.Errorf("failed to write upload file: %w", writeErr))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return discard(fmt.Errorf("failed to read upload: %w", readErr))
		}
	}

	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to flush upload file: %w", err)
	}
	return path, size, nil
}

// removeUpload is best-effort: a failed delete is logged, never masks the
// original error.
func (s *VoiceService) removeUpload(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn(ctx, "failed to remove upload file", "path", path, "error", err)
	}
}

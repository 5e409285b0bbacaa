package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"voicetrade/internal/delivery/http/dto"
	"voicetrade/internal/domain"
	"voicetrade/internal/logger"
	"voicetrade/internal/usecase"
)

// VoiceHandler exposes the voice command pipeline over HTTP.
type VoiceHandler struct {
	voice *usecase.VoiceService
}

// NewVoiceHandler creates a new VoiceHandler.
func NewVoiceHandler(voice *usecase.VoiceService) *VoiceHandler {
	return &VoiceHandler{voice: voice}
}

// HandleRoot handles GET / — liveness probe used by the frontend.
func (h *VoiceHandler) HandleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleUpload handles POST /upload: multipart/form-data with a binary
// "voice" field. The part reader is handed straight to the pipeline so the
// body is never buffered in full.
func (h *VoiceHandler) HandleUpload(c echo.Context) error {
	reader, err := c.Request().MultipartReader()
	if err != nil {
		return BadRequestResponse(c, "expected a multipart form upload")
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return BadRequestResponse(c, "malformed multipart form")
		}
		if part.FormName() != "voice" {
			part.Close()
			continue
		}

		contentType := part.Header.Get("Content-Type")
		result, err := h.voice.Process(c.Request().Context(), part, contentType)
		part.Close()
		if err != nil {
			return h.mapError(c, err)
		}
		return c.JSON(http.StatusOK, dto.NewTradeCommandResponse(result))
	}

	return BadRequestResponse(c, `missing multipart field "voice"`)
}

// mapError translates pipeline errors to status codes. Validation errors
// carry precise causes; provider failures collapse to a generic 500 with the
// detail logged server-side only.
func (h *VoiceHandler) mapError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	switch {
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return BadRequestResponse(c, err.Error())
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return PayloadTooLargeResponse(c, err.Error())
	case errors.Is(err, domain.ErrNoCommand):
		return NoCommandResponse(c, domain.ErrNoCommand.Error())
	}

	var transcriptionErr *domain.TranscriptionError
	if errors.As(err, &transcriptionErr) {
		logger.ErrorWithErr(ctx, "transcription stage failed", transcriptionErr.Err)
		return InternalServerErrorResponse(c)
	}

	var extractionErr *domain.ExtractionError
	if errors.As(err, &extractionErr) {
		logger.ErrorWithErr(ctx, "extraction stage failed", extractionErr.Err)
		return InternalServerErrorResponse(c)
	}

	logger.ErrorWithErr(ctx, "voice upload failed", err)
	return InternalServerErrorResponse(c)
}

package dto

import (
	"voicetrade/internal/usecase"
)

// TradeCommandResponse is the POST /upload success body. Nullable fields are
// null when the command leaves them absent.
type TradeCommandResponse struct {
	Amount                    *float64 `json:"amount"`
	Token                     *string  `json:"token"`
	Leverage                  *int     `json:"leverage"`
	Position                  *string  `json:"position"`
	Edit                      bool     `json:"edit"`
	STTDurationSeconds        float64  `json:"stt_duration_seconds"`
	ExtractionDurationSeconds float64  `json:"extraction_duration_seconds"`
}

// NewTradeCommandResponse maps a pipeline result to the response body.
func NewTradeCommandResponse(res *usecase.VoiceResult) TradeCommandResponse {
	return TradeCommandResponse{
		Amount:                    res.Command.Amount,
		Token:                     res.Command.Token,
		Leverage:                  res.Command.Leverage,
		Position:                  res.Command.Position,
		Edit:                      res.Command.Edit,
		STTDurationSeconds:        res.STTDuration.Seconds(),
		ExtractionDurationSeconds: res.ExtractionDuration.Seconds(),
	}
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"voicetrade/internal/catalog"
	"voicetrade/internal/domain"
	"voicetrade/internal/logger"
)

// CommandService turns a raw transcript into a validated TradeCommand. The
// language model does the interpretation; everything that must be safe
// (token resolution, leverage bounds, the amount-zero reset) is re-checked
// deterministically here, because model output is probabilistic.
type CommandService struct {
	llm          domain.LLMClient
	catalog      *catalog.Catalog
	systemPrompt string
}

// NewCommandService creates a new CommandService. The system prompt is built
// once: the catalog never changes after startup.
func NewCommandService(llm domain.LLMClient, cat *catalog.Catalog) *CommandService {
	return &CommandService{
		llm:          llm,
		catalog:      cat,
		systemPrompt: buildSystemPrompt(cat),
	}
}

// buildSystemPrompt enumerates the schema, the supported markets, and the
// normalization rules. It also warns the model that the input text comes
// from speech-to-text and may contain recognition errors.
func buildSystemPrompt(cat *catalog.Catalog) string {
	var b strings.Builder

	b.WriteString("You are a trading assistant. Only output JSON with the following fields:\n")
	b.WriteString("- amount: number or null\n")
	b.WriteString("- token: one of the supported symbols below, or null\n")
	b.WriteString("- leverage: integer or null\n")
	b.WriteString("- position: \"long\" or \"short\", or null\n")
	b.WriteString("- edit: boolean (always required)\n\n")

	b.WriteString("Supported markets:\n")
	for _, entry := range cat.Entries() {
		fmt.Fprintf(&b, "- %s (%s), maximum leverage %dx\n", entry.Symbol, entry.Name, entry.MaxLeverage)
	}

	b.WriteString("\nRules:\n")
	b.WriteString("1. If the user describes a new trade, set edit=false and fill every field.\n")
	b.WriteString("2. If the user edits a previous trade (\"edit\", \"change\", \"set X to Y\"), set edit=true and fill only the fields being changed; leave the rest null.\n")
	fmt.Fprintf(&b, "3. Leverage must be between %d and %d.\n", domain.MinLeverage, domain.MaxLeverage)
	b.WriteString("4. If the user sets or clears the amount to zero, set amount=0 and every other field to null.\n")
	b.WriteString("5. If the user mentions a coin that is not in the supported list, set token=null.\n")
	b.WriteString("6. Never output extra text, only JSON.\n\n")

	b.WriteString("The input comes from speech-to-text and may contain recognition errors. ")
	b.WriteString("For example \"open 100 dollar BTC long\" may arrive as \"open 100$ BTC lunch\" or \"line\". ")
	b.WriteString("Infer the intended trading terms from context.\n")

	return b.String()
}

// Extract interprets a transcript. It returns (nil, nil) when the model
// recognized no trade directive, and an ExtractionError when the model call
// itself failed.
func (s *CommandService) Extract(ctx context.Context, transcript string) (*domain.TradeCommand, error) {
	raw, err := s.llm.Complete(ctx, s.systemPrompt, transcript)
	if err != nil {
		return nil, &domain.ExtractionError{Err: err}
	}
	if raw == nil {
		return nil, nil
	}

	cmd := s.normalize(raw)
	logger.Debug(ctx, "normalized trade command",
		"edit", cmd.Edit,
		"has_amount", cmd.Amount != nil,
		"has_token", cmd.Token != nil,
	)
	return cmd, nil
}

// normalize applies the deterministic post-pass over the model candidate.
// Order matters: leverage defaulting must see the resolved token, and the
// amount-zero reset runs last so it dominates everything else.
func (s *CommandService) normalize(raw *domain.RawCommand) *domain.TradeCommand {
	cmd := &domain.TradeCommand{Edit: raw.Edit}

	if raw.Amount != nil && *raw.Amount >= 0 {
		amount := *raw.Amount
		cmd.Amount = &amount
	}

	if raw.Token != nil {
		if symbol, ok := s.catalog.Resolve(*raw.Token); ok {
			cmd.Token = &symbol
		}
	}

	if raw.Position != nil {
		position := strings.ToLower(strings.TrimSpace(*raw.Position))
		if position == domain.PositionLong || position == domain.PositionShort {
			cmd.Position = &position
		}
	}

	if raw.Leverage != nil {
		max := domain.MaxLeverage
		if cmd.Token != nil {
			if bound, ok := s.catalog.MaxLeverage(*cmd.Token); ok && bound < max {
				max = bound
			}
		}
		// out-of-range leverage is rejected, never clamped
		if *raw.Leverage >= domain.MinLeverage && *raw.Leverage <= max {
			leverage := *raw.Leverage
			cmd.Leverage = &leverage
		}
	}

	// a complete new trade missing only leverage gets the default; a
	// rejected out-of-range value stays absent
	if !cmd.Edit && raw.Leverage == nil && cmd.Amount != nil && cmd.Token != nil && cmd.Position != nil {
		leverage := domain.DefaultLeverage
		cmd.Leverage = &leverage
	}

	// explicit amount zero is a full reset: every other field absent
	if cmd.Amount != nil && *cmd.Amount == 0 {
		cmd.Token = nil
		cmd.Leverage = nil
		cmd.Position = nil
	}

	return cmd
}

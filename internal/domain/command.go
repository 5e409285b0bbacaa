package domain

// Position side values
const (
	PositionLong  = "long"
	PositionShort = "short"
)

// Leverage bounds for every market. Individual markets may carry a lower
// maximum in the catalog, never a higher one.
const (
	MinLeverage     = 1
	MaxLeverage     = 50
	DefaultLeverage = 1
)

// TradeCommand is the canonical, validated trade directive produced by the
// interpretation pipeline. Pointer fields distinguish "absent / not changing"
// from a real zero value.
//
// Edit=true means the directive modifies an externally tracked prior trade
// and carries only the changed fields. Edit=false means a complete new-trade
// directive.
type TradeCommand struct {
	Amount   *float64 `json:"amount"`
	Token    *string  `json:"token"`
	Leverage *int     `json:"leverage"`
	Position *string  `json:"position"`
	Edit     bool     `json:"edit"`
}

// RawCommand is the unvalidated candidate emitted by the language model.
// It never reaches callers; CommandService normalizes it into a TradeCommand
// first.
type RawCommand struct {
	Amount   *float64 `json:"amount"`
	Token    *string  `json:"token"`
	Leverage *int     `json:"leverage"`
	Position *string  `json:"position"`
	Edit     bool     `json:"edit"`
}

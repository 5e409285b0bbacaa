package domain

// MarketEntry describes one tradable instrument. Entries are loaded once at
// startup and never mutated afterwards.
type MarketEntry struct {
	Symbol      string `yaml:"symbol" json:"symbol"`
	Name        string `yaml:"name" json:"name"`
	MaxLeverage int    `yaml:"max_leverage" json:"max_leverage"`
}

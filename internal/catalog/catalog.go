package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"voicetrade/internal/domain"
)

// Catalog indexes the supported tradable instruments. It is immutable after
// Load and safe to share across requests without synchronization.
type Catalog struct {
	entries  []domain.MarketEntry
	bySymbol map[string]domain.MarketEntry
}

// Load reads the market list from a YAML file. A missing, malformed, or
// empty source is an error; callers treat it as fatal at startup.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read market catalog: %w", err)
	}

	var entries []domain.MarketEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse market catalog %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("market catalog %s contains no markets", path)
	}

	c := &Catalog{
		entries:  make([]domain.MarketEntry, 0, len(entries)),
		bySymbol: make(map[string]domain.MarketEntry, len(entries)),
	}
	for _, e := range entries {
		e.Symbol = strings.ToUpper(strings.TrimSpace(e.Symbol))
		if e.Symbol == "" {
			return nil, fmt.Errorf("market catalog %s has an entry without a symbol", path)
		}
		if _, exists := c.bySymbol[e.Symbol]; exists {
			return nil, fmt.Errorf("market catalog %s has duplicate symbol %s", path, e.Symbol)
		}
		if e.MaxLeverage < domain.MinLeverage || e.MaxLeverage > domain.MaxLeverage {
			return nil, fmt.Errorf("market %s has max_leverage %d outside [%d, %d]",
				e.Symbol, e.MaxLeverage, domain.MinLeverage, domain.MaxLeverage)
		}
		c.bySymbol[e.Symbol] = e
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Resolve matches a candidate token against the known symbols,
// case-insensitively, and returns the canonical symbol. No fuzzy matching:
// alias resolution ("Ethereum" -> "ETH") is the language model's job, the
// catalog only confirms or rejects.
func (c *Catalog) Resolve(candidate string) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(candidate))
	if _, ok := c.bySymbol[symbol]; !ok {
		return "", false
	}
	return symbol, true
}

// MaxLeverage returns the leverage bound for a known symbol.
func (c *Catalog) MaxLeverage(symbol string) (int, bool) {
	entry, ok := c.bySymbol[strings.ToUpper(symbol)]
	if !ok {
		return 0, false
	}
	return entry.MaxLeverage, true
}

// Entries returns the markets in file order, for prompt construction.
func (c *Catalog) Entries() []domain.MarketEntry {
	return c.entries
}

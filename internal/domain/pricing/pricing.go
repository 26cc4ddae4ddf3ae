// Package pricing holds the static per-model price table and cost math.
package pricing

import (
	"math"

	"github.com/kailas-cloud/spendgate/internal/domain"
)

// Price holds per-1000-token unit prices in USD.
type Price struct {
	InPer1K  float64
	OutPer1K float64
}

// Table maps provider:model keys to unit prices. It is loaded once at
// process start and never mutated afterwards; lookups are safe for
// concurrent use.
type Table struct {
	prices map[string]Price
}

// NewTable creates an immutable price table from the given entries.
func NewTable(entries map[string]Price) *Table {
	prices := make(map[string]Price, len(entries))
	for k, v := range entries {
		prices[k] = v
	}
	return &Table{prices: prices}
}

// Lookup resolves the price for a provider:model key.
// A miss returns a PricingError naming the key — an operational gap in the
// table, surfaced to the client so operators can fix it quickly.
func (t *Table) Lookup(provider, model string) (Price, error) {
	key := provider + ":" + model
	p, ok := t.prices[key]
	if !ok {
		return Price{}, domain.NewPricingError(key)
	}
	return p, nil
}

// Len returns the number of configured entries.
func (t *Table) Len() int {
	return len(t.prices)
}

// Cost computes the USD cost of a token count pair at the given unit prices.
// Full precision; round only at the disclosure boundary.
func Cost(p Price, inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.InPer1K + float64(outputTokens)*p.OutPer1K) / 1000
}

// RoundUSD rounds a dollar amount to 2 decimal places for disclosure.
func RoundUSD(v float64) float64 {
	return math.Round(v*100) / 100
}

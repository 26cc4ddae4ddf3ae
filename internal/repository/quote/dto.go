package quote

import (
	"encoding/json"
	"fmt"

	domquote "github.com/kailas-cloud/spendgate/internal/domain/quote"
)

// quoteRow is the JSON-serializable representation of a stored quote.
type quoteRow struct {
	ID          string  `json:"id"`
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	InputTokens int     `json:"input_tokens"`
	EstOut      int     `json:"est_out"`
	EstCost     float64 `json:"est_cost"`
	Caps        capsRow `json:"caps"`
	CreatedAt   int64   `json:"created_at"`
}

type capsRow struct {
	MaxOutputTokens int     `json:"max_output_tokens"`
	MaxCostUSD      float64 `json:"max_cost_usd"`
}

func marshalQuote(q domquote.Quote) ([]byte, error) {
	row := quoteRow{
		ID:          q.ID,
		Provider:    q.Provider,
		Model:       q.Model,
		System:      q.System,
		Prompt:      q.Prompt,
		InputTokens: q.InputTokens,
		EstOut:      q.EstOutputTokens,
		EstCost:     q.EstCostUSD,
		Caps: capsRow{
			MaxOutputTokens: q.Caps.MaxOutputTokens,
			MaxCostUSD:      q.Caps.MaxCostUSD,
		},
		CreatedAt: q.CreatedAt,
	}
	return json.Marshal(row)
}

func unmarshalQuote(data []byte) (domquote.Quote, error) {
	var row quoteRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domquote.Quote{}, fmt.Errorf("unmarshal quote: %w", err)
	}
	return domquote.Quote{
		ID:              row.ID,
		Provider:        row.Provider,
		Model:           row.Model,
		System:          row.System,
		Prompt:          row.Prompt,
		InputTokens:     row.InputTokens,
		EstOutputTokens: row.EstOut,
		EstCostUSD:      row.EstCost,
		Caps: domquote.Caps{
			MaxOutputTokens: row.Caps.MaxOutputTokens,
			MaxCostUSD:      row.Caps.MaxCostUSD,
		},
		CreatedAt: row.CreatedAt,
	}, nil
}

package sdk

// QuoteRequest describes a prospective upstream LLM call.
type QuoteRequest struct {
	Provider             string `json:"provider"`
	Model                string `json:"model"`
	System               string `json:"system,omitempty"`
	Prompt               string `json:"prompt"`
	MaxOutputTokens      int    `json:"max_output_tokens,omitempty"`
	ExpectedOutputTokens int    `json:"expected_output_tokens,omitempty"`
}

// PricePer1K holds per-1000-token USD prices.
type PricePer1K struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

// Caps holds the ceilings disclosed with a quote.
type Caps struct {
	MaxOutputTokens int     `json:"max_output_tokens"`
	MaxCostUSD      float64 `json:"max_cost_usd"`
}

// Quote is the price disclosure returned by /quote.
type Quote struct {
	QuoteID          string     `json:"quote_id"`
	InputTokens      int        `json:"input_tokens"`
	EstOutputTokens  int        `json:"estimated_output_tokens"`
	PricePer1K       PricePer1K `json:"price_per_1k"`
	EstCostUSD       float64    `json:"estimated_cost_usd"`
	Caps             Caps       `json:"caps"`
	ExpiresInSeconds int        `json:"expires_in_seconds"`
}

// Usage holds actual token consumption for a confirmed run.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// RunResult is the outcome returned by /confirm.
type RunResult struct {
	RunID         string  `json:"run_id"`
	Answer        string  `json:"answer"`
	Usage         Usage   `json:"usage"`
	ActualCostUSD float64 `json:"actual_cost_usd"`
	Model         string  `json:"model"`
	Provider      string  `json:"provider"`
}

// User is a stored user record.
type User struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type confirmBody struct {
	QuoteID string `json:"quote_id"`
	Accept  bool   `json:"accept"`
}

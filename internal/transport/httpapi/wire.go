package httpapi

import (
	confirmuc "github.com/kailas-cloud/spendgate/internal/usecase/confirm"
	quoteuc "github.com/kailas-cloud/spendgate/internal/usecase/quote"

	domuser "github.com/kailas-cloud/spendgate/internal/domain/user"
)

// Request/response bodies. Field names follow the public API contract.

type quoteRequest struct {
	Provider             string `json:"provider"`
	Model                string `json:"model"`
	System               string `json:"system"`
	Prompt               string `json:"prompt"`
	MaxOutputTokens      int    `json:"max_output_tokens"`
	ExpectedOutputTokens int    `json:"expected_output_tokens"`
}

type pricePer1K struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
}

type capsBody struct {
	MaxOutputTokens int     `json:"max_output_tokens"`
	MaxCostUSD      float64 `json:"max_cost_usd"`
}

type quoteResponse struct {
	QuoteID          string     `json:"quote_id"`
	InputTokens      int        `json:"input_tokens"`
	EstOutputTokens  int        `json:"estimated_output_tokens"`
	PricePer1K       pricePer1K `json:"price_per_1k"`
	EstCostUSD       float64    `json:"estimated_cost_usd"`
	Caps             capsBody   `json:"caps"`
	ExpiresInSeconds int        `json:"expires_in_seconds"`
}

type confirmRequest struct {
	QuoteID string `json:"quote_id"`
	Accept  bool   `json:"accept"`
}

type usageBody struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type confirmResponse struct {
	RunID         string    `json:"run_id"`
	Answer        string    `json:"answer"`
	Usage         usageBody `json:"usage"`
	ActualCostUSD float64   `json:"actual_cost_usd"`
	Model         string    `json:"model"`
	Provider      string    `json:"provider"`
}

type userRequest struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type userResponse struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func disclosureToWire(d quoteuc.Disclosure) quoteResponse {
	return quoteResponse{
		QuoteID:         d.QuoteID,
		InputTokens:     d.InputTokens,
		EstOutputTokens: d.EstOutputTokens,
		PricePer1K: pricePer1K{
			Input:  d.PriceInPer1K,
			Output: d.PriceOutPer1K,
		},
		EstCostUSD: d.EstCostUSD,
		Caps: capsBody{
			MaxOutputTokens: d.Caps.MaxOutputTokens,
			MaxCostUSD:      d.Caps.MaxCostUSD,
		},
		ExpiresInSeconds: d.ExpiresInSeconds,
	}
}

func confirmResultToWire(res confirmuc.Result) confirmResponse {
	return confirmResponse{
		RunID:  res.RunID,
		Answer: res.Answer,
		Usage: usageBody{
			InputTokens:  res.Usage.InputTokens,
			OutputTokens: res.Usage.OutputTokens,
		},
		ActualCostUSD: res.ActualCostUSD,
		Model:         res.Model,
		Provider:      res.Provider,
	}
}

func userToWire(u domuser.User) userResponse {
	return userResponse{UserID: u.ID, UserName: u.Name}
}

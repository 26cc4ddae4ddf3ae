// Package quote implements the quote issuer: it prices a prospective
// upstream call and freezes it into a TTL-bound reservation. Issuing a
// quote never spends money.
package quote

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/spendgate/internal/domain"
	"github.com/kailas-cloud/spendgate/internal/domain/pricing"
	domquote "github.com/kailas-cloud/spendgate/internal/domain/quote"
	"github.com/kailas-cloud/spendgate/internal/metrics"
)

// Config holds issuing policy.
type Config struct {
	TTL                         time.Duration // quote lifetime in the store
	MaxCostUSD                  float64       // system-wide cap disclosed on every quote
	DefaultMaxOutputTokens      int
	DefaultExpectedOutputTokens int
}

// IssueRequest is a validated-for-presence quote request.
// Zero token fields mean "use the configured default".
type IssueRequest struct {
	Provider             string
	Model                string
	System               string
	Prompt               string
	MaxOutputTokens      int
	ExpectedOutputTokens int
}

// Disclosure is the client-facing price estimate for an issued quote.
type Disclosure struct {
	QuoteID          string
	InputTokens      int
	EstOutputTokens  int
	PriceInPer1K     float64
	PriceOutPer1K    float64
	EstCostUSD       float64 // rounded to 2 decimals
	Caps             domquote.Caps
	ExpiresInSeconds int
}

// Service issues quotes.
type Service struct {
	quotes    Writer
	prices    PriceLookup
	estimator Estimator
	cfg       Config
}

// New creates a quote issuer.
func New(quotes Writer, prices PriceLookup, estimator Estimator, cfg Config) *Service {
	return &Service{quotes: quotes, prices: prices, estimator: estimator, cfg: cfg}
}

// Issue validates, prices and persists a quote, returning the disclosure.
// Exactly one store write; no upstream side effect.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (Disclosure, error) {
	if req.Provider == "" || req.Model == "" {
		return Disclosure{}, domain.NewValidationError("provider and model are required")
	}
	if req.Prompt == "" {
		return Disclosure{}, domain.NewValidationError("prompt is required")
	}
	if req.MaxOutputTokens < 0 || req.ExpectedOutputTokens < 0 {
		return Disclosure{}, domain.NewValidationError("token counts must be non-negative")
	}

	maxOut := req.MaxOutputTokens
	if maxOut == 0 {
		maxOut = s.cfg.DefaultMaxOutputTokens
	}
	expectedOut := req.ExpectedOutputTokens
	if expectedOut == 0 {
		expectedOut = s.cfg.DefaultExpectedOutputTokens
	}

	price, err := s.prices.Lookup(req.Provider, req.Model)
	if err != nil {
		return Disclosure{}, err
	}

	inputTokens := s.estimator.Estimate(req.System + "\n" + req.Prompt)

	// Estimate never exceeds the client-declared output cap.
	estOut := expectedOut
	if estOut > maxOut {
		estOut = maxOut
	}

	estCost := pricing.Cost(price, inputTokens, estOut)

	q := domquote.Quote{
		ID:              uuid.NewString(),
		Provider:        req.Provider,
		Model:           req.Model,
		System:          req.System,
		Prompt:          req.Prompt,
		InputTokens:     inputTokens,
		EstOutputTokens: estOut,
		EstCostUSD:      estCost,
		Caps: domquote.Caps{
			MaxOutputTokens: maxOut,
			MaxCostUSD:      s.cfg.MaxCostUSD,
		},
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := s.quotes.Put(ctx, q, s.cfg.TTL); err != nil {
		return Disclosure{}, err
	}

	metrics.QuotesIssuedTotal.WithLabelValues(req.Provider, req.Model).Inc()

	return Disclosure{
		QuoteID:          q.ID,
		InputTokens:      inputTokens,
		EstOutputTokens:  estOut,
		PriceInPer1K:     price.InPer1K,
		PriceOutPer1K:    price.OutPer1K,
		EstCostUSD:       pricing.RoundUSD(estCost),
		Caps:             q.Caps,
		ExpiresInSeconds: int(s.cfg.TTL / time.Second),
	}, nil
}

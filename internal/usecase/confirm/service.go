// Package confirm implements the confirm executor: it redeems a quote,
// performs the single paid upstream call with the quote's frozen
// parameters, and reconciles actual usage into actual cost.
package confirm

import (
	"context"

	"github.com/google/uuid"

	"github.com/kailas-cloud/spendgate/internal/domain"
	"github.com/kailas-cloud/spendgate/internal/domain/pricing"
	"github.com/kailas-cloud/spendgate/internal/metrics"
)

// Config holds confirmation policy.
type Config struct {
	// SingleUse invalidates a quote atomically on confirm, closing the
	// double-spend window. Off by default: a quote stays redeemable until
	// its TTL expires.
	SingleUse bool
}

// Result is the outcome of a confirmed run.
type Result struct {
	RunID         string
	Answer        string
	Usage         domain.Usage
	ActualCostUSD float64 // rounded to 2 decimals
	Model         string
	Provider      string
}

// Service executes confirmed quotes.
type Service struct {
	quotes   Reader
	prices   PriceLookup
	upstream Completer
	cfg      Config
}

// New creates a confirm executor.
func New(quotes Reader, prices PriceLookup, upstream Completer, cfg Config) *Service {
	return &Service{quotes: quotes, prices: prices, upstream: upstream, cfg: cfg}
}

// Confirm redeems a quote. A declined confirmation fails before any store
// or upstream access; an unknown or expired id yields
// domain.ErrQuoteNotFound. At most one upstream call is made.
func (s *Service) Confirm(ctx context.Context, quoteID string, accept bool) (Result, error) {
	if !accept {
		metrics.ConfirmsTotal.WithLabelValues("", "", "not_accepted").Inc()
		return Result{}, domain.ErrNotAccepted
	}

	read := s.quotes.Get
	if s.cfg.SingleUse {
		read = s.quotes.Take
	}
	q, err := read(ctx, quoteID)
	if err != nil {
		metrics.ConfirmsTotal.WithLabelValues("", "", "not_found").Inc()
		return Result{}, err
	}

	// Actual billing uses the current price table, not a price frozen at
	// issue time.
	price, err := s.prices.Lookup(q.Provider, q.Model)
	if err != nil {
		metrics.ConfirmsTotal.WithLabelValues(q.Provider, q.Model, "pricing_missing").Inc()
		return Result{}, err
	}

	res, err := s.upstream.Complete(ctx, q.Provider, q.Model, q.System, q.Prompt, q.Caps.MaxOutputTokens)
	if err != nil {
		metrics.ConfirmsTotal.WithLabelValues(q.Provider, q.Model, "upstream_error").Inc()
		return Result{}, err
	}

	usage := res.Usage
	if !usage.Reported {
		// Degraded-accuracy fallback, not a failure: bill estimated input
		// and zero output when the provider reports no usage.
		usage = domain.Usage{InputTokens: q.InputTokens, OutputTokens: 0, Reported: false}
	}

	actualCost := pricing.Cost(price, usage.InputTokens, usage.OutputTokens)

	metrics.ConfirmsTotal.WithLabelValues(q.Provider, q.Model, "ok").Inc()
	metrics.UpstreamTokensTotal.WithLabelValues(q.Provider, q.Model, "input").Add(float64(usage.InputTokens))
	metrics.UpstreamTokensTotal.WithLabelValues(q.Provider, q.Model, "output").Add(float64(usage.OutputTokens))
	metrics.UpstreamCostUSDTotal.WithLabelValues(q.Provider, q.Model).Add(actualCost)

	return Result{
		RunID:         uuid.NewString(),
		Answer:        res.Answer,
		Usage:         usage,
		ActualCostUSD: pricing.RoundUSD(actualCost),
		Model:         q.Model,
		Provider:      q.Provider,
	}, nil
}

package confirm

import (
	"context"

	"github.com/kailas-cloud/spendgate/internal/domain"
	"github.com/kailas-cloud/spendgate/internal/domain/pricing"
	domquote "github.com/kailas-cloud/spendgate/internal/domain/quote"
)

// Reader reads issued quotes. The executor is the store's only reader.
type Reader interface {
	Get(ctx context.Context, id string) (domquote.Quote, error)
	// Take atomically reads and invalidates a quote (single-use mode).
	Take(ctx context.Context, id string) (domquote.Quote, error)
}

// Completer performs the paid upstream chat completion.
type Completer interface {
	Complete(ctx context.Context, provider, model, system, prompt string, maxTokens int) (domain.CompletionResult, error)
}

// PriceLookup resolves per-1k unit prices for a provider:model key.
type PriceLookup interface {
	Lookup(provider, model string) (pricing.Price, error)
}

package quote

import (
	"context"
	"time"

	"github.com/kailas-cloud/spendgate/internal/domain/pricing"
	domquote "github.com/kailas-cloud/spendgate/internal/domain/quote"
)

// Writer persists issued quotes. The issuer is the store's only writer.
type Writer interface {
	Put(ctx context.Context, q domquote.Quote, ttl time.Duration) error
}

// Estimator approximates token counts for pre-flight estimation.
type Estimator interface {
	Estimate(text string) int
}

// PriceLookup resolves per-1k unit prices for a provider:model key.
type PriceLookup interface {
	Lookup(provider, model string) (pricing.Price, error)
}

// Package quote persists serialized quotes in the KV store with a TTL.
//
// The quote issuer is the only writer and the confirm executor the only
// reader; expiry is native to the store, not application logic.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/spendgate/internal/db"
	"github.com/kailas-cloud/spendgate/internal/domain"
	domquote "github.com/kailas-cloud/spendgate/internal/domain/quote"
)

// store is the consumer interface for quote persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	GetDel(ctx context.Context, key string) ([]byte, error)
}

// Repo stores quotes as JSON values under <prefix>quote:<id>.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a quote repository. keyPrefix is the global storage prefix
// (e.g. "spendgate:").
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Put persists a quote with the given TTL.
func (r *Repo) Put(ctx context.Context, q domquote.Quote, ttl time.Duration) error {
	data, err := marshalQuote(q)
	if err != nil {
		return fmt.Errorf("marshal quote %s: %w", q.ID, err)
	}
	if err := r.store.SetWithTTL(ctx, r.key(q.ID), data, ttl); err != nil {
		return fmt.Errorf("put quote %s: %w", q.ID, err)
	}
	return nil
}

// Get reads a quote by id. Returns domain.ErrQuoteNotFound when the id was
// never issued or its TTL has elapsed.
func (r *Repo) Get(ctx context.Context, id string) (domquote.Quote, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domquote.Quote{}, domain.ErrQuoteNotFound
		}
		return domquote.Quote{}, fmt.Errorf("get quote %s: %w", id, err)
	}
	return unmarshalQuote(data)
}

// Take atomically reads and invalidates a quote (GETDEL), so a quote can be
// redeemed at most once even under concurrent confirms.
func (r *Repo) Take(ctx context.Context, id string) (domquote.Quote, error) {
	data, err := r.store.GetDel(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domquote.Quote{}, domain.ErrQuoteNotFound
		}
		return domquote.Quote{}, fmt.Errorf("take quote %s: %w", id, err)
	}
	return unmarshalQuote(data)
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "quote:" + id
}

package quote

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/spendgate/internal/db"
)

// fakeStore is an in-memory KV store honoring per-key TTL, so expiry
// behavior can be tested with artificially short lifetimes.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string]fakeEntry
}

type fakeEntry struct {
	data      []byte
	expiresAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]fakeEntry)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		delete(f.entries, key)
		return nil, db.ErrKeyNotFound
	}
	return e.data, nil
}

func (f *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[key] = fakeEntry{data: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (f *fakeStore) GetDel(ctx context.Context, key string) ([]byte, error) {
	data, err := f.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	delete(f.entries, key)
	f.mu.Unlock()
	return data, nil
}

func (f *fakeStore) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.entries))
	for k := range f.entries {
		out = append(out, k)
	}
	return out
}

package quote

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/spendgate/internal/domain"
	domquote "github.com/kailas-cloud/spendgate/internal/domain/quote"
)

func testQuote() domquote.Quote {
	return domquote.Quote{
		ID:              "q-1",
		Provider:        "openai",
		Model:           "gpt-4.1-mini",
		System:          "You are a helpful assistant",
		Prompt:          "Explain Romans 8:28",
		InputTokens:     12,
		EstOutputTokens: 400,
		EstCostUSD:      0.606,
		Caps: domquote.Caps{
			MaxOutputTokens: 512,
			MaxCostUSD:      1.00,
		},
		CreatedAt: 1700000000000,
	}
}

func TestPutGet_Roundtrip(t *testing.T) {
	repo := New(newFakeStore(), "spendgate:")
	ctx := context.Background()

	if err := repo.Put(ctx, testQuote(), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := repo.Get(ctx, "q-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != testQuote() {
		t.Errorf("roundtrip mismatch:\ngot:  %+v\nwant: %+v", got, testQuote())
	}
}

func TestPut_UsesKeyPrefix(t *testing.T) {
	fs := newFakeStore()
	repo := New(fs, "spendgate:")

	if err := repo.Put(context.Background(), testQuote(), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}

	keys := fs.keys()
	if len(keys) != 1 || !strings.HasPrefix(keys[0], "spendgate:quote:") {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestGet_NeverIssued(t *testing.T) {
	repo := New(newFakeStore(), "spendgate:")

	_, err := repo.Get(context.Background(), "no-such-id")
	if !errors.Is(err, domain.ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound, got %v", err)
	}
}

func TestGet_AfterTTLElapsed(t *testing.T) {
	repo := New(newFakeStore(), "spendgate:")
	ctx := context.Background()

	if err := repo.Put(ctx, testQuote(), time.Millisecond); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, err := repo.Get(ctx, "q-1")
	if !errors.Is(err, domain.ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound after TTL, got %v", err)
	}
}

func TestTake_Invalidates(t *testing.T) {
	repo := New(newFakeStore(), "spendgate:")
	ctx := context.Background()

	if err := repo.Put(ctx, testQuote(), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := repo.Take(ctx, "q-1")
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if got.ID != "q-1" {
		t.Errorf("unexpected quote: %+v", got)
	}

	if _, err := repo.Get(ctx, "q-1"); !errors.Is(err, domain.ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound after Take, got %v", err)
	}
}

func TestGet_DoesNotInvalidate(t *testing.T) {
	repo := New(newFakeStore(), "spendgate:")
	ctx := context.Background()

	if err := repo.Put(ctx, testQuote(), time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// A plain Get leaves the quote redeemable until TTL expiry.
	for i := 0; i < 2; i++ {
		if _, err := repo.Get(ctx, "q-1"); err != nil {
			t.Fatalf("Get #%d: %v", i+1, err)
		}
	}
}

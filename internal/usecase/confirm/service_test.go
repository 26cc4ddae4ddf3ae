package confirm

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/spendgate/internal/domain"
	"github.com/kailas-cloud/spendgate/internal/domain/pricing"
	domquote "github.com/kailas-cloud/spendgate/internal/domain/quote"
)

// --- mocks ---

type mockReader struct {
	quotes    map[string]domquote.Quote
	getCalls  int
	takeCalls int
}

func (m *mockReader) Get(_ context.Context, id string) (domquote.Quote, error) {
	m.getCalls++
	q, ok := m.quotes[id]
	if !ok {
		return domquote.Quote{}, domain.ErrQuoteNotFound
	}
	return q, nil
}

func (m *mockReader) Take(_ context.Context, id string) (domquote.Quote, error) {
	m.takeCalls++
	q, ok := m.quotes[id]
	if !ok {
		return domquote.Quote{}, domain.ErrQuoteNotFound
	}
	delete(m.quotes, id)
	return q, nil
}

type mockPrices struct {
	table map[string]pricing.Price
}

func (m *mockPrices) Lookup(provider, model string) (pricing.Price, error) {
	key := provider + ":" + model
	p, ok := m.table[key]
	if !ok {
		return pricing.Price{}, &domain.PricingError{Key: key}
	}
	return p, nil
}

type mockCompleter struct {
	calls        int
	lastModel    string
	lastSystem   string
	lastPrompt   string
	lastMaxToken int
	result       domain.CompletionResult
	err          error
}

func (m *mockCompleter) Complete(_ context.Context, _, model, system, prompt string, maxTokens int) (domain.CompletionResult, error) {
	m.calls++
	m.lastModel = model
	m.lastSystem = system
	m.lastPrompt = prompt
	m.lastMaxToken = maxTokens
	if m.err != nil {
		return domain.CompletionResult{}, m.err
	}
	return m.result, nil
}

func storedQuote() domquote.Quote {
	return domquote.Quote{
		ID:              "q-1",
		Provider:        "openai",
		Model:           "gpt-4.1-mini",
		System:          "You are a helpful assistant",
		Prompt:          "Explain Romans 8:28",
		InputTokens:     12,
		EstOutputTokens: 400,
		EstCostUSD:      0.606,
		Caps:            domquote.Caps{MaxOutputTokens: 512, MaxCostUSD: 1.00},
	}
}

func newTestService(r *mockReader, c *mockCompleter, cfg Config) *Service {
	prices := &mockPrices{table: map[string]pricing.Price{
		"openai:gpt-4.1-mini": {InPer1K: 0.5, OutPer1K: 1.5},
	}}
	return New(r, prices, c, cfg)
}

// --- tests ---

func TestConfirm_ActualCostFromReportedUsage(t *testing.T) {
	r := &mockReader{quotes: map[string]domquote.Quote{"q-1": storedQuote()}}
	c := &mockCompleter{result: domain.CompletionResult{
		Answer: "All things work together for good.",
		Usage:  domain.Usage{InputTokens: 120, OutputTokens: 80, Reported: true},
	}}
	s := newTestService(r, c, Config{})

	res, err := s.Confirm(context.Background(), "q-1", true)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// (120*0.5 + 80*1.5) / 1000 = 0.18
	if res.ActualCostUSD != 0.18 {
		t.Errorf("ActualCostUSD = %v, want 0.18", res.ActualCostUSD)
	}
	if res.Usage.InputTokens != 120 || res.Usage.OutputTokens != 80 {
		t.Errorf("usage = %+v, want {120 80}", res.Usage)
	}
	if res.Answer != "All things work together for good." {
		t.Errorf("unexpected answer: %q", res.Answer)
	}
	if res.Provider != "openai" || res.Model != "gpt-4.1-mini" {
		t.Errorf("provenance = %s/%s", res.Provider, res.Model)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestConfirm_UpstreamCalledWithQuotedParams(t *testing.T) {
	r := &mockReader{quotes: map[string]domquote.Quote{"q-1": storedQuote()}}
	c := &mockCompleter{result: domain.CompletionResult{Answer: "ok"}}
	s := newTestService(r, c, Config{})

	if _, err := s.Confirm(context.Background(), "q-1", true); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if c.calls != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", c.calls)
	}
	if c.lastModel != "gpt-4.1-mini" {
		t.Errorf("model = %q", c.lastModel)
	}
	if c.lastSystem != "You are a helpful assistant" || c.lastPrompt != "Explain Romans 8:28" {
		t.Errorf("quoted text not forwarded: system=%q prompt=%q", c.lastSystem, c.lastPrompt)
	}
	// The upstream cap comes from the quote, never from the confirm request.
	if c.lastMaxToken != 512 {
		t.Errorf("maxTokens = %d, want 512", c.lastMaxToken)
	}
}

func TestConfirm_Declined(t *testing.T) {
	r := &mockReader{quotes: map[string]domquote.Quote{"q-1": storedQuote()}}
	c := &mockCompleter{}
	s := newTestService(r, c, Config{})

	_, err := s.Confirm(context.Background(), "q-1", false)
	if !errors.Is(err, domain.ErrNotAccepted) {
		t.Fatalf("expected ErrNotAccepted, got %v", err)
	}

	// A decline must be free: no store read, no upstream call.
	if r.getCalls != 0 || r.takeCalls != 0 {
		t.Errorf("store touched on decline: get=%d take=%d", r.getCalls, r.takeCalls)
	}
	if c.calls != 0 {
		t.Errorf("upstream called on decline: %d", c.calls)
	}
}

func TestConfirm_UnknownQuote(t *testing.T) {
	r := &mockReader{quotes: map[string]domquote.Quote{}}
	c := &mockCompleter{}
	s := newTestService(r, c, Config{})

	_, err := s.Confirm(context.Background(), "no-such-id", true)
	if !errors.Is(err, domain.ErrQuoteNotFound) {
		t.Fatalf("expected ErrQuoteNotFound, got %v", err)
	}
	if c.calls != 0 {
		t.Errorf("upstream called for unknown quote: %d", c.calls)
	}
}

func TestConfirm_PricingRemovedAfterIssue(t *testing.T) {
	q := storedQuote()
	q.Model = "gpt-retired"
	r := &mockReader{quotes: map[string]domquote.Quote{"q-1": q}}
	c := &mockCompleter{}
	s := newTestService(r, c, Config{})

	_, err := s.Confirm(context.Background(), "q-1", true)
	if !errors.Is(err, domain.ErrPricingNotConfigured) {
		t.Fatalf("expected ErrPricingNotConfigured, got %v", err)
	}
	if c.calls != 0 {
		t.Errorf("upstream called without a price: %d", c.calls)
	}
}

func TestConfirm_UpstreamFailure(t *testing.T) {
	r := &mockReader{quotes: map[string]domquote.Quote{"q-1": storedQuote()}}
	c := &mockCompleter{err: domain.ErrUpstreamFailure}
	s := newTestService(r, c, Config{})

	_, err := s.Confirm(context.Background(), "q-1", true)
	if !errors.Is(err, domain.ErrUpstreamFailure) {
		t.Fatalf("expected ErrUpstreamFailure, got %v", err)
	}
}

func TestConfirm_UsageFallback(t *testing.T) {
	r := &mockReader{quotes: map[string]domquote.Quote{"q-1": storedQuote()}}
	c := &mockCompleter{result: domain.CompletionResult{
		Answer: "ok",
		Usage:  domain.Usage{Reported: false},
	}}
	s := newTestService(r, c, Config{})

	res, err := s.Confirm(context.Background(), "q-1", true)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	// No usage from the provider: bill the quoted input estimate and zero
	// output.
	if res.Usage.InputTokens != 12 || res.Usage.OutputTokens != 0 {
		t.Errorf("fallback usage = %+v, want {12 0}", res.Usage)
	}
	// (12*0.5 + 0*1.5) / 1000 = 0.006, rounded to 0.01.
	if res.ActualCostUSD != 0.01 {
		t.Errorf("ActualCostUSD = %v, want 0.01", res.ActualCostUSD)
	}
}

func TestConfirm_ReusableByDefault(t *testing.T) {
	r := &mockReader{quotes: map[string]domquote.Quote{"q-1": storedQuote()}}
	c := &mockCompleter{result: domain.CompletionResult{Answer: "ok"}}
	s := newTestService(r, c, Config{})

	for i := 0; i < 2; i++ {
		if _, err := s.Confirm(context.Background(), "q-1", true); err != nil {
			t.Fatalf("Confirm #%d: %v", i+1, err)
		}
	}
	if r.takeCalls != 0 {
		t.Errorf("Take called in reusable mode: %d", r.takeCalls)
	}
	if c.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", c.calls)
	}
}

func TestConfirm_SingleUse(t *testing.T) {
	r := &mockReader{quotes: map[string]domquote.Quote{"q-1": storedQuote()}}
	c := &mockCompleter{result: domain.CompletionResult{Answer: "ok"}}
	s := newTestService(r, c, Config{SingleUse: true})

	if _, err := s.Confirm(context.Background(), "q-1", true); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}
	if r.takeCalls != 1 || r.getCalls != 0 {
		t.Errorf("expected one Take and no Get, got take=%d get=%d", r.takeCalls, r.getCalls)
	}

	_, err := s.Confirm(context.Background(), "q-1", true)
	if !errors.Is(err, domain.ErrQuoteNotFound) {
		t.Fatalf("second confirm: expected ErrQuoteNotFound, got %v", err)
	}
	if c.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", c.calls)
	}
}

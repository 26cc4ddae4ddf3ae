package domain

// Usage holds token consumption reported by the upstream provider for a
// single call. These figures are billing truth; estimates never are.
type Usage struct {
	InputTokens  int
	OutputTokens int
	// Reported is false when the provider returned no usage block and the
	// figures were filled from the quote's estimate (degraded accuracy).
	Reported bool
}

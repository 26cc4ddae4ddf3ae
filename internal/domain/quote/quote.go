// Package quote defines the core reservation entity: an immutable,
// time-boxed price estimate bound to a frozen request snapshot.
package quote

// Caps holds the hard ceilings disclosed to the client at issue time and
// enforced on confirm.
type Caps struct {
	MaxOutputTokens int
	MaxCostUSD      float64
}

// Quote is the snapshot persisted between the quote and confirm steps.
// It is immutable after creation; confirmation only reads it.
type Quote struct {
	ID              string
	Provider        string
	Model           string
	System          string
	Prompt          string
	InputTokens     int
	EstOutputTokens int
	EstCostUSD      float64 // full precision, rounded only at the disclosure boundary
	Caps            Caps
	CreatedAt       int64 // unix millis; lifetime is enforced by the store TTL
}

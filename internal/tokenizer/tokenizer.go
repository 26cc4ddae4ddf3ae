// Package tokenizer provides pre-flight token count estimation.
//
// Estimates feed the quote disclosure only; actual billing always derives
// from the usage figures the upstream provider reports.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator approximates the token count of a text payload.
// Implementations must be deterministic and monotonic in input length.
type Estimator interface {
	Estimate(text string) int
}

// Heuristic estimates ~4 characters per token, rounding up.
type Heuristic struct{}

// NewHeuristic creates the default character-ratio estimator.
func NewHeuristic() Heuristic {
	return Heuristic{}
}

// Estimate returns ceil(len(text)/4).
func (Heuristic) Estimate(text string) int {
	return (len(text) + 3) / 4
}

// Tiktoken estimates via BPE encoding. Closer to provider counts than the
// heuristic, at the price of loading the encoding table at startup.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken creates a BPE estimator using the cl100k_base encoding.
func NewTiktoken() (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Estimate returns the BPE token count of text.
func (t *Tiktoken) Estimate(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

package domain

// CompletionResult is the outcome of one upstream chat completion.
type CompletionResult struct {
	Answer string
	Usage  Usage
}

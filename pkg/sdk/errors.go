package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors for common API failures. Use errors.Is() to check.
var (
	// ErrQuoteNotFound means the quote id is unknown or its TTL elapsed;
	// request a fresh quote.
	ErrQuoteNotFound = errors.New("sdk: quote expired or not found")
	// ErrNotAccepted means the confirmation was declined.
	ErrNotAccepted = errors.New("sdk: quote not accepted")
)

// APIError is a structured error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sdk: server returned %d: %s", e.StatusCode, e.Message)
}

// Is maps well-known statuses onto the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrQuoteNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrNotAccepted:
		return e.StatusCode == http.StatusBadRequest && e.Message == "not accepted"
	}
	return false
}

func parseAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(data)}
}

// Package sdk is a typed Go client for the spendgate HTTP API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 2 * time.Minute

// Client talks to a spendgate server.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// Option configures the Client.
type Option interface {
	apply(*Client)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) { c.apiKey = key })
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) { c.hc = hc })
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("sdk: invalid base URL %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c, nil
}

// Quote requests a price estimate for a prospective LLM call.
// No money is spent until the quote is confirmed.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	var out Quote
	if err := c.post(ctx, "/quote", req, &out); err != nil {
		return Quote{}, err
	}
	return out, nil
}

// Confirm redeems a quote, executing the paid upstream call.
func (c *Client) Confirm(ctx context.Context, quoteID string, accept bool) (RunResult, error) {
	var out RunResult
	body := confirmBody{QuoteID: quoteID, Accept: accept}
	if err := c.post(ctx, "/confirm", body, &out); err != nil {
		return RunResult{}, err
	}
	return out, nil
}

// CreateUser stores a new user record.
func (c *Client) CreateUser(ctx context.Context, userID, userName string) (User, error) {
	var out User
	body := User{UserID: userID, UserName: userName}
	if err := c.post(ctx, "/users", body, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// GetUser reads a user record by id.
func (c *Client) GetUser(ctx context.Context, userID string) (User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// UpdateUser replaces the name of an existing user.
func (c *Client) UpdateUser(ctx context.Context, userID, userName string) (User, error) {
	var out User
	body := struct {
		UserName string `json:"user_name"`
	}{UserName: userName}
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), body, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("sdk: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("sdk: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("sdk: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("sdk: decode response: %w", err)
		}
	}
	return nil
}

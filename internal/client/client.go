// Package client is the HTTP adapter for the TaskBuddy REST backend: it
// injects the persisted bearer credential on every outbound request,
// normalizes the backend's envelope shapes, and applies the global 401
// policy (clear persisted auth state, signal the session owner, and still
// propagate the rejection to the caller).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Client issues requests against a configured base origin.
type Client struct {
	baseURL string
	http    *http.Client
	store   ports.CredentialStore
	log     zerolog.Logger

	// onUnauthorized is the CLI analog of the SPA's hard redirect to the
	// login view. It runs after persisted auth state has been cleared and
	// may fire once per rejected in-flight request; the clearing itself is
	// idempotent. Callers must still handle the returned error.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its transport is
// still wrapped with bearer injection.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithUnauthorizedHook sets the callback invoked after a 401 response has
// cleared the persisted credential and identity.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New builds a Client rooted at baseURL (including the /api prefix),
// reading the bearer credential from store on every request.
func New(baseURL string, store ports.CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: defaultTimeout},
		store:          store,
		log:            zerolog.Nop(),
		onUnauthorized: func() {},
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	// Copy so the caller's client is not mutated.
	hc := *c.http
	hc.Transport = &bearerTransport{base: base, store: store}
	c.http = &hc

	return c
}

// BaseURL returns the configured REST base.
func (c *Client) BaseURL() string { return c.baseURL }

// bearerTransport attaches the persisted credential to every request. The
// store is consulted per request, not cached: login and logout in the same
// process must be visible immediately.
type bearerTransport struct {
	base  http.RoundTripper
	store ports.CredentialStore
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := t.store.Get(ports.KeyToken); tok != "" {
		clone := req.Clone(req.Context())
		clone.Header.Set("Authorization", "Bearer "+tok)
		return t.base.RoundTrip(clone)
	}
	return t.base.RoundTrip(req)
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// do executes one request and returns the raw response body. Status >= 400
// maps to *APIError; a 401 additionally clears both persisted auth keys
// together and fires the unauthorized hook before the error is returned.
// No retry, no backoff: transient-failure handling belongs to the caller.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if clearErr := c.store.ClearAuth(); clearErr != nil {
			c.log.Error().Err(clearErr).Msg("failed to clear persisted auth state")
		}
		c.onUnauthorized()
		return nil, newAPIError(resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, raw)
	}

	return raw, nil
}

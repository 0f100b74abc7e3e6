package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/unicompass/internal/logger"
	"github.com/existflow/unicompass/internal/session"
)

// ErrUnauthorized is returned when a protected call comes back 401. The
// client has already forced a logout by then; callers route to the login
// surface instead of rendering this inline.
var ErrUnauthorized = errors.New("session expired, please log in again")

// APIError is a non-2xx, non-401 response, carrying the server's detail
// message when the body had one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client is the thin wrapper every feature goes through. It attaches the
// bearer token to protected calls and translates 401 into a forced logout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
}

// NewClient creates an API client bound to a session store.
func NewClient(baseURL string, sess *session.Store) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    sess,
	}
}

// Session returns the bound session store.
func (c *Client) Session() *session.Store {
	return c.session
}

// do issues one JSON request. authed controls the bearer header; out may be
// nil when the caller does not need the response body.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, authed bool) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Transport error", logger.F("method", method), logger.F("path", path), logger.F("error", err))
		return fmt.Errorf("could not reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && authed {
		logger.Info("Got 401, forcing logout", logger.F("path", path))
		c.session.Logout()
		return ErrUnauthorized
	}

	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("malformed response: %w", err)
		}
	}
	return nil
}

// readDetail extracts a human-readable message from an error body. The API
// answers with {"detail": ...}, {"error": ...}, {"message": ...} or a
// field-keyed validation map depending on the endpoint.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil || len(data) == 0 {
		return ""
	}

	var envelope map[string]json.RawMessage
	if json.Unmarshal(data, &envelope) != nil {
		return ""
	}

	for _, key := range []string{"detail", "error", "message"} {
		if raw, ok := envelope[key]; ok {
			var s string
			if json.Unmarshal(raw, &s) == nil && s != "" {
				return s
			}
		}
	}

	// Validation maps: flatten {"field": ["msg", ...]} values in key order
	// so the same response always yields the same message
	keys := make([]string, 0, len(envelope))
	for key := range envelope {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		var list []string
		if json.Unmarshal(envelope[key], &list) == nil {
			parts = append(parts, list...)
			continue
		}
		var s string
		if json.Unmarshal(envelope[key], &s) == nil {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

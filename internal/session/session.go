package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/existflow/unicompass/internal/logger"
	"github.com/existflow/unicompass/internal/model"
)

// Tokens is the durable session blob. It is written whole on login and
// deleted whole on logout; there is no partial update.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store owns the current token pair and the identity decoded from it.
// Identity is non-nil exactly when a decodable access token is held; it is
// UI-gating state only, the server stays authoritative for every privileged
// call.
type Store struct {
	mu         sync.Mutex
	path       string
	baseURL    string
	httpClient *http.Client
	tokens     *Tokens
	identity   *model.Identity
}

// DefaultPath returns the session blob path (~/.unicompass/session.json)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".unicompass", "session.json"), nil
}

// NewStore creates a session store backed by the default blob path and
// restores any persisted session.
func NewStore(baseURL string) (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(baseURL, path), nil
}

// NewStoreAt creates a session store backed by the given blob path.
func NewStoreAt(baseURL, path string) *Store {
	s := &Store{
		path:       path,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	s.Restore()
	return s
}

// Restore reads the durable blob and decodes the stored token. A missing
// blob means logged out; an undecodable one is cleared so a bad token can
// never wedge startup.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var t Tokens
	if err := json.Unmarshal(data, &t); err != nil || t.Access == "" {
		logger.Warn("Invalid session blob, clearing", logger.F("path", s.path))
		s.clearLocked()
		return
	}

	id, err := DecodeIdentity(t.Access)
	if err != nil {
		logger.Warn("Stored token is not decodable, clearing", logger.F("error", err))
		s.clearLocked()
		return
	}

	s.tokens = &t
	s.identity = id
}

// Login exchanges credentials for a token pair at the remote token
// endpoint. Every failure path resolves to an error value; a prior session
// is left untouched on failure.
func (s *Store) Login(ctx context.Context, username, password string) error {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/token/", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Warn("Login transport error", logger.F("error", err))
		return fmt.Errorf("a network error occurred, please try again")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(respBody, &detail) == nil && detail.Detail != "" {
			return fmt.Errorf("%s", detail.Detail)
		}
		return fmt.Errorf("login failed: %s", resp.Status)
	}

	var t Tokens
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return fmt.Errorf("login failed: malformed token response")
	}

	id, err := DecodeIdentity(t.Access)
	if err != nil {
		return fmt.Errorf("login failed: server returned an undecodable token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = &t
	s.identity = id
	if err := s.persistLocked(); err != nil {
		logger.Warn("Failed to persist session", logger.F("error", err))
	}
	logger.Info("Logged in", logger.F("username", id.Username))
	return nil
}

// Logout clears durable storage and in-memory state unconditionally. Safe
// to call when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity != nil {
		logger.Info("Logged out", logger.F("username", s.identity.Username))
	}
	s.clearLocked()
}

// IsLoggedIn reports whether an identity is held.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil
}

// Identity returns the decoded identity, or nil when logged out.
func (s *Store) Identity() *model.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// AccessToken returns the bearer token for protected calls, or "" when
// logged out.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		return ""
	}
	return s.tokens.Access
}

func (s *Store) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.tokens, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *Store) clearLocked() {
	s.tokens = nil
	s.identity = nil
	_ = os.Remove(s.path)
}

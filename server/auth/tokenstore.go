package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"golang.org/x/oauth2"
)

// DefaultSessionID is used for clients that do not supply a session. It
// preserves the single-slot behavior of a single-tenant deployment while
// keeping credentials isolated for clients that do send one.
const DefaultSessionID = "default"

// Persister stores serialized credentials across restarts. Implementations
// treat the token blob as opaque.
type Persister interface {
	SaveCredential(ctx context.Context, sessionID string, blob string) error
	LoadCredentials(ctx context.Context) (map[string]string, error)
}

// TokenStore keys credentials by session identity. Concurrent requests from
// different sessions never observe each other's tokens.
type TokenStore struct {
	mu      sync.RWMutex
	tokens  map[string]*oauth2.Token
	persist Persister
}

// NewTokenStore creates a store. persist may be nil for memory-only use.
func NewTokenStore(persist Persister) *TokenStore {
	return &TokenStore{
		tokens:  make(map[string]*oauth2.Token),
		persist: persist,
	}
}

// Load restores persisted credentials. Blobs that fail to decode are
// skipped, not fatal.
func (s *TokenStore) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	blobs, err := s.persist.LoadCredentials(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for sessionID, blob := range blobs {
		var token oauth2.Token
		if err := json.Unmarshal([]byte(blob), &token); err != nil {
			slog.Warn("skipping undecodable stored credential", "session_id", sessionID, "error", err)
			continue
		}
		s.tokens[sessionID] = &token
	}
	return nil
}

// Get returns the credential for the session, or nil when none is stored.
func (s *TokenStore) Get(sessionID string) *oauth2.Token {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens[sessionID]
}

// Set stores the credential for the session, overwriting any previous one,
// and writes it through to the persister when configured.
func (s *TokenStore) Set(ctx context.Context, sessionID string, token *oauth2.Token) error {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	s.mu.Lock()
	s.tokens[sessionID] = token
	s.mu.Unlock()

	if s.persist == nil {
		return nil
	}
	blob, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return s.persist.SaveCredential(ctx, sessionID, string(blob))
}

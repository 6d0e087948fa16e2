package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakePersister records writes and serves canned blobs.
type fakePersister struct {
	saved   map[string]string
	loadErr error
}

func newFakePersister() *fakePersister {
	return &fakePersister{saved: make(map[string]string)}
}

func (f *fakePersister) SaveCredential(_ context.Context, sessionID string, blob string) error {
	f.saved[sessionID] = blob
	return nil
}

func (f *fakePersister) LoadCredentials(_ context.Context) (map[string]string, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.saved, nil
}

func TestTokenStore_SessionIsolation(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "alice", &oauth2.Token{AccessToken: "token-a"}))
	require.NoError(t, store.Set(ctx, "bob", &oauth2.Token{AccessToken: "token-b"}))

	assert.Equal(t, "token-a", store.Get("alice").AccessToken)
	assert.Equal(t, "token-b", store.Get("bob").AccessToken)
	assert.Nil(t, store.Get("carol"))
}

func TestTokenStore_DefaultSession(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "", &oauth2.Token{AccessToken: "shared"}))

	assert.Equal(t, "shared", store.Get("").AccessToken)
	assert.Equal(t, "shared", store.Get(DefaultSessionID).AccessToken)
}

func TestTokenStore_OverwriteKeepsLatest(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "alice", &oauth2.Token{AccessToken: "old"}))
	require.NoError(t, store.Set(ctx, "alice", &oauth2.Token{AccessToken: "new"}))

	assert.Equal(t, "new", store.Get("alice").AccessToken)
}

func TestTokenStore_PersistRoundTrip(t *testing.T) {
	persister := newFakePersister()
	ctx := context.Background()

	store := NewTokenStore(persister)
	require.NoError(t, store.Set(ctx, "alice", &oauth2.Token{AccessToken: "token-a", RefreshToken: "refresh-a"}))
	require.Contains(t, persister.saved, "alice")

	// A fresh store over the same persister sees the credential.
	restored := NewTokenStore(persister)
	require.NoError(t, restored.Load(ctx))
	token := restored.Get("alice")
	require.NotNil(t, token)
	assert.Equal(t, "token-a", token.AccessToken)
	assert.Equal(t, "refresh-a", token.RefreshToken)
}

func TestTokenStore_LoadSkipsBadBlobs(t *testing.T) {
	persister := newFakePersister()
	persister.saved["broken"] = "not-json"
	persister.saved["alice"] = `{"access_token":"token-a"}`

	store := NewTokenStore(persister)
	require.NoError(t, store.Load(context.Background()))

	assert.Nil(t, store.Get("broken"))
	require.NotNil(t, store.Get("alice"))
	assert.Equal(t, "token-a", store.Get("alice").AccessToken)
}

func TestTokenStore_LoadPropagatesPersisterError(t *testing.T) {
	persister := newFakePersister()
	persister.loadErr = errors.New("disk on fire")

	store := NewTokenStore(persister)
	assert.Error(t, store.Load(context.Background()))
}

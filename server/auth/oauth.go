// Package auth handles the Google authorization-code flow and per-session
// credential storage.
package auth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"

	apperrors "github.com/hrygo/bookwise/internal/errors"
)

// Flow wraps the OAuth2 authorization-code exchange against Google.
type Flow struct {
	config *oauth2.Config
}

// NewFlow creates the OAuth flow for calendar access.
func NewFlow(clientID, clientSecret, redirectURL string) *Flow {
	return &Flow{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{gcal.CalendarScope},
		},
	}
}

// Config exposes the underlying oauth2 config for token-source construction.
func (f *Flow) Config() *oauth2.Config {
	return f.config
}

// AuthCodeURL returns the provider consent URL. state carries the session
// identity through the redirect round-trip.
func (f *Flow) AuthCodeURL(state string) string {
	return f.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token.
func (f *Flow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, apperrors.Collaborator("authorization code exchange failed", err)
	}
	return token, nil
}

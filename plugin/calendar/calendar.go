// Package calendar defines the calendar collaborator boundary. The pipeline
// only depends on the Client interface; the Google implementation and the
// test mock both satisfy it.
package calendar

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// Event is the provider-neutral view of a calendar event.
type Event struct {
	Summary string
	Start   time.Time
	End     time.Time

	// AllDay is true when the event carries a date but no time of day.
	AllDay bool
}

// Client is the outbound calendar contract. Credentials are passed by value
// into every call; implementations hold no per-user state.
type Client interface {
	// CreateEvent inserts an event into the user's primary calendar and
	// returns a link to the created event.
	CreateEvent(ctx context.Context, credential *oauth2.Token, event *Event) (string, error)

	// ListEvents returns the events in [start, end), ordered by start time.
	ListEvents(ctx context.Context, credential *oauth2.Token, start, end time.Time) ([]*Event, error)
}

package calendar

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// MockClient is an in-memory Client for testing. It records calls and
// returns configured results.
type MockClient struct {
	// CreateEventErr, when set, is returned by CreateEvent.
	CreateEventErr error
	// CreateEventLink is returned by a successful CreateEvent.
	CreateEventLink string

	// ListEventsErr, when set, is returned by ListEvents.
	ListEventsErr error
	// Events is returned by a successful ListEvents.
	Events []*Event

	// CreatedEvents records every event passed to CreateEvent.
	CreatedEvents []*Event
	// ListCalls counts ListEvents invocations.
	ListCalls int
}

// NewMockClient creates an empty mock.
func NewMockClient() *MockClient {
	return &MockClient{CreateEventLink: "https://calendar.example.com/event/1"}
}

// CreateEvent records the event and returns the configured result.
func (m *MockClient) CreateEvent(_ context.Context, _ *oauth2.Token, event *Event) (string, error) {
	if m.CreateEventErr != nil {
		return "", m.CreateEventErr
	}
	m.CreatedEvents = append(m.CreatedEvents, event)
	return m.CreateEventLink, nil
}

// ListEvents returns the configured events.
func (m *MockClient) ListEvents(_ context.Context, _ *oauth2.Token, _, _ time.Time) ([]*Event, error) {
	m.ListCalls++
	if m.ListEventsErr != nil {
		return nil, m.ListEventsErr
	}
	return m.Events, nil
}

var _ Client = (*MockClient)(nil)

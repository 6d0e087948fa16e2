package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const primaryCalendarID = "primary"

// GoogleClient implements Client against the Google Calendar v3 API.
type GoogleClient struct {
	oauthConfig *oauth2.Config
	timezone    string
}

// NewGoogleClient creates a Google Calendar client. timezone is the IANA
// name written into event bodies (e.g. "Asia/Kolkata").
func NewGoogleClient(oauthConfig *oauth2.Config, timezone string) *GoogleClient {
	return &GoogleClient{
		oauthConfig: oauthConfig,
		timezone:    timezone,
	}
}

// service builds a per-call calendar service bound to the given credential.
// The token source refreshes expired access tokens transparently.
func (g *GoogleClient) service(ctx context.Context, credential *oauth2.Token) (*gcal.Service, error) {
	source := g.oauthConfig.TokenSource(ctx, credential)
	svc, err := gcal.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// CreateEvent inserts the event into the primary calendar.
func (g *GoogleClient) CreateEvent(ctx context.Context, credential *oauth2.Token, event *Event) (string, error) {
	svc, err := g.service(ctx, credential)
	if err != nil {
		return "", err
	}

	created, err := svc.Events.Insert(primaryCalendarID, &gcal.Event{
		Summary: event.Summary,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return created.HtmlLink, nil
}

// ListEvents returns the events in [start, end) from the primary calendar.
func (g *GoogleClient) ListEvents(ctx context.Context, credential *oauth2.Token, start, end time.Time) ([]*Event, error) {
	svc, err := g.service(ctx, credential)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Events.List(primaryCalendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var events []*Event
	for _, item := range resp.Items {
		events = append(events, fromGoogleEvent(item, start.Location()))
	}
	return events, nil
}

// fromGoogleEvent converts an API event. Date-only events become all-day
// entries at midnight in loc.
func fromGoogleEvent(item *gcal.Event, loc *time.Location) *Event {
	event := &Event{Summary: item.Summary}

	if item.Start != nil {
		if item.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
				event.Start = t.In(loc)
			}
		} else if item.Start.Date != "" {
			if t, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc); err == nil {
				event.Start = t
				event.AllDay = true
			}
		}
	}
	if item.End != nil && item.End.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
			event.End = t.In(loc)
		}
	}

	return event
}

var _ Client = (*GoogleClient)(nil)

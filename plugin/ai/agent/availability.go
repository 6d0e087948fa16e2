package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"

	apperrors "github.com/hrygo/bookwise/internal/errors"
)

const availabilityWindow = 24 * time.Hour

// checkAvailability lists the events in [now, now+24h) and formats them.
func (d *Dispatcher) checkAvailability(ctx context.Context, credential *oauth2.Token, now time.Time) string {
	if credential == nil {
		return replyFor(apperrors.MissingCredential("session has no stored credential"))
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	events, err := d.calendar.ListEvents(ctx, credential, now, now.Add(availabilityWindow))
	if err != nil {
		slog.Warn("calendar event listing failed", "error", err)
		return "I couldn't access your calendar. Please connect it at /authorize."
	}

	if len(events) == 0 {
		return MsgFreeAllDay
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d event(s) in the next 24 hours:\n", len(events))
	for _, event := range events {
		summary := event.Summary
		if summary == "" {
			summary = "(untitled)"
		}
		if event.AllDay {
			fmt.Fprintf(&b, "- %s (all day)\n", summary)
		} else {
			fmt.Fprintf(&b, "- %s at %s\n", summary, event.Start.Format(bookedTimeFormat))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

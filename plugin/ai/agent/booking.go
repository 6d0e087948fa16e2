package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/hrygo/bookwise/plugin/calendar"
	apperrors "github.com/hrygo/bookwise/internal/errors"
)

// bookedTimeFormat renders the confirmed start in the fixed local zone,
// e.g. "Wed, 01 Jan 2025 at 15:00".
const bookedTimeFormat = "Mon, 02 Jan 2006 at 15:04"

// book creates the calendar event for a booking intent.
//
// Preconditions are checked in order: a booking without a resolved start
// time never reaches the collaborator, and neither does one without a
// credential. Collaborator failures become a reply string; nothing
// propagates to the transport layer and nothing is retried.
func (d *Dispatcher) book(ctx context.Context, intent *NormalizedIntent, credential *oauth2.Token) string {
	if intent.StartTime == nil {
		return replyFor(apperrors.MissingTime("booking has no resolved start time"))
	}
	if credential == nil {
		return replyFor(apperrors.MissingCredential("session has no stored credential"))
	}

	event := &calendar.Event{
		Summary: intent.Summary,
		Start:   *intent.StartTime,
		End:     intent.EndTime(),
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	link, err := d.calendar.CreateEvent(ctx, credential, event)
	if err != nil {
		slog.Warn("calendar event creation failed",
			"summary", intent.Summary,
			"start", intent.StartTime.Format(time.RFC3339),
			"error", err)
		return fmt.Sprintf("Something went wrong while booking: %v. Please make sure your calendar is connected.", err)
	}

	slog.Info("calendar event created",
		"summary", intent.Summary,
		"start", intent.StartTime.Format(time.RFC3339),
		"duration_minutes", intent.DurationMinutes,
		"link", link)

	return fmt.Sprintf("Booked %q on %s. Anything else you'd like?",
		intent.Summary, intent.StartTime.Format(bookedTimeFormat))
}

package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"github.com/hrygo/bookwise/plugin/calendar"
	apperrors "github.com/hrygo/bookwise/internal/errors"
)

// Reply texts shared by the actions. Tests assert on these.
const (
	// MsgMissingTime is returned for a booking without a resolvable start
	// time. No calendar call is made.
	MsgMissingTime = "I didn't get the time. Please try again with a valid time."

	// MsgNotConnected is returned when no credential is available for a
	// calendar action.
	MsgNotConnected = "Your calendar isn't connected yet. Please visit /authorize to connect Google Calendar."

	// MsgUnknown is the generic fallback for unrecognized intents.
	MsgUnknown = "Sorry, I didn't understand that. I can book meetings or check your availability for the next 24 hours."

	// MsgFreeAllDay is returned when no events fall in the availability
	// window.
	MsgFreeAllDay = "You're free all day!"

	// MsgRephrase prefixes the reply for an unparsable model payload; the
	// parse detail is appended in parentheses.
	MsgRephrase = "I couldn't understand the time or intent. Please rephrase your request."
)

const defaultActionTimeout = 15 * time.Second

// Dispatcher routes a normalized intent to its action. It is stateless per
// invocation: no loops, no retries, no multi-turn state. Every path ends in
// exactly one formatted reply string.
type Dispatcher struct {
	calendar calendar.Client
	timeout  time.Duration
}

// NewDispatcher creates a dispatcher backed by the given calendar client.
func NewDispatcher(client calendar.Client) *Dispatcher {
	return &Dispatcher{
		calendar: client,
		timeout:  defaultActionTimeout,
	}
}

// WithTimeout overrides the per-action calendar call timeout.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	d.timeout = timeout
	return d
}

// Dispatch routes the intent. The credential is threaded through explicitly
// per request; a nil credential on a calendar action produces an
// authentication prompt instead of a call.
func (d *Dispatcher) Dispatch(ctx context.Context, intent *NormalizedIntent, credential *oauth2.Token, now time.Time) string {
	switch intent.Kind {
	case IntentBooking:
		return d.book(ctx, intent, credential)
	case IntentCheckAvailability:
		return d.checkAvailability(ctx, credential, now)
	case IntentError:
		return formatError(intent)
	default:
		return MsgUnknown
	}
}

// formatError produces the user message for an unparsable model payload.
func formatError(intent *NormalizedIntent) string {
	return fmt.Sprintf("%s (%s)", MsgRephrase, intent.ErrorDetail)
}

// replyFor maps a coded precondition failure onto its user-facing reply.
func replyFor(err error) string {
	switch {
	case apperrors.IsCode(err, apperrors.ErrCodeMissingTime):
		return MsgMissingTime
	case apperrors.IsCode(err, apperrors.ErrCodeMissingCredential):
		return MsgNotConnected
	default:
		return MsgUnknown
	}
}

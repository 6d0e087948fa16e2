// Package agent implements the booking pipeline: intent extraction output is
// normalized into a typed record, routed to an action, and turned into a
// user-facing reply. One request flows through the pipeline exactly once.
package agent

import (
	"encoding/json"
	"time"
)

// IntentKind is the closed set of intents the dispatcher routes on.
// Any intent string outside the recognized set maps to IntentUnknown.
type IntentKind string

const (
	// IntentBooking creates an event on the user's calendar.
	IntentBooking IntentKind = "booking"

	// IntentCheckAvailability lists the user's events for the next 24 hours.
	IntentCheckAvailability IntentKind = "check_availability"

	// IntentError signals that the model output could not be parsed.
	IntentError IntentKind = "error"

	// IntentUnknown is the fallback for unrecognized intents. It produces a
	// generic "didn't understand" reply and no side effect.
	IntentUnknown IntentKind = "unknown"
)

// DefaultSummary is used when a booking request carries no summary.
const DefaultSummary = "Meeting"

// DefaultDurationMinutes is used when the payload has no positive duration.
const DefaultDurationMinutes = 30

// RawIntentPayload is the untrusted JSON contract the extraction model is
// asked to produce. Every field may be absent, empty, or garbage.
type RawIntentPayload struct {
	Intent    string `json:"intent"`
	Summary   string `json:"summary"`
	StartTime string `json:"start_time"`

	// DurationMinutes tolerates a wrong-typed value instead of failing the
	// whole payload, so the defaulting rules still apply.
	DurationMinutes tolerantNumber `json:"duration_minutes"`
}

// tolerantNumber decodes a JSON number; a value of any other type is read
// as zero rather than an error.
type tolerantNumber float64

func (n *tolerantNumber) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*n = 0
		return nil
	}
	*n = tolerantNumber(v)
	return nil
}

// NormalizedIntent is the validated, defaulted form of a model payload.
// It is created fresh per request and discarded after the reply is built.
type NormalizedIntent struct {
	Kind    IntentKind
	Summary string

	// StartTime is set only when the start-time hint resolved. A booking
	// with StartTime == nil must short-circuit before any calendar call.
	StartTime *time.Time

	DurationMinutes int

	// ErrorDetail carries the parse failure description when Kind is
	// IntentError.
	ErrorDetail string
}

// EndTime returns the event end derived from StartTime and the duration.
// It must only be called when StartTime is set.
func (n *NormalizedIntent) EndTime() time.Time {
	return n.StartTime.Add(time.Duration(n.DurationMinutes) * time.Minute)
}

package agent

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/hrygo/bookwise/plugin/calendar"
	apperrors "github.com/hrygo/bookwise/internal/errors"
	"github.com/hrygo/bookwise/internal/observability"
)

// IntentExtractor is the inference collaborator boundary. It returns the
// model's raw output text, which the pipeline treats as untrusted JSON.
type IntentExtractor interface {
	Extract(ctx context.Context, input string, now time.Time) (string, error)
}

// MsgExtractionFailed is returned when the inference collaborator call
// itself fails.
const MsgExtractionFailed = "I'm having trouble understanding requests right now. Please try again in a moment."

// BookingAgent is the single entry point the transport layer calls per chat
// message. It wires the extractor, normalizer and dispatcher into one
// sequential pipeline with no cross-request state.
type BookingAgent struct {
	extractor  IntentExtractor
	normalizer *Normalizer
	dispatcher *Dispatcher
}

// NewBookingAgent creates the pipeline. loc is the fixed local zone all
// resolved times carry.
func NewBookingAgent(extractor IntentExtractor, client calendar.Client, loc *time.Location) *BookingAgent {
	return &BookingAgent{
		extractor:  extractor,
		normalizer: NewNormalizer(NewTimeResolver(loc)),
		dispatcher: NewDispatcher(client),
	}
}

// Process handles one chat message and returns the user-facing reply. It
// never returns an error: every failure mode ends in a reply string.
//
// now is captured once by the caller and used for all relative-time
// inference in this request, so "now" stays consistent across the pipeline.
func (a *BookingAgent) Process(ctx context.Context, input string, credential *oauth2.Token, now time.Time) string {
	raw, err := a.extractor.Extract(ctx, input, now)
	if err != nil {
		slog.Warn("intent extraction failed",
			observability.LogFieldErrorCode, string(apperrors.GetCodeFromError(err, apperrors.ErrCodeCollaborator)),
			"error", err)
		return MsgExtractionFailed
	}

	intent := a.normalizer.Normalize(raw, now)
	slog.Debug("intent normalized",
		"kind", intent.Kind,
		"summary", intent.Summary,
		"has_start_time", intent.StartTime != nil,
		"duration_minutes", intent.DurationMinutes)

	return a.dispatcher.Dispatch(ctx, intent, credential, now)
}

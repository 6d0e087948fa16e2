package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	apperrors "github.com/hrygo/bookwise/internal/errors"
	"github.com/hrygo/bookwise/internal/observability"
)

var codeFencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// Normalizer converts raw model output into a NormalizedIntent. All failure
// modes are encoded in the returned record; Normalize never returns an error.
type Normalizer struct {
	resolver *TimeResolver
}

// NewNormalizer creates a normalizer that resolves start-time hints with
// the given resolver.
func NewNormalizer(resolver *TimeResolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// Normalize validates and repairs the model's JSON output against the
// intent contract, defaulting missing fields and resolving the start-time
// hint relative to now.
func (n *Normalizer) Normalize(raw string, now time.Time) *NormalizedIntent {
	payload, err := decodePayload(raw)
	if err != nil {
		coded := apperrors.UpstreamParse("model output rejected", err)
		slog.Warn("model output rejected",
			observability.LogFieldErrorCode, string(apperrors.ErrCodeUpstreamParse),
			"error", coded)
		return &NormalizedIntent{
			Kind:            IntentError,
			DurationMinutes: DefaultDurationMinutes,
			ErrorDetail:     fmt.Sprintf("%v; raw output: %s", err, strings.TrimSpace(raw)),
		}
	}

	intent := &NormalizedIntent{
		Kind:            mapIntent(payload.Intent),
		Summary:         strings.TrimSpace(payload.Summary),
		DurationMinutes: normalizeDuration(float64(payload.DurationMinutes)),
	}

	if intent.Summary == "" && intent.Kind == IntentBooking {
		intent.Summary = DefaultSummary
	}

	// An unresolvable hint is not an error at this layer. The booking
	// action surfaces the missing time to the user.
	if t, ok := n.resolver.Resolve(payload.StartTime, now); ok {
		intent.StartTime = &t
	}

	return intent
}

// decodePayload unmarshals the model output, stripping markdown code fences
// and attempting a repair pass before giving up.
func decodePayload(raw string) (*RawIntentPayload, error) {
	content := strings.TrimSpace(raw)
	if matches := codeFencePattern.FindStringSubmatch(content); len(matches) > 1 {
		content = matches[1]
	}

	var payload RawIntentPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return &payload, nil
	}

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, fmt.Errorf("model output is not valid JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, fmt.Errorf("model output is not valid JSON after repair: %w", err)
	}

	slog.Debug("repaired malformed model output", "original_len", len(content), "repaired_len", len(repaired))
	return &payload, nil
}

// mapIntent maps the open set of model intent strings onto the closed enum.
func mapIntent(s string) IntentKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "booking":
		return IntentBooking
	case "check_availability", "query_schedule":
		return IntentCheckAvailability
	default:
		return IntentUnknown
	}
}

// normalizeDuration accepts only positive whole minutes; anything else
// falls back to the default.
func normalizeDuration(minutes float64) int {
	v := int(minutes)
	if v <= 0 || float64(v) != minutes {
		return DefaultDurationMinutes
	}
	return v
}

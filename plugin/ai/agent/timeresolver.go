package agent

import (
	"strings"
	"time"
)

// fullFormats are accepted as fully specified date-and-time values.
// A hint that parses here is returned as-is: no forward or backward date
// shift is ever applied to an explicit date.
var fullFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// bareTimeFormats carry a time of day but no date. The date is taken from
// the reference "now".
var bareTimeFormats = []string{
	"15:04:05",
	"15:04",
}

// TimeResolver turns a possibly partial textual start-time hint into a fully
// qualified timestamp in a single fixed location.
type TimeResolver struct {
	location *time.Location
}

// NewTimeResolver creates a resolver that anchors all resolved times to loc.
func NewTimeResolver(loc *time.Location) *TimeResolver {
	if loc == nil {
		loc = time.Local
	}
	return &TimeResolver{location: loc}
}

// Location returns the fixed location every resolved time carries.
func (r *TimeResolver) Location() *time.Location {
	return r.location
}

// Resolve parses hint against the reference time now. The second return
// value is false when the hint is empty or unparsable; malformed input is
// an expected outcome, not an error.
//
// A hint that carries only a time of day is placed on now's calendar date.
// If that candidate is strictly earlier than now it is advanced by exactly
// one day: the user is assumed to mean the next occurrence of that time,
// capped at tomorrow. A candidate equal to now stays on the current date.
func (r *TimeResolver) Resolve(hint string, now time.Time) (time.Time, bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return time.Time{}, false
	}

	for _, format := range fullFormats {
		if t, err := time.ParseInLocation(format, hint, r.location); err == nil {
			return t, true
		}
	}

	for _, format := range bareTimeFormats {
		t, err := time.ParseInLocation(format, hint, r.location)
		if err != nil {
			continue
		}
		ref := now.In(r.location)
		candidate := time.Date(ref.Year(), ref.Month(), ref.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, r.location)
		if candidate.Before(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate, true
	}

	return time.Time{}, false
}

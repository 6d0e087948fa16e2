package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(NewTimeResolver(fixedZone))
}

func TestNormalizer_BookingDefaults(t *testing.T) {
	n := newTestNormalizer()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone)

	intent := n.Normalize(`{"intent":"booking","start_time":"","duration_minutes":30}`, now)

	assert.Equal(t, IntentBooking, intent.Kind)
	assert.Nil(t, intent.StartTime)
	assert.Equal(t, "Meeting", intent.Summary)
	assert.Equal(t, 30, intent.DurationMinutes)
}

func TestNormalizer_IntentMapping(t *testing.T) {
	n := newTestNormalizer()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone)

	tests := []struct {
		name   string
		intent string
		want   IntentKind
	}{
		{"booking", "booking", IntentBooking},
		{"check availability", "check_availability", IntentCheckAvailability},
		{"query schedule alias", "query_schedule", IntentCheckAvailability},
		{"case and whitespace", " Booking ", IntentBooking},
		{"unrecognized", "order_pizza", IntentUnknown},
		{"empty", "", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := n.Normalize(`{"intent":"`+tt.intent+`"}`, now)
			assert.Equal(t, tt.want, intent.Kind)
		})
	}
}

func TestNormalizer_DurationDefaults(t *testing.T) {
	n := newTestNormalizer()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone)

	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"absent", `{"intent":"booking"}`, 30},
		{"zero", `{"intent":"booking","duration_minutes":0}`, 30},
		{"negative", `{"intent":"booking","duration_minutes":-15}`, 30},
		{"fractional", `{"intent":"booking","duration_minutes":12.5}`, 30},
		{"valid", `{"intent":"booking","duration_minutes":45}`, 45},
		{"wrong type", `{"intent":"booking","duration_minutes":"half an hour"}`, 30},
		{"null", `{"intent":"booking","duration_minutes":null}`, 30},
		{"valid for non-booking", `{"intent":"check_availability","duration_minutes":60}`, 60},
		{"non-positive for non-booking", `{"intent":"check_availability","duration_minutes":-1}`, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := n.Normalize(tt.payload, now)
			assert.Equal(t, tt.want, intent.DurationMinutes)
		})
	}

	t.Run("wrong type does not reject the payload", func(t *testing.T) {
		intent := n.Normalize(`{"intent":"booking","summary":"Sync","duration_minutes":"half an hour"}`, now)
		assert.Equal(t, IntentBooking, intent.Kind)
		assert.Equal(t, "Sync", intent.Summary)
		assert.Equal(t, 30, intent.DurationMinutes)
	})
}

func TestNormalizer_StartTimeResolution(t *testing.T) {
	n := newTestNormalizer()
	now := time.Date(2025, 1, 1, 20, 0, 0, 0, fixedZone)

	t.Run("bare time in the past resolves to tomorrow", func(t *testing.T) {
		intent := n.Normalize(`{"intent":"booking","summary":"Standup","start_time":"15:00"}`, now)
		require.NotNil(t, intent.StartTime)
		assert.Equal(t, "2025-01-02T15:00:00+05:30", intent.StartTime.Format(time.RFC3339))
	})

	t.Run("full datetime kept as given", func(t *testing.T) {
		intent := n.Normalize(`{"intent":"booking","summary":"Standup","start_time":"2025-02-01T09:00:00"}`, now)
		require.NotNil(t, intent.StartTime)
		assert.Equal(t, "2025-02-01T09:00:00+05:30", intent.StartTime.Format(time.RFC3339))
	})

	t.Run("garbage hint yields no start time", func(t *testing.T) {
		intent := n.Normalize(`{"intent":"booking","summary":"Standup","start_time":"whenever"}`, now)
		assert.Equal(t, IntentBooking, intent.Kind)
		assert.Nil(t, intent.StartTime)
	})
}

func TestNormalizer_Summary(t *testing.T) {
	n := newTestNormalizer()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone)

	t.Run("kept when present", func(t *testing.T) {
		intent := n.Normalize(`{"intent":"booking","summary":"Design review"}`, now)
		assert.Equal(t, "Design review", intent.Summary)
	})

	t.Run("empty acceptable for non-booking", func(t *testing.T) {
		intent := n.Normalize(`{"intent":"check_availability"}`, now)
		assert.Equal(t, "", intent.Summary)
	})
}

func TestNormalizer_UnparsableJSON(t *testing.T) {
	n := newTestNormalizer()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone)

	intent := n.Normalize("the model had a bad day", now)

	assert.Equal(t, IntentError, intent.Kind)
	assert.NotEmpty(t, intent.ErrorDetail)
	assert.Contains(t, intent.ErrorDetail, "the model had a bad day")
}

func TestNormalizer_RepairsMalformedJSON(t *testing.T) {
	n := newTestNormalizer()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone)

	t.Run("markdown fences", func(t *testing.T) {
		intent := n.Normalize("```json\n{\"intent\":\"booking\",\"summary\":\"Sync\"}\n```", now)
		assert.Equal(t, IntentBooking, intent.Kind)
		assert.Equal(t, "Sync", intent.Summary)
	})

	t.Run("trailing comma", func(t *testing.T) {
		intent := n.Normalize(`{"intent":"booking","summary":"Sync",}`, now)
		assert.Equal(t, IntentBooking, intent.Kind)
	})

	t.Run("single quotes", func(t *testing.T) {
		intent := n.Normalize(`{'intent': 'check_availability'}`, now)
		assert.Equal(t, IntentCheckAvailability, intent.Kind)
	})
}

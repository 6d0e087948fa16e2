package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedZone is UTC+05:30, the default local offset.
var fixedZone = time.FixedZone("IST", 5*3600+30*60)

func TestTimeResolver_FullDatetime(t *testing.T) {
	resolver := NewTimeResolver(fixedZone)
	now := time.Date(2025, 1, 1, 20, 0, 0, 0, fixedZone)

	tests := []struct {
		name string
		hint string
		want string // RFC3339
	}{
		{"RFC3339 with offset", "2024-06-15T10:00:00+05:30", "2024-06-15T10:00:00+05:30"},
		{"ISO datetime without zone", "2025-03-10T09:30:00", "2025-03-10T09:30:00+05:30"},
		{"space separated", "2025-03-10 09:30:00", "2025-03-10T09:30:00+05:30"},
		{"minute granularity", "2025-03-10 09:30", "2025-03-10T09:30:00+05:30"},
		{"bare date", "2025-03-10", "2025-03-10T00:00:00+05:30"},
		// Fully specified dates in the past are returned unchanged.
		{"past date unchanged", "2020-01-01T08:00:00", "2020-01-01T08:00:00+05:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolver.Resolve(tt.hint, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Format(time.RFC3339))
		})
	}
}

func TestTimeResolver_BareTime(t *testing.T) {
	resolver := NewTimeResolver(fixedZone)

	tests := []struct {
		name string
		now  time.Time
		hint string
		want string
	}{
		{
			name: "past time shifts to tomorrow",
			now:  time.Date(2025, 1, 1, 20, 0, 0, 0, fixedZone),
			hint: "15:00",
			want: "2025-01-02T15:00:00+05:30",
		},
		{
			name: "future time stays today",
			now:  time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone),
			hint: "15:00",
			want: "2025-01-01T15:00:00+05:30",
		},
		{
			name: "time equal to now stays today",
			now:  time.Date(2025, 1, 1, 15, 0, 0, 0, fixedZone),
			hint: "15:00",
			want: "2025-01-01T15:00:00+05:30",
		},
		{
			name: "one second before now shifts",
			now:  time.Date(2025, 1, 1, 15, 0, 1, 0, fixedZone),
			hint: "15:00:00",
			want: "2025-01-02T15:00:00+05:30",
		},
		{
			name: "seconds granularity",
			now:  time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone),
			hint: "15:30:45",
			want: "2025-01-01T15:30:45+05:30",
		},
		{
			name: "month rollover",
			now:  time.Date(2025, 1, 31, 23, 0, 0, 0, fixedZone),
			hint: "09:00",
			want: "2025-02-01T09:00:00+05:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolver.Resolve(tt.hint, tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Format(time.RFC3339))
		})
	}
}

func TestTimeResolver_Unresolvable(t *testing.T) {
	resolver := NewTimeResolver(fixedZone)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, fixedZone)

	for _, hint := range []string{"", "   ", "not-a-time", "tomorrow at 3", "25:99"} {
		t.Run("hint="+hint, func(t *testing.T) {
			_, ok := resolver.Resolve(hint, now)
			assert.False(t, ok)
		})
	}
}

func TestTimeResolver_NilLocationDefaultsToLocal(t *testing.T) {
	resolver := NewTimeResolver(nil)
	assert.Equal(t, time.Local, resolver.Location())
}

package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordAndSnapshot(t *testing.T) {
	m := NewMetrics(10)

	m.RecordChat(100*time.Millisecond, false)
	m.RecordChat(300*time.Millisecond, true)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.ChatTotal)
	assert.Equal(t, int64(1), snap.ChatFailed)
	assert.Equal(t, 200*time.Millisecond, snap.AvgDuration)
	assert.Equal(t, 300*time.Millisecond, snap.MaxDuration)
	assert.Equal(t, 2, snap.SampleWindow)
}

func TestMetrics_SampleWindowBounded(t *testing.T) {
	m := NewMetrics(3)

	for i := 0; i < 10; i++ {
		m.RecordChat(time.Duration(i)*time.Millisecond, false)
	}

	snap := m.Snapshot()
	assert.Equal(t, int64(10), snap.ChatTotal)
	assert.Equal(t, 3, snap.SampleWindow)
	assert.Equal(t, 9*time.Millisecond, snap.MaxDuration)
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	snap := NewMetrics(0).Snapshot()
	assert.Zero(t, snap.ChatTotal)
	assert.Zero(t, snap.AvgDuration)
}

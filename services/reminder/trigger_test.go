package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldTriggerCenterOfWindow(t *testing.T) {
	eventAt := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		lead   time.Duration
		window time.Duration
	}{
		{"default lead", DefaultLead, DefaultWindow},
		{"one hour lead", time.Hour, time.Minute},
		{"zero lead", 0, time.Minute},
		{"zero window", 2 * time.Hour, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			now := eventAt.Add(-tc.lead)
			assert.True(t, ShouldTrigger(now, eventAt, tc.lead, tc.window),
				"center of window must always fire")
		})
	}
}

func TestShouldTriggerWindowEdges(t *testing.T) {
	eventAt := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	lead := 24 * time.Hour
	window := time.Minute
	center := eventAt.Add(-lead)

	assert.True(t, ShouldTrigger(center.Add(-window), eventAt, lead, window))
	assert.True(t, ShouldTrigger(center.Add(window), eventAt, lead, window))
	assert.False(t, ShouldTrigger(center.Add(-window-time.Second), eventAt, lead, window))
	assert.False(t, ShouldTrigger(center.Add(window+time.Second), eventAt, lead, window))
}

func TestShouldTriggerOutsideWindow(t *testing.T) {
	eventAt := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	assert.False(t, ShouldTrigger(eventAt.Add(-48*time.Hour), eventAt, 24*time.Hour, time.Minute))
	assert.False(t, ShouldTrigger(eventAt, eventAt, 24*time.Hour, time.Minute))
}

func TestShouldTriggerAcrossDSTTransition(t *testing.T) {
	// Central Europe leaves DST on 2024-10-27: clocks go from UTC+2 to UTC+1.
	// The window is measured in elapsed real time, so 24h of absolute time
	// before the event must fire even though wall-clock subtraction says 25h.
	zone := time.FixedZone("CEST", 2*60*60)
	eventAt := time.Date(2024, 10, 27, 12, 0, 0, 0, zone)
	now := eventAt.Add(-24 * time.Hour)

	assert.True(t, ShouldTrigger(now, eventAt, 24*time.Hour, 2*time.Minute))
}

func TestShouldTriggerIdempotent(t *testing.T) {
	eventAt := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	now := eventAt.Add(-24 * time.Hour)

	first := ShouldTrigger(now, eventAt, 24*time.Hour, time.Minute)
	second := ShouldTrigger(now, eventAt, 24*time.Hour, time.Minute)
	assert.Equal(t, first, second)
}

package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &manualClock{t: time.Unix(0, 0)}
	var reports []Stats
	p := NewProfiler(
		WithClock(clock.now),
		WithUpdateInterval(time.Second),
		WithReporter(func(s Stats) { reports = append(reports, s) }),
	)

	for i := 0; i < 59; i++ {
		clock.advance(time.Second / 60)
		assert.False(t, p.Tick())
	}
	clock.advance(time.Second / 60)
	p.Observe(5 * time.Millisecond)
	p.Observe(2 * time.Millisecond)
	require.True(t, p.Tick())

	require.Len(t, reports, 1)
	assert.Equal(t, 60, reports[0].Frames)
	assert.InDelta(t, 60, reports[0].FPS, 0.5)
	assert.Equal(t, 5*time.Millisecond, reports[0].SlowestTick)
	assert.Equal(t, reports[0], p.Last())

	clock.advance(time.Second / 60)
	assert.False(t, p.Tick())
}

func TestZeroIntervalKeepsDefault(t *testing.T) {
	p := NewProfiler(WithUpdateInterval(0), WithReporter(func(Stats) {}))
	assert.Equal(t, time.Second, p.updateInterval)
}

package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnimation struct {
	duration float32
	renders  []float32
}

func (s *stubAnimation) Duration() float32 { return s.duration }

func (s *stubAnimation) Render(t float32) { s.renders = append(s.renders, t) }

func starts(tl Timeline) []float32 {
	var out []float32
	for _, e := range tl.(*timeline).entries {
		out = append(out, e.start)
	}
	return out
}

func TestTimelinePositionGrammar(t *testing.T) {
	tl := NewTimeline()
	require.NoError(t, tl.Add(&stubAnimation{duration: 3}, ""))
	require.NoError(t, tl.Add(&stubAnimation{duration: 1}, "-=1.3"))
	require.NoError(t, tl.Add(&stubAnimation{duration: 1}, "<"))
	require.NoError(t, tl.Add(&stubAnimation{duration: 1}, "+=0.5"))
	require.NoError(t, tl.Add(&stubAnimation{duration: 0.5}, "2"))
	require.NoError(t, tl.Add(&stubAnimation{duration: 1}, "-=10"))

	got := starts(tl)
	want := []float32{0, 1.7, 1.7, 3.5, 2, 0}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "entry %d", i)
	}
	assert.InDelta(t, 4.5, tl.Duration(), 1e-6)
	assert.Equal(t, 6, tl.Len())
}

func TestTimelineBadPosition(t *testing.T) {
	tl := NewTimeline()
	for _, pos := range []string{"abc", "-=x", "+=", "-1", "<<"} {
		assert.ErrorIs(t, tl.Add(&stubAnimation{duration: 1}, pos), ErrBadPosition, pos)
	}
	assert.Zero(t, tl.Len())
}

func TestTimelineRendersEntriesAtLocalTime(t *testing.T) {
	tl := NewTimeline()
	a := &stubAnimation{duration: 2}
	b := &stubAnimation{duration: 1}
	require.NoError(t, tl.Add(a, ""))
	require.NoError(t, tl.Add(b, "-=0.5"))

	tl.Advance(1)
	assert.Equal(t, []float32{1}, a.renders)
	assert.Equal(t, []float32{-0.5}, b.renders)
}

func TestTimelineCompletesOnce(t *testing.T) {
	tl := NewTimeline()
	require.NoError(t, tl.Add(&stubAnimation{duration: 1}, ""))
	completions := 0
	tl.OnComplete(func() { completions++ })

	assert.False(t, tl.Advance(0.6))
	assert.InDelta(t, 0.6, tl.Progress(), 1e-6)
	assert.True(t, tl.Advance(0.6))
	assert.Equal(t, float32(1), tl.Cursor())
	assert.True(t, tl.Advance(1))
	assert.Equal(t, 1, completions)
	assert.Equal(t, float32(1), tl.Progress())
}

func TestTimelineChainedTweens(t *testing.T) {
	rec := &recorder{}
	tl := NewTimeline()
	first := NewTween(rec.set, [3]float32{}, [3]float32{1, 0, 0}, 1, WithEase(Linear))
	second := NewTween(rec.set, [3]float32{1, 0, 0}, [3]float32{1, 1, 0}, 1, WithEase(Linear))
	require.NoError(t, tl.Add(first, ""))
	require.NoError(t, tl.Add(second, ""))

	tl.Advance(0.5)
	assert.Equal(t, [3]float32{0.5, 0, 0}, rec.last())
	assert.False(t, second.Started())

	tl.Advance(1)
	assert.True(t, first.Done())
	assert.Equal(t, [3]float32{1, 0.5, 0}, rec.last())

	tl.Advance(1)
	assert.Equal(t, [3]float32{1, 1, 0}, rec.last())
	assert.True(t, tl.Done())
}

func TestTimelineSeekClamps(t *testing.T) {
	tl := NewTimeline()
	require.NoError(t, tl.Add(&stubAnimation{duration: 2}, ""))
	tl.Seek(-1)
	assert.Zero(t, tl.Cursor())
	tl.Seek(10)
	assert.Equal(t, float32(2), tl.Cursor())
}

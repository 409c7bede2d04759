package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	values [][3]float32
}

func (r *recorder) set(v [3]float32) {
	r.values = append(r.values, v)
}

func (r *recorder) last() [3]float32 {
	if len(r.values) == 0 {
		return [3]float32{}
	}
	return r.values[len(r.values)-1]
}

func TestTweenReachesTargetAndStopsWriting(t *testing.T) {
	rec := &recorder{}
	completions := 0
	tw := NewTween(rec.set, [3]float32{0, 0, 0}, [3]float32{2, 4, 6}, 1,
		WithEase(Linear), WithOnComplete(func() { completions++ }))

	assert.False(t, tw.Advance(0.5))
	assert.Equal(t, [3]float32{1, 2, 3}, rec.last())
	assert.Equal(t, float32(0.5), tw.Progress())

	assert.True(t, tw.Advance(0.75))
	assert.Equal(t, [3]float32{2, 4, 6}, rec.last())
	assert.Equal(t, 1, completions)

	writes := len(rec.values)
	tw.Advance(1)
	tw.Advance(1)
	assert.Len(t, rec.values, writes)
	assert.Equal(t, 1, completions)
	assert.True(t, tw.Done())
}

func TestTweenDelay(t *testing.T) {
	rec := &recorder{}
	starts := 0
	tw := NewTween(rec.set, [3]float32{}, [3]float32{1, 1, 1}, 1,
		WithDelay(1), WithEase(Linear), WithOnStart(func() { starts++ }))

	assert.Equal(t, float32(2), tw.Duration())
	tw.Advance(0.5)
	assert.Empty(t, rec.values)
	assert.False(t, tw.Started())
	assert.Zero(t, starts)

	tw.Advance(0.75)
	assert.True(t, tw.Started())
	assert.Equal(t, 1, starts)
	assert.InDelta(t, 0.25, rec.last()[0], 1e-6)

	tw.Advance(0.25)
	assert.Equal(t, 1, starts)
}

func TestTweenFromFuncCapturesAtStart(t *testing.T) {
	rec := &recorder{}
	current := [3]float32{5, 5, 5}
	tw := NewTween(rec.set, [3]float32{}, [3]float32{10, 10, 10}, 1,
		WithDelay(0.5), WithEase(Linear), WithFromFunc(func() [3]float32 { return current }))

	tw.Advance(0.25)
	current = [3]float32{6, 6, 6}
	tw.Advance(0.25)

	assert.Equal(t, [3]float32{6, 6, 6}, tw.From())
	assert.Equal(t, [3]float32{6, 6, 6}, rec.last())
}

func TestTweenRewindWritesStart(t *testing.T) {
	rec := &recorder{}
	tw := NewTween(rec.set, [3]float32{1, 2, 3}, [3]float32{4, 5, 6}, 1, WithDelay(1))

	tw.Render(1.5)
	assert.True(t, tw.Started())

	tw.Render(0.5)
	assert.False(t, tw.Started())
	assert.Equal(t, [3]float32{1, 2, 3}, rec.last())

	writes := len(rec.values)
	tw.Render(0.2)
	assert.Len(t, rec.values, writes)
}

func TestScalarTween(t *testing.T) {
	var got float32
	tw := NewScalarTween(func(v float32) { got = v }, 0, 1, 3, WithEase(PowerInOut(2)))

	tw.Render(1.5)
	assert.InDelta(t, 0.5, got, 1e-6)
	tw.Render(3)
	assert.Equal(t, float32(1), got)
}

func TestZeroDurationTweenJumps(t *testing.T) {
	rec := &recorder{}
	tw := NewTween(rec.set, [3]float32{}, [3]float32{1, 1, 1}, 0)
	assert.True(t, tw.Advance(0))
	assert.Equal(t, [3]float32{1, 1, 1}, rec.last())
}

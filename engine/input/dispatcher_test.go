package input

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainDeliversInOrder(t *testing.T) {
	d := NewDispatcher()
	var keys []uint32
	d.Subscribe(KindKeyDown, func(ev Event) { keys = append(keys, ev.Key) })

	require.NoError(t, d.Push(KeyDown(common.KeyW)))
	require.NoError(t, d.Push(KeyUp(common.KeyW)))
	require.NoError(t, d.Push(KeyDown(common.KeyR)))
	assert.Empty(t, keys)
	assert.Equal(t, 3, d.Pending())

	assert.Equal(t, 3, d.Drain())
	assert.Equal(t, []uint32{common.KeyW, common.KeyR}, keys)
	assert.Zero(t, d.Pending())
	assert.Zero(t, d.Drain())
}

func TestHandlersRunInRegistrationOrder(t *testing.T) {
	d := NewDispatcher()
	var order []string
	d.Subscribe(KindScroll, func(Event) { order = append(order, "a") })
	d.Subscribe(KindScroll, func(Event) { order = append(order, "b") })

	d.Push(Scroll(1))
	d.Drain()
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestCancelRemovesHandler(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	cancel := d.Subscribe(KindCommand, func(Event) { calls++ })
	assert.Equal(t, 1, d.Handlers(KindCommand))

	d.Push(Do(Command{Action: ActionToggleOrbit}))
	d.Drain()
	cancel()
	cancel()
	assert.Zero(t, d.Handlers(KindCommand))

	d.Push(Do(Command{Action: ActionToggleOrbit}))
	d.Drain()
	assert.Equal(t, 1, calls)
}

func TestHandlerMayCancelItself(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	var cancel func()
	cancel = d.Subscribe(KindKeyDown, func(Event) {
		calls++
		cancel()
	})
	d.Push(KeyDown(common.KeyB))
	d.Push(KeyDown(common.KeyB))
	d.Drain()
	assert.Equal(t, 1, calls)
}

func TestCloseTearsDown(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	d.Subscribe(KindResize, func(Event) { calls++ })
	d.Push(Resize(800, 600))

	d.Close()
	assert.Zero(t, d.Pending())
	assert.Zero(t, d.Handlers(KindResize))
	assert.ErrorIs(t, d.Push(Resize(1, 1)), ErrClosed)
	assert.Zero(t, d.Drain())
	assert.Zero(t, calls)

	d.Subscribe(KindResize, func(Event) { calls++ })
	assert.Zero(t, d.Handlers(KindResize))
}

func TestQueueDropsOldest(t *testing.T) {
	d := NewDispatcher(WithQueueSize(2))
	var got []float32
	d.Subscribe(KindScroll, func(ev Event) { got = append(got, ev.Delta) })
	d.Push(Scroll(1))
	d.Push(Scroll(2))
	d.Push(Scroll(3))
	d.Drain()
	assert.Equal(t, []float32{2, 3}, got)
}

func TestConcurrentProducers(t *testing.T) {
	d := NewDispatcher(WithQueueSize(10000))
	total := 0
	d.Subscribe(KindPointer, func(Event) { total++ })

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				d.Push(Pointer(0, 0, 10, 10))
			}
		}()
	}
	wg.Wait()
	d.Drain()
	assert.Equal(t, 800, total)
}

func TestPointerNormalization(t *testing.T) {
	cases := []struct {
		cx, cy float32
		x, y   float32
	}{
		{0, 0, -1, 1},
		{800, 600, 1, -1},
		{400, 300, 0, 0},
		{200, 450, -0.5, -0.5},
	}
	for _, tc := range cases {
		ev := Pointer(tc.cx, tc.cy, 800, 600)
		assert.Equal(t, KindPointer, ev.Kind)
		assert.InDelta(t, tc.x, ev.X, 1e-6)
		assert.InDelta(t, tc.y, ev.Y, 1e-6)
	}

	ev := Pointer(10, 10, 0, 600)
	assert.Zero(t, ev.X)
	assert.Zero(t, ev.Y)
}

func TestKindAndActionNames(t *testing.T) {
	assert.Equal(t, "command", KindCommand.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, "toggle_bloom", ActionToggleBloom.String())
	assert.Equal(t, "unknown", Action(99).String())
}

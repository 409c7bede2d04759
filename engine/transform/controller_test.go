package transform

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(options ...ControllerBuilderOption) (Controller, scene.Node, scene.TransformStore, *common.SceneState) {
	target := scene.NewGroup(scene.WithName("model-group"))
	store := scene.NewTransformStore()
	state := &common.SceneState{}
	return NewController(target, store, state, options...), target, store, state
}

func highlighted(s Snapshot) []Mode {
	var out []Mode
	for _, m := range Modes {
		if s.Mode == m {
			out = append(out, m)
		}
	}
	return out
}

func TestModeExclusivity(t *testing.T) {
	c, _, _, _ := newTestController()
	var seen []Snapshot
	c.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	assert.Equal(t, ModeTranslate, c.Mode())
	sequence := []Mode{ModeRotate, ModeRotate, ModeScale, ModeTranslate, Mode(7), ModeScale}
	for _, m := range sequence {
		c.SetMode(m)
		assert.Len(t, highlighted(c.Snapshot()), 1)
	}
	for _, s := range seen {
		assert.Len(t, highlighted(s), 1)
	}
	assert.Equal(t, ModeScale, c.Mode())
}

func TestSetModeIdempotent(t *testing.T) {
	c, _, _, _ := newTestController()
	notified := 0
	c.Subscribe(func(Snapshot) { notified++ })

	assert.True(t, c.SetMode(ModeRotate))
	assert.False(t, c.SetMode(ModeRotate))
	assert.Equal(t, ModeRotate, c.Mode())
	assert.Equal(t, 2, notified)

	assert.False(t, c.SetMode(Mode(-1)))
	assert.Equal(t, 2, notified)
}

func TestStepBounds(t *testing.T) {
	c, _, _, _ := newTestController()
	cases := []struct {
		in, want float32
	}{
		{0.5, 0.5},
		{0, 0.01},
		{-3, 0.01},
		{0.001, 0.01},
		{1.0001, 1},
		{42, 1},
		{0.01, 0.01},
		{1, 1},
		{math32.NaN(), 0.01},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.SetStep(tc.in), "step %v", tc.in)
		assert.Equal(t, tc.want, c.Step())
	}
}

func TestNudgeChangesOneAxisByStep(t *testing.T) {
	c, target, store, _ := newTestController()
	for _, step := range []float32{0.01, 0.25, 1, 5} {
		c.SetStep(step)
		want := c.Step()
		for _, m := range Modes {
			c.SetMode(m)
			for axis := common.AxisX; axis <= common.AxisZ; axis++ {
				ch := m.channel()
				before := store.Current(target, ch)
				after := c.Nudge(axis, 1)
				store.Resolve()
				for other := common.AxisX; other <= common.AxisZ; other++ {
					if other == axis {
						assert.InDelta(t, want, after[other]-before[other], 1e-6)
					} else {
						assert.Equal(t, before[other], after[other])
					}
				}

				back := c.Nudge(axis, -1)
				store.Resolve()
				assert.InDelta(t, -want, back[axis]-after[axis], 1e-6)
			}
		}
	}
}

func TestNudgeFromZeroIsExact(t *testing.T) {
	c, target, store, _ := newTestController(WithStep(0.3))
	c.Nudge(common.AxisY, 1)
	store.Resolve()
	assert.Equal(t, [3]float32{0, 0.3, 0}, target.Position())

	c.SetMode(ModeScale)
	c.Nudge(common.AxisX, -1)
	store.Resolve()
	assert.InDelta(t, 0.7, target.Scale()[0], 1e-6)
}

func TestNudgeWinsOverAnimatedWrites(t *testing.T) {
	c, target, store, _ := newTestController(WithStep(1))
	store.Write(target, scene.ChannelPosition, scene.ProducerTimeline, [3]float32{5, 5, 5})
	c.Nudge(common.AxisX, 1)
	store.Write(target, scene.ChannelPosition, scene.ProducerScroll, [3]float32{9, 9, 9})
	store.Resolve()
	assert.Equal(t, [3]float32{6, 5, 5}, target.Position())
}

func TestNudgeIgnoresZeroSign(t *testing.T) {
	c, _, store, _ := newTestController()
	c.Nudge(common.AxisX, 0)
	c.Nudge(common.Axis(9), 1)
	assert.Zero(t, store.Pending())
}

func TestSnapRoundsNudges(t *testing.T) {
	c, target, store, _ := newTestController(WithStep(0.3))

	assert.True(t, c.ToggleSnap(ModeTranslate))
	c.Nudge(common.AxisX, 1)
	store.Resolve()
	assert.Equal(t, float32(0), target.Position()[0])

	c.SetStep(0.6)
	c.Nudge(common.AxisX, 1)
	store.Resolve()
	assert.Equal(t, float32(1), target.Position()[0])

	assert.False(t, c.ToggleSnap(ModeTranslate))
	c.SetMode(ModeScale)
	c.SetSnapHeld(true)
	c.SetStep(0.2)
	c.Nudge(common.AxisZ, 1)
	store.Resolve()
	assert.Equal(t, float32(1.25), target.Scale()[2])
	assert.True(t, c.Snapshot().Snapping(ModeRotate))

	c.SetSnapHeld(false)
	assert.False(t, c.Snapshot().Snapping(ModeRotate))
}

func TestSnapFlagsAreIndependent(t *testing.T) {
	c, _, _, _ := newTestController()
	c.ToggleSnap(ModeRotate)
	s := c.Snapshot()
	assert.Equal(t, [3]bool{false, true, false}, s.Snap)
	assert.False(t, c.ToggleSnap(Mode(5)))
}

func TestAxisToggles(t *testing.T) {
	c, _, _, _ := newTestController()
	assert.False(t, c.ToggleAxis(common.AxisY))
	assert.Equal(t, [3]bool{true, false, true}, c.Snapshot().Axes)
	assert.False(t, c.ToggleAxis(common.AxisX))
	assert.Equal(t, [3]bool{false, false, true}, c.Snapshot().Axes)
	assert.True(t, c.ToggleAxis(common.AxisY))
	assert.Equal(t, [3]bool{false, true, true}, c.Snapshot().Axes)
}

func TestResizeGizmoClamps(t *testing.T) {
	c, _, _, _ := newTestController()
	assert.Equal(t, float32(1.1), c.ResizeGizmo(1))
	assert.Equal(t, float32(1), c.ResizeGizmo(-1))

	for i := 0; i < 200; i++ {
		c.ResizeGizmo(1)
	}
	assert.Equal(t, MaxSize, c.Snapshot().Size)

	for i := 0; i < 200; i++ {
		c.ResizeGizmo(-1)
	}
	assert.Equal(t, MinSize, c.Snapshot().Size)
}

func TestToggleSpaceAndOrbit(t *testing.T) {
	c, _, _, state := newTestController()
	var last Snapshot
	c.Subscribe(func(s Snapshot) { last = s })

	assert.Equal(t, SpaceLocal, c.ToggleSpace())
	assert.Equal(t, SpaceWorld, c.ToggleSpace())

	assert.True(t, c.ToggleOrbit())
	assert.True(t, state.OrbitEnabled)
	assert.True(t, last.Orbit)
	assert.False(t, c.ToggleOrbit())
	assert.False(t, state.OrbitEnabled)
	assert.False(t, last.Orbit)
}

func TestResetKeepsTransform(t *testing.T) {
	c, target, store, _ := newTestController(WithStep(0.5))
	c.SetMode(ModeRotate)
	c.Nudge(common.AxisZ, 1)
	store.Resolve()
	c.ToggleSpace()
	c.ToggleAxis(common.AxisX)
	c.ToggleSnap(ModeScale)
	c.SetSnapHeld(true)
	c.ResizeGizmo(5)

	c.Reset()
	s := c.Snapshot()
	assert.Equal(t, SpaceWorld, s.Space)
	assert.Equal(t, DefaultSize, s.Size)
	assert.Equal(t, [3]bool{true, true, true}, s.Axes)
	assert.Equal(t, [3]bool{}, s.Snap)
	assert.False(t, s.SnapHeld)
	assert.Equal(t, ModeRotate, s.Mode)
	assert.Equal(t, float32(0.5), s.Step)
	assert.Equal(t, float32(0.5), target.Rotation()[2])
}

func TestSubscribeCancel(t *testing.T) {
	c, _, _, _ := newTestController()
	a, b := 0, 0
	cancelA := c.Subscribe(func(Snapshot) { a++ })
	c.Subscribe(func(Snapshot) { b++ })

	c.ToggleSpace()
	cancelA()
	c.ToggleSpace()

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestGizmoFollowsSnapshot(t *testing.T) {
	c, _, _, _ := newTestController()
	g := NewGizmo()
	require.Len(t, g.Node().Children(), 3)

	c.ToggleAxis(common.AxisZ)
	c.ResizeGizmo(10)
	c.ToggleSpace()
	g.Sync(c.Snapshot(), [3]float32{1, 2, 3}, [3]float32{0, 0, 0.5})

	assert.Equal(t, [3]float32{1, 2, 3}, g.Node().Position())
	assert.Equal(t, [3]float32{0, 0, 0.5}, g.Node().Rotation())
	assert.Equal(t, [3]float32{2, 2, 2}, g.Node().Scale())
	children := g.Node().Children()
	assert.True(t, children[0].Visible())
	assert.True(t, children[1].Visible())
	assert.False(t, children[2].Visible())

	c.ToggleSpace()
	g.Sync(c.Snapshot(), [3]float32{}, [3]float32{0, 0, 0.5})
	assert.Equal(t, [3]float32{}, g.Node().Rotation())
}

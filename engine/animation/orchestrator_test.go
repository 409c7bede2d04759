package animation

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/page"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orchestratorFixture struct {
	page  page.Page
	store scene.TransformStore
	group scene.Node
	state *common.SceneState
	model scene.Node
	mat   material.Material
	orch  Orchestrator
}

func newOrchestratorFixture(t *testing.T, sections ...page.Section) *orchestratorFixture {
	t.Helper()
	if sections == nil {
		sections = []page.Section{
			{Name: "section1", Top: 0, Height: 800},
			{Name: "section2", Top: 800, Height: 800},
		}
	}
	f := &orchestratorFixture{
		page:  page.NewPage(600, page.WithSections(sections...)),
		store: scene.NewTransformStore(),
		group: scene.NewGroup(scene.WithName("model-group")),
		state: &common.SceneState{},
		mat:   material.NewMaterial(material.WithName("helmet")),
	}
	geo := scene.NewGeometry([]model.GPUVertex{{}, {}, {}}, []uint32{0, 1, 2}, scene.TopologyTriangleList)
	f.model = scene.NewGroup(scene.WithName("helmet"), scene.WithChildren(scene.NewMesh(geo, f.mat)))
	f.orch = NewOrchestrator(f.group, f.store, f.page, f.state, WithCloneCount(12))
	t.Cleanup(f.orch.Close)
	return f
}

func (f *orchestratorFixture) tick(n int) {
	for i := 0; i < n; i++ {
		f.orch.Advance(1.0 / 60)
		f.store.Resolve()
	}
}

func (f *orchestratorFixture) tickUntil(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 60*20 && !cond(); i++ {
		f.tick(1)
	}
	require.True(t, cond())
}

func TestOrchestratorIdleWhileLoading(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.tick(120)

	assert.Equal(t, StateLoading, f.orch.State())
	assert.Nil(t, f.orch.Timeline())
	assert.Empty(t, f.group.Children())
	assert.Zero(t, f.store.Pending())
}

func TestOrchestratorEntranceReachesRestingPose(t *testing.T) {
	f := newOrchestratorFixture(t)
	entered := 0
	f.orch.OnEntered(func() { entered++ })

	require.NoError(t, f.orch.OnModelLoaded(f.model, 1280))
	assert.Equal(t, StateEntering, f.orch.State())
	assert.True(t, f.state.SwayReady)
	assert.Len(t, f.orch.Clones(), 12)
	assert.Len(t, f.group.Children(), 12)
	assert.Equal(t, [3]float32{0.2, 0.2, 0.1}, f.model.Scale())
	assert.Equal(t, float32(0), f.mat.Opacity())
	assert.True(t, f.mat.Transparent())
	assert.Equal(t, "#6EB744", common.FormatHexColor(f.mat.Color()))

	f.tickUntil(t, func() bool { return f.orch.State() != StateEntering })

	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, [3]float32{-4, 1.493, 2.146}, f.group.Position())
	assert.Equal(t, [3]float32{0.106, 0.029, -0.578}, f.group.Rotation())
	assert.Equal(t, [3]float32{7.5, 7.5, 7.5}, f.group.Scale())
	assert.True(t, f.state.ScrollEnabled)
	assert.False(t, f.page.Locked())
	assert.Len(t, f.orch.ScrollTweens(), 2)
	assert.Equal(t, 1, entered)

	f.tick(120)
	assert.Equal(t, float32(1), f.mat.Opacity())
	assert.Equal(t, [3]float32{-4, 1.493, 2.146}, f.group.Position())
	assert.True(t, f.orch.Timeline().Done())
	assert.Equal(t, 1, entered)
}

func TestOrchestratorNarrowViewport(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.orch.OnModelLoaded(f.model, 420))
	assert.Equal(t, [3]float32{2, 1.493, 2.146}, f.orch.Resting())

	f.tickUntil(t, func() bool { return f.orch.State() == StateIdle })
	assert.Equal(t, [3]float32{2, 1.493, 2.146}, f.group.Position())
}

func TestOrchestratorRejectsSecondModel(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.orch.OnModelLoaded(f.model, 1280))
	assert.ErrorIs(t, f.orch.OnModelLoaded(f.model, 1280), ErrAlreadyLoaded)
	assert.Len(t, f.group.Children(), 12)
}

func TestOrchestratorStaggerRelocksPage(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.orch.OnModelLoaded(f.model, 1280))
	f.page.SetLocked(false)

	f.tick(30)
	assert.False(t, f.page.Locked())
	f.tick(40)
	assert.True(t, f.page.Locked())
}

func TestOrchestratorScrollScrubRoundTrip(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.orch.OnModelLoaded(f.model, 1280))
	f.tickUntil(t, func() bool { return f.orch.State() == StateIdle })
	f.tick(60)

	f.page.ScrollTo(f.page.MaxScroll())
	f.tick(120)
	assert.Equal(t, StateScrollLinked, f.orch.State())
	assert.Equal(t, [3]float32{-8.097, 4.662, 2.124}, f.group.Position())
	assert.Equal(t, [3]float32{0.124, 0.16, -0.576}, f.group.Rotation())

	f.page.ScrollTo(0)
	f.tick(120)
	assert.Equal(t, StateIdle, f.orch.State())
	assert.Equal(t, [3]float32{-4, 1.493, 2.146}, f.group.Position())
	assert.Equal(t, [3]float32{0.106, 0.029, -0.578}, f.group.Rotation())
}

func TestOrchestratorSwayTriggerSetsReady(t *testing.T) {
	f := newOrchestratorFixture(t)
	require.NoError(t, f.orch.OnModelLoaded(f.model, 1280))
	f.state.SwayReady = false

	f.page.ScrollTo(400)
	f.tick(1)
	assert.True(t, f.state.SwayReady)
}

func TestOrchestratorMissingSectionDegrades(t *testing.T) {
	f := newOrchestratorFixture(t, page.Section{Name: "intro", Top: 0, Height: 600})
	require.NoError(t, f.orch.OnModelLoaded(f.model, 1280))

	f.tickUntil(t, func() bool { return f.orch.State() == StateIdle })
	assert.Empty(t, f.orch.ScrollTweens())
	assert.True(t, f.state.ScrollEnabled)
	assert.Equal(t, [3]float32{-4, 1.493, 2.146}, f.group.Position())
}

func TestChoreographyRestingFor(t *testing.T) {
	c := DefaultChoreography()
	assert.Equal(t, c.Resting, c.RestingFor(500))
	assert.Equal(t, c.NarrowResting, c.RestingFor(499))
	assert.Equal(t, common.HexColor(0x6EB744), c.Color())

	c.MaterialColor = "green"
	assert.Equal(t, common.HexColor(0x6EB744), c.Color())
}

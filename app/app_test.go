package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/config"
	"github.com/Carmen-Shannon/oxy-bloom/engine/animation"
	"github.com/Carmen-Shannon/oxy-bloom/engine/bloom"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/loader"
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/Carmen-Shannon/oxy-bloom/engine/transform"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = float32(1) / 60

func testModel() model.Model {
	tri := []model.GPUVertex{{Position: [3]float32{0, 0, 0}}, {Position: [3]float32{1, 0, 0}}, {Position: [3]float32{0, 1, 0}}}
	return model.NewModel(
		model.WithName("helmet"),
		model.WithSource("helmet.glb"),
		model.WithMeshes(
			model.Mesh{Name: "shell", Vertices: tri, Indices: []uint32{0, 1, 2}, MaterialIndex: 0},
			model.Mesh{Name: "visor", Vertices: tri, Indices: []uint32{0, 1, 2}, MaterialIndex: -1},
		),
		model.WithMaterials(common.ImportedMaterial{Name: "shell", BaseColor: [4]float32{1, 1, 1, 1}, Roughness: 1}),
	)
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Model.Path = "helmet.glb"
	cfg.Choreography.CloneCount = 4
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config, options ...AppBuilderOption) (App, *renderertest.Renderer) {
	t.Helper()
	r := renderertest.New(1280, 720)
	options = append([]AppBuilderOption{
		WithRenderer(r),
		WithLoaderOptions(loader.WithModel("helmet.glb", testModel())),
	}, options...)
	a, err := New(cfg, options...)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, r
}

func push(t *testing.T, a App, events ...input.Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, a.Dispatcher().Push(ev))
	}
	require.NoError(t, a.Step(dt))
}

func steps(t *testing.T, a App, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, a.Step(dt))
	}
}

func stepUntil(t *testing.T, a App, cond func() bool) {
	t.Helper()
	for i := 0; i < 2000; i++ {
		if cond() {
			return
		}
		require.NoError(t, a.Step(dt))
	}
	t.Fatal("condition not reached within 2000 ticks")
}

func load(t *testing.T, a App) {
	t.Helper()
	require.NoError(t, a.Load(context.Background()))
	require.Eventually(t, func() bool {
		_ = a.Step(dt)
		return a.Orchestrator().State() != animation.StateLoading
	}, 2*time.Second, time.Millisecond)
}

func TestEndToEnd(t *testing.T) {
	a, r := newTestApp(t, testConfig())

	steps(t, a, 3)
	assert.Equal(t, animation.StateLoading, a.Orchestrator().State())
	assert.Empty(t, a.ModelGroup().Children())

	load(t, a)
	assert.Len(t, a.Orchestrator().Clones(), 4)
	assert.Len(t, a.ModelGroup().Children(), 4)
	assert.True(t, a.State().SwayReady)
	for _, m := range scene.Meshes(a.ModelGroup()) {
		assert.NotNil(t, m.Material(), m.Name())
		assert.True(t, m.Layers().Has(bloom.BloomLayer), m.Name())
	}

	stepUntil(t, a, func() bool { return a.Orchestrator().State() == animation.StateIdle })
	assert.Equal(t, a.Orchestrator().Resting(), a.ModelGroup().Position())
	assert.True(t, a.State().ScrollEnabled)
	assert.False(t, a.Page().Locked())
	steps(t, a, 60)

	push(t, a, input.Scroll(-30))
	assert.Equal(t, a.Page().MaxScroll(), a.Page().ScrollY())
	steps(t, a, 120)
	assert.Equal(t, animation.StateScrollLinked, a.Orchestrator().State())
	scrolled := a.ModelGroup().Position()
	assert.Equal(t, a.Config().Choreography.ScrollPosition, scrolled)

	push(t, a, input.Do(input.Command{Action: input.ActionNudge, Axis: common.AxisX, Sign: 1}))
	assert.InDelta(t, scrolled[0]+transform.DefaultStep, a.ModelGroup().Position()[0], 1e-4)

	before := make(map[scene.NodeID]material.Material)
	for _, m := range a.Scene().Renderables() {
		before[m.ID()] = m.Material()
	}
	r.Reset()
	push(t, a, input.KeyDown(common.KeyB))
	assert.True(t, a.State().BloomEnabled)
	assert.Contains(t, r.Ops(), "ApplyBloom:"+bloom.BloomTargetName)
	for _, m := range a.Scene().Renderables() {
		assert.Same(t, before[m.ID()], m.Material(), m.Name())
	}
	assert.Equal(t, 0, a.Compositor().CacheLen())

	push(t, a, input.Do(input.Command{Action: input.ActionQuit}))
	select {
	case <-a.Engine().Done():
	default:
		t.Fatal("quit command did not stop the engine")
	}
}

func TestLoadFailureLeavesSceneEmpty(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Path = filepath.Join(t.TempDir(), "missing.glb")
	a, _ := newTestApp(t, cfg)

	require.NoError(t, a.Load(context.Background()))
	require.Eventually(t, func() bool {
		_ = a.Step(dt)
		return a.LoadError() != nil
	}, 2*time.Second, time.Millisecond)

	require.NoError(t, a.Step(dt))
	assert.Equal(t, animation.StateLoading, a.Orchestrator().State())
	assert.Empty(t, a.ModelGroup().Children())
}

func TestCompressedAssetNeedsDecoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packed.gltf")
	doc := `{"asset":{"version":"2.0"},"extensionsUsed":["KHR_draco_mesh_compression"],` +
		`"extensionsRequired":["KHR_draco_mesh_compression"]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg := testConfig()
	cfg.Model.Path = path
	a, _ := newTestApp(t, cfg)

	require.NoError(t, a.Load(context.Background()))
	require.Eventually(t, func() bool {
		_ = a.Step(dt)
		return a.LoadError() != nil
	}, 2*time.Second, time.Millisecond)
	assert.ErrorIs(t, a.LoadError(), loader.ErrUnsupportedExtension)
	assert.Equal(t, animation.StateLoading, a.Orchestrator().State())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Path = ""
	_, err := New(cfg, WithRenderer(renderertest.New(64, 64)))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestPointerSwaysSceneGroup(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	push(t, a, input.Pointer(1280, 0, 1280, 720))
	assert.Equal(t, [3]float32{}, a.SceneGroup().Rotation())

	load(t, a)
	push(t, a, input.Pointer(1280, 0, 1280, 720))
	rot := a.SceneGroup().Rotation()
	assert.InDelta(t, 0.02, rot[0], 1e-6)
	assert.InDelta(t, 0.02, rot[1], 1e-6)
}

func TestKeysDriveController(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	push(t, a, input.KeyDown(common.KeyR))
	assert.Equal(t, transform.ModeRotate, a.Controller().Mode())

	push(t, a, input.KeyDown(common.KeyX), input.KeyDown(common.KeyQ))
	s := a.Controller().Snapshot()
	assert.False(t, s.Axes[common.AxisX])
	assert.Equal(t, transform.SpaceLocal, s.Space)

	push(t, a, input.KeyDown(common.KeyLeftShift))
	assert.True(t, a.Controller().Snapshot().SnapHeld)
	push(t, a, input.KeyUp(common.KeyLeftShift))
	assert.False(t, a.Controller().Snapshot().SnapHeld)

	push(t, a, input.KeyDown(common.KeyEsc))
	s = a.Controller().Snapshot()
	assert.True(t, s.Axes[common.AxisX])
	assert.Equal(t, transform.SpaceWorld, s.Space)

	push(t, a, input.KeyDown(common.KeyH))
	assert.True(t, a.State().PanelVisible)

	push(t, a, input.KeyUp(common.KeyH), input.KeyDown(1))
	assert.Equal(t, transform.ModeRotate, a.Controller().Mode())
}

func TestShiftPlusResizesWithoutHoldingSnap(t *testing.T) {
	a, _ := newTestApp(t, testConfig())
	before := a.Controller().Snapshot().Size

	push(t, a, input.KeyDown(common.KeyLeftShift), input.KeyDown(common.KeyEqual))
	s := a.Controller().Snapshot()
	assert.False(t, s.SnapHeld)
	assert.InDelta(t, before+0.1, s.Size, 1e-5)

	push(t, a, input.KeyUp(common.KeyEqual), input.KeyUp(common.KeyLeftShift))
	assert.False(t, a.Controller().Snapshot().SnapHeld)

	push(t, a, input.KeyDown(common.KeyRightShift))
	assert.True(t, a.Controller().Snapshot().SnapHeld)
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key    uint32
		action input.Action
		sign   int
	}{
		{common.KeyW, input.ActionSetMode, 0},
		{common.KeyQ, input.ActionToggleSpace, 0},
		{common.KeyEqual, input.ActionResizeGizmo, 1},
		{common.KeyKPAdd, input.ActionResizeGizmo, 1},
		{common.KeyMinus, input.ActionResizeGizmo, -1},
		{common.KeyKPSubtract, input.ActionResizeGizmo, -1},
		{common.KeyEsc, input.ActionResetGizmo, 0},
		{common.KeySpace, input.ActionToggleOrbit, 0},
		{common.KeyH, input.ActionTogglePanel, 0},
		{common.KeyB, input.ActionToggleBloom, 0},
	}
	for _, tt := range tests {
		c, ok := KeyCommand(tt.key)
		require.True(t, ok, tt.key)
		assert.Equal(t, tt.action, c.Action, tt.key)
		assert.Equal(t, tt.sign, c.Sign, tt.key)
	}

	_, ok := KeyCommand(common.KeyLeftShift)
	assert.False(t, ok)
}

func TestOrbitTakesWheelAndDrag(t *testing.T) {
	a, _ := newTestApp(t, testConfig())
	orbit := a.Camera().Controller()

	push(t, a, input.KeyDown(common.KeySpace))
	require.True(t, a.State().OrbitEnabled)

	zoom := orbit.ZoomFactor()
	push(t, a, input.Scroll(1))
	assert.NotEqual(t, zoom, orbit.ZoomFactor())
	assert.Zero(t, a.Page().ScrollY())

	azimuth := orbit.Azimuth()
	push(t, a, input.Pointer(640, 360, 1280, 720), input.Pointer(740, 360, 1280, 720))
	assert.Equal(t, azimuth, orbit.Azimuth())

	push(t, a, input.Button(0, true), input.Pointer(840, 360, 1280, 720), input.Button(0, false))
	assert.NotEqual(t, azimuth, orbit.Azimuth())
}

func TestConfigEventReloadsBloomParams(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	reloaded := testConfig()
	reloaded.Bloom.Strength = 3
	reloaded.Bloom.Radius = 0.8
	push(t, a, input.Event{Kind: input.KindConfig, Payload: reloaded})

	assert.Equal(t, float32(3), a.Compositor().Params().Strength)
	assert.Equal(t, float32(0.8), a.Compositor().Params().Radius)
	assert.Equal(t, float32(3), a.Config().Bloom.Strength)

	push(t, a, input.Event{Kind: input.KindConfig, Payload: "not a config"})
	assert.Equal(t, float32(3), a.Compositor().Params().Strength)
}

func TestConfigReturnsACopy(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	cfg := a.Config()
	require.NotEmpty(t, cfg.Lights)
	want := cfg.Lights[0].Intensity
	cfg.Lights[0].Intensity = 999
	cfg.Page.Sections[0].Name = "edited"

	assert.Equal(t, want, a.Config().Lights[0].Intensity)
	assert.Equal(t, "section1", a.Config().Page.Sections[0].Name)
}

func TestPanelFollowsCommands(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(120, 20)

	cfg := testConfig()
	cfg.State.PanelVisible = true
	a, _ := newTestApp(t, cfg, WithPanelScreen(screen))
	require.NotNil(t, a.Panel())
	assert.True(t, a.Panel().Visible())

	push(t, a, input.Do(input.Command{Action: input.ActionTogglePanel}))
	assert.False(t, a.Panel().Visible())

	push(t, a, input.KeyDown(common.KeyH))
	assert.True(t, a.Panel().Visible())
}

func TestRunStopsOnCancel(t *testing.T) {
	a, _ := newTestApp(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	a.Close()
	assert.ErrorIs(t, a.Run(context.Background()), ErrClosed)
}

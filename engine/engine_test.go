package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-bloom/engine/bloom"
	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/loader"
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/profiler"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	steps []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.steps...)
}

func newTestScene(t *testing.T) (scene.Scene, scene.Node) {
	t.Helper()
	geo := scene.NewGeometry(
		[]model.GPUVertex{{Position: [3]float32{0, 0, 0}}, {Position: [3]float32{1, 0, 0}}, {Position: [3]float32{0, 1, 0}}},
		[]uint32{0, 1, 2},
		scene.TopologyTriangleList,
	)
	mesh := scene.NewMesh(geo, material.NewMaterial(material.WithName("m")), scene.WithName("tri"))
	s := scene.NewScene("test", scene.WithCamera(camera.NewCamera()), scene.WithNodes(mesh))
	t.Cleanup(s.Close)
	return s, mesh
}

func TestStepRunsTickInOrder(t *testing.T) {
	rec := &recorder{}
	s, mesh := newTestScene(t)
	r := renderertest.New(800, 600)
	r.Hook = func(c renderertest.Call) { rec.add("render:" + c.Op) }

	l := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithModel("cached.glb", model.NewModel(model.WithName("cached"))),
		loader.WithOnLoad(func(res loader.Result) { rec.add("load:" + res.Source) }),
	)
	t.Cleanup(l.Close)

	e := NewEngine(
		WithRenderer(r),
		WithScene(s),
		WithLoader(l),
		WithUpdate(func(float32) {
			rec.add("update")
			s.Store().Write(mesh, scene.ChannelPosition, scene.ProducerManual, [3]float32{1, 2, 3})
		}),
		WithLateUpdate(func(float32) {
			rec.add("late")
			assert.Equal(t, [3]float32{1, 2, 3}, mesh.Position())
		}),
	)
	e.Dispatcher().Subscribe(input.KindKeyDown, func(input.Event) { rec.add("input") })

	require.NoError(t, l.Load(context.Background(), "cached.glb"))
	require.Eventually(t, func() bool { return len(l.Results()) == 1 }, time.Second, time.Millisecond)
	require.NoError(t, e.Dispatcher().Push(input.KeyDown(1)))

	require.NoError(t, e.Step(1.0/60))
	assert.Equal(t, []string{
		"input",
		"load:cached.glb",
		"update",
		"late",
		"render:BeginFrame",
		"render:RenderScene",
	}, rec.list())
	assert.Equal(t, 1, r.Frames())
	assert.Equal(t, uint64(1), e.Ticks())
}

func TestStepThroughCompositor(t *testing.T) {
	s, _ := newTestScene(t)
	r := renderertest.New(800, 600)
	c := bloom.NewCompositor(r, bloom.WithEnabledFunc(func() bool { return false }))
	e := NewEngine(WithRenderer(r), WithScene(s), WithCompositor(c))

	require.NoError(t, e.Step(0))
	assert.Equal(t, []string{"BeginFrame", "RenderScene:screen", "Present"}, r.Ops())
}

func TestStepRenderErrorStillPresents(t *testing.T) {
	s, _ := newTestScene(t)
	r := renderertest.New(800, 600)
	boom := errors.New("boom")
	r.FailOn["RenderScene"] = boom
	e := NewEngine(WithRenderer(r), WithScene(s))

	assert.ErrorIs(t, e.Step(0), boom)
	assert.Equal(t, 1, r.Frames())

	delete(r.FailOn, "RenderScene")
	require.NoError(t, e.Step(0))
	assert.Equal(t, 2, r.Frames())
}

func TestStepBeginFrameError(t *testing.T) {
	s, _ := newTestScene(t)
	r := renderertest.New(800, 600)
	boom := errors.New("surface lost")
	r.FailOn["BeginFrame"] = boom
	e := NewEngine(WithRenderer(r), WithScene(s))

	assert.ErrorIs(t, e.Step(0), boom)
	assert.Zero(t, r.Frames())
}

func TestStepWithoutCamera(t *testing.T) {
	s := scene.NewScene("empty")
	t.Cleanup(s.Close)
	e := NewEngine(WithRenderer(renderertest.New(10, 10)), WithScene(s))
	assert.ErrorIs(t, e.Step(0), ErrNoCamera)
}

func TestStepPanicQuits(t *testing.T) {
	s, _ := newTestScene(t)
	e := NewEngine(WithRenderer(renderertest.New(10, 10)), WithScene(s), WithUpdate(func(float32) {
		panic("bad update")
	}))

	err := e.Step(0)
	require.ErrorIs(t, err, ErrTickPanic)
	assert.Contains(t, err.Error(), "bad update")

	select {
	case <-e.Done():
	default:
		t.Fatal("engine did not quit after a panicking tick")
	}
}

func TestResizeEventResizesSurfaceState(t *testing.T) {
	s, _ := newTestScene(t)
	r := renderertest.New(800, 600)
	c := bloom.NewCompositor(r)
	var got [2]int
	e := NewEngine(WithRenderer(r), WithScene(s), WithCompositor(c), WithOnResize(func(w, h int) {
		got = [2]int{w, h}
	}))

	require.NoError(t, e.Dispatcher().Push(input.Resize(1024, 512)))
	require.NoError(t, e.Dispatcher().Push(input.Resize(0, 0)))
	require.NoError(t, e.Step(0))

	w, h := r.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, h)
	assert.Equal(t, float32(2), s.Camera().Aspect())
	assert.Equal(t, [2]int{1024, 512}, got)
	for _, target := range r.Targets() {
		assert.Equal(t, 1024, target.Width(), target.Name())
		assert.Equal(t, 512, target.Height(), target.Name())
	}
}

func TestProfilerObservesTicks(t *testing.T) {
	s, _ := newTestScene(t)
	now := time.Unix(0, 0)
	var reports []profiler.Stats
	p := profiler.NewProfiler(
		profiler.WithClock(func() time.Time { return now }),
		profiler.WithReporter(func(st profiler.Stats) { reports = append(reports, st) }),
	)
	e := NewEngine(WithRenderer(renderertest.New(10, 10)), WithScene(s), WithProfiler(p), WithProfiling(true))

	require.NoError(t, e.Step(0))
	now = now.Add(time.Second)
	require.NoError(t, e.Step(0))
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].Frames)

	e.DisableProfiler()
	now = now.Add(time.Second)
	require.NoError(t, e.Step(0))
	assert.Len(t, reports, 1)
}

func TestRunHeadlessUntilQuit(t *testing.T) {
	s, _ := newTestScene(t)
	r := renderertest.New(10, 10)
	e := NewEngine(WithRenderer(r), WithScene(s), WithRenderFrameLimit(1000))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	require.Eventually(t, func() bool { return e.Ticks() >= 3 }, time.Second, time.Millisecond)
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.GreaterOrEqual(t, r.Frames(), 3)
}

package bloom

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	scene  scene.Scene
	cam    camera.Camera
	glow   scene.Mesh
	plainA scene.Mesh
	plainB scene.Mesh
	shared material.Material
	own    material.Material
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	geo := scene.NewGeometry(
		[]model.GPUVertex{{Position: [3]float32{0, 0, 0}}, {Position: [3]float32{1, 0, 0}}, {Position: [3]float32{0, 1, 0}}},
		[]uint32{0, 1, 2},
		scene.TopologyTriangleList,
	)
	f := &fixture{
		cam:    camera.NewCamera(),
		shared: material.NewMaterial(material.WithName("shared")),
		own:    material.NewMaterial(material.WithName("glow")),
	}
	f.glow = scene.NewMesh(geo, f.own, scene.WithName("glow"))
	f.glow.EnableLayer(BloomLayer)
	f.plainA = scene.NewMesh(geo, f.shared, scene.WithName("a"))
	f.plainB = scene.NewMesh(geo, f.shared, scene.WithName("b"))

	f.scene = scene.NewScene("test", scene.WithCamera(f.cam))
	f.scene.Add(scene.NewGroup(scene.WithChildren(f.plainA, f.glow, f.plainB)))
	t.Cleanup(f.scene.Close)
	return f
}

func (f *fixture) assertOriginals(t *testing.T) {
	t.Helper()
	assert.Same(t, f.own, f.glow.Material())
	assert.Same(t, f.shared, f.plainA.Material())
	assert.Same(t, f.shared, f.plainB.Material())
}

func TestRenderDisabledDrawsStraightToScreen(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	c := NewCompositor(r, WithEnabledFunc(func() bool { return false }))

	require.NoError(t, r.BeginFrame())
	require.NoError(t, c.Render(f.scene, f.cam))

	assert.Equal(t, []string{"BeginFrame", "RenderScene:screen"}, r.Ops())
	assert.Empty(t, r.Targets())
	f.assertOriginals(t)
}

func TestRenderEnabledSequence(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	c := NewCompositor(r)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, c.Render(f.scene, f.cam))

	assert.Equal(t, []string{
		"BeginFrame",
		"NewRenderTarget:bloom",
		"NewRenderTarget:base",
		"RenderScene:bloom",
		"ApplyBloom:bloom",
		"RenderScene:base",
		"Composite:base+bloom",
	}, r.Ops())
}

func TestBloomPassDarkensOnlyNonBloom(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	c := NewCompositor(r)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, c.Render(f.scene, f.cam))

	var bloomPass, basePass renderertest.Call
	for _, call := range r.Calls() {
		if call.Op != "RenderScene" {
			continue
		}
		switch call.Target {
		case BloomTargetName:
			bloomPass = call
		case BaseTargetName:
			basePass = call
		}
	}

	require.Len(t, bloomPass.Materials, 3)
	assert.Same(t, f.own, bloomPass.Materials[f.glow.ID()])
	dark := bloomPass.Materials[f.plainA.ID()]
	assert.Same(t, dark, bloomPass.Materials[f.plainB.ID()])
	assert.True(t, dark.Unlit())
	assert.Equal(t, [3]float32{0, 0, 0}, dark.Color())

	assert.Same(t, f.own, basePass.Materials[f.glow.ID()])
	assert.Same(t, f.shared, basePass.Materials[f.plainA.ID()])
	assert.Same(t, f.shared, basePass.Materials[f.plainB.ID()])

	f.assertOriginals(t)
	assert.Zero(t, c.CacheLen())
}

func TestRestoreOnBloomPassError(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	boom := errors.New("device lost")
	r.FailOn["RenderScene"] = boom
	c := NewCompositor(r)

	require.NoError(t, r.BeginFrame())
	err := c.Render(f.scene, f.cam)

	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, r.Ops(), "RenderScene:base")
	f.assertOriginals(t)
	assert.Zero(t, c.CacheLen())
}

func TestRestoreOnBloomFilterError(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	boom := errors.New("filter failed")
	r.FailOn["ApplyBloom"] = boom
	c := NewCompositor(r)

	require.NoError(t, r.BeginFrame())
	assert.ErrorIs(t, c.Render(f.scene, f.cam), boom)
	f.assertOriginals(t)
	assert.Zero(t, c.CacheLen())
}

func TestRestoreOnPanic(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	r.PanicOn["RenderScene"] = true
	c := NewCompositor(r)

	require.NoError(t, r.BeginFrame())
	assert.Panics(t, func() { _ = c.Render(f.scene, f.cam) })
	f.assertOriginals(t)
	assert.Zero(t, c.CacheLen())
}

func TestRenderableAddedMidPassIsUntouched(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	late := material.NewMaterial(material.WithName("late"))
	lateMesh := scene.NewMesh(f.plainA.Geometry(), late, scene.WithName("late"))
	r.Hook = func(call renderertest.Call) {
		if call.Op == "RenderScene" && call.Target == BloomTargetName {
			f.scene.Add(lateMesh)
		}
	}
	c := NewCompositor(r)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, c.Render(f.scene, f.cam))

	assert.Same(t, late, lateMesh.Material())
	f.assertOriginals(t)
	assert.Zero(t, c.CacheLen())
}

func TestRepeatedFramesKeepMaterials(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	c := NewCompositor(r)

	for i := 0; i < 5; i++ {
		require.NoError(t, r.BeginFrame())
		require.NoError(t, c.Render(f.scene, f.cam))
		r.Present()
	}
	assert.Len(t, r.Targets(), 2)
	assert.Equal(t, 5, r.Frames())
	f.assertOriginals(t)
}

func TestResizeTargets(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	c := NewCompositor(r)

	// targets do not exist yet; nothing to resize
	require.NoError(t, c.Resize(1024, 768))

	require.NoError(t, r.BeginFrame())
	require.NoError(t, c.Render(f.scene, f.cam))
	require.NoError(t, c.Resize(1280, 720))

	for _, target := range r.Targets() {
		assert.Equal(t, 1280, target.Width())
		assert.Equal(t, 720, target.Height())
	}
	assert.Error(t, c.Resize(0, 720))
}

func TestParamsClamped(t *testing.T) {
	r := renderertest.New(800, 600)
	c := NewCompositor(r, WithParams(renderer.BloomParams{Strength: 99, Radius: -1, Exposure: 1}))
	assert.Equal(t, renderer.BloomParams{Strength: 10, Radius: 0, Exposure: 1}, c.Params())

	c.SetParams(renderer.DefaultBloomParams())
	assert.Equal(t, renderer.DefaultBloomParams(), c.Params())
}

func TestEnabledFuncTracksState(t *testing.T) {
	on := false
	c := NewCompositor(renderertest.New(1, 1), WithEnabledFunc(func() bool { return on }))
	assert.False(t, c.Enabled())
	on = true
	assert.True(t, c.Enabled())
}

func TestReleaseTargets(t *testing.T) {
	f := newFixture(t)
	r := renderertest.New(800, 600)
	c := NewCompositor(r)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, c.Render(f.scene, f.cam))
	c.Release()

	for _, target := range r.Targets() {
		assert.True(t, target.Released())
	}
}

package app

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/config"
	"github.com/Carmen-Shannon/oxy-bloom/engine/animation"
	"github.com/Carmen-Shannon/oxy-bloom/engine/bloom"
	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/light"
	"github.com/Carmen-Shannon/oxy-bloom/engine/loader"
	"github.com/Carmen-Shannon/oxy-bloom/engine/page"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/Carmen-Shannon/oxy-bloom/engine/transform"
)

const (
	axesHelperSize      = 10
	gridHelperSize      = 50
	gridHelperDivisions = 50
)

// buildScene creates the node tree: the outer sway group holding the inner model group, the
// hidden axes and grid helpers, the transform gizmo, lights, fog and the orthographic camera.
func (a *app) buildScene() error {
	lights, err := buildLights(a.cfg.Lights)
	if err != nil {
		return err
	}
	fogColor, err := common.ParseHexColor(a.cfg.Fog.Color)
	if err != nil {
		return fmt.Errorf("fog: %w", err)
	}
	bg, err := common.ParseHexColor(a.cfg.Background)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}

	cc := a.cfg.Camera
	a.orbit = camera.NewOrbitController(
		camera.WithPosition(cc.Position),
		camera.WithTarget(cc.Target),
		camera.WithEnabledFunc(func() bool { return a.state.OrbitEnabled }),
	)
	width, height := a.renderer.Size()
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	a.camera = camera.NewCamera(
		camera.WithFrustumSize(cc.FrustumSize),
		camera.WithAspect(aspect),
		camera.WithNear(cc.Near),
		camera.WithFar(cc.Far),
		camera.WithController(a.orbit),
	)

	a.inner = scene.NewGroup(scene.WithName("model-group"))
	a.outer = scene.NewGroup(scene.WithName("scene-group"), scene.WithChildren(a.inner))
	a.gizmo = transform.NewGizmo()

	a.scene = scene.NewScene(a.cfg.Window.Title,
		scene.WithCamera(a.camera),
		scene.WithLights(lights...),
		scene.WithFog(light.NewFogExp2(fogColor, a.cfg.Fog.Density)),
		scene.WithBackground([4]float32{bg[0], bg[1], bg[2], 1}),
		scene.WithNodes(
			a.outer,
			scene.NewAxesHelper(axesHelperSize, scene.WithName("axes")),
			scene.NewGridHelper(gridHelperSize, gridHelperDivisions, scene.WithName("grid")),
			a.gizmo.Node(),
		),
	)
	return nil
}

// buildControls creates everything that writes into the transform store.
func (a *app) buildControls() {
	store := a.scene.Store()

	a.page = page.NewPage(a.cfg.Page.ViewportHeight, page.WithSections(a.cfg.Page.Sections...))
	a.orchestrator = animation.NewOrchestrator(a.inner, store, a.page, a.state,
		animation.WithChoreography(a.cfg.Choreography))
	a.controller = transform.NewController(a.inner, store, a.state,
		transform.WithStep(a.cfg.Controller.Step),
		transform.WithSnapValues(a.cfg.Controller.Snap),
		transform.WithMode(transform.ModeTranslate),
	)
	a.sway = scene.NewSway(a.outer, store, func() bool { return a.state.SwayReady }, a.cfg.SwayAmplitude)
	a.compositor = bloom.NewCompositor(a.renderer,
		bloom.WithEnabledFunc(func() bool { return a.state.BloomEnabled }),
		bloom.WithParams(a.cfg.Bloom),
	)
}

func buildLights(cfgs []config.LightConfig) ([]light.Light, error) {
	lights := make([]light.Light, 0, len(cfgs))
	for _, lc := range cfgs {
		color, err := common.ParseHexColor(lc.Color)
		if err != nil {
			return nil, fmt.Errorf("light %q: %w", lc.Name, err)
		}
		lightType := light.LightTypePoint
		if lc.Type == config.LightAmbient {
			lightType = light.LightTypeAmbient
		}
		lights = append(lights, light.NewLight(lightType,
			light.WithName(lc.Name),
			light.WithColor(color),
			light.WithIntensity(lc.Intensity),
			light.WithPosition(lc.Position[0], lc.Position[1], lc.Position[2]),
		))
	}
	return lights, nil
}

// onLoad converts a loaded model into a node group and hands it to the orchestrator. Meshes
// without a material get a default one so the entrance fade reaches them, and every model
// mesh joins the bloom layer. Clones inherit both.
func (a *app) onLoad(r loader.Result) {
	group := scene.NewModelGroup(r.Model)
	meshes := scene.Meshes(group)
	for _, m := range meshes {
		if m.Material() == nil {
			m.SetMaterial(material.NewMaterial(material.WithName(m.Name())))
		}
		m.EnableLayer(bloom.BloomLayer)
	}

	width, _ := a.renderer.Size()
	if err := a.orchestrator.OnModelLoaded(group, float32(width)); err != nil {
		log.Printf("[App] %s: %v", r.Source, err)
		return
	}
	log.Printf("[App] %s ready: %d meshes, %d clones", r.Source, len(meshes), len(a.orchestrator.Clones()))
}

func (a *app) onLoadError(r loader.Result) {
	a.mu.Lock()
	a.loadErr = r.Err
	a.mu.Unlock()
	log.Printf("[App] %s failed to load, scene stays empty: %v", r.Source, r.Err)
	if errors.Is(r.Err, loader.ErrUnsupportedExtension) {
		log.Printf("[App] compressed meshes need a decoder registered with loader.WithDecompressor")
	}
}

// syncGizmo places the gizmo on the model group after the store has resolved.
func (a *app) syncGizmo(float32) {
	world := a.scene.WorldMatrix(a.inner)
	a.gizmo.Sync(a.controller.Snapshot(), [3]float32{world[12], world[13], world[14]}, a.inner.Rotation())
}

func (a *app) onResize(width, height int) {
	a.page.SetViewportHeight(float32(height))
}

package scene

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/camera"
	"github.com/Carmen-Shannon/oxy-bloom/engine/light"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
)

// Draw is one resolved renderable for a single render pass: the mesh, the material it
// held when the draw list was built, and its world and normal matrices.
type Draw struct {
	Mesh     Mesh
	Material material.Material
	World    [16]float32
	Normal   [16]float32
}

type scene struct {
	mu *sync.RWMutex

	name       string
	root       Node
	cam        camera.Camera
	lights     []light.Light
	fog        light.Fog
	background [4]float32
	store      TransformStore

	// computePool fans world-matrix preparation out across reusable goroutines
	// once the draw list reaches parallelThreshold entries.
	computePool       worker.DynamicWorkerPool
	computeWorkers    int
	parallelThreshold int
}

// Scene defines the interface for the scene graph: a node hierarchy under a root group
// plus the camera, lights, fog and background color used to draw it, and the transform
// store that producers write into between ticks.
type Scene interface {
	// Name returns the scene name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Root returns the root group.
	//
	// Returns:
	//   - Node: the root
	Root() Node

	// Add attaches nodes to the root group.
	//
	// Parameters:
	//   - nodes: the nodes to attach
	Add(nodes ...Node)

	// Find returns the first node in traversal order with the given name.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - Node: the node, or nil if none matches
	Find(name string) Node

	// Traverse walks every node depth first from the root, parents before children.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(Node))

	// Renderables returns every mesh and helper whose own and ancestor visibility is set,
	// in traversal order. The returned slice is a snapshot owned by the caller.
	//
	// Returns:
	//   - []Mesh: the visible renderables
	Renderables() []Mesh

	// WorldMatrix composes a node's local matrix with all of its ancestors.
	//
	// Parameters:
	//   - n: the node
	//
	// Returns:
	//   - [16]float32: the world matrix
	WorldMatrix(n Node) [16]float32

	// Draws builds the draw list for one render pass: every visible renderable with its
	// current material and world matrices. Matrix preparation runs on the compute pool
	// for large scenes and returns after all of it has finished.
	//
	// Returns:
	//   - []Draw: the draw list in traversal order
	Draws() []Draw

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera, or nil
	Camera() camera.Camera

	// SetCamera replaces the scene camera.
	//
	// Parameters:
	//   - cam: the camera
	SetCamera(cam camera.Camera)

	// Lights returns a copy of the scene lights.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// AddLight registers lights with the scene.
	//
	// Parameters:
	//   - lights: the lights to add
	AddLight(lights ...light.Light)

	// Fog returns the scene fog.
	//
	// Returns:
	//   - light.Fog: the fog
	Fog() light.Fog

	// SetFog replaces the scene fog.
	//
	// Parameters:
	//   - fog: the fog
	SetFog(fog light.Fog)

	// Background returns the clear color.
	//
	// Returns:
	//   - [4]float32: RGBA clear color
	Background() [4]float32

	// SetBackground replaces the clear color.
	//
	// Parameters:
	//   - c: RGBA clear color
	SetBackground(c [4]float32)

	// Store returns the transform store producers write into.
	//
	// Returns:
	//   - TransformStore: the store
	Store() TransformStore

	// Resolve applies the pending transform writes. Called once per tick.
	//
	// Returns:
	//   - int: the number of channels written
	Resolve() int

	// Close stops the compute pool.
	Close()
}

var _ Scene = &scene{}

// NewScene creates a new Scene with an empty root group.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:                &sync.RWMutex{},
		name:              name,
		root:              NewGroup(WithName("root")),
		background:        [4]float32{0, 0, 0, 1},
		computeWorkers:    max(runtime.NumCPU()-1, 1),
		parallelThreshold: 16,
	}

	for _, option := range options {
		option(s)
	}
	if s.store == nil {
		s.store = NewTransformStore()
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) Add(nodes ...Node) {
	s.root.Add(nodes...)
}

func (s *scene) Find(name string) Node {
	var found Node
	s.root.Traverse(func(n Node) {
		if found == nil && n.Name() == name {
			found = n
		}
	})
	return found
}

func (s *scene) Traverse(fn func(Node)) {
	s.root.Traverse(fn)
}

func (s *scene) Renderables() []Mesh {
	var out []Mesh
	walkVisible(s.root, func(m Mesh, _ [16]float32) {
		out = append(out, m)
	}, identity())
	return out
}

func (s *scene) WorldMatrix(n Node) [16]float32 {
	world := n.LocalMatrix()
	for p := n.Parent(); p != nil; p = p.Parent() {
		local := p.LocalMatrix()
		var out [16]float32
		common.Mul4(out[:], local[:], world[:])
		world = out
	}
	return world
}

func (s *scene) Draws() []Draw {
	type pending struct {
		mesh        Mesh
		parentWorld [16]float32
	}
	var items []pending
	walkVisible(s.root, func(m Mesh, parentWorld [16]float32) {
		items = append(items, pending{mesh: m, parentWorld: parentWorld})
	}, identity())

	draws := make([]Draw, len(items))
	prepare := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			it := items[i]
			local := it.mesh.LocalMatrix()
			d := &draws[i]
			d.Mesh = it.mesh
			d.Material = it.mesh.Material()
			common.Mul4(d.World[:], it.parentWorld[:], local[:])
			common.NormalMatrix(d.Normal[:], d.World[:])
		}
	}

	if len(items) < s.parallelThreshold || s.computeWorkers < 2 {
		prepare(0, len(items))
		return draws
	}

	// The WaitGroup is the per-frame barrier; pool.Wait() blocks until workers
	// idle-exit, which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	chunk := (len(items) + s.computeWorkers - 1) / s.computeWorkers
	taskID := 0
	for lo := 0; lo < len(items); lo += chunk {
		hi := min(lo+chunk, len(items))
		wg.Add(1)
		id := taskID
		taskID++
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				prepare(lo, hi)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return draws
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) AddLight(lights ...light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, lights...)
}

func (s *scene) Fog() light.Fog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fog
}

func (s *scene) SetFog(fog light.Fog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fog = fog
}

func (s *scene) Background() [4]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackground(c [4]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

func (s *scene) Store() TransformStore {
	return s.store
}

func (s *scene) Resolve() int {
	return s.store.Resolve()
}

func (s *scene) Close() {
	s.computePool.Stop()
}

// walkVisible visits every visible renderable, skipping hidden subtrees, and passes the
// world matrix of its parent.
func walkVisible(n Node, fn func(Mesh, [16]float32), parentWorld [16]float32) {
	if !n.Visible() {
		return
	}
	if m, ok := n.(Mesh); ok {
		fn(m, parentWorld)
	}
	children := n.Children()
	if len(children) == 0 {
		return
	}
	local := n.LocalMatrix()
	var world [16]float32
	common.Mul4(world[:], parentWorld[:], local[:])
	for _, c := range children {
		walkVisible(c, fn, world)
	}
}

func identity() [16]float32 {
	var m [16]float32
	common.Identity(m[:])
	return m
}

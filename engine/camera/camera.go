package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	frustumSize float32
	aspect      float32
	near        float32
	far         float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller Controller
}

// Camera defines the interface for the orthographic scene camera.
// The camera holds frustum settings and computes view/projection matrices
// from an attached Controller each frame via Update().
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - [3]float32: up vector components
	Up() [3]float32

	// FrustumSize returns the vertical extent of the orthographic view volume in world units.
	//
	// Returns:
	//   - float32: the frustum height
	FrustumSize() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Position returns the camera's world-space position as reported by the controller.
	//
	// Returns:
	//   - [3]float32: the eye position, or the origin when no controller is attached
	Position() [3]float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Controller returns the attached Controller.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - Controller: the attached controller or nil
	Controller() Controller

	// Update reads position, target and zoom from the controller and recomputes matrices.
	// Should be called once per frame. If no controller is attached, this method does nothing.
	Update()

	// SetFrustumSize sets the vertical extent of the view volume and recomputes matrices.
	//
	// Parameters:
	//   - size: the frustum height in world units
	SetFrustumSize(size float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Called on every framebuffer resize.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetController attaches a Controller to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl Controller)

	// GPUData packs the current matrices and eye position for upload.
	//
	// Returns:
	//   - GPUCameraUniform: the GPU camera uniform
	GPUData() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new orthographic Camera.
// A controller must be attached via SetController or WithController
// before position/target data is available.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		up:          [3]float32{0, 1, 0},
		frustumSize: 10,
		aspect:      1,
		near:        0.1,
		far:         100,
	}
	common.Identity(c.viewMatrix[:])
	common.Identity(c.projectionMatrix[:])
	common.Identity(c.viewProjectionMatrix[:])
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) FrustumSize() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustumSize
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	ctrl := c.controller
	c.mu.Unlock()
	if ctrl == nil {
		return [3]float32{}
	}
	return ctrl.Position()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetFrustumSize(size float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frustumSize = size
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) GPUData() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	var eye [3]float32
	if c.controller != nil {
		eye = c.controller.Position()
	}
	return GPUCameraUniform{
		ViewProj:       c.viewProjectionMatrix,
		View:           c.viewMatrix,
		CameraPosition: eye,
	}
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// The view matrix is left at identity while no controller is attached.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	zoom := float32(1)
	if c.controller != nil {
		common.LookAt(c.viewMatrix[:], c.controller.Position(), c.controller.Target(), c.up)
		zoom = c.controller.ZoomFactor()
	}

	halfH := c.frustumSize / 2 / zoom
	halfW := halfH * c.aspect
	common.Orthographic(c.projectionMatrix[:], -halfW, halfW, -halfH, halfH, c.near, c.far)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}

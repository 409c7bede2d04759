package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// Controller owns the camera's positional state (eye, target, zoom).
// The Camera reads from it and computes view/projection matrices.
//
// The single implementation is an orbit controller: drag input rotates the eye
// around the target on a sphere, wheel input scales the orthographic zoom.
// Input is ignored while the enabled predicate reports false.
type Controller interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: world-space camera position
	Position() [3]float32

	// Target returns the look-at point.
	//
	// Returns:
	//   - [3]float32: world-space target position
	Target() [3]float32

	// ZoomFactor returns the orthographic zoom multiplier. Larger values show less of the scene.
	//
	// Returns:
	//   - float32: the zoom factor
	ZoomFactor() float32

	// Enabled reports whether orbit input is currently accepted.
	//
	// Returns:
	//   - bool: true if the enabled predicate passes
	Enabled() bool

	// Rotate orbits the eye around the target by a pointer drag delta in pixels.
	// Elevation is clamped so the eye never crosses the poles.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels
	//   - dy: vertical drag in pixels
	Rotate(dx, dy float32)

	// Zoom scales the orthographic zoom by one wheel step.
	// Positive delta zooms in.
	//
	// Parameters:
	//   - delta: wheel offset
	Zoom(delta float32)

	// Radius returns the current distance between eye and target.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// Azimuth returns the horizontal angle around the target's Y axis.
	//
	// Returns:
	//   - float32: the azimuth in radians
	Azimuth() float32

	// Elevation returns the vertical angle above the target's horizontal plane.
	//
	// Returns:
	//   - float32: the elevation in radians
	Elevation() float32
}

// orbitController is the orbit implementation of Controller.
type orbitController struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	// spherical offset from target
	radius    float32
	azimuth   float32
	elevation float32

	minElevation float32
	maxElevation float32

	zoom    float32
	minZoom float32
	maxZoom float32

	rotateSpeed float32
	zoomSpeed   float32

	enabled func() bool
}

var _ Controller = &orbitController{}

// NewOrbitController creates an orbit controller. The spherical coordinates are
// derived from the configured eye position and target, so the initial view matches
// a camera placed at that position.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewOrbitController(options ...ControllerBuilderOption) Controller {
	oc := &orbitController{
		mu:           &sync.Mutex{},
		position:     [3]float32{0, 0, 10},
		minElevation: -math32.Pi/2 + 0.01,
		maxElevation: math32.Pi/2 - 0.01,
		zoom:         1,
		minZoom:      0.1,
		maxZoom:      10,
		rotateSpeed:  2 * math32.Pi / 1000,
		zoomSpeed:    0.95,
		enabled:      func() bool { return true },
	}
	for _, option := range options {
		option(oc)
	}
	oc.syncSpherical()
	return oc
}

// syncSpherical derives radius, azimuth and elevation from position and target.
// Caller must hold the mutex or own the controller exclusively.
func (oc *orbitController) syncSpherical() {
	dx := oc.position[0] - oc.target[0]
	dy := oc.position[1] - oc.target[1]
	dz := oc.position[2] - oc.target[2]
	oc.radius = math32.Sqrt(dx*dx + dy*dy + dz*dz)
	if oc.radius < 1e-6 {
		oc.radius = 1e-6
		return
	}
	oc.azimuth = math32.Atan2(dx, dz)
	oc.elevation = math32.Asin(dy / oc.radius)
}

// updatePosition recomputes the eye position from spherical coordinates.
// Caller must hold the mutex.
func (oc *orbitController) updatePosition() {
	cosElev := math32.Cos(oc.elevation)
	sinElev := math32.Sin(oc.elevation)
	cosAzim := math32.Cos(oc.azimuth)
	sinAzim := math32.Sin(oc.azimuth)

	oc.position[0] = oc.target[0] + oc.radius*cosElev*sinAzim
	oc.position[1] = oc.target[1] + oc.radius*sinElev
	oc.position[2] = oc.target[2] + oc.radius*cosElev*cosAzim
}

func (oc *orbitController) Position() [3]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.position
}

func (oc *orbitController) Target() [3]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

func (oc *orbitController) ZoomFactor() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.zoom
}

func (oc *orbitController) Enabled() bool {
	return oc.enabled()
}

func (oc *orbitController) Rotate(dx, dy float32) {
	if !oc.enabled() {
		return
	}
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth -= dx * oc.rotateSpeed
	oc.elevation += dy * oc.rotateSpeed
	if oc.elevation < oc.minElevation {
		oc.elevation = oc.minElevation
	}
	if oc.elevation > oc.maxElevation {
		oc.elevation = oc.maxElevation
	}
	oc.updatePosition()
}

func (oc *orbitController) Zoom(delta float32) {
	if !oc.enabled() || delta == 0 {
		return
	}
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if delta > 0 {
		oc.zoom /= oc.zoomSpeed
	} else {
		oc.zoom *= oc.zoomSpeed
	}
	oc.zoom = math32.Max(oc.minZoom, math32.Min(oc.maxZoom, oc.zoom))
}

func (oc *orbitController) Radius() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.radius
}

func (oc *orbitController) Azimuth() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.azimuth
}

func (oc *orbitController) Elevation() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.elevation
}

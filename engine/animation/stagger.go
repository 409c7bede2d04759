package animation

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/chewxy/math32"
)

const (
	// StaggerRotationStep is the Z rotation, in radians, added per clone index.
	StaggerRotationStep = math32.Pi / 1000

	// StaggerDepthStep is the Z offset added per clone index.
	StaggerDepthStep float32 = 0.03
)

// StaggerOffset returns the resting Z rotation and Z position of the clone at 1-based index i.
//
// Parameters:
//   - i: the clone index, starting at 1
//
// Returns:
//   - rotZ: -(π/1000)·i
//   - posZ: -i·0.03
func StaggerOffset(i int) (rotZ, posZ float32) {
	return -StaggerRotationStep * float32(i), -float32(i) * StaggerDepthStep
}

type cloneStagger struct {
	mu *sync.Mutex

	tweens   []Tween
	clones   int
	duration float32
	delay    float32
	ease     Ease
	onStart  func()

	clock   float32
	started bool
	done    bool

	pool              worker.DynamicWorkerPool
	workers           int
	parallelThreshold int
}

// CloneStagger fans a row of clones out into a trailing arrangement. The clone at 1-based
// index i tweens its Z rotation to -(π/1000)·i and its Z position to -i·0.03. The last
// clone of the row is the anchor and keeps its pose.
type CloneStagger interface {
	// Advance moves the stagger clock forward and renders every clone tween. Large fans
	// are rendered on the worker pool and Advance returns after all of them finish.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//
	// Returns:
	//   - bool: true once every clone has reached its offset
	Advance(dt float32) bool

	// Done reports whether every clone has reached its offset.
	//
	// Returns:
	//   - bool: true once complete
	Done() bool

	// Len returns the number of clones that move.
	//
	// Returns:
	//   - int: the moving clone count
	Len() int

	// Close stops the worker pool.
	Close()
}

var _ CloneStagger = &cloneStagger{}

// NewCloneStagger creates the stagger for a clone row. The start values are read from
// the clones at construction.
//
// Parameters:
//   - clones: the clones in fan order
//   - store: the transform store the tweens write into, in the timeline layer
//   - options: functional options to configure the stagger
//
// Returns:
//   - CloneStagger: the stagger
func NewCloneStagger(clones []scene.Node, store scene.TransformStore, options ...StaggerBuilderOption) CloneStagger {
	s := &cloneStagger{
		mu:                &sync.Mutex{},
		duration:          1,
		delay:             1,
		ease:              PowerInOut(2),
		workers:           max(runtime.NumCPU()-1, 1),
		parallelThreshold: 16,
	}
	for _, option := range options {
		option(s)
	}

	for i := 1; i < len(clones); i++ {
		c := clones[i-1]
		rotZ, posZ := StaggerOffset(i)
		opts := []TweenBuilderOption{WithEase(s.ease), WithDelay(s.delay)}
		s.tweens = append(s.tweens,
			NewScalarTween(AxisSetter(store, c, scene.ChannelRotation, scene.ProducerTimeline, common.AxisZ), c.Rotation()[2], rotZ, s.duration, opts...),
			NewScalarTween(AxisSetter(store, c, scene.ChannelPosition, scene.ProducerTimeline, common.AxisZ), c.Position()[2], posZ, s.duration, opts...),
		)
	}
	s.clones = len(s.tweens) / 2

	if s.clones >= s.parallelThreshold && s.workers > 1 {
		s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	}
	return s
}

func (s *cloneStagger) Advance(dt float32) bool {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return true
	}
	s.clock += dt
	at := s.clock
	fireStart := !s.started && at >= s.delay && len(s.tweens) > 0
	if fireStart {
		s.started = true
	}
	onStart := s.onStart
	s.mu.Unlock()

	if fireStart && onStart != nil {
		onStart()
	}
	s.render(at)

	done := true
	for _, tw := range s.tweens {
		if !tw.Done() {
			done = false
			break
		}
	}
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()
	return done
}

func (s *cloneStagger) render(at float32) {
	renderRange := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			s.tweens[i].Render(at)
		}
	}
	if s.pool == nil {
		renderRange(0, len(s.tweens))
		return
	}

	// Per-tick barrier; the pool itself only idles out.
	var wg sync.WaitGroup
	chunk := (len(s.tweens) + s.workers - 1) / s.workers
	taskID := 0
	for lo := 0; lo < len(s.tweens); lo += chunk {
		hi := min(lo+chunk, len(s.tweens))
		wg.Add(1)
		id := taskID
		taskID++
		s.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				renderRange(lo, hi)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *cloneStagger) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *cloneStagger) Len() int {
	return s.clones
}

func (s *cloneStagger) Close() {
	if s.pool != nil {
		s.pool.Stop()
	}
}

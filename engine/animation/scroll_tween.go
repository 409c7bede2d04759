package animation

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/engine/page"
)

// DefaultScrub is the catch-up time, in seconds, used by scroll-linked tweens.
const DefaultScrub float32 = 1

// ProgressSource reports a progress value in [0, 1]. page.Trigger satisfies it.
type ProgressSource interface {
	Progress() float32
}

var _ ProgressSource = page.Trigger(nil)

var scrubEase = PowerOut(3)

type scrollTween struct {
	mu *sync.Mutex

	tween  Tween
	source ProgressSource
	scrub  float32

	displayed float32
	rendered  float32

	chaseFrom float32
	chaseTo   float32
	chaseTime float32
}

// ScrollTween drives a Tween from a scroll position instead of a clock. The displayed
// progress follows the source progress with a smoothed catch-up lasting scrub seconds,
// and the tween is rendered only while the displayed progress moves. Scrolling back to the
// start renders progress 0, which writes the tween's start value exactly.
type ScrollTween interface {
	// Update samples the source and moves the displayed progress toward it.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//
	// Returns:
	//   - bool: true if the tween was rendered
	Update(dt float32) bool

	// Progress returns the displayed progress.
	//
	// Returns:
	//   - float32: the progress in [0, 1]
	Progress() float32

	// Target returns the progress the displayed value is moving toward.
	//
	// Returns:
	//   - float32: the progress in [0, 1]
	Target() float32

	// Settled reports whether the displayed progress has caught up with the target.
	//
	// Returns:
	//   - bool: true when no catch-up is in flight
	Settled() bool
}

var _ ScrollTween = &scrollTween{}

// NewScrollTween links a tween to a progress source. The tween's progress 0..1 is mapped to
// its duration, so the tween's ease shapes the scroll response.
//
// Parameters:
//   - tw: the tween to drive; it should have no delay
//   - source: the scroll progress, usually a page.Trigger
//   - scrub: catch-up time in seconds; 0 follows the source immediately
//
// Returns:
//   - ScrollTween: the scroll-linked tween
func NewScrollTween(tw Tween, source ProgressSource, scrub float32) ScrollTween {
	return &scrollTween{
		mu:     &sync.Mutex{},
		tween:  tw,
		source: source,
		scrub:  max(scrub, 0),
	}
}

func (s *scrollTween) Update(dt float32) bool {
	target := clamp01(s.source.Progress())

	s.mu.Lock()
	if target != s.chaseTo {
		s.chaseFrom, s.chaseTo, s.chaseTime = s.displayed, target, 0
	}
	s.chaseTime += dt

	if s.scrub == 0 || s.chaseTime >= s.scrub {
		s.displayed = s.chaseTo
	} else {
		k := scrubEase(s.chaseTime / s.scrub)
		s.displayed = s.chaseFrom + (s.chaseTo-s.chaseFrom)*k
	}

	if s.displayed == s.rendered {
		s.mu.Unlock()
		return false
	}
	s.rendered = s.displayed
	at := s.displayed * s.tween.Duration()
	s.mu.Unlock()

	s.tween.Render(at)
	return true
}

func (s *scrollTween) Progress() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed
}

func (s *scrollTween) Target() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chaseTo
}

func (s *scrollTween) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed == s.chaseTo
}

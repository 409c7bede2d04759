// Package page models the host document the scene is embedded in: a viewport scrolled over a
// column of named sections. Scroll-linked animation reads its progress from Triggers bound to
// those sections.
package page

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSectionNotFound is returned when a trigger names a section the page does not have.
var ErrSectionNotFound = errors.New("page: section not found")

// Section is a named block of the document, in document pixels from the top of the page.
type Section struct {
	Name   string  `toml:"name" yaml:"name"`
	Top    float32 `toml:"top" yaml:"top"`
	Height float32 `toml:"height" yaml:"height"`
}

// Bottom returns the document offset of the section's bottom edge.
func (s Section) Bottom() float32 {
	return s.Top + s.Height
}

type page struct {
	mu *sync.Mutex

	viewportHeight float32
	documentHeight float32
	scrollY        float32
	locked         bool
	sections       []Section
	triggers       []*trigger
}

// Page is a virtual scrolling document. The viewport scrolls between 0 and MaxScroll
// unless the page is locked, which mirrors a body with overflow hidden.
type Page interface {
	// ViewportHeight returns the visible height in pixels.
	//
	// Returns:
	//   - float32: the viewport height
	ViewportHeight() float32

	// SetViewportHeight changes the visible height and clamps the scroll offset to the new range.
	// Non-positive heights are ignored.
	//
	// Parameters:
	//   - h: the new viewport height
	SetViewportHeight(h float32)

	// DocumentHeight returns the full document height: the explicit height if one was set,
	// otherwise the bottom of the lowest section, and never less than the viewport.
	//
	// Returns:
	//   - float32: the document height
	DocumentHeight() float32

	// ScrollY returns the current scroll offset.
	//
	// Returns:
	//   - float32: the offset of the viewport top from the document top
	ScrollY() float32

	// MaxScroll returns the largest reachable scroll offset.
	//
	// Returns:
	//   - float32: DocumentHeight minus ViewportHeight, or 0
	MaxScroll() float32

	// Locked reports whether user scrolling is disabled.
	//
	// Returns:
	//   - bool: true while locked
	Locked() bool

	// SetLocked enables or disables user scrolling.
	//
	// Parameters:
	//   - locked: true to disable scrolling
	SetLocked(locked bool)

	// Scroll moves the viewport by delta pixels, positive toward the bottom. It does nothing
	// while the page is locked.
	//
	// Parameters:
	//   - delta: the scroll distance
	//
	// Returns:
	//   - bool: true if the offset changed
	Scroll(delta float32) bool

	// ScrollTo moves the viewport to an absolute offset, clamped to [0, MaxScroll].
	// Programmatic scrolling is allowed while locked.
	//
	// Parameters:
	//   - y: the target offset
	ScrollTo(y float32)

	// Section looks a section up by name.
	//
	// Parameters:
	//   - name: the section name
	//
	// Returns:
	//   - Section: the section
	//   - bool: false if no section has that name
	Section(name string) (Section, bool)

	// Sections returns a copy of every section in document order.
	//
	// Returns:
	//   - []Section: the sections
	Sections() []Section

	// NewTrigger binds a Trigger to a named section.
	//
	// Parameters:
	//   - section: the section name
	//   - options: functional options configuring the edges and callbacks
	//
	// Returns:
	//   - Trigger: the trigger, registered with the page
	//   - error: ErrSectionNotFound, or an edge parse error
	NewTrigger(section string, options ...TriggerBuilderOption) (Trigger, error)

	// Update re-evaluates every trigger against the current scroll offset and fires the
	// callbacks of any whose state or progress changed. Called once per tick.
	Update()
}

var _ Page = &page{}

// NewPage creates a Page. The page starts at scroll offset 0 and locked.
//
// Parameters:
//   - viewportHeight: the visible height in pixels
//   - options: functional options to configure the page
//
// Returns:
//   - Page: the newly created page
func NewPage(viewportHeight float32, options ...PageBuilderOption) Page {
	p := &page{
		mu:             &sync.Mutex{},
		viewportHeight: max(viewportHeight, 1),
		locked:         true,
	}
	for _, option := range options {
		option(p)
	}
	p.scrollY = clampScroll(p.scrollY, p.maxScroll())
	return p
}

func (p *page) ViewportHeight() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewportHeight
}

func (p *page) SetViewportHeight(h float32) {
	if h <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.viewportHeight = h
	p.scrollY = clampScroll(p.scrollY, p.maxScroll())
}

func (p *page) DocumentHeight() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.docHeight()
}

func (p *page) docHeight() float32 {
	h := p.documentHeight
	if h <= 0 {
		for _, s := range p.sections {
			h = max(h, s.Bottom())
		}
	}
	return max(h, p.viewportHeight)
}

func (p *page) ScrollY() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrollY
}

func (p *page) MaxScroll() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxScroll()
}

func (p *page) maxScroll() float32 {
	return max(p.docHeight()-p.viewportHeight, 0)
}

func (p *page) Locked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locked
}

func (p *page) SetLocked(locked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locked = locked
}

func (p *page) Scroll(delta float32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.locked || delta == 0 {
		return false
	}
	next := clampScroll(p.scrollY+delta, p.maxScroll())
	if next == p.scrollY {
		return false
	}
	p.scrollY = next
	return true
}

func (p *page) ScrollTo(y float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrollY = clampScroll(y, p.maxScroll())
}

func (p *page) Section(name string) (Section, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.section(name)
}

func (p *page) section(name string) (Section, bool) {
	for _, s := range p.sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

func (p *page) Sections() []Section {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Section, len(p.sections))
	copy(out, p.sections)
	return out
}

func (p *page) NewTrigger(section string, options ...TriggerBuilderOption) (Trigger, error) {
	p.mu.Lock()
	s, ok := p.section(section)
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, section)
	}

	t, err := newTrigger(s, options)
	if err != nil {
		return nil, fmt.Errorf("trigger on %q: %w", section, err)
	}

	p.mu.Lock()
	p.triggers = append(p.triggers, t)
	p.mu.Unlock()
	return t, nil
}

func (p *page) Update() {
	p.mu.Lock()
	scrollY, viewport := p.scrollY, p.viewportHeight
	triggers := make([]*trigger, len(p.triggers))
	copy(triggers, p.triggers)
	p.mu.Unlock()

	// Callbacks run without the page lock so they may scroll or lock the page.
	for _, t := range triggers {
		t.update(scrollY, viewport)
	}
}

func clampScroll(y, maxScroll float32) float32 {
	if y < 0 {
		return 0
	}
	if y > maxScroll {
		return maxScroll
	}
	return y
}

package page

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrBadEdge is returned when a trigger edge string cannot be parsed.
var ErrBadEdge = errors.New("page: bad trigger edge")

// TriggerState is where the scroll offset sits relative to a trigger's range.
type TriggerState int

const (
	// TriggerBefore means the scroll offset has not reached the start.
	TriggerBefore TriggerState = iota

	// TriggerActive means the scroll offset is between start and end.
	TriggerActive

	// TriggerAfter means the scroll offset is past the end.
	TriggerAfter
)

// String returns a readable name for the state.
func (s TriggerState) String() string {
	switch s {
	case TriggerBefore:
		return "before"
	case TriggerActive:
		return "active"
	case TriggerAfter:
		return "after"
	default:
		return "unknown"
	}
}

const (
	defaultStart = "top bottom"
	defaultEnd   = "bottom top"
)

// offset is one side of an edge: a fixed pixel amount plus a fraction of a reference height.
type offset struct {
	px       float32
	fraction float32
}

func (o offset) resolve(height float32) float32 {
	return o.px + o.fraction*height
}

// edge marks a scroll offset: the moment the element point meets the viewport point.
type edge struct {
	element  offset
	viewport offset
}

// position returns the scroll offset at which the edge is crossed.
func (e edge) position(s Section, viewportHeight float32) float32 {
	return s.Top + e.element.resolve(s.Height) - e.viewport.resolve(viewportHeight)
}

// parseEdge reads "<element> <viewport>", where each side is top, center, bottom, N% or
// Npx. A single word applies to the element and leaves the viewport side at top.
func parseEdge(s string) (edge, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return edge{}, fmt.Errorf("%w: %q", ErrBadEdge, s)
	}
	el, err := parseOffset(fields[0])
	if err != nil {
		return edge{}, fmt.Errorf("%w: %q", ErrBadEdge, s)
	}
	var vp offset
	if len(fields) == 2 {
		if vp, err = parseOffset(fields[1]); err != nil {
			return edge{}, fmt.Errorf("%w: %q", ErrBadEdge, s)
		}
	}
	return edge{element: el, viewport: vp}, nil
}

func parseOffset(s string) (offset, error) {
	switch s {
	case "top":
		return offset{}, nil
	case "center":
		return offset{fraction: 0.5}, nil
	case "bottom":
		return offset{fraction: 1}, nil
	}
	if v, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return offset{}, err
		}
		return offset{fraction: float32(f) / 100}, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 32)
	if err != nil {
		return offset{}, err
	}
	return offset{px: float32(f)}, nil
}

type trigger struct {
	mu *sync.Mutex

	section  Section
	startRaw string
	endRaw   string
	start    edge
	end      edge

	state    TriggerState
	progress float32
	startY   float32
	endY     float32

	onEnter     func()
	onLeave     func()
	onEnterBack func()
	onLeaveBack func()
	onUpdate    func(progress float32)
}

// Trigger tracks the scroll offset across a range defined by two edges of a section.
// Progress is 0 at the start edge and 1 at the end edge. State changes fire the
// enter/leave callbacks in both directions, so a range skipped over in one update still
// reports both crossings.
type Trigger interface {
	// Section returns the section the trigger is bound to.
	//
	// Returns:
	//   - Section: the section
	Section() Section

	// Start returns the scroll offset of the start edge as of the last update.
	//
	// Returns:
	//   - float32: the start offset
	Start() float32

	// End returns the scroll offset of the end edge as of the last update.
	//
	// Returns:
	//   - float32: the end offset
	End() float32

	// Progress returns the position inside the range as of the last update, clamped to [0, 1].
	//
	// Returns:
	//   - float32: the progress
	Progress() float32

	// State returns the state as of the last update.
	//
	// Returns:
	//   - TriggerState: the state
	State() TriggerState

	// IsActive reports whether the scroll offset was inside the range at the last update.
	//
	// Returns:
	//   - bool: true when the state is TriggerActive
	IsActive() bool
}

var _ Trigger = &trigger{}

func newTrigger(s Section, options []TriggerBuilderOption) (*trigger, error) {
	t := &trigger{
		mu:       &sync.Mutex{},
		section:  s,
		startRaw: defaultStart,
		endRaw:   defaultEnd,
		state:    TriggerBefore,
	}
	for _, option := range options {
		option(t)
	}

	var err error
	if t.start, err = parseEdge(t.startRaw); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if t.end, err = parseEdge(t.endRaw); err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return t, nil
}

func (t *trigger) Section() Section {
	return t.section
}

func (t *trigger) Start() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startY
}

func (t *trigger) End() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.endY
}

func (t *trigger) Progress() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

func (t *trigger) State() TriggerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *trigger) IsActive() bool {
	return t.State() == TriggerActive
}

// update recomputes the range for the current viewport, then the state and progress, and
// fires the callbacks for whatever changed.
func (t *trigger) update(scrollY, viewportHeight float32) {
	t.mu.Lock()
	t.startY = t.start.position(t.section, viewportHeight)
	t.endY = t.end.position(t.section, viewportHeight)

	next := TriggerActive
	switch {
	case scrollY < t.startY:
		next = TriggerBefore
	case scrollY > t.endY:
		next = TriggerAfter
	}

	var progress float32
	if span := t.endY - t.startY; span > 0 {
		progress = min(max((scrollY-t.startY)/span, 0), 1)
	} else if scrollY >= t.startY {
		progress = 1
	}

	prev, prevProgress := t.state, t.progress
	t.state, t.progress = next, progress
	fired := t.transitions(prev, next)
	onUpdate := t.onUpdate
	t.mu.Unlock()

	for _, fn := range fired {
		if fn != nil {
			fn()
		}
	}
	if onUpdate != nil && progress != prevProgress {
		onUpdate(progress)
	}
}

// transitions lists the callbacks crossing from prev to next fires, in crossing order.
func (t *trigger) transitions(prev, next TriggerState) []func() {
	switch {
	case prev == next:
		return nil
	case prev == TriggerBefore && next == TriggerActive:
		return []func(){t.onEnter}
	case prev == TriggerBefore && next == TriggerAfter:
		return []func(){t.onEnter, t.onLeave}
	case prev == TriggerActive && next == TriggerAfter:
		return []func(){t.onLeave}
	case prev == TriggerAfter && next == TriggerActive:
		return []func(){t.onEnterBack}
	case prev == TriggerAfter && next == TriggerBefore:
		return []func(){t.onEnterBack, t.onLeaveBack}
	default:
		return []func(){t.onLeaveBack}
	}
}

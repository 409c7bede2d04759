// Package panel is the terminal control panel: mode buttons, axis nudges, a step slider and
// the snap, bloom and orbit toggles. The panel never edits scene state. Clicks and keys are
// pushed to the input dispatcher as commands, and the panel redraws from the controller
// snapshots and scene flags it is handed.
package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/transform"
	"github.com/gdamore/tcell/v2"
)

// DefaultSliderWidth is the number of cells in the step slider.
const DefaultSliderWidth = 20

var (
	styleDefault = tcell.StyleDefault
	styleActive  = tcell.StyleDefault.Reverse(true)
	styleTitle   = tcell.StyleDefault.Bold(true)
	styleDim     = tcell.StyleDefault.Dim(true)
)

// Button is one clickable region of the last drawn layout.
type Button struct {
	Label   string
	X, Y    int
	Width   int
	Active  bool
	Command input.Command
}

func (b Button) contains(x, y int) bool {
	return y == b.Y && x >= b.X && x < b.X+b.Width
}

type panel struct {
	mu *sync.Mutex

	screen     tcell.Screen
	dispatcher input.Dispatcher

	title       string
	sliderWidth int

	snapshot transform.Snapshot
	state    common.SceneState
	buttons  []Button
	pressed  tcell.ButtonMask

	done      chan struct{}
	closeOnce sync.Once
}

// Panel is a terminal UI mirroring the transform controller.
type Panel interface {
	// Run polls terminal events until ctx is cancelled, the panel is closed, or the user quits
	// with Ctrl+C.
	//
	// Parameters:
	//   - ctx: stops the loop when cancelled
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, nil otherwise
	Run(ctx context.Context) error

	// HandleEvent processes one terminal event.
	//
	// Parameters:
	//   - ev: the event
	//
	// Returns:
	//   - bool: false when the event asks the panel to stop
	HandleEvent(ev tcell.Event) bool

	// Update takes a controller snapshot and redraws. Safe to pass to Controller.Subscribe.
	Update(s transform.Snapshot)

	// SetState takes the scene flags and redraws.
	SetState(s common.SceneState)

	// Visible reports whether the full panel is drawn.
	Visible() bool

	// Buttons returns the layout of the last draw.
	Buttons() []Button

	// Draw redraws the screen.
	Draw()

	// Close releases the terminal. Safe to call more than once.
	Close()
}

var _ Panel = &panel{}

// NewPanel creates a Panel drawing on an initialized screen.
//
// Parameters:
//   - screen: an initialized tcell screen
//   - d: the dispatcher commands are pushed to
//   - options: variadic PanelBuilderOption functions
//
// Returns:
//   - Panel: the panel
func NewPanel(screen tcell.Screen, d input.Dispatcher, options ...PanelBuilderOption) Panel {
	p := &panel{
		mu:          &sync.Mutex{},
		screen:      screen,
		dispatcher:  d,
		title:       "oxy-bloom",
		sliderWidth: DefaultSliderWidth,
		snapshot: transform.Snapshot{
			Mode: transform.ModeTranslate,
			Step: transform.DefaultStep,
			Size: transform.DefaultSize,
			Axes: [3]bool{true, true, true},
		},
		state: common.SceneState{PanelVisible: true},
		done:  make(chan struct{}),
	}
	for _, option := range options {
		option(p)
	}
	screen.EnableMouse()
	return p
}

// Open creates and initializes a terminal screen and returns a Panel on it.
//
// Parameters:
//   - d: the dispatcher commands are pushed to
//   - options: variadic PanelBuilderOption functions
//
// Returns:
//   - Panel: the panel
//   - error: an error if the terminal could not be initialized
func Open(d input.Dispatcher, options ...PanelBuilderOption) (Panel, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	return NewPanel(screen, d, options...), nil
}

func (p *panel) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-p.done:
				return
			}
		}
	}()

	p.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case ev, ok := <-events:
			if !ok || !p.HandleEvent(ev) {
				return nil
			}
		}
	}
}

func (p *panel) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return p.handleKey(ev)
	case *tcell.EventMouse:
		p.handleMouse(ev)
	case *tcell.EventResize:
		p.screen.Sync()
		p.Draw()
	}
	return true
}

func (p *panel) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		p.push(input.Command{Action: input.ActionQuit})
		return false
	case tcell.KeyLeft:
		p.push(input.Command{Action: input.ActionSetStep, Value: p.Snapshot().Step - transform.MinStep})
	case tcell.KeyRight:
		p.push(input.Command{Action: input.ActionSetStep, Value: p.Snapshot().Step + transform.MinStep})
	case tcell.KeyEscape:
		p.push(input.Command{Action: input.ActionResetGizmo})
	case tcell.KeyRune:
		if cmd, ok := runeCommand(ev.Rune()); ok {
			p.push(cmd)
		}
	}
	return true
}

// runeCommand maps the keys the panel shares with the window.
func runeCommand(r rune) (input.Command, bool) {
	switch r {
	case 'h', 'H':
		return input.Command{Action: input.ActionTogglePanel}, true
	case 'w':
		return input.Command{Action: input.ActionSetMode, Mode: int(transform.ModeTranslate)}, true
	case 'r':
		return input.Command{Action: input.ActionSetMode, Mode: int(transform.ModeRotate)}, true
	case 's':
		return input.Command{Action: input.ActionSetMode, Mode: int(transform.ModeScale)}, true
	case 'x':
		return input.Command{Action: input.ActionToggleAxis, Axis: common.AxisX}, true
	case 'y':
		return input.Command{Action: input.ActionToggleAxis, Axis: common.AxisY}, true
	case 'z':
		return input.Command{Action: input.ActionToggleAxis, Axis: common.AxisZ}, true
	case 'q':
		return input.Command{Action: input.ActionToggleSpace}, true
	case ' ':
		return input.Command{Action: input.ActionToggleOrbit}, true
	case 'b':
		return input.Command{Action: input.ActionToggleBloom}, true
	case '+', '=':
		return input.Command{Action: input.ActionResizeGizmo, Sign: 1}, true
	case '-':
		return input.Command{Action: input.ActionResizeGizmo, Sign: -1}, true
	}
	return input.Command{}, false
}

// handleMouse fires a button on the press edge of the primary button.
func (p *panel) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	p.mu.Lock()
	edge := buttons&tcell.Button1 != 0 && p.pressed&tcell.Button1 == 0
	p.pressed = buttons
	var hit *Button
	if edge {
		x, y := ev.Position()
		for i := range p.buttons {
			if p.buttons[i].contains(x, y) {
				hit = &p.buttons[i]
				break
			}
		}
	}
	p.mu.Unlock()

	if hit != nil {
		p.push(hit.Command)
	}
}

func (p *panel) push(cmd input.Command) {
	_ = p.dispatcher.Push(input.Do(cmd))
}

func (p *panel) Update(s transform.Snapshot) {
	p.mu.Lock()
	p.snapshot = s
	p.mu.Unlock()
	p.Draw()
}

func (p *panel) SetState(s common.SceneState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	p.Draw()
}

// Snapshot returns the last snapshot handed to Update.
func (p *panel) Snapshot() transform.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *panel) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.PanelVisible
}

func (p *panel) Buttons() []Button {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Button, len(p.buttons))
	copy(out, p.buttons)
	return out
}

func (p *panel) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.screen.Fini()
	})
}

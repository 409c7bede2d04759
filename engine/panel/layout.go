package panel

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/transform"
	"github.com/gdamore/tcell/v2"
)

// layout accumulates text and buttons for one draw.
type layout struct {
	screen  tcell.Screen
	buttons []Button
	x, y    int
}

func (l *layout) text(s string, style tcell.Style) {
	for _, r := range s {
		l.screen.SetContent(l.x, l.y, r, nil, style)
		l.x++
	}
}

func (l *layout) button(label string, active bool, cmd input.Command) {
	style := styleDefault
	if active {
		style = styleActive
	}
	b := Button{Label: label, X: l.x, Y: l.y, Width: len(label) + 2, Active: active, Command: cmd}
	l.text("["+label+"]", style)
	l.buttons = append(l.buttons, b)
	l.x++
}

func (l *layout) line() {
	l.x = 0
	l.y++
}

func (p *panel) Draw() {
	select {
	case <-p.done:
		return
	default:
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.screen.Clear()
	l := &layout{screen: p.screen}
	s := p.snapshot

	l.text(p.title, styleTitle)
	l.text("  ", styleDefault)
	if !p.state.PanelVisible {
		l.button("h show panel", false, input.Command{Action: input.ActionTogglePanel})
		p.buttons = l.buttons
		p.screen.Show()
		return
	}
	l.button("h hide", false, input.Command{Action: input.ActionTogglePanel})
	l.line()
	l.line()

	l.text("mode   ", styleDim)
	for _, m := range transform.Modes {
		l.button(m.String(), s.Mode == m, input.Command{Action: input.ActionSetMode, Mode: int(m)})
	}
	l.line()

	l.text("nudge  ", styleDim)
	for _, axis := range []common.Axis{common.AxisX, common.AxisY, common.AxisZ} {
		l.button(axis.String()+"-", false, input.Command{Action: input.ActionNudge, Axis: axis, Sign: -1})
		l.button(axis.String()+"+", false, input.Command{Action: input.ActionNudge, Axis: axis, Sign: 1})
	}
	l.line()

	l.text("step   ", styleDim)
	l.button("-", false, input.Command{Action: input.ActionSetStep, Value: s.Step - transform.MinStep})
	p.slider(l, s.Step)
	l.button("+", false, input.Command{Action: input.ActionSetStep, Value: s.Step + transform.MinStep})
	l.text(fmt.Sprintf("%.2f", s.Step), styleDefault)
	l.line()

	l.text("snap   ", styleDim)
	for _, m := range transform.Modes {
		l.button(m.String(), s.Snapping(m), input.Command{Action: input.ActionToggleSnap, Mode: int(m)})
	}
	l.line()

	l.text("axes   ", styleDim)
	for _, axis := range []common.Axis{common.AxisX, common.AxisY, common.AxisZ} {
		l.button(axis.String(), s.Axes[axis], input.Command{Action: input.ActionToggleAxis, Axis: axis})
	}
	l.button("space:"+s.Space.String(), s.Space == transform.SpaceLocal, input.Command{Action: input.ActionToggleSpace})
	l.line()

	l.text("view   ", styleDim)
	l.button("bloom", p.state.BloomEnabled, input.Command{Action: input.ActionToggleBloom})
	l.button("orbit", s.Orbit || p.state.OrbitEnabled, input.Command{Action: input.ActionToggleOrbit})
	l.button("reset", false, input.Command{Action: input.ActionResetGizmo})
	l.text(fmt.Sprintf("gizmo %.1f", s.Size), styleDefault)
	l.line()
	l.line()

	t := s.Target
	l.text(fmt.Sprintf("pos %6.2f %6.2f %6.2f", t.Position[0], t.Position[1], t.Position[2]), styleDim)
	l.line()
	l.text(fmt.Sprintf("rot %6.2f %6.2f %6.2f", t.Rotation[0], t.Rotation[1], t.Rotation[2]), styleDim)
	l.line()
	l.text(fmt.Sprintf("scl %6.2f %6.2f %6.2f", t.Scale[0], t.Scale[1], t.Scale[2]), styleDim)
	l.line()
	l.line()
	l.text("w/r/s mode  x/y/z axes  q space  b bloom  space orbit  +/- gizmo  esc reset  ctrl+c quit", styleDim)

	p.buttons = l.buttons
	p.screen.Show()
}

// slider draws the step bar. Each cell is a button setting the step it represents.
func (p *panel) slider(l *layout, step float32) {
	n := p.sliderWidth
	filled := int((step-transform.MinStep)/(transform.MaxStep-transform.MinStep)*float32(n-1) + 0.5)
	for i := 0; i < n; i++ {
		r, style := '-', styleDim
		if i <= filled {
			r, style = '=', styleDefault
		}
		l.screen.SetContent(l.x, l.y, r, nil, style)
		l.buttons = append(l.buttons, Button{
			Label:   fmt.Sprintf("slider%d", i),
			X:       l.x,
			Y:       l.y,
			Width:   1,
			Active:  i <= filled,
			Command: input.Command{Action: input.ActionSetStep, Value: sliderValue(i, n)},
		})
		l.x++
	}
	l.x++
}

// sliderValue maps cell i of n to a step in [MinStep, MaxStep].
func sliderValue(i, n int) float32 {
	if n <= 1 {
		return transform.MaxStep
	}
	return transform.MinStep + (transform.MaxStep-transform.MinStep)*float32(i)/float32(n-1)
}

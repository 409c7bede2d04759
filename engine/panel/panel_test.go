package panel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/input"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
	"github.com/Carmen-Shannon/oxy-bloom/engine/transform"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	screen   tcell.SimulationScreen
	d        input.Dispatcher
	p        Panel
	commands []input.Command
}

func newFixture(t *testing.T, options ...PanelBuilderOption) *fixture {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(120, 20)

	f := &fixture{screen: screen, d: input.NewDispatcher()}
	f.p = NewPanel(screen, f.d, options...)
	t.Cleanup(f.p.Close)
	t.Cleanup(f.d.Close)
	f.d.Subscribe(input.KindCommand, func(ev input.Event) {
		f.commands = append(f.commands, ev.Command)
	})
	f.p.Draw()
	return f
}

func (f *fixture) button(t *testing.T, label string, action input.Action) Button {
	t.Helper()
	for _, b := range f.p.Buttons() {
		if b.Label == label && b.Command.Action == action {
			return b
		}
	}
	t.Fatalf("no %s button labelled %q", action, label)
	return Button{}
}

func (f *fixture) click(b Button) {
	f.p.HandleEvent(tcell.NewEventMouse(b.X, b.Y, tcell.Button1, tcell.ModNone))
	f.p.HandleEvent(tcell.NewEventMouse(b.X, b.Y, tcell.ButtonNone, tcell.ModNone))
	f.d.Drain()
}

func (f *fixture) key(k tcell.Key, r rune) bool {
	ok := f.p.HandleEvent(tcell.NewEventKey(k, r, tcell.ModNone))
	f.d.Drain()
	return ok
}

func (f *fixture) row(y int) string {
	w, _ := f.screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := f.screen.GetContent(x, y)
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestModeButtonsAreExclusive(t *testing.T) {
	f := newFixture(t)
	state := &common.SceneState{}
	ctrl := transform.NewController(scene.NewGroup(), scene.NewTransformStore(), state)
	ctrl.Subscribe(f.p.Update)
	f.d.Subscribe(input.KindCommand, func(ev input.Event) {
		if ev.Command.Action == input.ActionSetMode {
			ctrl.SetMode(transform.Mode(ev.Command.Mode))
		}
	})

	for _, m := range []transform.Mode{transform.ModeScale, transform.ModeRotate, transform.ModeTranslate, transform.ModeRotate} {
		f.click(f.button(t, m.String(), input.ActionSetMode))
		assert.Equal(t, m, ctrl.Mode())

		var active []string
		for _, b := range f.p.Buttons() {
			if b.Command.Action == input.ActionSetMode && b.Active {
				active = append(active, b.Label)
			}
		}
		assert.Equal(t, []string{m.String()}, active)
	}
}

func TestRowsShowControls(t *testing.T) {
	f := newFixture(t)
	assert.Contains(t, f.row(0), "oxy-bloom")
	assert.Contains(t, f.row(2), "[translate] [rotate] [scale]")
	assert.Contains(t, f.row(3), "[x-] [x+] [y-] [y+] [z-] [z+]")
	assert.Contains(t, f.row(4), "0.10")
}

func TestNudgeButtonPushesCommand(t *testing.T) {
	f := newFixture(t)
	f.click(f.button(t, "y+", input.ActionNudge))
	f.click(f.button(t, "z-", input.ActionNudge))

	require.Len(t, f.commands, 2)
	assert.Equal(t, input.Command{Action: input.ActionNudge, Axis: common.AxisY, Sign: 1}, f.commands[0])
	assert.Equal(t, input.Command{Action: input.ActionNudge, Axis: common.AxisZ, Sign: -1}, f.commands[1])
}

func TestHeldButtonFiresOnce(t *testing.T) {
	f := newFixture(t)
	b := f.button(t, "bloom", input.ActionToggleBloom)
	f.p.HandleEvent(tcell.NewEventMouse(b.X, b.Y, tcell.Button1, tcell.ModNone))
	f.p.HandleEvent(tcell.NewEventMouse(b.X, b.Y, tcell.Button1, tcell.ModNone))
	f.d.Drain()
	assert.Len(t, f.commands, 1)
}

func TestClickOutsideButtonsDoesNothing(t *testing.T) {
	f := newFixture(t)
	f.p.HandleEvent(tcell.NewEventMouse(119, 19, tcell.Button1, tcell.ModNone))
	f.d.Drain()
	assert.Empty(t, f.commands)
}

func TestSliderEndsCoverStepRange(t *testing.T) {
	f := newFixture(t, WithSliderWidth(10))
	f.click(f.button(t, "slider0", input.ActionSetStep))
	f.click(f.button(t, "slider9", input.ActionSetStep))

	require.Len(t, f.commands, 2)
	assert.InDelta(t, transform.MinStep, f.commands[0].Value, 1e-6)
	assert.InDelta(t, transform.MaxStep, f.commands[1].Value, 1e-6)
}

func TestSliderFillFollowsSnapshot(t *testing.T) {
	f := newFixture(t, WithSliderWidth(10))
	f.p.Update(transform.Snapshot{Mode: transform.ModeTranslate, Step: transform.MaxStep, Size: 1})

	filled := 0
	for _, b := range f.p.Buttons() {
		if strings.HasPrefix(b.Label, "slider") && b.Active {
			filled++
		}
	}
	assert.Equal(t, 10, filled)
}

func TestKeysMapToCommands(t *testing.T) {
	cases := []struct {
		r    rune
		want input.Command
	}{
		{'w', input.Command{Action: input.ActionSetMode, Mode: int(transform.ModeTranslate)}},
		{'r', input.Command{Action: input.ActionSetMode, Mode: int(transform.ModeRotate)}},
		{'s', input.Command{Action: input.ActionSetMode, Mode: int(transform.ModeScale)}},
		{'x', input.Command{Action: input.ActionToggleAxis, Axis: common.AxisX}},
		{'q', input.Command{Action: input.ActionToggleSpace}},
		{' ', input.Command{Action: input.ActionToggleOrbit}},
		{'b', input.Command{Action: input.ActionToggleBloom}},
		{'H', input.Command{Action: input.ActionTogglePanel}},
		{'+', input.Command{Action: input.ActionResizeGizmo, Sign: 1}},
		{'-', input.Command{Action: input.ActionResizeGizmo, Sign: -1}},
	}
	for _, tc := range cases {
		t.Run(string(tc.r), func(t *testing.T) {
			f := newFixture(t)
			assert.True(t, f.key(tcell.KeyRune, tc.r))
			require.Len(t, f.commands, 1)
			assert.Equal(t, tc.want, f.commands[0])
		})
	}
}

func TestUnmappedRuneIsIgnored(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.key(tcell.KeyRune, 'k'))
	assert.Empty(t, f.commands)
}

func TestCtrlCQuits(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.key(tcell.KeyCtrlC, 0))
	require.Len(t, f.commands, 1)
	assert.Equal(t, input.ActionQuit, f.commands[0].Action)
}

func TestHiddenPanelShowsOnlyToggle(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.p.Visible())

	f.p.SetState(common.SceneState{PanelVisible: false})
	assert.False(t, f.p.Visible())
	buttons := f.p.Buttons()
	require.Len(t, buttons, 1)
	assert.Equal(t, input.ActionTogglePanel, buttons[0].Command.Action)
	assert.Contains(t, f.row(0), "show panel")
	assert.Empty(t, f.row(2))

	f.p.SetState(common.SceneState{PanelVisible: true, BloomEnabled: true})
	assert.True(t, f.button(t, "bloom", input.ActionToggleBloom).Active)
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- f.p.Run(ctx) }()

	cancel()
	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunStopsOnCtrlC(t *testing.T) {
	f := newFixture(t)
	errs := make(chan error, 1)
	go func() { errs <- f.p.Run(context.Background()) }()

	f.screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModNone)
	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after ctrl+c")
	}
}

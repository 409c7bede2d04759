package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdge(t *testing.T) {
	s := Section{Top: 800, Height: 800}
	cases := []struct {
		in   string
		want float32
	}{
		{"top bottom", 200},
		{"bottom bottom", 1000},
		{"top 80%", 320},
		{"center center", 900},
		{"top 100px", 700},
		{"50% top", 1200},
		{"bottom", 1600},
		{"-20px top", 780},
	}
	for _, c := range cases {
		e, err := parseEdge(c.in)
		require.NoError(t, err, c.in)
		assert.InDelta(t, c.want, e.position(s, 600), 1e-3, c.in)
	}

	for _, bad := range []string{"", "top bottom extra", "left bottom", "top 8x%"} {
		_, err := parseEdge(bad)
		assert.ErrorIs(t, err, ErrBadEdge, bad)
	}
}

func TestTriggerProgress(t *testing.T) {
	p := newTestPage()
	tr, err := p.NewTrigger("section2", WithStart("top bottom"), WithEnd("bottom bottom"))
	require.NoError(t, err)

	var updates []float32
	tr2, err := p.NewTrigger("section2", WithEnd("bottom bottom"), WithOnUpdate(func(v float32) { updates = append(updates, v) }))
	require.NoError(t, err)

	p.Update()
	assert.Equal(t, float32(200), tr.Start())
	assert.Equal(t, float32(1000), tr.End())
	assert.Zero(t, tr.Progress())
	assert.Equal(t, TriggerBefore, tr.State())
	assert.Empty(t, updates)

	p.ScrollTo(600)
	p.Update()
	assert.Equal(t, float32(0.5), tr.Progress())
	assert.True(t, tr.IsActive())

	p.ScrollTo(1000)
	p.Update()
	assert.Equal(t, float32(1), tr.Progress())
	assert.Equal(t, TriggerActive, tr.State())
	assert.Equal(t, []float32{0.5, 1}, updates)
	assert.Equal(t, tr.Progress(), tr2.Progress())
}

func TestTriggerCallbacksBothDirections(t *testing.T) {
	p := newTestPage()
	var events []string
	record := func(name string) func() {
		return func() { events = append(events, name) }
	}
	_, err := p.NewTrigger("section2",
		WithStart("top bottom"),
		WithEnd("center bottom"),
		WithOnEnter(record("enter")),
		WithOnLeave(record("leave")),
		WithOnEnterBack(record("enterBack")),
		WithOnLeaveBack(record("leaveBack")),
	)
	require.NoError(t, err)

	steps := []struct {
		y    float32
		want []string
	}{
		{0, nil},
		{300, []string{"enter"}},
		{700, []string{"leave"}},
		{500, []string{"enterBack"}},
		{100, []string{"leaveBack"}},
		{900, []string{"enter", "leave"}},
		{0, []string{"enterBack", "leaveBack"}},
	}
	for _, s := range steps {
		events = nil
		p.ScrollTo(s.y)
		p.Update()
		assert.Equal(t, s.want, events, "scroll to %v", s.y)
	}
}

func TestTriggerOnToggle(t *testing.T) {
	p := newTestPage()
	count := 0
	_, err := p.NewTrigger("section2", WithStart("top 80%"), WithEnd("bottom bottom"), WithOnToggle(func() { count++ }))
	require.NoError(t, err)

	p.ScrollTo(400)
	p.Update()
	p.ScrollTo(0)
	p.Update()
	assert.Equal(t, 2, count)
}

func TestTriggerFollowsViewport(t *testing.T) {
	p := newTestPage()
	tr, err := p.NewTrigger("section2")
	require.NoError(t, err)

	p.Update()
	assert.Equal(t, float32(200), tr.Start())

	p.SetViewportHeight(800)
	p.Update()
	assert.Equal(t, float32(0), tr.Start())
	assert.Equal(t, float32(1600), tr.End())
}

package page

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPage(options ...PageBuilderOption) Page {
	opts := append([]PageBuilderOption{WithSections(
		Section{Name: "section1", Top: 0, Height: 800},
		Section{Name: "section2", Top: 800, Height: 800},
	)}, options...)
	return NewPage(600, opts...)
}

func TestPageStartsLockedAndIgnoresScroll(t *testing.T) {
	p := newTestPage()

	assert.True(t, p.Locked())
	assert.False(t, p.Scroll(100))
	assert.Zero(t, p.ScrollY())

	p.SetLocked(false)
	assert.True(t, p.Scroll(100))
	assert.Equal(t, float32(100), p.ScrollY())
}

func TestPageScrollClamps(t *testing.T) {
	p := newTestPage(WithLocked(false))

	assert.Equal(t, float32(1600), p.DocumentHeight())
	assert.Equal(t, float32(1000), p.MaxScroll())

	p.Scroll(5000)
	assert.Equal(t, float32(1000), p.ScrollY())
	assert.False(t, p.Scroll(10))

	p.Scroll(-5000)
	assert.Zero(t, p.ScrollY())
	assert.False(t, p.Scroll(-1))
}

func TestPageScrollToIgnoresLock(t *testing.T) {
	p := newTestPage()
	p.ScrollTo(400)
	assert.Equal(t, float32(400), p.ScrollY())
}

func TestPageViewportResizeClampsScroll(t *testing.T) {
	p := newTestPage(WithScrollY(1000))
	require.Equal(t, float32(1000), p.ScrollY())

	p.SetViewportHeight(1200)
	assert.Equal(t, float32(400), p.MaxScroll())
	assert.Equal(t, float32(400), p.ScrollY())

	p.SetViewportHeight(0)
	assert.Equal(t, float32(1200), p.ViewportHeight())
}

func TestPageDocumentHeight(t *testing.T) {
	assert.Equal(t, float32(600), NewPage(600).DocumentHeight())
	assert.Equal(t, float32(3000), newTestPage(WithDocumentHeight(3000)).DocumentHeight())
}

func TestPageSections(t *testing.T) {
	p := newTestPage()

	s, ok := p.Section("section2")
	require.True(t, ok)
	assert.Equal(t, float32(1600), s.Bottom())

	_, ok = p.Section("missing")
	assert.False(t, ok)
	assert.Len(t, p.Sections(), 2)
}

func TestNewTriggerMissingSection(t *testing.T) {
	p := newTestPage()
	_, err := p.NewTrigger("section9")
	assert.True(t, errors.Is(err, ErrSectionNotFound))
}

func TestNewTriggerBadEdge(t *testing.T) {
	p := newTestPage()
	_, err := p.NewTrigger("section2", WithStart("top sideways"))
	assert.ErrorIs(t, err, ErrBadEdge)

	_, err = p.NewTrigger("section2", WithEnd(""))
	assert.ErrorIs(t, err, ErrBadEdge)
}

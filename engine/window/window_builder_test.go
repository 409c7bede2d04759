package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowDefaults(t *testing.T) {
	w := newEngineWindow()

	assert.Equal(t, "oxy-bloom", w.title)
	assert.Equal(t, 1280, w.width)
	assert.Equal(t, 720, w.height)
	assert.Equal(t, DefaultMinWidth, w.minWidth)
	assert.Equal(t, DefaultMaxHeight, w.maxHeight)
}

func TestSizeLimitsClampInitialSize(t *testing.T) {
	w := newEngineWindow(
		WithTitle("bloom"),
		WithSize(100, 5000),
		WithSizeLimits(640, 0, 1920, 1080),
	)

	assert.Equal(t, "bloom", w.title)
	assert.Equal(t, 640, w.minWidth)
	assert.Equal(t, DefaultMinHeight, w.minHeight)
	assert.Equal(t, 640, w.width)
	assert.Equal(t, 1080, w.height)
}

func TestSizeLimitsMaxNeverBelowMin(t *testing.T) {
	w := newEngineWindow(WithSizeLimits(800, 600, 400, 300))

	assert.Equal(t, 800, w.maxWidth)
	assert.Equal(t, 600, w.maxHeight)
	assert.Equal(t, 800, w.width)
	assert.Equal(t, 600, w.height)
}

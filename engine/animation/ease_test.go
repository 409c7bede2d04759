package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var easeNames = []string{
	"", "none", "linear",
	"power1", "power1.in", "power1.out", "power1.inOut",
	"power2", "power2.in", "power2.out", "power2.inOut",
	"power3", "power3.in", "power3.out", "power3.inOut",
	"power4", "power4.in", "power4.out", "power4.inOut",
	"sine.in", "sine.out", "sine.inOut",
}

func TestEaseEndpointsAreExact(t *testing.T) {
	for _, name := range easeNames {
		ease, err := EaseByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, float32(0), ease(0), name)
		assert.Equal(t, float32(1), ease(1), name)
		assert.Equal(t, float32(0), ease(-0.5), name)
		assert.Equal(t, float32(1), ease(1.5), name)
	}
}

func TestEaseMonotonic(t *testing.T) {
	for _, name := range easeNames {
		ease, err := EaseByName(name)
		require.NoError(t, err, name)
		prev := ease(0)
		for i := 1; i <= 100; i++ {
			v := ease(float32(i) / 100)
			assert.GreaterOrEqual(t, v, prev, "%s at %d", name, i)
			prev = v
		}
	}
}

func TestEaseValues(t *testing.T) {
	assert.InDelta(t, 0.75, PowerOut(1)(0.5), 1e-6)
	assert.InDelta(t, 0.125, PowerIn(2)(0.5), 1e-6)
	assert.InDelta(t, 0.5, PowerInOut(2)(0.5), 1e-6)
	assert.InDelta(t, 0.03125, PowerInOut(3)(0.25), 1e-6)
	assert.InDelta(t, 0.5, SineInOut(0.5), 1e-6)
	assert.InDelta(t, 0.25, Linear(0.25), 1e-6)
}

func TestEaseByNameDefaultsToOut(t *testing.T) {
	bare, err := EaseByName("power3")
	require.NoError(t, err)
	assert.Equal(t, PowerOut(3)(0.3), bare(0.3))

	def, err := EaseByName("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEase(0.3), def(0.3))
}

func TestEaseByNameUnknown(t *testing.T) {
	for _, name := range []string{"power5", "bounce.out", "power2.sideways", "sine.inout"} {
		_, err := EaseByName(name)
		assert.Error(t, err, name)
	}
}

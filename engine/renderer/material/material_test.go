package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()

	assert.Equal(t, [3]float32{1, 1, 1}, m.Color())
	assert.Equal(t, float32(1), m.Opacity())
	assert.Equal(t, float32(1), m.Roughness())
	assert.False(t, m.Transparent())
	assert.False(t, m.Unlit())
}

func TestSetOpacityClamps(t *testing.T) {
	m := NewMaterial()

	m.SetOpacity(-3)
	assert.Equal(t, float32(0), m.Opacity())

	m.SetOpacity(2)
	assert.Equal(t, float32(1), m.Opacity())
}

func TestGPUDataAlphaFollowsTransparency(t *testing.T) {
	m := NewMaterial(WithOpacity(0.25))
	assert.Equal(t, float32(1), m.GPUData().Color[3])

	m.SetTransparent(true)
	assert.Equal(t, float32(0.25), m.GPUData().Color[3])
}

func TestDarkMaterialIsUnlitBlack(t *testing.T) {
	d := NewDarkMaterial()

	assert.True(t, d.Unlit())
	assert.Equal(t, [3]float32{0, 0, 0}, d.Color())
	assert.Equal(t, float32(1), d.GPUData().Surface[2])
}

func TestGPUMaterialMarshalLayout(t *testing.T) {
	g := GPUMaterial{
		Color:   [4]float32{0.1, 0.2, 0.3, 0.4},
		Surface: [4]float32{0.5, 0.6, 1, 0},
	}
	buf := g.Marshal()

	require.Len(t, buf, g.Size())
	assert.Equal(t, float32(0.4), math.Float32frombits(binary.LittleEndian.Uint32(buf[12:16])))
	assert.Equal(t, float32(0.6), math.Float32frombits(binary.LittleEndian.Uint32(buf[36:40])))
}

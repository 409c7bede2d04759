package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelComputesBounds(t *testing.T) {
	m := NewModel(
		WithName("fan"),
		WithMeshes(
			Mesh{Name: "a", Vertices: []GPUVertex{{Position: [3]float32{-1, 0, 2}}, {Position: [3]float32{1, 3, 0}}}},
			Mesh{Name: "b", Vertices: []GPUVertex{{Position: [3]float32{0, -2, -4}}}},
			Mesh{Name: "empty"},
		),
	)

	lo, hi := m.Bounds()
	assert.Equal(t, [3]float32{-1, -2, -4}, lo)
	assert.Equal(t, [3]float32{1, 3, 2}, hi)
	assert.Equal(t, 3, m.VertexCount())
	assert.InDelta(t, math.Sqrt(21), m.BoundingRadius(), 1e-5)
	assert.Equal(t, "fan", m.Name())
}

func TestMarshalVerticesLayout(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
		Color:    [4]float32{0.5, 0.25, 0, 1},
	}
	require.Equal(t, GPUVertexStride, v.Size())

	buf := MarshalVertices([]GPUVertex{v, v})
	require.Len(t, buf, 2*GPUVertexStride)

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(3), f(8))
	assert.Equal(t, float32(1), f(16))
	assert.Equal(t, float32(0.25), f(28))
	assert.Equal(t, float32(1), f(GPUVertexStride+36))
	assert.Equal(t, v.Marshal(), buf[:GPUVertexStride])
}

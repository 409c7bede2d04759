package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultBloomParams(t *testing.T) {
	p := DefaultBloomParams()
	assert.Equal(t, BloomParams{Threshold: 0, Strength: 2, Radius: 0.4, Exposure: 1}, p)
	assert.Equal(t, p, p.Clamp())
}

func TestBloomParamsClamp(t *testing.T) {
	p := BloomParams{Threshold: -1, Strength: 50, Radius: 2, Exposure: -3}.Clamp()
	assert.Equal(t, BloomParams{Threshold: 0, Strength: 10, Radius: 1, Exposure: 0}, p)
}

func TestBloomPassesScaleOnlyFinalBlur(t *testing.T) {
	passes := bloomPasses(BloomParams{Strength: 2, Radius: 0.5, Exposure: 1.5}, 100, 50)

	assert.Equal(t, float32(1), passes[0].Params[3])
	assert.Equal(t, float32(1), passes[1].Params[3])
	assert.Equal(t, float32(3), passes[2].Params[3])

	assert.InDelta(t, 0.03, passes[1].Step[0], 1e-6)
	assert.Zero(t, passes[1].Step[1])
	assert.Zero(t, passes[2].Step[0])
	assert.InDelta(t, 0.06, passes[2].Step[1], 1e-6)
}

func TestGPUDrawUniformLayout(t *testing.T) {
	var u GPUDrawUniform
	assert.Equal(t, 176, u.Size())

	u.Model[12] = 2
	u.Material.Color = [4]float32{1, 0, 0, 1}
	buf := u.Marshal()
	assert.Len(t, buf, DrawUniformStride)
	// model[12] lives at byte 48; material color.r at byte 128
	assert.Equal(t, []byte{0, 0, 0, 0x40}, buf[48:52])
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[128:132])
}

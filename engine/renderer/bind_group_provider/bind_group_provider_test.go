package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderEmpty(t *testing.T) {
	p := NewBindGroupProvider("frame")

	assert.Equal(t, "frame", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(0))
	assert.Zero(t, p.IndexCount())

	p.SetGeometry(nil, nil, 36)
	assert.Equal(t, 36, p.IndexCount())

	p.Release()
	assert.Zero(t, p.IndexCount())
}

func TestBufferWriteExtent(t *testing.T) {
	w := BufferWrite{Binding: 0, Offset: 256, Data: make([]byte, 176)}
	assert.Equal(t, uint64(176), w.Size())
	assert.Equal(t, uint64(432), w.End())
}

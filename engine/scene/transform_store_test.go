package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreHighestProducerWins(t *testing.T) {
	n := NewGroup()
	s := NewTransformStore()

	s.Write(n, ChannelPosition, ProducerManual, [3]float32{1, 0, 0})
	s.Write(n, ChannelPosition, ProducerScroll, [3]float32{2, 0, 0})
	s.Write(n, ChannelPosition, ProducerTimeline, [3]float32{3, 0, 0})
	s.Write(n, ChannelPosition, ProducerSway, [3]float32{4, 0, 0})

	assert.Equal(t, 1, s.Resolve())
	assert.Equal(t, [3]float32{1, 0, 0}, n.Position())
}

func TestStoreLaterWriteOfEqualProducerWins(t *testing.T) {
	n := NewGroup()
	s := NewTransformStore()

	s.Write(n, ChannelRotation, ProducerTimeline, [3]float32{0, 1, 0})
	s.Write(n, ChannelRotation, ProducerScroll, [3]float32{0, 2, 0})
	s.Write(n, ChannelRotation, ProducerScroll, [3]float32{0, 3, 0})
	s.Resolve()

	assert.Equal(t, [3]float32{0, 3, 0}, n.Rotation())
}

func TestStoreUntouchedChannelsPersist(t *testing.T) {
	n := NewGroup(WithPosition([3]float32{5, 5, 5}))
	s := NewTransformStore()

	s.Write(n, ChannelScale, ProducerTimeline, [3]float32{2, 2, 2})
	s.Resolve()
	assert.Equal(t, [3]float32{5, 5, 5}, n.Position())
	assert.Equal(t, [3]float32{2, 2, 2}, n.Scale())

	assert.Zero(t, s.Resolve())
	assert.Equal(t, [3]float32{2, 2, 2}, n.Scale())
}

func TestStoreCurrentSeesPending(t *testing.T) {
	n := NewGroup()
	s := NewTransformStore()

	assert.Equal(t, [3]float32{1, 1, 1}, s.Current(n, ChannelScale))
	s.Write(n, ChannelScale, ProducerManual, [3]float32{3, 1, 1})
	assert.Equal(t, [3]float32{3, 1, 1}, s.Current(n, ChannelScale))
	assert.Equal(t, [3]float32{1, 1, 1}, n.Scale())
	assert.Equal(t, 1, s.Pending())
}

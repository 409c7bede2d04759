package animation

import (
	"github.com/Carmen-Shannon/oxy-bloom/common"
	"github.com/Carmen-Shannon/oxy-bloom/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-bloom/engine/scene"
)

// NodeSetter returns a setter that writes a whole channel of n into the store as producer p.
//
// Parameters:
//   - store: the transform store
//   - n: the node
//   - ch: the channel
//   - p: the producer layer
//
// Returns:
//   - func([3]float32): the setter
func NodeSetter(store scene.TransformStore, n scene.Node, ch scene.Channel, p scene.Producer) func([3]float32) {
	return func(v [3]float32) {
		store.Write(n, ch, p, v)
	}
}

// NodeGetter returns a getter for the value a channel will hold after the next resolve.
func NodeGetter(store scene.TransformStore, n scene.Node, ch scene.Channel) func() [3]float32 {
	return func() [3]float32 {
		return store.Current(n, ch)
	}
}

// AxisSetter returns a setter that replaces one component of a channel and keeps the other two.
//
// Parameters:
//   - store: the transform store
//   - n: the node
//   - ch: the channel
//   - p: the producer layer
//   - axis: the component to write
//
// Returns:
//   - func(float32): the setter
func AxisSetter(store scene.TransformStore, n scene.Node, ch scene.Channel, p scene.Producer, axis common.Axis) func(float32) {
	return func(v float32) {
		cur := store.Current(n, ch)
		cur[axis] = v
		store.Write(n, ch, p, cur)
	}
}

// OpacitySetter returns a setter for a material's opacity.
func OpacitySetter(m material.Material) func(float32) {
	return m.SetOpacity
}

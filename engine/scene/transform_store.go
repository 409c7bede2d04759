package scene

import (
	"sync"
)

// Producer identifies who submitted a transform write. Higher values win.
type Producer int

const (
	// ProducerSway is pointer-driven ambient motion of the outer group.
	ProducerSway Producer = iota

	// ProducerTimeline is time-driven tweening (entrance sequence, clone stagger).
	ProducerTimeline

	// ProducerScroll is scroll-scrubbed tweening.
	ProducerScroll

	// ProducerManual is an explicit edit from the transform controller.
	ProducerManual
)

// String returns a readable name for the producer.
func (p Producer) String() string {
	switch p {
	case ProducerSway:
		return "sway"
	case ProducerTimeline:
		return "timeline"
	case ProducerScroll:
		return "scroll"
	case ProducerManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Channel is one of the three transform vectors of a node.
type Channel int

const (
	ChannelPosition Channel = iota
	ChannelRotation
	ChannelScale
)

// String returns a readable name for the channel.
func (c Channel) String() string {
	switch c {
	case ChannelPosition:
		return "position"
	case ChannelRotation:
		return "rotation"
	case ChannelScale:
		return "scale"
	default:
		return "unknown"
	}
}

type storeKey struct {
	id      NodeID
	channel Channel
}

type storeWrite struct {
	node     Node
	producer Producer
	value    [3]float32
}

type transformStore struct {
	mu      *sync.Mutex
	pending map[storeKey]storeWrite
	order   []storeKey
}

// TransformStore collects transform writes from independent producers during a tick and
// applies exactly one value per (node, channel) when the tick resolves.
//
// A write replaces the pending value only when its producer has equal or higher precedence
// than the pending one, so manual edits beat scroll tweens, which beat timeline tweens, which
// beat sway. Channels nobody wrote keep their current node value.
type TransformStore interface {
	// Write submits a value for one channel of a node.
	//
	// Parameters:
	//   - n: the target node
	//   - ch: the channel to write
	//   - p: the producer submitting the value
	//   - v: the value
	Write(n Node, ch Channel, p Producer, v [3]float32)

	// Current returns the value the channel will hold after the next Resolve if no further
	// writes arrive: the winning pending write, or the node's value when nothing is pending.
	//
	// Parameters:
	//   - n: the node
	//   - ch: the channel
	//
	// Returns:
	//   - [3]float32: the value
	Current(n Node, ch Channel) [3]float32

	// Pending returns the number of (node, channel) pairs with a queued write.
	//
	// Returns:
	//   - int: the pending count
	Pending() int

	// Resolve applies every winning write to its node in submission order and clears the store.
	//
	// Returns:
	//   - int: the number of channels written
	Resolve() int
}

var _ TransformStore = &transformStore{}

// NewTransformStore creates an empty TransformStore.
//
// Returns:
//   - TransformStore: the store
func NewTransformStore() TransformStore {
	return &transformStore{
		mu:      &sync.Mutex{},
		pending: make(map[storeKey]storeWrite),
	}
}

func (s *transformStore) Write(n Node, ch Channel, p Producer, v [3]float32) {
	if n == nil {
		return
	}
	k := storeKey{id: n.ID(), channel: ch}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.pending[k]
	if ok && prev.producer > p {
		return
	}
	if !ok {
		s.order = append(s.order, k)
	}
	s.pending[k] = storeWrite{node: n, producer: p, value: v}
}

func (s *transformStore) Current(n Node, ch Channel) [3]float32 {
	s.mu.Lock()
	w, ok := s.pending[storeKey{id: n.ID(), channel: ch}]
	s.mu.Unlock()
	if ok {
		return w.value
	}
	return readChannel(n, ch)
}

func (s *transformStore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *transformStore) Resolve() int {
	s.mu.Lock()
	pending, order := s.pending, s.order
	s.pending = make(map[storeKey]storeWrite, len(pending))
	s.order = nil
	s.mu.Unlock()

	for _, k := range order {
		w := pending[k]
		writeChannel(w.node, k.channel, w.value)
	}
	return len(order)
}

func readChannel(n Node, ch Channel) [3]float32 {
	switch ch {
	case ChannelRotation:
		return n.Rotation()
	case ChannelScale:
		return n.Scale()
	default:
		return n.Position()
	}
}

func writeChannel(n Node, ch Channel, v [3]float32) {
	switch ch {
	case ChannelRotation:
		n.SetRotation(v)
	case ChannelScale:
		n.SetScale(v)
	default:
		n.SetPosition(v)
	}
}

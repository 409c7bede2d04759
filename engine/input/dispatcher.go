package input

import (
	"errors"
	"log"
	"slices"
	"sync"
)

// DefaultQueueSize bounds the number of events waiting for the next drain.
const DefaultQueueSize = 1024

// ErrClosed is returned when pushing to a closed Dispatcher.
var ErrClosed = errors.New("input dispatcher closed")

// Handler processes one event on the draining goroutine.
type Handler func(ev Event)

type registration struct {
	id int
	fn Handler
}

type dispatcher struct {
	mu *sync.Mutex

	queue    []Event
	limit    int
	dropped  int
	handlers [kindCount][]registration
	nextID   int
	closed   bool
}

// Dispatcher is a multi-producer queue with a single consumer. Producers call Push from any
// goroutine; the render goroutine calls Drain once per tick, which runs every subscribed handler
// for each queued event in FIFO order.
type Dispatcher interface {
	// Push enqueues an event. When the queue is full the oldest event is dropped.
	//
	// Parameters:
	//   - ev: the event
	//
	// Returns:
	//   - error: ErrClosed after Close
	Push(ev Event) error

	// Subscribe registers a handler for one kind. Handlers for the same kind run in
	// registration order.
	//
	// Parameters:
	//   - kind: the event kind
	//   - fn: the handler
	//
	// Returns:
	//   - func(): removes the handler; safe to call more than once
	Subscribe(kind Kind, fn Handler) (cancel func())

	// Drain delivers every queued event and empties the queue.
	//
	// Returns:
	//   - int: the number of events delivered
	Drain() int

	// Pending returns the number of queued events.
	Pending() int

	// Handlers returns the number of handlers registered for kind.
	Handlers(kind Kind) int

	// Close drops queued events and every handler. Later pushes fail with ErrClosed.
	Close()
}

var _ Dispatcher = &dispatcher{}

// NewDispatcher creates a Dispatcher.
//
// Parameters:
//   - options: functional options to configure the dispatcher
//
// Returns:
//   - Dispatcher: the newly created dispatcher
func NewDispatcher(options ...DispatcherBuilderOption) Dispatcher {
	d := &dispatcher{
		mu:    &sync.Mutex{},
		limit: DefaultQueueSize,
	}
	for _, option := range options {
		option(d)
	}
	if d.limit <= 0 {
		d.limit = DefaultQueueSize
	}
	return d
}

func (d *dispatcher) Push(ev Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if len(d.queue) >= d.limit {
		d.queue = d.queue[1:]
		d.dropped++
		if d.dropped == 1 || d.dropped%d.limit == 0 {
			log.Printf("[Input] queue full, dropped %d events", d.dropped)
		}
	}
	d.queue = append(d.queue, ev)
	return nil
}

func (d *dispatcher) Subscribe(kind Kind, fn Handler) (cancel func()) {
	if kind < 0 || kind >= kindCount || fn == nil {
		return func() {}
	}
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	if !d.closed {
		d.handlers[kind] = append(d.handlers[kind], registration{id: id, fn: fn})
	}
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.handlers[kind] = slices.DeleteFunc(d.handlers[kind], func(r registration) bool {
			return r.id == id
		})
	}
}

func (d *dispatcher) Drain() int {
	d.mu.Lock()
	events := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, ev := range events {
		if ev.Kind < 0 || ev.Kind >= kindCount {
			continue
		}
		// Handlers may subscribe or cancel while running, so each event sees a copy.
		d.mu.Lock()
		handlers := slices.Clone(d.handlers[ev.Kind])
		d.mu.Unlock()

		for _, h := range handlers {
			h.fn(ev)
		}
	}
	return len(events)
}

func (d *dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *dispatcher) Handlers(kind Kind) int {
	if kind < 0 || kind >= kindCount {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[kind])
}

func (d *dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.queue = nil
	for i := range d.handlers {
		d.handlers[i] = nil
	}
}

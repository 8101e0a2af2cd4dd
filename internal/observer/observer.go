// Package observer defines the event-stream boundary between the core
// engine and any control-plane transport: a Frame contract plus an
// in-memory fan-out that delivers frames to subscribed Observers. The
// transport itself (internal/transport/socketio) is an outer,
// optional adapter — the core (internal/supervisor) only depends on
// this package (§1, §6).
package observer

import "sync"

// NodeFrame is one instance's broadcastable state for a single
// broadcast tick: its display cells and which outputs are enabled.
type NodeFrame struct {
	InstanceID     string
	Displays       map[string]any
	OutputsEnabled map[string]bool
}

// ErrorInfo names the node that failed a tick, per §6's error-frame
// contract `{node_id, node_name, message, trace}`.
type ErrorInfo struct {
	NodeID   string
	NodeName string
	Message  string
	Trace    string
}

// Frame is the state snapshot the broadcast loop emits at the fixed
// frame rate of §4.5: network state plus every node's display state.
// Error carries the supervisor's current LastError, if any (§7, §8).
type Frame struct {
	Running  bool
	TargetHz float64
	ActualHz float64
	Ticks    uint64
	Error    *ErrorInfo
	Nodes    []NodeFrame
}

// Observer receives broadcast frames and node-runtime error
// notifications. Implementations must not block: the in-memory
// Fanout's Publish calls OnFrame synchronously on the broadcast
// goroutine, one observer after another, and drops neither frames nor
// observers, so a blocking observer stalls the broadcast loop.
type Observer interface {
	OnFrame(Frame)
}

// Fanout delivers a Frame to every currently subscribed Observer.
type Fanout interface {
	Publish(Frame)
	Subscribe(Observer) (unsubscribe func())
}

// fanout is the in-memory reference Fanout implementation: a simple
// registered-callback broadcaster, with no transport dependency.
type fanout struct {
	mu        sync.Mutex
	observers map[int]Observer
	nextID    int
}

// New returns an empty in-memory Fanout.
func New() Fanout {
	return &fanout{observers: make(map[int]Observer)}
}

func (f *fanout) Subscribe(o Observer) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.observers[id] = o
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.observers, id)
	}
}

func (f *fanout) Publish(frame Frame) {
	f.mu.Lock()
	observers := make([]Observer, 0, len(f.observers))
	for _, o := range f.observers {
		observers = append(observers, o)
	}
	f.mu.Unlock()

	for _, o := range observers {
		o.OnFrame(frame)
	}
}

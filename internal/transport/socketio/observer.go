package socketio

import (
	"log/slog"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zishang520/socket.io/v2/socket"

	"github.com/minicortex/core/internal/observer"
)

const (
	eventState = "state"
	eventError = "error"
)

// wireState is the msgpack payload for a "state" event: each instance's
// enabled display outputs keyed by output key, plus network state (§6).
type wireState struct {
	Running  bool                      `msgpack:"running"`
	Speed    float64                   `msgpack:"speed"`
	ActualHz float64                   `msgpack:"actual_hz"`
	Step     uint64                    `msgpack:"step"`
	Nodes    map[string]map[string]any `msgpack:"nodes"`
}

// wireError is the msgpack payload for an "error" event (§6): the
// offending node, followed by the observer's next state frame showing
// running = false.
type wireError struct {
	NodeID   string `msgpack:"node_id"`
	NodeName string `msgpack:"node_name"`
	Message  string `msgpack:"message"`
	Trace    string `msgpack:"trace"`
}

// Observer broadcasts supervisor frames to every socket.io client
// connected to its namespace, implementing observer.Observer.
type Observer struct {
	io *socket.Server

	mu      sync.RWMutex
	clients map[socket.SocketId]*socket.Socket
}

// New wraps an already-constructed socket.io server, tracking client
// connect/disconnect on the root namespace and exposing an
// observer.Observer that broadcasts to all of them.
func New(io *socket.Server) *Observer {
	o := &Observer{io: io, clients: make(map[socket.SocketId]*socket.Socket)}

	io.On("connection", func(args ...any) {
		client, ok := args[0].(*socket.Socket)
		if !ok {
			return
		}
		o.mu.Lock()
		o.clients[client.Id()] = client
		o.mu.Unlock()

		client.On("disconnect", func(...any) {
			o.mu.Lock()
			delete(o.clients, client.Id())
			o.mu.Unlock()
		})
	})

	return o
}

// OnFrame implements observer.Observer: it msgpack-encodes frame and
// emits it as a "state" event (or an "error" event immediately before
// it, when the frame carries a node failure) to every connected client.
func (o *Observer) OnFrame(frame observer.Frame) {
	if frame.Error != nil {
		o.broadcastError(frame)
	}
	o.broadcastState(frame)
}

func (o *Observer) broadcastState(frame observer.Frame) {
	nodes := make(map[string]map[string]any, len(frame.Nodes))
	for _, n := range frame.Nodes {
		visible := make(map[string]any, len(n.Displays))
		for key, val := range n.Displays {
			if enabled, ok := n.OutputsEnabled[key]; !ok || enabled {
				visible[key] = val
			}
		}
		nodes[n.InstanceID] = visible
	}

	state := wireState{
		Running:  frame.Running,
		Speed:    frame.TargetHz,
		ActualHz: frame.ActualHz,
		Step:     frame.Ticks,
		Nodes:    nodes,
	}
	o.emit(eventState, state)
}

func (o *Observer) broadcastError(frame observer.Frame) {
	o.emit(eventError, wireError{
		NodeID:   frame.Error.NodeID,
		NodeName: frame.Error.NodeName,
		Message:  frame.Error.Message,
		Trace:    frame.Error.Trace,
	})
}

func (o *Observer) emit(event string, payload any) {
	encoded, err := msgpack.Marshal(payload)
	if err != nil {
		slog.Default().Error("socketio: encode frame", "event", event, "error", err)
		return
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, client := range o.clients {
		client.Emit(event, encoded)
	}
}

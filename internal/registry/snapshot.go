package registry

import "github.com/minicortex/core/internal/nodeclass"

// InstanceSnapshot is a read-only view of one live instance, used to
// seed the UI and to answer the `snapshot()` query of §4.3.
type InstanceSnapshot struct {
	ID             nodeclass.InstanceID
	TypeName       string
	Position       nodeclass.Position
	Properties     map[string]any
	Stores         map[string]any
	Displays       map[string]any
	OutputsEnabled map[string]bool
	LastErr        error
}

// Snapshot is the structured view of the entire workspace state: every
// instance, every connection, and the viewport (§4.3).
type Snapshot struct {
	Instances   []InstanceSnapshot
	Connections []Connection
	Viewport    Viewport
}

// Snapshot builds a structured, point-in-time view of the whole
// registry under a read lock.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := Snapshot{
		Connections: append([]Connection(nil), r.connections...),
		Viewport:    r.viewport,
	}
	for id, inst := range r.instances {
		out.Instances = append(out.Instances, InstanceSnapshot{
			ID:             id,
			TypeName:       inst.Class.TypeName,
			Position:       inst.Position,
			Properties:     copyMap(inst.Cells.Properties),
			Stores:         copyMap(inst.Cells.Stores),
			Displays:       copyMap(inst.Cells.Displays),
			OutputsEnabled: copyBoolMap(inst.OutputEnabled),
			LastErr:        inst.LastErr,
		})
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

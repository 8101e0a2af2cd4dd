package registry

import (
	"fmt"

	"github.com/minicortex/core/internal/graph"
	"github.com/minicortex/core/internal/nodeclass"
	"github.com/minicortex/core/internal/signalstore"
)

// Clear empties every instance, connection, and the viewport back to
// defaults, keeping the discovered class table intact — §4.7's clear()
// "empties the registry and viewport without removing any file".
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[nodeclass.InstanceID]*nodeclass.Instance)
	r.connections = nil
	r.viewport = Viewport{Zoom: 1.0}
	r.graph = graph.New()
	r.signals = signalstore.New()
}

// RestoreInstance recreates an instance under an explicit ID, used by
// internal/workspace when rebuilding a saved document where IDs must
// match the file rather than being freshly minted by CreateInstance.
// Property/store/output-enabled values present in the new class's
// schema are applied directly (they already passed validation when
// first saved); keys the schema no longer has are dropped, mirroring
// the hot-reload carry-over of §4.6. Init runs afterward, per §4.7.
func (r *Registry) RestoreInstance(id nodeclass.InstanceID, typeName string, pos nodeclass.Position, properties, stores map[string]any, outputsEnabled map[string]bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	class, ok := r.classes[typeName]
	if !ok {
		return notFoundWithSuggestion("class", typeName, r.classNamesLocked())
	}

	inst := nodeclass.NewInstance(id, class, pos)
	for k, v := range properties {
		if _, ok := inst.Cells.Properties[k]; ok {
			inst.Cells.Properties[k] = v
		}
	}
	for k, v := range stores {
		if _, ok := inst.Cells.Stores[k]; ok {
			inst.Cells.Stores[k] = v
		}
	}
	for k, v := range outputsEnabled {
		if _, ok := inst.OutputEnabled[k]; ok {
			inst.OutputEnabled[k] = v
		}
	}

	r.instances[id] = inst
	r.graph.AddNode(id)
	bumpInstanceSeq(r, id)

	if initer, ok := inst.Impl.(nodeclass.Initializer); ok {
		initer.Init(nodeclass.NewContext(inst))
	}
	return nil
}

// bumpInstanceSeq keeps future CreateInstance-minted IDs from colliding
// with a restored "n<N>" ID. Must be called with r.mu held.
func bumpInstanceSeq(r *Registry, id nodeclass.InstanceID) {
	var n uint64
	if _, err := fmt.Sscanf(string(id), "n%d", &n); err == nil && n > r.instanceSeq {
		r.instanceSeq = n
	}
}

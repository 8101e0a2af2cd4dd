package registry

import (
	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/manifest"
	"github.com/minicortex/core/internal/nodeclass"
)

// HotReload implements §4.6: re-parses typeName's manifest source file,
// rebuilds the class schema, and for every live instance of that type
// carries property/store values forward by key, drops connections
// touching ports that no longer exist on the new schema, and re-runs
// Init. Fails with ReloadFailed if the class isn't dynamic, or the type
// is no longer defined in its source file.
func (r *Registry) HotReload(typeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	class, ok := r.classes[typeName]
	if !ok {
		return notFoundWithSuggestion("class", typeName, r.classNamesLocked())
	}
	if !class.Dynamic {
		return newErr(KindReloadFailed, "class %q is not marked dynamic", typeName)
	}

	newManifest, err := manifest.ReloadType(class.SourcePath, typeName)
	if err != nil {
		return wrapErr(KindReloadFailed, err, "reload class %q", typeName)
	}

	factory, ok := nodeclass.FactoryFor(typeName)
	if !ok {
		return newErr(KindReloadFailed, "no implementation registered for node type %q", typeName)
	}
	newClass := nodeclass.FromManifest(newManifest, factory)
	if err := newClass.Validate(); err != nil {
		return wrapErr(KindReloadFailed, err, "reload class %q", typeName)
	}

	for id, inst := range r.instances {
		if inst.Class.TypeName != typeName {
			continue
		}
		r.reloadInstanceLocked(id, inst, newClass)
	}

	r.classes[typeName] = newClass
	return nil
}

func (r *Registry) reloadInstanceLocked(id nodeclass.InstanceID, old *nodeclass.Instance, newClass *nodeclass.Class) {
	fresh := nodeclass.NewInstance(id, newClass, old.Position)

	for key, val := range old.Cells.Properties {
		if _, ok := fresh.Cells.Properties[key]; ok {
			fresh.Cells.Properties[key] = val
		}
	}
	for key, val := range old.Cells.Stores {
		if _, ok := fresh.Cells.Stores[key]; ok {
			fresh.Cells.Stores[key] = val
		}
	}
	for key, enabled := range old.OutputEnabled {
		if _, ok := fresh.OutputEnabled[key]; ok {
			fresh.OutputEnabled[key] = enabled
		}
	}

	survivingInputs := portKeySet(newClass.Inputs)
	survivingOutputs := portKeySet(newClass.Outputs)
	kept := make([]Connection, 0, len(r.connections))
	for _, c := range r.connections {
		if c.TargetID == id && !survivingInputs[c.TargetKey] {
			continue
		}
		if c.SourceID == id && !survivingOutputs[c.SourceKey] {
			continue
		}
		kept = append(kept, c)
	}
	r.connections = kept

	// Resync the graph's edges touching id: drop them all, then
	// re-add whatever the pruned connection list still carries.
	r.graph.RemoveNode(id)
	r.graph.AddNode(id)
	for _, c := range r.connections {
		if c.SourceID != id && c.TargetID != id {
			continue
		}
		_ = r.graph.AddEdge(c.SourceID, c.SourceKey, c.TargetID, c.TargetKey)
	}

	r.instances[id] = fresh
	if initer, ok := fresh.Impl.(nodeclass.Initializer); ok {
		initer.Init(nodeclass.NewContext(fresh))
	}
}

func portKeySet(ports []descriptor.Port) map[string]bool {
	out := make(map[string]bool, len(ports))
	for _, p := range ports {
		out[p.Key] = true
	}
	return out
}

// Package registry is the process-wide catalog of node classes (the
// palette) and live node instances, plus the connection list and
// viewport between them — the single-lock design of the teacher's
// internal/registry.Registry (HandlerRegistry/DefinitionRegistry tables)
// generalized from compile-time handler/manifest tables to a live,
// mutable class/instance/connection/viewport store (§4.3).
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/graph"
	"github.com/minicortex/core/internal/nodeclass"
	"github.com/minicortex/core/internal/signalstore"
)

// Viewport is the editor's pan/zoom state (§3).
type Viewport struct {
	PanX, PanY float64
	Zoom       float64
}

// Connection is the ordered 4-tuple of §3: a directed edge from one
// instance's output port to another instance's input port.
type Connection struct {
	SourceID  nodeclass.InstanceID
	SourceKey string
	TargetID  nodeclass.InstanceID
	TargetKey string
}

// MutationHook is invoked, outside the registry lock, after a
// graph-mutating call succeeds. The composition root uses it to run a
// probing tick while the network is stopped, keeping display outputs
// fresh on any topology or property change (spec.md:127), the same
// need internal/workspace's Load already meets with a direct
// engine.Probe call after restoring a document.
type MutationHook func()

// Registry holds the class table, instance table, connection list, and
// viewport behind one exclusive lock (§4.3).
type Registry struct {
	mu sync.RWMutex

	classes     map[string]*nodeclass.Class
	instances   map[nodeclass.InstanceID]*nodeclass.Instance
	connections []Connection
	viewport    Viewport

	graph   *graph.Graph
	signals *signalstore.Store

	instanceSeq uint64

	mutationHook MutationHook
}

// New returns an empty registry with a default viewport (no pan, unit
// zoom).
func New() *Registry {
	return &Registry{
		classes:   make(map[string]*nodeclass.Class),
		instances: make(map[nodeclass.InstanceID]*nodeclass.Instance),
		graph:     graph.New(),
		signals:   signalstore.New(),
		viewport:  Viewport{Zoom: 1.0},
	}
}

// SetMutationHook installs (or clears, with nil) the registry's
// mutation hook. Not copied by StagingClone: a throwaway staging
// registry must never trigger the live network's probing tick.
func (r *Registry) SetMutationHook(fn MutationHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutationHook = fn
}

// notifyMutation runs the mutation hook, if any, after releasing the
// registry lock — a probing tick reacquires it via BuildTickView, so
// calling the hook while still locked would deadlock.
func (r *Registry) notifyMutation() {
	r.mu.RLock()
	hook := r.mutationHook
	r.mu.RUnlock()
	if hook != nil {
		hook()
	}
}

// Signals exposes the registry's signal store to the engine and
// supervisor packages.
func (r *Registry) Signals() *signalstore.Store { return r.signals }

// Graph exposes the registry's connection topology to the scheduler.
func (r *Registry) Graph() *graph.Graph { return r.graph }

// RegisterClass adds or replaces a node class. Registration is idempotent
// on type name for a class that isn't dynamic (the second call is a
// no-op returning nil); a dynamic class's repeat registration is always
// a replacement (§4.6). class.Validate() is required to pass first.
func (r *Registry) RegisterClass(class *nodeclass.Class) error {
	if err := class.Validate(); err != nil {
		return wrapErr(KindValidation, err, "register class %q", class.TypeName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.classes[class.TypeName]; ok && !existing.Dynamic && !class.Dynamic {
		return nil
	}
	r.classes[class.TypeName] = class
	return nil
}

// StagingClone returns a fresh, empty Registry sharing this registry's
// class table (read-only, so sharing is safe) but with its own empty
// instance table, connection list, viewport, and signal store. Used by
// internal/workspace to validate a load against a throwaway registry
// before mutating the live one (§4.7 "swaps in only on full success").
func (r *Registry) StagingClone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	classes := make(map[string]*nodeclass.Class, len(r.classes))
	for k, v := range r.classes {
		classes[k] = v
	}
	return &Registry{
		classes:   classes,
		instances: make(map[nodeclass.InstanceID]*nodeclass.Instance),
		graph:     graph.New(),
		signals:   signalstore.New(),
		viewport:  Viewport{Zoom: 1.0},
	}
}

// ClassNames returns every registered type name, for "did you mean"
// suggestions and palette listings.
func (r *Registry) ClassNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.classNamesLocked()
}

func (r *Registry) classNamesLocked() []string {
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	return names
}

func (r *Registry) instanceIDsLocked() []string {
	ids := make([]string, 0, len(r.instances))
	for id := range r.instances {
		ids = append(ids, string(id))
	}
	return ids
}

// CreateInstance instantiates typeName at pos, runs Init if the
// implementation provides one, and returns the new instance's ID. A
// probing tick follows if the network is stopped (spec.md:127).
func (r *Registry) CreateInstance(typeName string, pos nodeclass.Position) (nodeclass.InstanceID, error) {
	id, err := r.doCreateInstance(typeName, pos)
	if err == nil {
		r.notifyMutation()
	}
	return id, err
}

func (r *Registry) doCreateInstance(typeName string, pos nodeclass.Position) (nodeclass.InstanceID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	class, ok := r.classes[typeName]
	if !ok {
		return "", notFoundWithSuggestion("class", typeName, r.classNamesLocked())
	}

	r.instanceSeq++
	id := nodeclass.InstanceID(fmt.Sprintf("n%d", r.instanceSeq))

	inst := nodeclass.NewInstance(id, class, pos)
	r.instances[id] = inst
	r.graph.AddNode(id)

	if initer, ok := inst.Impl.(nodeclass.Initializer); ok {
		initer.Init(nodeclass.NewContext(inst))
	}
	return id, nil
}

// DeleteInstance removes inst, every connection touching it, and its
// signal-store entries (§3, §4.3).
func (r *Registry) DeleteInstance(id nodeclass.InstanceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.instances[id]; !ok {
		return notFoundWithSuggestion("instance", string(id), r.instanceIDsLocked())
	}

	kept := make([]Connection, 0, len(r.connections))
	for _, c := range r.connections {
		if c.SourceID == id || c.TargetID == id {
			continue
		}
		kept = append(kept, c)
	}
	r.connections = kept

	r.graph.RemoveNode(id)
	r.signals.Forget(string(id))
	delete(r.instances, id)
	return nil
}

// Connect wires src's output port to dst's input port, subject to the
// invariants of §3/§4.3: both endpoints must exist, the target input
// must not already have an edge, and the declared port types must be
// compatible. A probing tick follows if the network is stopped
// (spec.md:127).
func (r *Registry) Connect(srcID nodeclass.InstanceID, srcKey string, dstID nodeclass.InstanceID, dstKey string) error {
	err := r.doConnect(srcID, srcKey, dstID, dstKey)
	if err == nil {
		r.notifyMutation()
	}
	return err
}

func (r *Registry) doConnect(srcID nodeclass.InstanceID, srcKey string, dstID nodeclass.InstanceID, dstKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.instances[srcID]
	if !ok {
		return notFoundWithSuggestion("instance", string(srcID), r.instanceIDsLocked())
	}
	dst, ok := r.instances[dstID]
	if !ok {
		return notFoundWithSuggestion("instance", string(dstID), r.instanceIDsLocked())
	}

	srcPort, ok := src.Class.OutputByKey(srcKey)
	if !ok {
		return notFoundWithSuggestion("output port", srcKey, portKeys(src.Class.Outputs))
	}
	dstPort, ok := dst.Class.InputByKey(dstKey)
	if !ok {
		return notFoundWithSuggestion("input port", dstKey, portKeys(dst.Class.Inputs))
	}

	if !typesCompatible(srcPort.DataType, dstPort.DataType) {
		return newErr(KindTypeMismatch, "cannot connect %s output %q (%s) to %s input %q (%s)",
			src.Class.TypeName, srcKey, srcPort.DataType, dst.Class.TypeName, dstKey, dstPort.DataType)
	}

	if r.graph.PortBusy(dstID, dstKey) {
		return newErr(KindPortBusy, "input %q on instance %q already has a connection", dstKey, dstID)
	}

	if err := r.graph.AddEdge(srcID, srcKey, dstID, dstKey); err != nil {
		return wrapErr(KindNotFound, err, "connect %s.%s -> %s.%s", srcID, srcKey, dstID, dstKey)
	}

	r.connections = append(r.connections, Connection{SourceID: srcID, SourceKey: srcKey, TargetID: dstID, TargetKey: dstKey})
	return nil
}

func portKeys(ports []descriptor.Port) []string {
	out := make([]string, len(ports))
	for i, p := range ports {
		out[i] = p.Key
	}
	return out
}

// typesCompatible implements §4.1: "any" matches anything; otherwise the
// canonical type names compare equal case-insensitively.
func typesCompatible(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == "any" || b == "any" {
		return true
	}
	return a == b
}

// Disconnect removes the matching connection; a no-op if absent (§4.3).
// A probing tick follows if the network is stopped (spec.md:127).
func (r *Registry) Disconnect(srcID nodeclass.InstanceID, srcKey string, dstID nodeclass.InstanceID, dstKey string) {
	r.mu.Lock()
	removed := false
	kept := make([]Connection, 0, len(r.connections))
	for _, c := range r.connections {
		if c.SourceID == srcID && c.SourceKey == srcKey && c.TargetID == dstID && c.TargetKey == dstKey {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	r.connections = kept
	if removed {
		r.graph.RemoveEdgesTo(dstID, dstKey)
	}
	r.mu.Unlock()

	if removed {
		r.notifyMutation()
	}
}

// SetPosition updates an instance's canvas position.
func (r *Registry) SetPosition(id nodeclass.InstanceID, pos nodeclass.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return notFoundWithSuggestion("instance", string(id), r.instanceIDsLocked())
	}
	inst.Position = pos
	return nil
}

// SetViewport replaces the editor's pan/zoom state.
func (r *Registry) SetViewport(v Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = v
}

// ToggleOutputEnabled flips (or sets) whether an output port
// broadcasts. A probing tick follows if the network is stopped
// (spec.md:127).
func (r *Registry) ToggleOutputEnabled(id nodeclass.InstanceID, key string, enabled bool) error {
	err := r.doToggleOutputEnabled(id, key, enabled)
	if err == nil {
		r.notifyMutation()
	}
	return err
}

func (r *Registry) doToggleOutputEnabled(id nodeclass.InstanceID, key string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return notFoundWithSuggestion("instance", string(id), r.instanceIDsLocked())
	}
	if _, ok := inst.Class.OutputByKey(key); !ok {
		return notFoundWithSuggestion("output port", key, portKeys(inst.Class.Outputs))
	}
	inst.OutputEnabled[key] = enabled
	return nil
}

// InvokeAction runs the action callback named actionKey on instance id
// with params, synchronously, under the registry lock (§13 Open
// Question decision), and returns the callback's result value (§6
// "invoke action | id, key, params | action return value").
func (r *Registry) InvokeAction(id nodeclass.InstanceID, actionKey string, params map[string]any) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]
	if !ok {
		return nil, notFoundWithSuggestion("instance", string(id), r.instanceIDsLocked())
	}

	var action *descriptor.Action
	for i := range inst.Class.Actions {
		if inst.Class.Actions[i].Key == actionKey {
			action = &inst.Class.Actions[i]
			break
		}
	}
	if action == nil {
		keys := make([]string, len(inst.Class.Actions))
		for i, a := range inst.Class.Actions {
			keys[i] = a.Key
		}
		return nil, notFoundWithSuggestion("action", actionKey, keys)
	}

	result, err := nodeclass.InvokeAction(inst.Impl, action.Callback, params)
	if err != nil {
		return result, wrapErr(KindNodeRuntime, err, "action %q on instance %q", actionKey, id)
	}
	return result, nil
}

package graph

import (
	"fmt"
	"sync"

	"github.com/minicortex/core/internal/nodeclass"
)

// Edge is a directed connection from one instance's output port to
// another instance's input port.
type Edge struct {
	FromID  nodeclass.InstanceID
	FromKey string
	ToID    nodeclass.InstanceID
	ToKey   string
}

type vertex struct {
	id  nodeclass.InstanceID
	out map[nodeclass.InstanceID][]Edge
	in  map[nodeclass.InstanceID][]Edge
}

// Graph is a concurrency-safe directed multigraph of node instances and
// the port-to-port edges between them.
type Graph struct {
	mu       sync.RWMutex
	vertices map[nodeclass.InstanceID]*vertex
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{vertices: make(map[nodeclass.InstanceID]*vertex)}
}

// AddNode registers id as a vertex. A no-op if id is already present.
func (g *Graph) AddNode(id nodeclass.InstanceID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNodeLocked(id)
}

func (g *Graph) addNodeLocked(id nodeclass.InstanceID) *vertex {
	if v, ok := g.vertices[id]; ok {
		return v
	}
	v := &vertex{id: id, out: make(map[nodeclass.InstanceID][]Edge), in: make(map[nodeclass.InstanceID][]Edge)}
	g.vertices[id] = v
	return v
}

// RemoveNode deletes id and every edge touching it.
func (g *Graph) RemoveNode(id nodeclass.InstanceID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.vertices[id]
	if !ok {
		return
	}
	for otherID := range v.out {
		if other, ok := g.vertices[otherID]; ok {
			other.removeEdgesWith(id)
		}
	}
	for otherID := range v.in {
		if other, ok := g.vertices[otherID]; ok {
			other.removeEdgesWith(id)
		}
	}
	delete(g.vertices, id)
}

func (v *vertex) removeEdgesWith(other nodeclass.InstanceID) {
	delete(v.out, other)
	delete(v.in, other)
}

// AddEdge connects fromID's output port fromKey to toID's input port
// toKey. Both nodes must already exist. Self-loops (fromID == toID) are
// permitted — a node feeding its own input is the canonical feedback
// scenario (§4.3).
func (g *Graph) AddEdge(fromID nodeclass.InstanceID, fromKey string, toID nodeclass.InstanceID, toKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	from, ok := g.vertices[fromID]
	if !ok {
		return fmt.Errorf("graph: source instance %q not found", fromID)
	}
	to, ok := g.vertices[toID]
	if !ok {
		return fmt.Errorf("graph: destination instance %q not found", toID)
	}

	e := Edge{FromID: fromID, FromKey: fromKey, ToID: toID, ToKey: toKey}
	from.out[toID] = append(from.out[toID], e)
	to.in[fromID] = append(to.in[fromID], e)
	return nil
}

// RemoveEdgesTo removes every edge that terminates at instance id on
// input port key, regardless of source — used when an input connection
// is replaced or explicitly disconnected.
func (g *Graph) RemoveEdgesTo(id nodeclass.InstanceID, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.vertices[id]
	if !ok {
		return
	}
	for fromID, edges := range v.in {
		kept := make([]Edge, 0, len(edges))
		for _, e := range edges {
			if e.ToKey == key {
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(v.in, fromID)
			if from, ok := g.vertices[fromID]; ok {
				delete(from.out, id)
			}
			continue
		}
		v.in[fromID] = kept
		g.reviseOutLocked(fromID, id, kept)
	}
}

func (g *Graph) reviseOutLocked(fromID, toID nodeclass.InstanceID, toKeep []Edge) {
	from, ok := g.vertices[fromID]
	if !ok {
		return
	}
	kept := make([]Edge, 0, len(toKeep))
	for _, e := range from.out[toID] {
		for _, k := range toKeep {
			if e == k {
				kept = append(kept, e)
				break
			}
		}
	}
	from.out[toID] = kept
}

// Nodes returns every instance ID currently in the graph, in no
// particular order.
func (g *Graph) Nodes() []nodeclass.InstanceID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]nodeclass.InstanceID, 0, len(g.vertices))
	for id := range g.vertices {
		out = append(out, id)
	}
	return out
}

// InEdges returns every edge whose ToID is id.
func (g *Graph) InEdges(id nodeclass.InstanceID) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.vertices[id]
	if !ok {
		return nil
	}
	var out []Edge
	for _, edges := range v.in {
		out = append(out, edges...)
	}
	return out
}

// OutEdges returns every edge whose FromID is id.
func (g *Graph) OutEdges(id nodeclass.InstanceID) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.vertices[id]
	if !ok {
		return nil
	}
	var out []Edge
	for _, edges := range v.out {
		out = append(out, edges...)
	}
	return out
}

// InDegree counts distinct incoming edges to id.
func (g *Graph) InDegree(id nodeclass.InstanceID) int {
	return len(g.InEdges(id))
}

// PortBusy reports whether instance id's input port key already has an
// incoming connection (input ports accept exactly one connection, §4.2).
func (g *Graph) PortBusy(id nodeclass.InstanceID, key string) bool {
	for _, e := range g.InEdges(id) {
		if e.ToKey == key {
			return true
		}
	}
	return false
}

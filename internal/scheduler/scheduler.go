package scheduler

import (
	"sort"

	"github.com/minicortex/core/internal/graph"
	"github.com/minicortex/core/internal/nodeclass"
)

// EdgeClass is the feedforward/feedback classification of one connection
// for the current tick's evaluation order.
type EdgeClass int

const (
	// Feedforward means the source instance runs earlier in the order
	// than the target, so the target reads the source's current-tick
	// value.
	Feedforward EdgeClass = iota
	// Feedback means the source runs later than (or force-scheduled
	// concurrently with) the target, so the target reads the source's
	// previous-tick value.
	Feedback
)

// NodeInfo is the minimal per-instance input the scheduler needs:
// identity and the stable tie-break key.
type NodeInfo struct {
	ID            nodeclass.InstanceID
	CreationOrder uint64
}

// Plan is the result of ordering one graph: a total evaluation order
// and a classification for every edge in g.
type Plan struct {
	Order       []nodeclass.InstanceID
	EdgeClasses map[graph.Edge]EdgeClass
}

// Compute implements the five-step Kahn's-algorithm-with-cycle-break of
// §4.4: build in-degrees, seed the frontier with in-degree-zero nodes
// (ties broken by creation order), repeatedly pop-and-relax, and on
// stall force-schedule the remaining node with the smallest current
// in-degree (ties again by creation order), classifying every one of
// its still-incoming edges as feedback.
func Compute(g *graph.Graph, nodes []NodeInfo) Plan {
	order := make([]nodeclass.InstanceID, 0, len(nodes))
	classes := make(map[graph.Edge]EdgeClass, len(nodes))

	creationOf := make(map[nodeclass.InstanceID]uint64, len(nodes))
	for _, n := range nodes {
		creationOf[n.ID] = n.CreationOrder
	}

	inDegree := make(map[nodeclass.InstanceID]int, len(nodes))
	remaining := make(map[nodeclass.InstanceID]bool, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = g.InDegree(n.ID)
		remaining[n.ID] = true
	}

	placed := make(map[nodeclass.InstanceID]bool, len(nodes))

	byCreation := func(ids []nodeclass.InstanceID) {
		sort.Slice(ids, func(i, j int) bool { return creationOf[ids[i]] < creationOf[ids[j]] })
	}

	var frontier []nodeclass.InstanceID
	for id, deg := range inDegree {
		if deg == 0 {
			frontier = append(frontier, id)
		}
	}
	byCreation(frontier)

	relax := func(id nodeclass.InstanceID) []nodeclass.InstanceID {
		var newlyReady []nodeclass.InstanceID
		for _, e := range g.OutEdges(id) {
			if !remaining[e.ToID] {
				continue
			}
			classes[e] = Feedforward
			inDegree[e.ToID]--
			if inDegree[e.ToID] == 0 {
				newlyReady = append(newlyReady, e.ToID)
			}
		}
		return newlyReady
	}

	for len(remaining) > 0 {
		for len(frontier) > 0 {
			id := frontier[0]
			frontier = frontier[1:]
			if !remaining[id] {
				continue
			}
			order = append(order, id)
			placed[id] = true
			delete(remaining, id)
			newlyReady := relax(id)
			if len(newlyReady) > 0 {
				byCreation(newlyReady)
				frontier = append(frontier, newlyReady...)
				byCreation(frontier)
			}
		}
		if len(remaining) == 0 {
			break
		}

		// Stall: at least one cycle remains. Force-schedule the
		// remaining node with smallest current in-degree, ties by
		// creation order.
		var pick nodeclass.InstanceID
		best := -1
		var candidates []nodeclass.InstanceID
		for id := range remaining {
			candidates = append(candidates, id)
		}
		byCreation(candidates)
		for _, id := range candidates {
			d := inDegree[id]
			if best == -1 || d < best {
				best = d
				pick = id
			}
		}

		for _, e := range g.InEdges(pick) {
			if _, already := classes[e]; !already {
				classes[e] = Feedback
			}
		}

		order = append(order, pick)
		placed[pick] = true
		delete(remaining, pick)
		newlyReady := relax(pick)
		byCreation(newlyReady)
		frontier = append(frontier, newlyReady...)
		byCreation(frontier)
	}

	return Plan{Order: order, EdgeClasses: classes}
}

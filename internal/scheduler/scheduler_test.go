package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minicortex/core/internal/graph"
	"github.com/minicortex/core/internal/nodeclass"
	"github.com/minicortex/core/internal/scheduler"
)

func TestCompute_LinearFeedforward(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	require.NoError(t, g.AddEdge("a", "out", "b", "in"))

	nodes := []scheduler.NodeInfo{{ID: "a", CreationOrder: 1}, {ID: "b", CreationOrder: 2}}
	plan := scheduler.Compute(g, nodes)

	assert.Equal(t, []nodeclass.InstanceID{"a", "b"}, plan.Order)
	edge := g.OutEdges("a")[0]
	assert.Equal(t, scheduler.Feedforward, plan.EdgeClasses[edge])
}

func TestCompute_SelfLoopIsFeedback(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	require.NoError(t, g.AddEdge("a", "out", "a", "in"))

	plan := scheduler.Compute(g, []scheduler.NodeInfo{{ID: "a", CreationOrder: 1}})

	assert.Equal(t, []nodeclass.InstanceID{"a"}, plan.Order)
	edge := g.OutEdges("a")[0]
	assert.Equal(t, scheduler.Feedback, plan.EdgeClasses[edge])
}

func TestCompute_TwoCycleBreaksOnOldestCreation(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	require.NoError(t, g.AddEdge("a", "out", "b", "in"))
	require.NoError(t, g.AddEdge("b", "out", "a", "in"))

	nodes := []scheduler.NodeInfo{{ID: "a", CreationOrder: 1}, {ID: "b", CreationOrder: 2}}
	plan := scheduler.Compute(g, nodes)

	require.Len(t, plan.Order, 2)
	assert.Equal(t, nodeclass.InstanceID("a"), plan.Order[0])

	abEdge := g.OutEdges("a")[0]
	baEdge := g.OutEdges("b")[0]
	assert.Equal(t, scheduler.Feedforward, plan.EdgeClasses[abEdge])
	assert.Equal(t, scheduler.Feedback, plan.EdgeClasses[baEdge])
}

func TestCompute_ThreeNodeFanIn(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	require.NoError(t, g.AddEdge("a", "out", "c", "in1"))
	require.NoError(t, g.AddEdge("b", "out", "c", "in2"))

	nodes := []scheduler.NodeInfo{{ID: "a", CreationOrder: 1}, {ID: "b", CreationOrder: 2}, {ID: "c", CreationOrder: 3}}
	plan := scheduler.Compute(g, nodes)

	require.Len(t, plan.Order, 3)
	assert.Equal(t, nodeclass.InstanceID("c"), plan.Order[2])
}

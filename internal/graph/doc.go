// Package graph holds the connection topology of a workspace: which
// node instances exist and which output ports feed which input ports.
//
// This generalizes the teacher's internal/dag in one deliberate way:
// internal/dag's DetectCycles rejects any graph containing a cycle,
// because burstgridgo schedules a one-shot task DAG where a cycle is
// always a configuration error. MiniCortex schedules a tick-driven
// signal graph where a node feeding its own (or an upstream node's)
// input is the ordinary feedback-loop case (§4.3) — so this Graph
// stores cycles without complaint, and leaves deciding what to do about
// them to internal/scheduler.
package graph

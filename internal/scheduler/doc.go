// Package scheduler computes, once per tick, an execution order for a
// graph of node instances and classifies every connection as
// feedforward or feedback.
//
// The teacher's internal/dag rejects cycles outright (DetectCycles);
// this package instead implements Kahn's algorithm with an explicit
// cycle-break step, because a node graph that feeds back into itself
// is the normal case here, not a configuration error (§4.4). Order and
// classification together are what lets the engine decide, per input
// port, whether to read this tick's value or last tick's.
package scheduler

// Package engine runs one tick (or one topology-change probe) of a
// registry's node graph: it computes an evaluation order via
// internal/scheduler, gathers each node's inputs according to the
// feedforward/feedback classification, invokes Process, and harvests
// outputs into the signal store — the per-node sequence of §4.4 step 4,
// grounded on original_source/minicortex/network/network.py's tick loop.
//
// This replaces the teacher's internal/engine, which was the HCL grid
// config loader for burstgridgo's one-shot task execution — that
// discovery/decode concern now belongs to internal/manifest and
// internal/registry.Discover, since this domain's "engine" is the tick
// executor, not a config loader.
package engine

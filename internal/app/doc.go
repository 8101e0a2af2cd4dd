// Package app wires the core engine packages (registry, supervisor,
// workspace, observer) into a runnable application, decoupled from any
// specific entrypoint like cmd/minicortex. It plays the role of the
// teacher's internal/app: a constructor that loads configuration into a
// live object graph, and a Run method that drives it until canceled.
package app

// Package nodeclass holds the node-class schema (built from a parsed
// manifest) and the per-instance cell storage plus the Implementation
// contract a node fulfils, replacing the original's reflective class
// attributes with an explicit schema object and typed accessors (§9).
package nodeclass

import (
	"fmt"

	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/manifest"
)

// Implementation is the behavior half of a node class: the Go code
// registered under a type name, paired with the manifest that describes
// its surface.
type Implementation interface {
	Process(ctx *Context) error
}

// Initializer is implemented by node code that needs one-time setup
// after its cells are populated (§4.2).
type Initializer interface {
	Init(ctx *Context)
}

// ContextBinder is implemented by node code whose action callbacks need
// to read or write cells. Action callbacks are invoked with only their
// params map (§4/§6's `func(params map[string]any) (any, error)`
// contract), so a node that needs cell access from an action binds its
// own Context once, at construction, rather than receiving one per call.
type ContextBinder interface {
	BindContext(ctx *Context)
}

// Factory constructs a fresh, zero-valued Implementation instance.
type Factory func() Implementation

// Class is the immutable schema for a node type: manifest-derived
// descriptors plus the registered Go factory that produces instances.
type Class struct {
	TypeName   string
	Category   string
	Dynamic    bool
	SourcePath string

	Inputs     []descriptor.Port
	Outputs    []descriptor.Port
	Properties []descriptor.Property
	Displays   []descriptor.Display
	Stores     []descriptor.Store
	Actions    []descriptor.Action

	InitMethod string
	ProcMethod string

	Factory Factory
}

// FromManifest builds a Class from a parsed manifest and a registered
// factory. It does not validate the factory against the manifest's
// method names; call Validate for that (done once, at registration).
func FromManifest(m *manifest.NodeManifest, factory Factory) *Class {
	return &Class{
		TypeName:   m.TypeName,
		Category:   m.Category,
		Dynamic:    m.Dynamic,
		SourcePath: m.SourcePath,
		Inputs:     m.Inputs,
		Outputs:    m.Outputs,
		Properties: m.Properties,
		Displays:   m.Displays,
		Stores:     m.Stores,
		Actions:    m.Actions,
		InitMethod: m.InitMethod,
		ProcMethod: m.ProcMethod,
		Factory:    factory,
	}
}

// Validate checks that a factory is registered, that it returns a
// non-nil implementation, and that every action callback name resolves
// to an exported, reflect-callable method of that throwaway instance.
// The manifest's lifecycle method names are not checked: Process is
// present by construction of the Implementation interface, and Init is
// found through the Initializer interface.
func (c *Class) Validate() error {
	if c.Factory == nil {
		return fmt.Errorf("node class %q: no implementation registered", c.TypeName)
	}
	impl := c.Factory()
	if impl == nil {
		return fmt.Errorf("node class %q: factory returned nil", c.TypeName)
	}
	for _, a := range c.Actions {
		if _, err := resolveAction(impl, a.Callback); err != nil {
			return fmt.Errorf("node class %q: action %q: %w", c.TypeName, a.Key, err)
		}
	}
	return nil
}

// InputByKey looks up an input port descriptor by key.
func (c *Class) InputByKey(key string) (descriptor.Port, bool) {
	for _, p := range c.Inputs {
		if p.Key == key {
			return p, true
		}
	}
	return descriptor.Port{}, false
}

func (c *Class) OutputByKey(key string) (descriptor.Port, bool) {
	for _, p := range c.Outputs {
		if p.Key == key {
			return p, true
		}
	}
	return descriptor.Port{}, false
}

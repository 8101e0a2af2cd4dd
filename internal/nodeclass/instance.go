package nodeclass

import "sync/atomic"

// InstanceID identifies a node instance within a registry.
type InstanceID string

var creationCounter uint64

// nextCreationOrder hands out a monotonically increasing sequence number
// used to break ties deterministically (frontier order in the scheduler,
// "oldest first" in cycle-break forcing — §4.4).
func nextCreationOrder() uint64 {
	return atomic.AddUint64(&creationCounter, 1)
}

// Position is the instance's canvas placement, persisted but otherwise
// opaque to the engine.
type Position struct {
	X, Y float64
}

// Instance is a live node: a class, its cell storage, and the Go
// implementation value driving Process/Init.
type Instance struct {
	ID       InstanceID
	Class    *Class
	Position Position

	// CreationOrder breaks ties in the scheduler frontier and in
	// force-schedule selection during cycle-breaking (§4.4).
	CreationOrder uint64

	Cells *Cells

	// OutputEnabled gates what observers are sent: the socket.io
	// transport leaves out a display whose key maps to false. The engine
	// passes output values downstream regardless of it. Keyed by output
	// port key; missing entries default to enabled.
	OutputEnabled map[string]bool

	// LastErr holds the most recent Process error, if the instance
	// is in an error state (§8 error isolation).
	LastErr error

	Impl Implementation
}

// NewInstance builds a live instance from a class and assigns it id,
// applying class defaults to its cells and enabling every output.
func NewInstance(id InstanceID, class *Class, pos Position) *Instance {
	inst := &Instance{
		ID:            id,
		Class:         class,
		Position:      pos,
		CreationOrder: nextCreationOrder(),
		Cells:         NewCells(class),
		OutputEnabled: make(map[string]bool, len(class.Outputs)),
		Impl:          class.Factory(),
	}
	for _, p := range class.Outputs {
		inst.OutputEnabled[p.Key] = true
	}
	if binder, ok := inst.Impl.(ContextBinder); ok {
		binder.BindContext(NewContext(inst))
	}
	return inst
}

// Context wraps an Instance with the accessor surface handed to
// Process/Init, the Go stand-in for the original's implicit `self`
// attribute access (§5).
type Context struct {
	inst *Instance
}

// NewContext builds a Context for inst.
func NewContext(inst *Instance) *Context {
	return &Context{inst: inst}
}

// GetInput returns the current value of input port key and whether it
// has ever received a signal (false, Unset if not).
func (c *Context) GetInput(key string) (any, bool) {
	v, ok := c.inst.Cells.Inputs[key]
	if !ok {
		return nil, false
	}
	if _, isUnset := v.(unset); isUnset {
		return nil, false
	}
	return v, true
}

// SetOutput writes the value an output port produces this tick.
func (c *Context) SetOutput(key string, value any) {
	c.inst.Cells.Outputs[key] = value
}

// SetDisplay writes a UI-only display value.
func (c *Context) SetDisplay(key string, value any) {
	c.inst.Cells.Displays[key] = value
}

// GetProperty returns a property's current tunable value.
func (c *Context) GetProperty(key string) any {
	return c.inst.Cells.Properties[key]
}

// GetStore returns persistent per-instance state.
func (c *Context) GetStore(key string) any {
	return c.inst.Cells.Stores[key]
}

// SetStore writes persistent per-instance state.
func (c *Context) SetStore(key string, value any) {
	c.inst.Cells.Stores[key] = value
}

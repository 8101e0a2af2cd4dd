package nodeclass

// unset is the sentinel type for "no value present", distinct from a
// present-but-zero value — needed for input ports per §3.
type unset struct{}

// Unset is the sentinel stored in an input port cell that has never
// received a signal, or whose connection was just removed.
var Unset = unset{}

// Cells is the per-instance value storage backing every descriptor on a
// class: one keyed map per descriptor kind.
type Cells struct {
	Inputs     map[string]any
	Outputs    map[string]any
	Properties map[string]any
	Displays   map[string]any
	Stores     map[string]any
}

// NewCells allocates cell storage initialized to class defaults: input
// ports start Unset, output/display cells start nil, properties and
// stores start at their manifest defaults.
func NewCells(c *Class) *Cells {
	cells := &Cells{
		Inputs:     make(map[string]any, len(c.Inputs)),
		Outputs:    make(map[string]any, len(c.Outputs)),
		Properties: make(map[string]any, len(c.Properties)),
		Displays:   make(map[string]any, len(c.Displays)),
		Stores:     make(map[string]any, len(c.Stores)),
	}
	for _, p := range c.Inputs {
		cells.Inputs[p.Key] = Unset
	}
	for _, p := range c.Outputs {
		cells.Outputs[p.Key] = nil
	}
	for _, p := range c.Properties {
		cells.Properties[p.Key] = p.Default
	}
	for _, d := range c.Displays {
		cells.Displays[d.Key] = nil
	}
	for _, s := range c.Stores {
		cells.Stores[s.Key] = s.Default
	}
	return cells
}

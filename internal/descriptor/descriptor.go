// Package descriptor defines the closed set of node-class descriptor
// kinds: the five ways a node class can expose its surface (ports,
// properties, displays, actions, stores), modeled as tagged-variant
// structs rather than the original's reflective class attributes (§9).
package descriptor

// Port describes an input or output connection point.
type Port struct {
	Key      string
	Label    string
	DataType string
}

// PropertyKind is the closed sum of tunable-parameter kinds.
type PropertyKind int

const (
	RangeKind PropertyKind = iota
	IntegerKind
	BoolKind
	EnumKind
)

// Range is a float property clamped to [Min, Max], optionally displayed
// on a log scale by the UI.
type Range struct {
	Min, Max float64
	Scale    string // "linear" or "log"
}

// Integer is a whole-number property with optional bounds. A nil Min/Max
// (represented here by HasMin/HasMax) means unbounded on that side.
type Integer struct {
	HasMin, HasMax bool
	Min, Max       int64
}

// Enum restricts a string property to a fixed option set.
type Enum struct {
	Options []string
}

// Property is a single tunable parameter descriptor. Exactly one of
// Range/Integer/Enum is populated, selected by Kind; Bool has no payload.
type Property struct {
	Key       string
	Label     string
	Kind      PropertyKind
	Default   any
	Range     Range
	Integer   Integer
	Enum      Enum
	OnChange  string // optional method name invoked on change
	HasOnChg  bool
}

// DisplayKind is the closed sum of display-only output kinds.
type DisplayKind int

const (
	NumericKind DisplayKind = iota
	TextKind
	Vector1DKind
	Vector2DKind
)

// Display is a node-written, UI-only output descriptor.
type Display struct {
	Key       string
	Label     string
	Kind      DisplayKind
	Format    string // Numeric only, e.g. "%.4f"
	ColorMode string // Vector1D/Vector2D only, e.g. "grayscale"
}

// Action is an invokable callback exposed as a UI button.
type Action struct {
	Key      string
	Label    string
	Callback string // exported method name on the Implementation
}

// Store is persistent, per-instance state surviving save/load and
// hot-reload.
type Store struct {
	Key     string
	Default any
}

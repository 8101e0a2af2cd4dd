// Package manifest parses the HCL node-class manifests that define a
// node's descriptor schema: ports, properties, displays, actions, and
// stores. This is the "ClassSource" of spec §9 — hot-reload re-parses
// exactly this file, the Go counterpart of the teacher's
// RunnerDefinition/AssetDefinition manifests in internal/schema.
package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/minicortex/core/internal/cty2go"
	"github.com/minicortex/core/internal/descriptor"
)

// fileSchema is the raw HCL decoding target, mirroring the teacher's
// DefinitionConfig / RunnerDefinition shape.
type fileSchema struct {
	Nodes []*nodeBlock `hcl:"node,block"`
}

type nodeBlock struct {
	Type       string             `hcl:"type,label"`
	Category   string             `hcl:"category"`
	Dynamic    bool               `hcl:"dynamic,optional"`
	Inputs     []*portBlock       `hcl:"input,block"`
	Outputs    []*portBlock       `hcl:"output,block"`
	Properties []*propertyBlock   `hcl:"property,block"`
	Displays   []*displayBlock    `hcl:"display,block"`
	Stores     []*storeBlock      `hcl:"store,block"`
	Actions    []*actionBlock     `hcl:"action,block"`
	Lifecycle  *lifecycleBlock    `hcl:"lifecycle,block"`
}

type portBlock struct {
	Key      string `hcl:"key,label"`
	Label    string `hcl:"label,optional"`
	DataType string `hcl:"data_type,optional"`
}

type propertyBlock struct {
	Key      string     `hcl:"key,label"`
	Kind     string     `hcl:"kind"`
	Label    string      `hcl:"label,optional"`
	Default  *cty.Value `hcl:"default,optional"`
	Min      *float64   `hcl:"min,optional"`
	Max      *float64   `hcl:"max,optional"`
	Scale    string     `hcl:"scale,optional"`
	Options  []string   `hcl:"options,optional"`
	OnChange string     `hcl:"on_change,optional"`
}

type displayBlock struct {
	Key       string `hcl:"key,label"`
	Label     string `hcl:"label,optional"`
	Kind      string `hcl:"kind"`
	Format    string `hcl:"format,optional"`
	ColorMode string `hcl:"color_mode,optional"`
}

type storeBlock struct {
	Key     string     `hcl:"key,label"`
	Label   string     `hcl:"label,optional"`
	Default *cty.Value `hcl:"default,optional"`
}

type actionBlock struct {
	Key      string `hcl:"key,label"`
	Label    string `hcl:"label,optional"`
	Callback string `hcl:"callback"`
}

type lifecycleBlock struct {
	Init    string `hcl:"init,optional"`
	Process string `hcl:"process"`
}

// NodeManifest is the decoded, domain-level schema for one node class,
// ready to be handed to internal/nodeclass to build a class schema.
type NodeManifest struct {
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
}

// ParseFile parses a single .hcl manifest file, returning every node
// class block it defines.
func ParseFile(path string) ([]*NodeManifest, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("manifest: parse %s: %w", path, diags)
	}

	var raw fileSchema
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("manifest: decode %s: %w", path, diags)
	}

	out := make([]*NodeManifest, 0, len(raw.Nodes))
	for _, nb := range raw.Nodes {
		m, err := translateNode(nb, path)
		if err != nil {
			return nil, fmt.Errorf("manifest: %s: %w", path, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// ReloadType re-parses path and returns the single node manifest whose
// TypeName matches typeName, or an error if the file no longer defines
// it — the hot-reload entry point of spec §4.6 step 2.
func ReloadType(path, typeName string) (*NodeManifest, error) {
	manifests, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	for _, m := range manifests {
		if m.TypeName == typeName {
			return m, nil
		}
	}
	return nil, fmt.Errorf("manifest: type %q no longer defined in %s", typeName, path)
}

func translateNode(nb *nodeBlock, path string) (*NodeManifest, error) {
	m := &NodeManifest{
		TypeName:   nb.Type,
		Category:   nb.Category,
		Dynamic:    nb.Dynamic,
		SourcePath: path,
	}

	for _, p := range nb.Inputs {
		m.Inputs = append(m.Inputs, portSpec(p))
	}
	for _, p := range nb.Outputs {
		m.Outputs = append(m.Outputs, portSpec(p))
	}

	for _, p := range nb.Properties {
		prop, err := propertySpec(p)
		if err != nil {
			return nil, err
		}
		m.Properties = append(m.Properties, prop)
	}

	for _, d := range nb.Displays {
		disp, err := displaySpec(d)
		if err != nil {
			return nil, err
		}
		m.Displays = append(m.Displays, disp)
	}

	for _, s := range nb.Stores {
		def, err := defaultOf(s.Default)
		if err != nil {
			return nil, fmt.Errorf("store %q: %w", s.Key, err)
		}
		m.Stores = append(m.Stores, descriptor.Store{Key: s.Key, Default: def})
	}

	for _, a := range nb.Actions {
		label := a.Label
		if label == "" {
			label = a.Key
		}
		m.Actions = append(m.Actions, descriptor.Action{Key: a.Key, Label: label, Callback: a.Callback})
	}

	if nb.Lifecycle == nil || nb.Lifecycle.Process == "" {
		return nil, fmt.Errorf("node %q: lifecycle.process is required", nb.Type)
	}
	m.InitMethod = nb.Lifecycle.Init
	m.ProcMethod = nb.Lifecycle.Process

	return m, nil
}

func portSpec(p *portBlock) descriptor.Port {
	label := p.Label
	if label == "" {
		label = p.Key
	}
	dt := p.DataType
	if dt == "" {
		dt = "any"
	}
	return descriptor.Port{Key: p.Key, Label: label, DataType: dt}
}

func defaultOf(v *cty.Value) (any, error) {
	if v == nil {
		return nil, nil
	}
	return cty2go.ToNative(*v)
}

func propertySpec(p *propertyBlock) (descriptor.Property, error) {
	label := p.Label
	if label == "" {
		label = p.Key
	}
	def, err := defaultOf(p.Default)
	if err != nil {
		return descriptor.Property{}, fmt.Errorf("property %q: %w", p.Key, err)
	}

	out := descriptor.Property{Key: p.Key, Label: label, Default: def}
	if p.OnChange != "" {
		out.OnChange = p.OnChange
		out.HasOnChg = true
	}

	switch p.Kind {
	case "range":
		out.Kind = descriptor.RangeKind
		scale := p.Scale
		if scale == "" {
			scale = "linear"
		}
		min, max := 0.0, 1.0
		if p.Min != nil {
			min = *p.Min
		}
		if p.Max != nil {
			max = *p.Max
		}
		out.Range = descriptor.Range{Min: min, Max: max, Scale: scale}
	case "integer":
		out.Kind = descriptor.IntegerKind
		ii := descriptor.Integer{}
		if p.Min != nil {
			ii.HasMin, ii.Min = true, int64(*p.Min)
		}
		if p.Max != nil {
			ii.HasMax, ii.Max = true, int64(*p.Max)
		}
		out.Integer = ii
	case "bool":
		out.Kind = descriptor.BoolKind
	case "enum":
		out.Kind = descriptor.EnumKind
		out.Enum = descriptor.Enum{Options: p.Options}
	default:
		return descriptor.Property{}, fmt.Errorf("property %q: unknown kind %q", p.Key, p.Kind)
	}
	return out, nil
}

func displaySpec(d *displayBlock) (descriptor.Display, error) {
	label := d.Label
	if label == "" {
		label = d.Key
	}
	out := descriptor.Display{Key: d.Key, Label: label, Format: d.Format, ColorMode: d.ColorMode}
	switch d.Kind {
	case "numeric":
		out.Kind = descriptor.NumericKind
		if out.Format == "" {
			out.Format = "%.4f"
		}
	case "text":
		out.Kind = descriptor.TextKind
	case "vector1d":
		out.Kind = descriptor.Vector1DKind
		if out.ColorMode == "" {
			out.ColorMode = "grayscale"
		}
	case "vector2d":
		out.Kind = descriptor.Vector2DKind
		if out.ColorMode == "" {
			out.ColorMode = "grayscale"
		}
	default:
		return descriptor.Display{}, fmt.Errorf("display %q: unknown kind %q", d.Key, d.Kind)
	}
	return out, nil
}

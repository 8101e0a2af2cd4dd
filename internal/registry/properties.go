package registry

import (
	"fmt"
	"slices"

	"github.com/minicortex/core/internal/descriptor"
	"github.com/minicortex/core/internal/nodeclass"
)

// SetProperty validates and writes a property value, applying the
// per-kind coercion of §4.1 (range: coerce-to-float and clamp, integer:
// coerce-to-int and clamp if bounded, bool: coerce, enum: reject unless
// one of the declared options), then fires the optional on-change
// callback with (new, old). A probing tick follows if the network is
// stopped (spec.md:127).
func (r *Registry) SetProperty(id nodeclass.InstanceID, key string, value any) error {
	err := r.doSetProperty(id, key, value)
	if err == nil {
		r.notifyMutation()
	}
	return err
}

func (r *Registry) doSetProperty(id nodeclass.InstanceID, key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.instances[id]
	if !ok {
		return notFoundWithSuggestion("instance", string(id), r.instanceIDsLocked())
	}

	var prop *descriptor.Property
	for i := range inst.Class.Properties {
		if inst.Class.Properties[i].Key == key {
			prop = &inst.Class.Properties[i]
			break
		}
	}
	if prop == nil {
		keys := make([]string, len(inst.Class.Properties))
		for i, p := range inst.Class.Properties {
			keys[i] = p.Key
		}
		return notFoundWithSuggestion("property", key, keys)
	}

	coerced, err := coerceProperty(*prop, value)
	if err != nil {
		return wrapErr(KindValidation, err, "property %q on instance %q", key, id)
	}

	old := inst.Cells.Properties[key]
	inst.Cells.Properties[key] = coerced

	if prop.HasOnChg {
		nodeclass.InvokeOnChange(inst.Impl, prop.OnChange, coerced, old)
	}
	return nil
}

func coerceProperty(prop descriptor.Property, value any) (any, error) {
	switch prop.Kind {
	case descriptor.RangeKind:
		f, err := toFloat(value)
		if err != nil {
			return nil, err
		}
		if f < prop.Range.Min {
			f = prop.Range.Min
		}
		if f > prop.Range.Max {
			f = prop.Range.Max
		}
		return f, nil
	case descriptor.IntegerKind:
		i, err := toInt(value)
		if err != nil {
			return nil, err
		}
		if prop.Integer.HasMin && i < prop.Integer.Min {
			i = prop.Integer.Min
		}
		if prop.Integer.HasMax && i > prop.Integer.Max {
			i = prop.Integer.Max
		}
		return i, nil
	case descriptor.BoolKind:
		b, err := toBool(value)
		if err != nil {
			return nil, err
		}
		return b, nil
	case descriptor.EnumKind:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("enum property requires a string value, got %T", value)
		}
		if !slices.Contains(prop.Enum.Options, s) {
			return nil, fmt.Errorf("value %q is not one of %v", s, prop.Enum.Options)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown property kind %v", prop.Kind)
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to a range value", v)
	}
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case float32:
		return int64(t), nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to an integer value", v)
	}
}

func toBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("cannot coerce %T to a bool value", v)
	}
	return b, nil
}

// GetProperty returns a property's current value.
func (r *Registry) GetProperty(id nodeclass.InstanceID, key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[id]
	if !ok {
		return nil, notFoundWithSuggestion("instance", string(id), r.instanceIDsLocked())
	}
	v, ok := inst.Cells.Properties[key]
	if !ok {
		keys := make([]string, len(inst.Class.Properties))
		for i, p := range inst.Class.Properties {
			keys[i] = p.Key
		}
		return nil, notFoundWithSuggestion("property", key, keys)
	}
	return v, nil
}

// SetStore writes persistent per-instance state directly, with no
// coercion (stores are free-form, §3). A probing tick follows if the
// network is stopped (spec.md:127).
func (r *Registry) SetStore(id nodeclass.InstanceID, key string, value any) error {
	err := r.doSetStore(id, key, value)
	if err == nil {
		r.notifyMutation()
	}
	return err
}

func (r *Registry) doSetStore(id nodeclass.InstanceID, key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[id]
	if !ok {
		return notFoundWithSuggestion("instance", string(id), r.instanceIDsLocked())
	}
	if _, ok := inst.Cells.Stores[key]; !ok {
		keys := make([]string, len(inst.Class.Stores))
		for i, s := range inst.Class.Stores {
			keys[i] = s.Key
		}
		return notFoundWithSuggestion("store", key, keys)
	}
	inst.Cells.Stores[key] = value
	return nil
}

// GetStore returns persistent per-instance state.
func (r *Registry) GetStore(id nodeclass.InstanceID, key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[id]
	if !ok {
		return nil, notFoundWithSuggestion("instance", string(id), r.instanceIDsLocked())
	}
	v, ok := inst.Cells.Stores[key]
	if !ok {
		keys := make([]string, len(inst.Class.Stores))
		for i, s := range inst.Class.Stores {
			keys[i] = s.Key
		}
		return nil, notFoundWithSuggestion("store", key, keys)
	}
	return v, nil
}

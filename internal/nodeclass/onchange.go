package nodeclass

import "reflect"

// InvokeOnChange calls a property's on_change callback, if the
// implementation provides one, with the new and old values (§4.1).
// The method must accept exactly two arguments assignable from `any`.
func InvokeOnChange(impl Implementation, method string, newValue, oldValue any) {
	if method == "" {
		return
	}
	v := reflect.ValueOf(impl)
	m := v.MethodByName(method)
	if !m.IsValid() || m.Type().NumIn() != 2 {
		return
	}
	mt := m.Type()
	m.Call([]reflect.Value{argFor(mt.In(0), newValue), argFor(mt.In(1), oldValue)})
}

// argFor builds a reflect.Value suitable as a call argument of type t,
// substituting a zero value when v is nil (an untyped nil can't be
// wrapped with reflect.ValueOf directly).
func argFor(t reflect.Type, v any) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

package nodeclass

import (
	"fmt"
	"reflect"
)

var (
	errorInterface     = reflect.TypeOf((*error)(nil)).Elem()
	paramsMapType      = reflect.TypeOf(map[string]any(nil))
	emptyInterfaceType = reflect.TypeOf((*any)(nil)).Elem()
)

// resolveAction looks up callbackName as an exported method on impl
// matching the action-callback contract (§4/§6): exactly one
// `map[string]any` parameter, returning `(any, error)`. This is the
// reflect-based handler resolution the teacher's executor uses for
// registered step handlers, adapted here to resolve action-button
// callbacks.
func resolveAction(impl Implementation, callbackName string) (reflect.Value, error) {
	v := reflect.ValueOf(impl)
	m := v.MethodByName(callbackName)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("no method %q on %T", callbackName, impl)
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.In(0) != paramsMapType {
		return reflect.Value{}, fmt.Errorf("method %q must take exactly one map[string]any argument", callbackName)
	}
	if mt.NumOut() != 2 || mt.Out(0) != emptyInterfaceType || !mt.Out(1).Implements(errorInterface) {
		return reflect.Value{}, fmt.Errorf("method %q must return (any, error)", callbackName)
	}
	return m, nil
}

// InvokeAction resolves and calls the action's callback method on impl
// with params, returning the callback's opaque result value (§6's
// "invoke action ... action return value").
func InvokeAction(impl Implementation, callbackName string, params map[string]any) (any, error) {
	m, err := resolveAction(impl, callbackName)
	if err != nil {
		return nil, err
	}
	out := m.Call([]reflect.Value{reflect.ValueOf(params)})
	result := out[0].Interface()
	if errVal := out[1]; !errVal.IsNil() {
		return result, errVal.Interface().(error)
	}
	return result, nil
}

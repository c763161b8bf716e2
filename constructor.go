package wiring

import (
	"fmt"
	"reflect"
	"strings"
)

// Construct builds an instance of t from args. The type bound to t with
// BindType is built in its place, if any; instance bindings are not consulted.
//
// Candidates are the constructors registered for the concrete type, in
// registration order, followed by the implicit zero-value constructor when
// the concrete type is a pointer to struct. The first candidate whose
// parameters accept args wins, even when a later one would be a closer match.
// A parameter of a basic kind (bool, integer, float or complex) accepts only an
// argument of exactly that type; any other parameter accepts an argument whose
// type is assignable to it. A nil argument is accepted by pointer, interface,
// map, slice, func and chan parameters.
//
// Construct fails with ErrConstruction when no candidate fits or the chosen
// constructor returns an error, returns a nil interface or panics, and with
// ErrBindingTypeMismatch when the built value is not assignable to t.
func (r *Registry) Construct(t reflect.Type, args ...any) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: type is nil", ErrConstruction)
	}
	if len(args) > MaxConstructorArgs {
		return nil, fmt.Errorf("%w: %w: %s called with %d arguments, at most %d are supported",
			ErrConstruction, ErrTooManyArguments, t, len(args), MaxConstructorArgs)
	}

	concrete := r.ConcreteType(t)

	for _, c := range r.constructorsFor(concrete) {
		if !isCompatible(c.fn.Type(), args) {
			continue
		}
		instance, err := invokeConstructor(c.fn, args)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConstruction, concrete, err)
		}
		return checkAssignable(t, concrete, instance)
	}

	if len(args) == 0 {
		if instance, ok := createInstance(concrete); ok {
			return checkAssignable(t, concrete, instance)
		}
	}

	return nil, fmt.Errorf("%w: no constructor of %s accepts (%s)", ErrConstruction, concrete, argTypes(args))
}

func isCompatible(fnType reflect.Type, args []any) bool {
	if fnType.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := fnType.In(i)
		if arg == nil {
			if !isNillable(param.Kind()) {
				return false
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if isPrimitive(param.Kind()) {
			if argType != param {
				return false
			}
			continue
		}
		if !argType.AssignableTo(param) {
			return false
		}
	}
	return true
}

func invokeConstructor(fn reflect.Value, args []any) (instance any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = fmt.Errorf("constructor panicked: %v", rec)
		}
	}()

	fnType := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(fnType.In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}

	var out []reflect.Value
	if fnType.IsVariadic() {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func checkAssignable(requested, concrete reflect.Type, instance any) (any, error) {
	if instance == nil {
		return nil, fmt.Errorf("%w: constructor of %s returned nil", ErrConstruction, concrete)
	}
	if !reflect.TypeOf(instance).AssignableTo(requested) {
		return nil, fmt.Errorf("%w: %s is bound to %s, which built a %T", ErrBindingTypeMismatch, requested, concrete, instance)
	}
	return instance, nil
}

func isPrimitive(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func isNillable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func argTypes(args []any) string {
	names := make([]string, len(args))
	for i, arg := range args {
		if arg == nil {
			names[i] = "nil"
			continue
		}
		names[i] = reflect.TypeOf(arg).String()
	}
	return strings.Join(names, ", ")
}

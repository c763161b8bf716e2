// Package invoke calls methods by name through reflection, caching method
// lookups per receiver type.
//
//	out, err := invoke.Method(reflect.TypeOf(svc), "Greet", svc, "bob")
package invoke

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrInvocation is returned when a method cannot be found, does not accept the
// given arguments, panics, or returns a non-nil trailing error.
var ErrInvocation = errors.New("method invocation failed")

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type cacheKey struct {
	typ  reflect.Type
	name string
}

var methods sync.Map // cacheKey -> reflect.Method

// Method calls the method called name of t on receiver with args and returns
// its results. A trailing error result is not included in the returned slice;
// when it is non-nil it is returned wrapped in ErrInvocation.
//
// receiver must be assignable to t. Arguments follow reflect.Value.Call rules;
// a nil argument is passed as the zero value of its parameter.
func Method(t reflect.Type, name string, receiver any, args ...any) (results []any, err error) {
	if t == nil {
		return nil, fmt.Errorf("%w: type is nil", ErrInvocation)
	}
	method, err := lookup(t, name)
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(receiver)
	if !rv.IsValid() || !rv.Type().AssignableTo(t) {
		return nil, fmt.Errorf("%w: receiver %T is not a %s", ErrInvocation, receiver, t)
	}

	// For interface types the method has no receiver parameter.
	fn := rv.Method(methodIndex(rv.Type(), method))
	fnType := fn.Type()
	if (!fnType.IsVariadic() && fnType.NumIn() != len(args)) || (fnType.IsVariadic() && len(args) < fnType.NumIn()-1) {
		return nil, fmt.Errorf("%w: %s.%s takes %d arguments, got %d", ErrInvocation, t, name, fnType.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		paramType := paramAt(fnType, i)
		if arg == nil {
			in[i] = reflect.Zero(paramType)
			continue
		}
		in[i] = reflect.ValueOf(arg)
		if !in[i].Type().AssignableTo(paramType) {
			return nil, fmt.Errorf("%w: %s.%s argument %d: %s is not assignable to %s", ErrInvocation, t, name, i, in[i].Type(), paramType)
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			results = nil
			err = fmt.Errorf("%w: %s.%s panicked: %v", ErrInvocation, t, name, rec)
		}
	}()

	out := fn.Call(in)
	if n := len(out); n > 0 && fnType.Out(n-1) == errorType {
		if !out[n-1].IsNil() {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrInvocation, t, name, out[n-1].Interface().(error))
		}
		out = out[:n-1]
	}

	results = make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

// ClearCache drops all cached method lookups.
func ClearCache() {
	methods.Clear()
}

func lookup(t reflect.Type, name string) (reflect.Method, error) {
	key := cacheKey{typ: t, name: name}
	if m, ok := methods.Load(key); ok {
		return m.(reflect.Method), nil
	}
	m, ok := t.MethodByName(name)
	if !ok {
		return reflect.Method{}, fmt.Errorf("%w: %s has no method %s", ErrInvocation, t, name)
	}
	methods.Store(key, m)
	return m, nil
}

// methodIndex maps a method found on t to its index in the method set of the
// receiver's dynamic type, which differs from t when t is an interface.
func methodIndex(dynamic reflect.Type, m reflect.Method) int {
	if dm, ok := dynamic.MethodByName(m.Name); ok {
		return dm.Index
	}
	return m.Index
}

func paramAt(fnType reflect.Type, i int) reflect.Type {
	if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
		return fnType.In(fnType.NumIn() - 1).Elem()
	}
	return fnType.In(i)
}

package wiring

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/Station-Manager/wiring/invoke"
	"go.uber.org/zap"
)

// resolution tracks the types being built by one top-level call, in order,
// for cycle detection.
type resolution struct {
	path []frame
}

type frame struct {
	typ       reflect.Type
	singleton bool
}

func (r *resolution) enter(t reflect.Type, singleton bool) {
	r.path = append(r.path, frame{typ: t, singleton: singleton})
}

func (r *resolution) leave() {
	r.path = r.path[:len(r.path)-1]
}

// cycle returns the path from the earlier occurrence of t back to t, if
// building t again would never terminate. Re-entering t is harmless when a
// singleton was entered after it, because that singleton is already bound and
// stops the repeated expansion.
func (r *resolution) cycle(t reflect.Type) (string, bool) {
	for j := len(r.path) - 1; j >= 0; j-- {
		if r.path[j].singleton {
			return emptyString, false
		}
		if r.path[j].typ != t {
			continue
		}
		names := make([]string, 0, len(r.path)-j+1)
		for _, f := range r.path[j:] {
			names = append(names, f.typ.String())
		}
		names = append(names, t.String())
		return strings.Join(names, pathSep), true
	}
	return emptyString, false
}

func (i *Injector) resolve(t reflect.Type, res *resolution) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: type is nil", ErrConstruction)
	}

	// Instance bindings win unconditionally and are never injected into.
	if instance, ok := i.registry.instance(t); ok {
		return instance, nil
	}

	if path, ok := res.cycle(t); ok {
		i.logger.Warn("dependency cycle detected", zap.String("path", path))
		return nil, fmt.Errorf("%w: %s", ErrCyclicDependency, path)
	}

	singleton := i.registry.IsSingleton(t)
	res.enter(t, singleton)
	defer res.leave()

	instance, err := i.registry.Construct(t)
	if err != nil {
		return nil, err
	}
	i.logger.Debug("constructed instance",
		zap.Stringer("type", t),
		zap.Stringer("concrete", reflect.TypeOf(instance)),
		zap.Bool("singleton", singleton))

	if singleton {
		// Bind before injecting so that the instance's own dependencies can
		// refer back to it.
		actual, stored := i.registry.bindInstanceIfAbsent(t, instance)
		if !stored {
			i.logger.Debug("singleton bound concurrently, discarding built instance", zap.Stringer("type", t))
			return actual, nil
		}
	}

	if isStructPointer(instance) {
		if err := i.injectDependencies(instance, res); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (i *Injector) injectDependencies(obj any, res *resolution) error {
	target, err := structTarget(obj)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInjection, err)
	}

	for _, fd := range FieldsOf(target.Type()) {
		if !isDependency(fd) {
			continue
		}
		if err := i.injectField(target, fd, fd.Type, res); err != nil {
			return err
		}
	}

	return i.runInitializers(obj)
}

func (i *Injector) injectOverrides(obj any, overrides map[FieldID]reflect.Type, res *resolution) error {
	target, err := structTarget(obj)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInjection, err)
	}

	for _, fd := range FieldsOf(target.Type()) {
		if !isDependency(fd) {
			continue
		}
		mapped, ok := overrides[fd.ID()]
		if !ok {
			continue
		}
		if err := i.injectField(target, fd, mapped, res); err != nil {
			return err
		}
	}
	return nil
}

func (i *Injector) injectField(target reflect.Value, fd FieldDescriptor, requested reflect.Type, res *resolution) error {
	value, err := i.resolveField(fd, requested, res)
	if err != nil {
		return fieldError(fd, err)
	}
	if err := setField(target, fd, value); err != nil {
		return fieldError(fd, err)
	}
	i.logger.Debug("injected field",
		zap.Stringer("owner", fd.Owner),
		zap.String("field", fd.Name),
		zap.Stringer("type", requested))
	return nil
}

func (i *Injector) resolveField(fd FieldDescriptor, requested reflect.Type, res *resolution) (any, error) {
	if i.literals != nil && isScalar(requested.Kind()) {
		key := fd.Tag.Get(string(inject))
		if key == emptyString {
			key = fd.Name
		}
		value, found, err := i.literals(key, requested)
		if err != nil {
			return nil, fmt.Errorf("literal provider error for '%s': %w", key, err)
		}
		if found {
			return convertLiteral(value, requested)
		}
	}
	return i.resolve(requested, res)
}

// runInitializers calls Initialize and the methods marked with MarkInitializer
// in method-set order. The first failure stops the remaining calls.
func (i *Injector) runInitializers(obj any) error {
	rv := reflect.ValueOf(obj)
	rt := rv.Type()

	names := i.initializerSet(rt)
	if len(names) == 0 {
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(names)) {
		if _, ok := rt.MethodByName(name); !ok {
			return fmt.Errorf("%w: initializer %s.%s not found", ErrInjection, rt, name)
		}
	}

	for m := 0; m < rt.NumMethod(); m++ {
		method := rt.Method(m)
		if !names[method.Name] {
			continue
		}
		if err := callInitializer(rt, obj, rv.Method(m).Type(), method.Name); err != nil {
			return fmt.Errorf("%w: initializer %s.%s failed: %w", ErrInjection, rt, method.Name, err)
		}
		i.logger.Debug("ran initializer", zap.Stringer("type", rt), zap.String("method", method.Name))
	}
	return nil
}

func (i *Injector) initializerSet(t reflect.Type) map[string]bool {
	names := make(map[string]bool)
	if t.Implements(reflect.TypeOf((*Initializer)(nil)).Elem()) {
		names["Initialize"] = true
	}
	for _, name := range i.registry.initializerNames(t) {
		names[name] = true
	}
	if t.Kind() == reflect.Ptr {
		for _, name := range i.registry.initializerNames(t.Elem()) {
			names[name] = true
		}
	}
	return names
}

func callInitializer(rt reflect.Type, obj any, mt reflect.Type, name string) error {
	if mt.NumIn() != 0 || mt.NumOut() > 1 || (mt.NumOut() == 1 && mt.Out(0) != errorType) {
		return fmt.Errorf("%s must take no arguments and return nothing or an error, got %s", name, mt)
	}
	_, err := invoke.Method(rt, name, obj)
	return err
}

func fieldError(fd FieldDescriptor, err error) error {
	if errors.Is(err, ErrInjection) {
		return fmt.Errorf("field %s.%s: %w", fd.Owner, fd.Name, err)
	}
	return fmt.Errorf("%w: field %s.%s: %w", ErrInjection, fd.Owner, fd.Name, err)
}

func isDependency(fd FieldDescriptor) bool {
	_, ok := fd.Tag.Lookup(string(inject))
	return ok
}

func isStructPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct
}

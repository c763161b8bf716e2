package wiring

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Injector builds objects and satisfies their di.inject fields using the
// bindings, constructors and markers held by a Registry.
//
// Resolve and InjectDependencies calls are serialized on the Registry, not on
// the Injector, so the first resolution of a singleton type builds exactly one
// instance even when Injectors sharing the Registry race for it. Constructors
// and initializers must not call back into any Injector over the same
// Registry while they run; the lock is not re-entrant.
type Injector struct {
	registry *Registry
	logger   *zap.Logger
	literals LiteralProvider
}

// NewInjector returns an Injector backed by reg. A nil reg is replaced by an
// empty Registry.
func NewInjector(reg *Registry, opts ...Option) *Injector {
	if reg == nil {
		reg = NewRegistry()
	}
	i := &Injector{
		registry: reg,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Registry returns the registry the injector resolves against.
func (i *Injector) Registry() *Registry {
	return i.registry
}

// Resolve returns an instance of t.
//
// If t is instance-bound, the bound instance is returned as it is; nothing is
// injected into it. If t is marked as a singleton, the first call builds an
// instance, binds it to t before its fields are injected, and every later call
// returns that instance. Otherwise a new instance is built on every call.
//
// Instances are built with Registry.Construct and no arguments, so a BindType
// binding for t is honoured. Built pointer-to-struct instances then go through
// InjectDependencies.
func (i *Injector) Resolve(t reflect.Type) (any, error) {
	i.registry.resolving.Lock()
	defer i.registry.resolving.Unlock()
	return i.resolve(t, &resolution{})
}

// MustResolve is like Resolve but panics if t cannot be resolved.
// Prefer Resolve or ResolveAs in production code to handle errors gracefully.
func (i *Injector) MustResolve(t reflect.Type) any {
	v, err := i.Resolve(t)
	if err != nil {
		panic(err)
	}
	return v
}

// InjectDependencies resolves every di.inject field of obj by its declared
// type and assigns it, unexported fields included, then runs obj's
// initializers. obj must be a non-nil pointer to struct.
//
// The first failure aborts the call with ErrInjection. Fields assigned before
// the failure keep their new values.
func (i *Injector) InjectDependencies(obj any) error {
	i.registry.resolving.Lock()
	defer i.registry.resolving.Unlock()
	return i.injectDependencies(obj, &resolution{})
}

// InjectDependenciesWith resolves only the di.inject fields of obj whose
// FieldID is a key of overrides, using the mapped type in place of the declared
// type. Every other field is left untouched and no initializers run.
func (i *Injector) InjectDependenciesWith(obj any, overrides map[FieldID]reflect.Type) error {
	i.registry.resolving.Lock()
	defer i.registry.resolving.Unlock()
	return i.injectOverrides(obj, overrides, &resolution{})
}

// ResolveAs resolves T and returns it typed.
//
//	car, err := wiring.ResolveAs[*Car](injector)
func ResolveAs[T any](i *Injector) (T, error) {
	var zero T
	v, err := i.Resolve(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: resolved %T is not a %s", ErrBindingTypeMismatch, v, TypeOf[T]())
	}
	return out, nil
}

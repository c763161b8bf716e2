package wiring

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	singletonType = reflect.TypeOf(Singleton{})
)

// constructor is one candidate for building a type. The zero-value
// constructor of a pointer-to-struct type is implicit and never stored.
type constructor struct {
	fn  reflect.Value
	out reflect.Type
}

// Registry maps requested types to concrete types and to singleton instances,
// and holds the constructor and marker tables consulted while resolving.
//
// A Registry is meant to be created once per process (or per test) and shared
// by reference with one or more Injectors. All methods are safe for concurrent
// use. Resolution through any Injector sharing the Registry is serialized.
type Registry struct {
	mu sync.RWMutex

	// resolving serializes top-level resolution across every Injector that
	// shares the Registry, so a singleton is checked, built and bound by one
	// caller at a time.
	resolving sync.Mutex

	// types maps a requested type to the concrete type built in its place.
	// Bindings are not followed transitively.
	types map[reflect.Type]reflect.Type

	// instances maps a requested type to its singleton instance. An entry
	// here takes priority over any type binding.
	instances map[reflect.Type]any

	// constructors holds registered constructors per produced type, in
	// registration order.
	constructors map[reflect.Type][]constructor

	singletons   map[reflect.Type]bool
	initializers map[reflect.Type][]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types:        make(map[reflect.Type]reflect.Type),
		instances:    make(map[reflect.Type]any),
		constructors: make(map[reflect.Type][]constructor),
		singletons:   make(map[reflect.Type]bool),
		initializers: make(map[reflect.Type][]string),
	}
}

// BindType records that requests for requested are served by building
// concrete. An existing binding for requested is overwritten. Compatibility of
// the two types is checked when an instance is built, not here.
func (r *Registry) BindType(requested, concrete reflect.Type) {
	r.mu.Lock()
	r.types[requested] = concrete
	r.mu.Unlock()
}

// BindInstance records instance as the singleton for requested, overwriting
// any previous instance. The requested type then behaves as a singleton
// whether or not it carries the Singleton marker. The injector never injects
// into an instance bound this way.
func (r *Registry) BindInstance(requested reflect.Type, instance any) {
	r.mu.Lock()
	r.instances[requested] = instance
	r.mu.Unlock()
}

// IsInstanceBound reports whether t has a singleton instance.
func (r *Registry) IsInstanceBound(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.instances[t]
	return ok
}

// ConcreteType returns the type bound to requested, or requested itself when
// there is no binding.
func (r *Registry) ConcreteType(requested reflect.Type) reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if concrete, ok := r.types[requested]; ok {
		return concrete
	}
	return requested
}

// ClearTypeBindings drops every type binding.
func (r *Registry) ClearTypeBindings() {
	r.mu.Lock()
	clear(r.types)
	r.mu.Unlock()
}

// ClearInstanceBindings drops every singleton instance, including the ones
// cached by an Injector.
func (r *Registry) ClearInstanceBindings() {
	r.mu.Lock()
	clear(r.instances)
	r.mu.Unlock()
}

// Reset drops all type and instance bindings. Registered constructors and
// markers describe types rather than bindings and are kept.
func (r *Registry) Reset() {
	r.mu.Lock()
	clear(r.types)
	clear(r.instances)
	r.mu.Unlock()
}

// RegisterConstructor adds fn as a constructor for the type it returns. fn must
// have the signature func(args...) T or func(args...) (T, error). Constructors
// of one type are tried in the order they were registered, before the implicit
// zero-value constructor of pointer-to-struct types.
func (r *Registry) RegisterConstructor(fn any) error {
	if fn == nil {
		return ErrInvalidConstructor
	}
	val := reflect.ValueOf(fn)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return fmt.Errorf("%w: got %s", ErrInvalidConstructor, typ)
	}
	if typ.NumOut() == 0 || typ.NumOut() > 2 || typ.Out(0) == errorType {
		return fmt.Errorf("%w: got %s", ErrInvalidConstructor, typ)
	}
	if typ.NumOut() == 2 && typ.Out(1) != errorType {
		return fmt.Errorf("%w: got %s", ErrInvalidConstructor, typ)
	}
	if typ.NumIn() > MaxConstructorArgs {
		return fmt.Errorf("%w: %s takes more than %d arguments", ErrInvalidConstructor, typ, MaxConstructorArgs)
	}

	out := typ.Out(0)
	r.mu.Lock()
	r.constructors[out] = append(r.constructors[out], constructor{fn: val, out: out})
	r.mu.Unlock()
	return nil
}

// MarkSingleton marks t as a singleton. It is the alternative to embedding
// Singleton for types that cannot carry the marker, such as interfaces.
func (r *Registry) MarkSingleton(t reflect.Type) {
	r.mu.Lock()
	r.singletons[t] = true
	r.mu.Unlock()
}

// IsSingleton reports whether t is marked as a singleton, either through
// MarkSingleton or by directly embedding Singleton.
func (r *Registry) IsSingleton(t reflect.Type) bool {
	r.mu.RLock()
	marked := r.singletons[t]
	r.mu.RUnlock()
	return marked || embedsSingleton(t)
}

// MarkInitializer marks the named zero-argument methods of t as initializers.
// Each method must return nothing or a single error. Marking the same name
// twice has no further effect.
func (r *Registry) MarkInitializer(t reflect.Type, methods ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range methods {
		if !slices.Contains(r.initializers[t], name) {
			r.initializers[t] = append(r.initializers[t], name)
		}
	}
}

func (r *Registry) initializerNames(t reflect.Type) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.initializers[t])
}

func (r *Registry) instance(t reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.instances[t]
	return v, ok
}

// bindInstanceIfAbsent stores instance for t unless an instance is already
// bound, and returns whichever instance is bound afterwards.
func (r *Registry) bindInstanceIfAbsent(t reflect.Type, instance any) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.instances[t]; ok {
		return existing, false
	}
	r.instances[t] = instance
	return instance, true
}

func (r *Registry) constructorsFor(t reflect.Type) []constructor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.constructors[t])
}

func embedsSingleton(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type == singletonType {
			return true
		}
	}
	return false
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// BindType binds the requested type T to the concrete type C.
//
//	wiring.BindType[Engine, *V8Engine](reg)
func BindType[T, C any](r *Registry) {
	r.BindType(TypeOf[T](), TypeOf[C]())
}

// BindInstance binds v as the singleton instance of T.
func BindInstance[T any](r *Registry, v T) {
	r.BindInstance(TypeOf[T](), v)
}

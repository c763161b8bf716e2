// Package wiring is a reflection-based field-injection container.
//
// Objects declare what they need with the di.inject struct tag. The Injector
// builds an object, resolves a value for every tagged field by the field's
// declared type, assigns it (unexported fields included), and finally runs the
// object's initializers.
//
// # Quick Start
//
//	type Wheel struct{}
//
//	type Car struct {
//		wiring.Singleton
//		Wheel *Wheel `di.inject:""`
//	}
//
//	reg := wiring.NewRegistry()
//	injector := wiring.NewInjector(reg)
//
//	car, err := wiring.ResolveAs[*Car](injector)
//
// # Bindings
//
// A Registry maps requested types to the types built in their place, and to
// pre-built singleton instances:
//
//	wiring.BindType[Engine, *V8Engine](reg)
//	wiring.BindInstance[*Config](reg, cfg)
//
// Type bindings are not followed transitively. Instance bindings take priority
// over type bindings and are returned without any injection.
//
// # Lifetimes
//
// Types embedding [Singleton], marked with [Registry.MarkSingleton], or bound
// with [Registry.BindInstance] are built once per Registry. Every other type is
// transient: each resolution builds and injects a new instance.
//
// # Constructors
//
// Pointer-to-struct types can always be built from their zero value. Other
// ways to build a type are registered as constructor functions and selected
// first-fit by [Registry.Construct]:
//
//	reg.RegisterConstructor(func() (*Pool, error) { return dial(defaultAddr) })
//	reg.RegisterConstructor(func(addr string) (*Pool, error) { return dial(addr) })
//
//	pool, err := reg.Construct(wiring.TypeOf[*Pool](), "db:5432")
//
// # Initializers
//
// After injection the Injector calls Initialize on objects implementing
// [Initializer], along with any methods named by [Registry.MarkInitializer].
//
// # Literals
//
// Tagged fields of string, bool and numeric types can be sourced from
// configuration through a [LiteralProvider]; the tag value names the key:
//
//	type Server struct {
//		Addr string `di.inject:"SERVER_ADDR"`
//	}
//
//	env, _ := wiring.EnvLiteralProvider(".env")
//	injector := wiring.NewInjector(reg, wiring.WithLiteralProvider(env))
package wiring

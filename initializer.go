package wiring

// Initializer is an optional interface that an injected object may implement
// to perform additional initialization after all of its dependencies have been
// injected.
//
// Initialize is called by InjectDependencies (and therefore by Resolve for
// every object the injector builds) once every di.inject field is set. If it
// returns an error, injection fails with ErrInjection and any remaining
// initializers for that object are skipped. Objects bound with BindInstance are
// assumed to be fully wired and are never initialized by the injector.
//
// Methods other than Initialize can be marked as initializers with
// Registry.MarkInitializer.
type Initializer interface {
	Initialize() error
}

// Singleton marks a struct type as a singleton when embedded directly:
//
//	type Car struct {
//		wiring.Singleton
//		Wheel *Wheel `di.inject:""`
//	}
//
// The first Resolve of *Car builds and caches the instance; later calls return
// it unchanged. The marker is not inherited through further embedding.
type Singleton struct{}

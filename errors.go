package wiring

import "errors"

var (
	// ErrConstruction is returned when no constructor accepts the supplied
	// arguments, or when the selected constructor fails.
	ErrConstruction = errors.New("construction failed")

	// ErrInjection is returned when a dependency field cannot be resolved or
	// assigned, or when an initializer fails.
	ErrInjection = errors.New("injection failed")

	// ErrBindingTypeMismatch is returned when the concrete type bound to a
	// requested type produces a value that is not assignable to it.
	ErrBindingTypeMismatch = errors.New("bound type is not assignable to requested type")

	// ErrCyclicDependency is returned when a type is requested again while it
	// is still being built. The message carries the resolution path.
	ErrCyclicDependency = errors.New("dependency cycle detected")

	// ErrTooManyArguments is returned when Construct is called with more than
	// MaxConstructorArgs arguments.
	ErrTooManyArguments = errors.New("too many constructor arguments")

	ErrInvalidConstructor = errors.New("constructor must be a function returning (T) or (T, error)")
	ErrNilTarget          = errors.New("injection target must be a non-nil pointer to struct")
)

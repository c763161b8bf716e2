package wiring

const (
	emptyString = ""
	pathSep     = " -> "
)

type tag string

const (
	inject tag = "di.inject" // di.inject marks a field for injection. The value is only read for scalar fields.
)

// MaxConstructorArgs is the largest argument list Construct accepts.
const MaxConstructorArgs = 9

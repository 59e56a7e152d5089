package schema

import "errors"

var (
	// ErrDuplicateAttribute is returned by Build when two attributes,
	// declared directly or imported through Extend, share a name.
	ErrDuplicateAttribute = errors.New("espalier: duplicate attribute name")

	// ErrNoConverter is returned by Build when no provider in the chain
	// supplies a converter for an attribute's declared type.
	ErrNoConverter = errors.New("espalier: no converter provider resolves type")

	// ErrInvalidConfiguration is returned by Build for other
	// configuration mistakes, such as nil adapters passed to Extend or
	// conflicting metadata contributions.
	ErrInvalidConfiguration = errors.New("espalier: invalid schema configuration")

	// ErrAbstractSchema is returned by MapToItem on a schema built
	// without construction functions. Such a schema can only serialize.
	ErrAbstractSchema = errors.New("espalier: abstract schema cannot map a record to an item; register construction functions with NewItemBuilder")

	// ErrUnknownAttribute is returned when a caller requests an
	// attribute name the schema does not know.
	ErrUnknownAttribute = errors.New("espalier: schema does not know attribute")

	// ErrUnsupported is returned for declared but unimplemented
	// capabilities, currently Flatten.
	ErrUnsupported = errors.New("espalier: unsupported operation")
)

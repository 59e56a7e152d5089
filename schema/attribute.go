package schema

import (
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/espalier/conv"
)

// Attribute declares one mapped attribute of item type T, settable
// through builder type B. Declarations are created with NewAttribute
// and resolved against the effective converter provider when the
// schema is built.
type Attribute[T, B any] struct {
	name    string
	typ     reflect.Type
	resolve func(p conv.Provider) (*resolvedAttribute[T, B], error)
}

// NewAttribute declares an attribute named name of type R, read from
// items with get and written to builders with set. Tags contribute
// table metadata (key designations and the like) when the schema is
// built.
func NewAttribute[T, B, R any](name string, get func(T) R, set func(B, R), tags ...AttributeTag) Attribute[T, B] {
	typ := conv.TypeOf[R]()

	resolve := func(p conv.Provider) (*resolvedAttribute[T, B], error) {
		var converter conv.Converter
		if p != nil {
			converter, _ = p.ConverterFor(typ)
		}
		if converter == nil {
			return nil, fmt.Errorf("%w %s for attribute %q", ErrNoConverter, typ, name)
		}

		mb := NewMetadataBuilder()
		for _, tag := range tags {
			tag.ModifyAttributeMetadata(mb, name, converter.AttributeType())
		}
		metadata, err := mb.Build()
		if err != nil {
			return nil, err
		}

		return &resolvedAttribute[T, B]{
			name: name,
			get: func(item T) (types.AttributeValue, error) {
				return converter.ToAttributeValue(get(item))
			},
			set: func(builder B, av types.AttributeValue) error {
				v, err := converter.FromAttributeValue(av)
				if err != nil {
					return err
				}
				r, ok := v.(R)
				if !ok {
					return fmt.Errorf("espalier: converter for attribute %q produced %T, want %s", name, v, typ)
				}
				set(builder, r)
				return nil
			},
			metadata: metadata,
		}, nil
	}

	return Attribute[T, B]{name: name, typ: typ, resolve: resolve}
}

// Name returns the declared attribute name.
func (a Attribute[T, B]) Name() string { return a.name }

// Type returns the declared Go type of the attribute.
func (a Attribute[T, B]) Type() reflect.Type { return a.typ }

// resolvedAttribute is an attribute after converter resolution: the
// typed getter/setter closures have been composed with the converter
// and the tag metadata has been realized. Owned exclusively by its
// schema and immutable once built.
type resolvedAttribute[T, B any] struct {
	name     string
	get      func(T) (types.AttributeValue, error)
	set      func(B, types.AttributeValue) error
	metadata TableMetadata
}

// transformAttribute re-types a resolved attribute of a super-schema so
// its getter and setter run against subtype items and builders. The
// adapters carry no value conversion; they only bridge the types.
func transformAttribute[T, B, S, SB any](a *resolvedAttribute[S, SB], itemAs func(T) S, builderAs func(B) SB) *resolvedAttribute[T, B] {
	return &resolvedAttribute[T, B]{
		name: a.name,
		get: func(item T) (types.AttributeValue, error) {
			return a.get(itemAs(item))
		},
		set: func(builder B, av types.AttributeValue) error {
			return a.set(builderAs(builder), av)
		},
		metadata: a.metadata,
	}
}

// Package conv defines attribute value converters and the ordered
// provider chain a schema resolves them through.
package conv

import (
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/espalier/internal/avtype"
)

// AttributeType identifies the DynamoDB storage kind a converter
// produces. Key attributes must map to a scalar kind (S, N or B).
type AttributeType = avtype.Type

const (
	TypeNull      = avtype.Null
	TypeString    = avtype.String
	TypeNumber    = avtype.Number
	TypeBinary    = avtype.Binary
	TypeBool      = avtype.Bool
	TypeList      = avtype.List
	TypeMap       = avtype.Map
	TypeStringSet = avtype.StringSet
	TypeNumberSet = avtype.NumberSet
	TypeBinarySet = avtype.BinarySet
)

// Converter translates one declared Go type to and from its DynamoDB
// attribute value representation. Conversion failures are returned
// unmodified to the caller; the schema never retries or rewrites them.
type Converter interface {
	// ToAttributeValue converts a value of the converter's declared type.
	ToAttributeValue(value any) (types.AttributeValue, error)

	// FromAttributeValue converts an attribute value back to the
	// declared type. The returned value must be assignable to it.
	FromAttributeValue(av types.AttributeValue) (any, error)

	// AttributeType returns the storage kind produced by this converter.
	AttributeType() AttributeType
}

// Provider supplies converters for declared attribute types.
type Provider interface {
	// ConverterFor returns a converter for the given type, or false if
	// this provider does not cover it.
	ConverterFor(t reflect.Type) (Converter, bool)
}

// TypeOf returns the reflect type token for T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ResolveProviders collapses an ordered provider list into a single
// effective provider. An empty list resolves to nil, which causes any
// later attribute resolution to fail; a single provider is used as-is;
// multiple providers are consulted in order, first match wins.
//
// Resolution happens exactly once, when a schema is built.
func ResolveProviders(providers []Provider) Provider {
	switch len(providers) {
	case 0:
		return nil
	case 1:
		return providers[0]
	default:
		chain := make([]Provider, len(providers))
		copy(chain, providers)
		return chainProvider(chain)
	}
}

type chainProvider []Provider

func (c chainProvider) ConverterFor(t reflect.Type) (Converter, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if conv, ok := p.ConverterFor(t); ok {
			return conv, true
		}
	}
	return nil, false
}

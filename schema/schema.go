package schema

import (
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/espalier/conv"
	"github.com/jacentio/espalier/internal/avtype"
)

// Schema is the immutable mapping engine for one item type: an ordered
// list of resolved attributes, a name index, the frozen table metadata
// and the effective converter provider. It is built once and is safe
// for unsynchronized concurrent use; every operation allocates only
// call-local data.
type Schema[T, B any] struct {
	attributes []*resolvedAttribute[T, B]
	index      map[string]*resolvedAttribute[T, B]
	newBuilder func() B
	buildItem  func(B) T
	metadata   TableMetadata
	itemType   reflect.Type
	provider   conv.Provider
}

// TableMetadata returns the frozen metadata snapshot.
func (s *Schema[T, B]) TableMetadata() TableMetadata {
	return s.metadata
}

// ItemType returns the type token of the mapped item type.
func (s *Schema[T, B]) ItemType() reflect.Type {
	return s.itemType
}

// ConverterProvider returns the effective provider resolved at build
// time, reusable for nested conversions.
func (s *Schema[T, B]) ConverterProvider() conv.Provider {
	return s.provider
}

// IsAbstract reports whether the schema lacks construction functions
// and therefore supports serialization only.
func (s *Schema[T, B]) IsAbstract() bool {
	return s.newBuilder == nil || s.buildItem == nil
}

// AttributeNames returns the attribute names in declaration order.
func (s *Schema[T, B]) AttributeNames() []string {
	names := make([]string, len(s.attributes))
	for i, a := range s.attributes {
		names[i] = a.name
	}
	return names
}

// MapToItem maps a record's attribute map to a domain item. Unknown
// keys are ignored and null values are treated as absent. The item
// builder is allocated lazily, on the first known non-null attribute;
// a map holding nothing relevant yields (zero, false, nil) rather than
// a default-initialized item. A converter failure aborts the call with
// that error; no partial item is ever returned. An abstract schema
// fails with ErrAbstractSchema regardless of input.
func (s *Schema[T, B]) MapToItem(attributes map[string]types.AttributeValue) (T, bool, error) {
	var zero T
	if s.IsAbstract() {
		return zero, false, ErrAbstractSchema
	}

	var builder B
	allocated := false

	for name, av := range attributes {
		if avtype.IsNull(av) {
			continue
		}
		attr, known := s.index[name]
		if !known {
			continue
		}
		if !allocated {
			builder = s.newBuilder()
			allocated = true
		}
		if err := attr.set(builder, av); err != nil {
			return zero, false, err
		}
	}

	if !allocated {
		return zero, false, nil
	}
	return s.buildItem(builder), true, nil
}

// ItemToMap converts an item to a full attribute map, visiting every
// resolved attribute in declaration order. With ignoreNulls set,
// attributes whose converted value is null are omitted; otherwise they
// appear as explicit null entries. The returned map is a fresh
// snapshot owned by the caller.
func (s *Schema[T, B]) ItemToMap(item T, ignoreNulls bool) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(s.attributes))
	for _, attr := range s.attributes {
		av, err := attr.get(item)
		if err != nil {
			return nil, err
		}
		if ignoreNulls && avtype.IsNull(av) {
			continue
		}
		out[attr.name] = av
	}
	return out, nil
}

// ItemToMapOnly converts only the named attributes. Unlike the full
// form, a requested attribute whose value is null is still inserted as
// an explicit null entry: a projection reports requested-but-unset
// attributes instead of omitting them. Requesting a name the schema
// does not know fails with ErrUnknownAttribute.
func (s *Schema[T, B]) ItemToMapOnly(item T, names ...string) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(names))
	for _, name := range names {
		av, err := s.AttributeValue(item, name)
		if err != nil {
			return nil, err
		}
		if av == nil {
			av = &types.AttributeValueMemberNULL{Value: true}
		}
		out[name] = av
	}
	return out, nil
}

// AttributeValue converts a single attribute of the item. It fails
// with ErrUnknownAttribute for a name the schema does not know and
// returns (nil, nil) when the converted value is null.
func (s *Schema[T, B]) AttributeValue(item T, name string) (types.AttributeValue, error) {
	attr, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: cannot retrieve %q from mapped item", ErrUnknownAttribute, name)
	}
	av, err := attr.get(item)
	if err != nil {
		return nil, err
	}
	if avtype.IsNull(av) {
		return nil, nil
	}
	return av, nil
}

// IsNull reports whether an attribute value is the null sentinel (a
// nil interface or an explicit NULL member).
func IsNull(av types.AttributeValue) bool {
	return avtype.IsNull(av)
}

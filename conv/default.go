package conv

import (
	"reflect"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/espalier/internal/avtype"
)

// DefaultProvider returns the provider a schema builder starts with.
// It covers any type the aws-sdk-go-v2 attributevalue marshaller
// handles. Place custom providers ahead of it in the chain to override
// conversion for specific types.
func DefaultProvider() Provider {
	return defaultProvider{}
}

type defaultProvider struct{}

func (defaultProvider) ConverterFor(t reflect.Type) (Converter, bool) {
	if t == nil {
		return nil, false
	}
	return marshallerConverter{typ: t}, true
}

// marshallerConverter delegates to the attributevalue reflection
// marshaller for one declared type.
type marshallerConverter struct {
	typ reflect.Type
}

func (c marshallerConverter) ToAttributeValue(value any) (types.AttributeValue, error) {
	return attributevalue.Marshal(value)
}

func (c marshallerConverter) FromAttributeValue(av types.AttributeValue) (any, error) {
	out := reflect.New(c.typ)
	if err := attributevalue.Unmarshal(av, out.Interface()); err != nil {
		return nil, err
	}
	return out.Elem().Interface(), nil
}

func (c marshallerConverter) AttributeType() AttributeType {
	return avtype.Of(c.typ)
}

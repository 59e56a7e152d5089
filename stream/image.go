// Package stream converts DynamoDB Streams images into attribute maps
// that a schema can map back into domain objects.
package stream

import (
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/espalier/schema"
)

// ConvertImage converts a stream record image (NewImage, OldImage or
// Keys) into the SDK attribute value representation.
func ConvertImage(image map[string]events.DynamoDBAttributeValue) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(image))
	for name, v := range image {
		av, err := ConvertValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		out[name] = av
	}
	return out, nil
}

// ConvertValue converts a single stream attribute value, including
// nested lists and maps.
func ConvertValue(v events.DynamoDBAttributeValue) (types.AttributeValue, error) {
	switch v.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: v.String()}, nil
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: v.Number()}, nil
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: v.Binary()}, nil
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: v.Boolean()}, nil
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: v.IsNull()}, nil
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: v.StringSet()}, nil
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: v.NumberSet()}, nil
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: v.BinarySet()}, nil
	case events.DataTypeList:
		list := v.List()
		values := make([]types.AttributeValue, len(list))
		for i, item := range list {
			av, err := ConvertValue(item)
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			values[i] = av
		}
		return &types.AttributeValueMemberL{Value: values}, nil
	case events.DataTypeMap:
		m, err := ConvertImage(v.Map())
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported stream attribute data type %v", v.DataType())
	}
}

// MapImage converts a stream image and maps it through the schema in
// one step. It follows MapToItem's contract: an image of solely
// unknown or null attributes yields no item.
func MapImage[T, B any](s *schema.Schema[T, B], image map[string]events.DynamoDBAttributeValue) (T, bool, error) {
	attributes, err := ConvertImage(image)
	if err != nil {
		var zero T
		return zero, false, err
	}
	return s.MapToItem(attributes)
}

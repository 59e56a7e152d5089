// Package avtype classifies Go types into DynamoDB storage kinds.
package avtype

import (
	"reflect"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Type identifies the DynamoDB storage kind an attribute occupies.
type Type int

const (
	Null Type = iota
	String
	Number
	Binary
	Bool
	List
	Map
	StringSet
	NumberSet
	BinarySet
)

// String returns the DynamoDB wire label for the storage kind.
func (t Type) String() string {
	switch t {
	case String:
		return "S"
	case Number:
		return "N"
	case Binary:
		return "B"
	case Bool:
		return "BOOL"
	case List:
		return "L"
	case Map:
		return "M"
	case StringSet:
		return "SS"
	case NumberSet:
		return "NS"
	case BinarySet:
		return "BS"
	default:
		return "NULL"
	}
}

// ScalarType maps a storage kind to the DynamoDB scalar attribute type
// used for key definitions. Only S, N and B kinds are scalar.
func (t Type) ScalarType() (types.ScalarAttributeType, bool) {
	switch t {
	case String:
		return types.ScalarAttributeTypeS, true
	case Number:
		return types.ScalarAttributeTypeN, true
	case Binary:
		return types.ScalarAttributeTypeB, true
	default:
		return "", false
	}
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	byteSlice    = reflect.TypeOf([]byte(nil))
	durationType = reflect.TypeOf(time.Duration(0))
)

// Of returns the storage kind the default marshaller uses for a Go type.
func Of(t reflect.Type) Type {
	if t == nil {
		return Null
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return String
	case byteSlice:
		return Binary
	case durationType:
		return Number
	}
	switch t.Kind() {
	case reflect.String:
		return String
	case reflect.Bool:
		return Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.Slice, reflect.Array:
		return List
	case reflect.Map, reflect.Struct:
		return Map
	default:
		return Null
	}
}

// IsNull reports whether an attribute value is the null sentinel: either
// a nil interface or an explicit NULL member.
func IsNull(av types.AttributeValue) bool {
	if av == nil {
		return true
	}
	null, ok := av.(*types.AttributeValueMemberNULL)
	return ok && null.Value
}

package schema_test

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/espalier/conv"
	"github.com/jacentio/espalier/schema"
)

// --- Test Item Types ---

// user is an immutable item constructed through userBuilder.
type user struct {
	id   string
	name string
	age  *int
}

type userBuilder struct {
	id   string
	name string
	age  *int
}

func (b *userBuilder) build() user {
	return user{id: b.id, name: b.name, age: b.age}
}

func newUserSchemaBuilder() *schema.Builder[user, *userBuilder] {
	return schema.NewBuilder[user, *userBuilder]().
		NewItemBuilder(
			func() *userBuilder { return &userBuilder{} },
			func(b *userBuilder) user { return b.build() },
		).
		Attributes(
			schema.NewAttribute("id",
				func(u user) string { return u.id },
				func(b *userBuilder, v string) { b.id = v },
				schema.PrimaryPartitionKey()),
			schema.NewAttribute("name",
				func(u user) string { return u.name },
				func(b *userBuilder, v string) { b.name = v }),
			schema.NewAttribute("age",
				func(u user) *int { return u.age },
				func(b *userBuilder, v *int) { b.age = v }),
		)
}

func intPtr(v int) *int { return &v }

// --- Build ---

func TestBuild_DuplicateAttributeName(t *testing.T) {
	_, err := newUserSchemaBuilder().
		AddAttribute(schema.NewAttribute("name",
			func(u user) string { return u.name },
			func(b *userBuilder, v string) { b.name = v })).
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrDuplicateAttribute)
	assert.Contains(t, err.Error(), `"name"`)
}

func TestBuild_EmptyProviderList(t *testing.T) {
	_, err := newUserSchemaBuilder().
		ConverterProviders().
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrNoConverter)
}

func TestBuild_ProviderDoesNotCoverType(t *testing.T) {
	// A provider that covers nothing at all.
	empty := conv.NewStaticProvider()

	_, err := newUserSchemaBuilder().
		ConverterProviders(empty).
		Build()

	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrNoConverter)
	assert.Contains(t, err.Error(), `"id"`)
}

func TestBuild_AttributesReplacesWholesale(t *testing.T) {
	s, err := schema.NewBuilder[user, *userBuilder]().
		Attributes(
			schema.NewAttribute("id",
				func(u user) string { return u.id },
				func(b *userBuilder, v string) { b.id = v }),
		).
		Attributes(
			schema.NewAttribute("name",
				func(u user) string { return u.name },
				func(b *userBuilder, v string) { b.name = v }),
		).
		Build()

	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, s.AttributeNames())
}

func TestBuild_ItemType(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	assert.Equal(t, reflect.TypeOf(user{}), s.ItemType())
	assert.NotNil(t, s.ConverterProvider())
	assert.False(t, s.IsAbstract())
}

func TestMustBuild_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		newUserSchemaBuilder().
			AddAttribute(schema.NewAttribute("id",
				func(u user) string { return u.id },
				func(b *userBuilder, v string) { b.id = v })).
			MustBuild()
	})
}

// --- ItemToMap ---

func TestItemToMap_AllAttributes(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	u := user{id: uuid.NewString(), name: "Ann", age: intPtr(34)}

	m, err := s.ItemToMap(u, false)
	require.NoError(t, err)

	require.Len(t, m, 3)
	assert.Equal(t, &types.AttributeValueMemberS{Value: u.id}, m["id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Ann"}, m["name"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "34"}, m["age"])
}

func TestItemToMap_NullsRetainedByDefault(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	u := user{id: "u1", name: "Ann"} // age unset

	m, err := s.ItemToMap(u, false)
	require.NoError(t, err)

	require.Len(t, m, 3)
	assert.True(t, schema.IsNull(m["age"]))
}

func TestItemToMap_IgnoreNulls(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	u := user{id: "u1", name: "Ann"} // age unset

	m, err := s.ItemToMap(u, true)
	require.NoError(t, err)

	require.Len(t, m, 2)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "u1"}, m["id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Ann"}, m["name"])
	_, present := m["age"]
	assert.False(t, present)
}

// --- MapToItem ---

func TestMapToItem_RoundTrip(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	original := user{id: uuid.NewString(), name: "Ann", age: intPtr(34)}

	m, err := s.ItemToMap(original, false)
	require.NoError(t, err)

	mapped, ok, err := s.MapToItem(m)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, original, mapped)
}

func TestMapToItem_NullTreatedAsAbsent(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()

	mapped, ok, err := s.MapToItem(map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: "u1"},
		"name": &types.AttributeValueMemberS{Value: "Ann"},
		"age":  &types.AttributeValueMemberNULL{Value: true},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user{id: "u1", name: "Ann"}, mapped)
}

func TestMapToItem_UnknownKeysIgnored(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()

	mapped, ok, err := s.MapToItem(map[string]types.AttributeValue{
		"id":      &types.AttributeValueMemberS{Value: "u1"},
		"unknown": &types.AttributeValueMemberS{Value: "junk"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", mapped.id)
}

func TestMapToItem_EmptyInputYieldsNoItem(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()

	tests := []struct {
		name       string
		attributes map[string]types.AttributeValue
	}{
		{"empty map", map[string]types.AttributeValue{}},
		{"only unknown keys", map[string]types.AttributeValue{
			"unknown": &types.AttributeValueMemberS{Value: "x"},
		}},
		{"only null values", map[string]types.AttributeValue{
			"id":   &types.AttributeValueMemberNULL{Value: true},
			"name": nil,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := s.MapToItem(tt.attributes)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMapToItem_ConversionErrorAbortsCall(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()

	// "age" declared as number; a string value fails the converter.
	_, ok, err := s.MapToItem(map[string]types.AttributeValue{
		"id":  &types.AttributeValueMemberS{Value: "u1"},
		"age": &types.AttributeValueMemberS{Value: "not a number"},
	})
	require.Error(t, err)
	assert.False(t, ok)
}

// --- Abstract schema ---

func TestAbstractSchema(t *testing.T) {
	s, err := schema.NewBuilder[user, *userBuilder]().
		Attributes(
			schema.NewAttribute("id",
				func(u user) string { return u.id },
				func(b *userBuilder, v string) { b.id = v }),
		).
		Build()
	require.NoError(t, err)
	require.True(t, s.IsAbstract())

	// Serialization works.
	m, err := s.ItemToMap(user{id: "u1"}, false)
	require.NoError(t, err)
	assert.Len(t, m, 1)

	av, err := s.AttributeValue(user{id: "u1"}, "id")
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "u1"}, av)

	// Deserialization fails regardless of input.
	_, _, err = s.MapToItem(map[string]types.AttributeValue{})
	assert.ErrorIs(t, err, schema.ErrAbstractSchema)

	_, _, err = s.MapToItem(map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: "u1"},
	})
	assert.ErrorIs(t, err, schema.ErrAbstractSchema)
}

// --- Partial projection ---

func TestItemToMapOnly_SelectedAttributes(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	u := user{id: "u1", name: "Ann", age: intPtr(34)}

	m, err := s.ItemToMapOnly(u, "id", "age")
	require.NoError(t, err)

	require.Len(t, m, 2)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "u1"}, m["id"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "34"}, m["age"])
}

func TestItemToMapOnly_NullReportedExplicitly(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	u := user{id: "u1", name: "Ann"} // age unset

	m, err := s.ItemToMapOnly(u, "id", "age")
	require.NoError(t, err)

	// Unlike ItemToMap with ignoreNulls, a requested-but-unset
	// attribute is still present, as an explicit null entry.
	require.Len(t, m, 2)
	require.Contains(t, m, "age")
	assert.True(t, schema.IsNull(m["age"]))
}

func TestItemToMapOnly_UnknownName(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()

	_, err := s.ItemToMapOnly(user{id: "u1"}, "id", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnknownAttribute)
}

func TestAttributeValue(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	u := user{id: "u1", name: "Ann"}

	av, err := s.AttributeValue(u, "name")
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "Ann"}, av)

	// Null converts to an empty result, not a NULL member.
	av, err = s.AttributeValue(u, "age")
	require.NoError(t, err)
	assert.Nil(t, av)

	_, err = s.AttributeValue(u, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnknownAttribute)
	assert.Contains(t, err.Error(), `"missing"`)
}

// --- ignoreNulls interaction with round-tripping ---

func TestIgnoreNullsExample(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	u := user{id: "u1", name: "Ann"}

	m, err := s.ItemToMap(u, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: "u1"},
		"name": &types.AttributeValueMemberS{Value: "Ann"},
	}, m)

	mapped, ok, err := s.MapToItem(m)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", mapped.id)
	assert.Equal(t, "Ann", mapped.name)
	assert.Nil(t, mapped.age)
}

// --- Attribute declaration order ---

func TestAttributeNames_DeclarationOrder(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	assert.Equal(t, []string{"id", "name", "age"}, s.AttributeNames())
}

// --- Custom converters ---

// centsConverter stores a money amount as a number of cents.
type money struct {
	cents int64
}

type centsConverter struct{}

func (centsConverter) ToAttributeValue(v any) (types.AttributeValue, error) {
	m, ok := v.(money)
	if !ok {
		return nil, fmt.Errorf("want money, got %T", v)
	}
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", m.cents)}, nil
}

func (centsConverter) FromAttributeValue(av types.AttributeValue) (any, error) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return nil, fmt.Errorf("want N, got %T", av)
	}
	var cents int64
	if _, err := fmt.Sscanf(n.Value, "%d", &cents); err != nil {
		return nil, err
	}
	return money{cents: cents}, nil
}

func (centsConverter) AttributeType() conv.AttributeType { return conv.TypeNumber }

type pricedItem struct {
	id    string
	price money
}

type pricedItemBuilder struct {
	id    string
	price money
}

func TestConverterProviders_CustomAheadOfDefault(t *testing.T) {
	custom := conv.NewStaticProvider().
		Register(conv.TypeOf[money](), centsConverter{})

	s, err := schema.NewBuilder[pricedItem, *pricedItemBuilder]().
		NewItemBuilder(
			func() *pricedItemBuilder { return &pricedItemBuilder{} },
			func(b *pricedItemBuilder) pricedItem { return pricedItem{id: b.id, price: b.price} },
		).
		Attributes(
			schema.NewAttribute("id",
				func(p pricedItem) string { return p.id },
				func(b *pricedItemBuilder, v string) { b.id = v }),
			schema.NewAttribute("price",
				func(p pricedItem) money { return p.price },
				func(b *pricedItemBuilder, v money) { b.price = v }),
		).
		ConverterProviders(custom, conv.DefaultProvider()).
		Build()
	require.NoError(t, err)

	original := pricedItem{id: "p1", price: money{cents: 1995}}
	m, err := s.ItemToMap(original, false)
	require.NoError(t, err)
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1995"}, m["price"])

	mapped, ok, err := s.MapToItem(m)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, original, mapped)
}

type failingConverter struct {
	err error
}

func (c failingConverter) ToAttributeValue(any) (types.AttributeValue, error) {
	return nil, c.err
}

func (c failingConverter) FromAttributeValue(types.AttributeValue) (any, error) {
	return nil, c.err
}

func (failingConverter) AttributeType() conv.AttributeType { return conv.TypeString }

func TestConversionError_PropagatesUnmodified(t *testing.T) {
	convErr := errors.New("boom")
	failing := conv.NewStaticProvider().
		Register(conv.TypeOf[string](), failingConverter{err: convErr}).
		Register(conv.TypeOf[*int](), failingConverter{err: convErr})

	s, err := newUserSchemaBuilder().
		ConverterProviders(failing).
		Build()
	require.NoError(t, err)

	_, err = s.ItemToMap(user{id: "u1"}, false)
	assert.ErrorIs(t, err, convErr)

	_, _, err = s.MapToItem(map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: "u1"},
	})
	assert.ErrorIs(t, err, convErr)
}

// --- Flatten ---

func TestFlatten_Unsupported(t *testing.T) {
	nested := newUserSchemaBuilder().MustBuild()

	b := schema.NewBuilder[user, *userBuilder]()
	schema.Flatten(b, nested,
		func(u user) user { return u },
		func(bld *userBuilder, u user) {})

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnsupported)
}

// --- Concurrency ---

func TestSchema_ConcurrentUse(t *testing.T) {
	s := newUserSchemaBuilder().MustBuild()
	record := map[string]types.AttributeValue{
		"id":   &types.AttributeValueMemberS{Value: "u1"},
		"name": &types.AttributeValueMemberS{Value: "Ann"},
		"age":  &types.AttributeValueMemberN{Value: "34"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				mapped, ok, err := s.MapToItem(record)
				if err != nil || !ok {
					t.Errorf("MapToItem: ok=%v err=%v", ok, err)
					return
				}
				if _, err := s.ItemToMap(mapped, j%2 == 0); err != nil {
					t.Errorf("ItemToMap: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

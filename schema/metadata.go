package schema

import (
	"fmt"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/espalier/conv"
)

// PrimaryIndexName labels the table's primary index in metadata.
const PrimaryIndexName = "$PRIMARY_INDEX"

// IndexMetadata records the key attributes of one index.
type IndexMetadata struct {
	Name         string
	PartitionKey string
	SortKey      string
}

// TableMetadata is the frozen accumulation of structural facts about
// the mapped table: index key designations, key attribute scalar types
// and arbitrary custom entries. It is built once, during schema
// construction, by merging per-attribute and per-tag contributions.
type TableMetadata struct {
	custom   map[string]any
	indexes  map[string]IndexMetadata
	keyTypes map[string]types.ScalarAttributeType
}

// PrimaryPartitionKey returns the attribute name of the primary
// partition key, if one was designated.
func (m TableMetadata) PrimaryPartitionKey() (string, bool) {
	return m.IndexPartitionKey(PrimaryIndexName)
}

// PrimarySortKey returns the attribute name of the primary sort key,
// if one was designated.
func (m TableMetadata) PrimarySortKey() (string, bool) {
	return m.IndexSortKey(PrimaryIndexName)
}

// IndexPartitionKey returns the partition key attribute of the named
// index.
func (m TableMetadata) IndexPartitionKey(index string) (string, bool) {
	idx, ok := m.indexes[index]
	if !ok || idx.PartitionKey == "" {
		return "", false
	}
	return idx.PartitionKey, true
}

// IndexSortKey returns the sort key attribute of the named index.
func (m TableMetadata) IndexSortKey(index string) (string, bool) {
	idx, ok := m.indexes[index]
	if !ok || idx.SortKey == "" {
		return "", false
	}
	return idx.SortKey, true
}

// Indexes returns all indexes with at least one designated key.
func (m TableMetadata) Indexes() []IndexMetadata {
	out := make([]IndexMetadata, 0, len(m.indexes))
	for _, idx := range m.indexes {
		out = append(out, idx)
	}
	return out
}

// KeyAttributes returns a snapshot of every key attribute and its
// scalar storage type.
func (m TableMetadata) KeyAttributes() map[string]types.ScalarAttributeType {
	out := make(map[string]types.ScalarAttributeType, len(m.keyTypes))
	for k, v := range m.keyTypes {
		out[k] = v
	}
	return out
}

// Custom returns a custom metadata entry by key.
func (m TableMetadata) Custom(key string) (any, bool) {
	v, ok := m.custom[key]
	return v, ok
}

// MetadataBuilder accumulates metadata contributions. Contributions
// arrive attribute by attribute, then tag by tag; the merge is
// associative and a conflicting re-definition is a configuration
// error surfaced when the schema is built.
type MetadataBuilder struct {
	custom   map[string]any
	indexes  map[string]IndexMetadata
	keyTypes map[string]types.ScalarAttributeType
	err      error
}

// NewMetadataBuilder creates an empty MetadataBuilder.
func NewMetadataBuilder() *MetadataBuilder {
	return &MetadataBuilder{
		custom:   make(map[string]any),
		indexes:  make(map[string]IndexMetadata),
		keyTypes: make(map[string]types.ScalarAttributeType),
	}
}

func (b *MetadataBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// AddIndexPartitionKey designates attribute as the partition key of the
// named index. The attribute's storage kind must be scalar.
func (b *MetadataBuilder) AddIndexPartitionKey(index, attribute string, t conv.AttributeType) *MetadataBuilder {
	scalar, ok := t.ScalarType()
	if !ok {
		b.fail(fmt.Errorf("%w: partition key %q of index %q has non-scalar storage kind %s",
			ErrInvalidConfiguration, attribute, index, t))
		return b
	}
	idx := b.indexes[index]
	if idx.PartitionKey != "" && idx.PartitionKey != attribute {
		b.fail(fmt.Errorf("%w: index %q partition key redefined from %q to %q",
			ErrInvalidConfiguration, index, idx.PartitionKey, attribute))
		return b
	}
	idx.Name = index
	idx.PartitionKey = attribute
	b.indexes[index] = idx
	return b.addKeyType(attribute, scalar)
}

// AddIndexSortKey designates attribute as the sort key of the named
// index. The attribute's storage kind must be scalar.
func (b *MetadataBuilder) AddIndexSortKey(index, attribute string, t conv.AttributeType) *MetadataBuilder {
	scalar, ok := t.ScalarType()
	if !ok {
		b.fail(fmt.Errorf("%w: sort key %q of index %q has non-scalar storage kind %s",
			ErrInvalidConfiguration, attribute, index, t))
		return b
	}
	idx := b.indexes[index]
	if idx.SortKey != "" && idx.SortKey != attribute {
		b.fail(fmt.Errorf("%w: index %q sort key redefined from %q to %q",
			ErrInvalidConfiguration, index, idx.SortKey, attribute))
		return b
	}
	idx.Name = index
	idx.SortKey = attribute
	b.indexes[index] = idx
	return b.addKeyType(attribute, scalar)
}

func (b *MetadataBuilder) addKeyType(attribute string, scalar types.ScalarAttributeType) *MetadataBuilder {
	if existing, ok := b.keyTypes[attribute]; ok && existing != scalar {
		b.fail(fmt.Errorf("%w: key attribute %q redefined from type %s to %s",
			ErrInvalidConfiguration, attribute, existing, scalar))
		return b
	}
	b.keyTypes[attribute] = scalar
	return b
}

// AddCustomMetadata records an arbitrary metadata entry. Re-adding the
// same key with an equal value is a no-op; a different value is a
// configuration error.
func (b *MetadataBuilder) AddCustomMetadata(key string, value any) *MetadataBuilder {
	if existing, ok := b.custom[key]; ok && !reflect.DeepEqual(existing, value) {
		b.fail(fmt.Errorf("%w: custom metadata %q redefined", ErrInvalidConfiguration, key))
		return b
	}
	b.custom[key] = value
	return b
}

// MergeWith folds another metadata snapshot into this builder. The
// operation is associative; conflicting contributions fail the build.
func (b *MetadataBuilder) MergeWith(other TableMetadata) *MetadataBuilder {
	for k, v := range other.custom {
		b.AddCustomMetadata(k, v)
	}
	for name, idx := range other.indexes {
		existing := b.indexes[name]
		if idx.PartitionKey != "" {
			if existing.PartitionKey != "" && existing.PartitionKey != idx.PartitionKey {
				b.fail(fmt.Errorf("%w: index %q partition key redefined from %q to %q",
					ErrInvalidConfiguration, name, existing.PartitionKey, idx.PartitionKey))
				continue
			}
			existing.PartitionKey = idx.PartitionKey
		}
		if idx.SortKey != "" {
			if existing.SortKey != "" && existing.SortKey != idx.SortKey {
				b.fail(fmt.Errorf("%w: index %q sort key redefined from %q to %q",
					ErrInvalidConfiguration, name, existing.SortKey, idx.SortKey))
				continue
			}
			existing.SortKey = idx.SortKey
		}
		existing.Name = name
		b.indexes[name] = existing
	}
	for attribute, scalar := range other.keyTypes {
		b.addKeyType(attribute, scalar)
	}
	return b
}

// Build freezes the accumulated contributions into an immutable
// snapshot, or returns the first configuration error encountered.
func (b *MetadataBuilder) Build() (TableMetadata, error) {
	if b.err != nil {
		return TableMetadata{}, b.err
	}
	m := TableMetadata{
		custom:   make(map[string]any, len(b.custom)),
		indexes:  make(map[string]IndexMetadata, len(b.indexes)),
		keyTypes: make(map[string]types.ScalarAttributeType, len(b.keyTypes)),
	}
	for k, v := range b.custom {
		m.custom[k] = v
	}
	for k, v := range b.indexes {
		m.indexes[k] = v
	}
	for k, v := range b.keyTypes {
		m.keyTypes[k] = v
	}
	return m, nil
}

package schema

import "github.com/jacentio/espalier/conv"

// AttributeTag contributes metadata for one attribute. Tags only mutate
// the metadata builder; they never affect how values are converted.
type AttributeTag interface {
	ModifyAttributeMetadata(mb *MetadataBuilder, attribute string, t conv.AttributeType)
}

// TableTag contributes table-level metadata. Table tags are applied in
// registration order, after every attribute contribution has been
// merged.
type TableTag interface {
	ModifyMetadata(mb *MetadataBuilder)
}

// PrimaryPartitionKey marks an attribute as the table's partition key.
func PrimaryPartitionKey() AttributeTag {
	return partitionKeyTag{indexes: []string{PrimaryIndexName}}
}

// PrimarySortKey marks an attribute as the table's sort key.
func PrimarySortKey() AttributeTag {
	return sortKeyTag{indexes: []string{PrimaryIndexName}}
}

// SecondaryPartitionKey marks an attribute as the partition key of one
// or more secondary indexes.
func SecondaryPartitionKey(indexes ...string) AttributeTag {
	return partitionKeyTag{indexes: indexes}
}

// SecondarySortKey marks an attribute as the sort key of one or more
// secondary indexes.
func SecondarySortKey(indexes ...string) AttributeTag {
	return sortKeyTag{indexes: indexes}
}

type partitionKeyTag struct {
	indexes []string
}

func (t partitionKeyTag) ModifyAttributeMetadata(mb *MetadataBuilder, attribute string, at conv.AttributeType) {
	for _, index := range t.indexes {
		mb.AddIndexPartitionKey(index, attribute, at)
	}
}

type sortKeyTag struct {
	indexes []string
}

func (t sortKeyTag) ModifyAttributeMetadata(mb *MetadataBuilder, attribute string, at conv.AttributeType) {
	for _, index := range t.indexes {
		mb.AddIndexSortKey(index, attribute, at)
	}
}

// CustomMetadata returns a table tag recording an arbitrary metadata
// entry.
func CustomMetadata(key string, value any) TableTag {
	return customMetadataTag{key: key, value: value}
}

type customMetadataTag struct {
	key   string
	value any
}

func (t customMetadataTag) ModifyMetadata(mb *MetadataBuilder) {
	mb.AddCustomMetadata(t.key, t.value)
}

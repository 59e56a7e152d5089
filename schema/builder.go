package schema

import (
	"fmt"

	"github.com/jacentio/espalier/conv"
)

// Builder accumulates the configuration of a Schema: attribute
// declarations, attributes imported from extended schemas, table tags,
// converter providers and construction functions. It is single-owner
// and configuration-time only; it must not be shared across goroutines.
//
// Configuration mistakes (nil Extend adapters, a Flatten call) are
// captured and returned by Build rather than panicking mid-chain.
type Builder[T, B any] struct {
	attributes []Attribute[T, B]
	extended   []*resolvedAttribute[T, B]
	tags       []TableTag
	providers  []conv.Provider
	newBuilder func() B
	buildItem  func(B) T
	err        error
}

// NewBuilder creates a schema builder for item type T constructed
// through builder type B. The converter provider list starts as the
// single default provider; ConverterProviders overrides it.
func NewBuilder[T, B any]() *Builder[T, B] {
	return &Builder[T, B]{
		providers: []conv.Provider{conv.DefaultProvider()},
	}
}

// Attributes replaces the declared attribute set wholesale. Last
// writer wins; it does not merge with earlier declarations.
func (b *Builder[T, B]) Attributes(attributes ...Attribute[T, B]) *Builder[T, B] {
	b.attributes = append([]Attribute[T, B]{}, attributes...)
	return b
}

// AddAttribute appends a single attribute declaration.
func (b *Builder[T, B]) AddAttribute(a Attribute[T, B]) *Builder[T, B] {
	b.attributes = append(b.attributes, a)
	return b
}

// Tags replaces the table tag set wholesale.
func (b *Builder[T, B]) Tags(tags ...TableTag) *Builder[T, B] {
	b.tags = append([]TableTag{}, tags...)
	return b
}

// AddTag appends a single table tag.
func (b *Builder[T, B]) AddTag(tag TableTag) *Builder[T, B] {
	b.tags = append(b.tags, tag)
	return b
}

// ConverterProviders overrides the provider list, replacing the
// default provider. Providers are consulted in the order given here;
// the list must cover every declared attribute type. Passing no
// providers leaves the schema unable to resolve any attribute.
func (b *Builder[T, B]) ConverterProviders(providers ...conv.Provider) *Builder[T, B] {
	b.providers = append([]conv.Provider{}, providers...)
	return b
}

// NewItemBuilder registers the construction functions: newBuilder
// allocates a fresh builder and build finishes it into an item.
// Without them the schema is abstract and can only serialize.
func (b *Builder[T, B]) NewItemBuilder(newBuilder func() B, build func(B) T) *Builder[T, B] {
	b.newBuilder = newBuilder
	b.buildItem = build
	return b
}

// Extend imports the resolved attributes of a previously built
// super-schema, so a subtype reuses the supertype's mappings. The
// adapters bridge the subtype's item and builder to the supertype's;
// they perform no value conversion. Names duplicated between declared
// and extended attributes are detected at Build, not here.
func Extend[T, B, S, SB any](b *Builder[T, B], super *Schema[S, SB], itemAs func(T) S, builderAs func(B) SB) *Builder[T, B] {
	if super == nil || itemAs == nil || builderAs == nil {
		if b.err == nil {
			b.err = fmt.Errorf("%w: Extend requires a built super-schema and non-nil adapters", ErrInvalidConfiguration)
		}
		return b
	}
	for _, attr := range super.attributes {
		b.extended = append(b.extended, transformAttribute[T, B](attr, itemAs, builderAs))
	}
	return b
}

// Flatten would roll the attributes of another schema into the record
// this schema maps to, reading and writing the nested object through
// get and set. It is not implemented; any builder it touches fails at
// Build with ErrUnsupported.
func Flatten[T, B, S, SB any](b *Builder[T, B], other *Schema[S, SB], get func(T) S, set func(B, S)) *Builder[T, B] {
	if b.err == nil {
		b.err = fmt.Errorf("%w: flatten", ErrUnsupported)
	}
	return b
}

// Build resolves every declared attribute against the effective
// converter provider, merges attribute and tag metadata, and freezes
// the result into an immutable Schema.
func (b *Builder[T, B]) Build() (*Schema[T, B], error) {
	if b.err != nil {
		return nil, b.err
	}

	provider := conv.ResolveProviders(b.providers)

	resolved := make([]*resolvedAttribute[T, B], 0, len(b.attributes)+len(b.extended))
	for _, a := range b.attributes {
		r, err := a.resolve(provider)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, r)
	}
	resolved = append(resolved, b.extended...)

	mb := NewMetadataBuilder()
	ordered := make([]*resolvedAttribute[T, B], 0, len(resolved))
	index := make(map[string]*resolvedAttribute[T, B], len(resolved))
	for _, r := range resolved {
		if _, exists := index[r.name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAttribute, r.name)
		}
		ordered = append(ordered, r)
		index[r.name] = r
		mb.MergeWith(r.metadata)
	}

	for _, tag := range b.tags {
		tag.ModifyMetadata(mb)
	}

	metadata, err := mb.Build()
	if err != nil {
		return nil, err
	}

	return &Schema[T, B]{
		attributes: ordered,
		index:      index,
		newBuilder: b.newBuilder,
		buildItem:  b.buildItem,
		metadata:   metadata,
		itemType:   conv.TypeOf[T](),
		provider:   provider,
	}, nil
}

// MustBuild is Build for package-level schema variables; it panics on
// configuration errors.
func (b *Builder[T, B]) MustBuild() *Schema[T, B] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Package schema maps immutable domain objects to and from DynamoDB
// attribute maps through statically declared attribute schemas.
//
// A Schema is configured once, through a Builder, and is immutable
// afterwards: attribute getters and setters are captured as closures,
// converters are resolved from the provider chain at build time, and
// table metadata is merged and frozen. Built schemas are safe for
// unsynchronized concurrent use.
//
// # Declaring a schema
//
// Domain objects are expected to be immutable and constructed through
// a separate builder type:
//
//	type Customer struct {
//	    accountID string
//	    name      string
//	    age       int
//	}
//
//	type CustomerBuilder struct {
//	    accountID string
//	    name      string
//	    age       int
//	}
//
//	var customerSchema = schema.NewBuilder[Customer, *CustomerBuilder]().
//	    NewItemBuilder(
//	        func() *CustomerBuilder { return &CustomerBuilder{} },
//	        func(b *CustomerBuilder) Customer { return b.Build() },
//	    ).
//	    Attributes(
//	        schema.NewAttribute("account_id",
//	            func(c Customer) string { return c.accountID },
//	            func(b *CustomerBuilder, v string) { b.accountID = v },
//	            schema.PrimaryPartitionKey()),
//	        schema.NewAttribute("name",
//	            func(c Customer) string { return c.name },
//	            func(b *CustomerBuilder, v string) { b.name = v }),
//	        schema.NewAttribute("age",
//	            func(c Customer) int { return c.age },
//	            func(b *CustomerBuilder, v int) { b.age = v }),
//	    ).
//	    MustBuild()
//
// # Mapping
//
//	record, err := customerSchema.ItemToMap(customer, true)
//	customer, ok, err := customerSchema.MapToItem(record)
//
// MapToItem allocates a builder only when the record holds at least one
// known, non-null attribute; a record of solely unknown or null entries
// yields no item. A schema built without construction functions is
// abstract: it serializes but deterministically refuses MapToItem.
//
// # Composition
//
// Extend imports a built super-schema's attribute mappings into a
// subtype's builder, bridging item and builder types with adapter
// functions. Duplicate attribute names, whether declared directly or
// inherited, fail Build.
//
// # Errors
//
// Configuration problems ([ErrDuplicateAttribute], [ErrNoConverter],
// [ErrInvalidConfiguration], [ErrUnsupported]) surface from Build.
// Capability problems ([ErrAbstractSchema], [ErrUnknownAttribute])
// surface from the mapping operations. Conversion errors raised by
// converters propagate unmodified.
package schema

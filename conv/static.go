package conv

import "reflect"

// StaticProvider is a fixed type-to-converter registry. Use it to hand
// custom converters to a schema builder, typically ahead of
// DefaultProvider in the chain:
//
//	p := conv.NewStaticProvider()
//	p.Register(conv.TypeOf[Money](), moneyConverter{})
//	builder.ConverterProviders(p, conv.DefaultProvider())
type StaticProvider struct {
	converters map[reflect.Type]Converter
}

// NewStaticProvider creates an empty StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{converters: make(map[reflect.Type]Converter)}
}

// Register maps a declared type to a converter. Last registration for a
// type wins.
func (p *StaticProvider) Register(t reflect.Type, c Converter) *StaticProvider {
	p.converters[t] = c
	return p
}

// ConverterFor implements Provider.
func (p *StaticProvider) ConverterFor(t reflect.Type) (Converter, bool) {
	c, ok := p.converters[t]
	return c, ok
}

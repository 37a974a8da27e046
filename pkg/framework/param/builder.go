package param

// Builder provides a fluent API for creating parameters
type Builder struct {
	param      *Parameter
	plainDef   float64
	hasDefault bool
}

// New starts a parameter at the given registry index.
func New(index int, name string) *Builder {
	return &Builder{
		param: &Parameter{
			Index:     index,
			Name:      name,
			ShortName: name,
			Min:       0,
			Max:       1,
			Flags:     CanAutomate,
		},
	}
}

// ShortName sets the short name
func (b *Builder) ShortName(name string) *Builder {
	b.param.ShortName = name
	return b
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default value in engine units. It is normalized at Build
// time, so it may be given before or after Range.
func (b *Builder) Default(value float64) *Builder {
	b.plainDef = value
	b.hasDefault = true
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete steps
func (b *Builder) Steps(count int32) *Builder {
	b.param.StepCount = count
	return b
}

// Flags replaces the parameter flags
func (b *Builder) Flags(flags uint32) *Builder {
	b.param.Flags = flags
	return b
}

// Toggle makes a two-state parameter
func (b *Builder) Toggle() *Builder {
	b.param.Min = 0
	b.param.Max = 1
	b.param.StepCount = 1
	return b.Formatter(OnOffFormatter, OnOffParser)
}

// ReadOnly marks the parameter as read-only
func (b *Builder) ReadOnly() *Builder {
	b.param.Flags |= IsReadOnly
	b.param.Flags &^= CanAutomate
	return b
}

// Meter marks a read-only parameter written by the audio engine for display.
func (b *Builder) Meter() *Builder {
	b.param.Flags |= IsMeter
	return b.ReadOnly()
}

// Hidden marks the parameter as hidden
func (b *Builder) Hidden() *Builder {
	b.param.Flags |= IsHidden
	return b
}

// Bypass marks this as the bypass parameter
func (b *Builder) Bypass() *Builder {
	b.param.Flags |= IsBypass
	return b.Toggle()
}

// Formatter sets custom value formatting and parsing
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the configured parameter set to its default value.
func (b *Builder) Build() *Parameter {
	if b.hasDefault {
		b.param.DefaultValue = b.param.Normalize(b.plainDef)
	}
	b.param.Reset()
	return b.param
}

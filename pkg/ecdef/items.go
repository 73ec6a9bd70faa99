/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

// Enumerator of enumeration
type Enumerator struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Enumeration with integer or string backing type
type Enumeration struct {
	id          ID
	schema      *Schema
	name        string
	backing     PrimitiveType
	strict      bool
	enumerators []Enumerator
}

func (e *Enumeration) ID() ID                     { return e.id }
func (e *Enumeration) Schema() *Schema            { return e.schema }
func (e *Enumeration) Name() string               { return e.name }
func (e *Enumeration) BackingType() PrimitiveType { return e.backing }
func (e *Enumeration) IsStrict() bool             { return e.strict }
func (e *Enumeration) Enumerators() []Enumerator  { return e.enumerators }
func (e *Enumeration) QName() QName               { return NewQName(e.schema.name, e.name) }
func (e *Enumeration) SetID(id ID)                { e.id = id }
func (e *Enumeration) SetStrict(strict bool) *Enumeration {
	e.strict = strict
	return e
}

func (e *Enumeration) AddEnumerator(name string, value any) *Enumeration {
	e.enumerators = append(e.enumerators, Enumerator{Name: name, Value: value})
	return e
}

// Unit of measure
type Unit struct {
	id         ID
	schema     *Schema
	name       string
	definition string
}

func (u *Unit) ID() ID             { return u.id }
func (u *Unit) Schema() *Schema    { return u.schema }
func (u *Unit) Name() string       { return u.name }
func (u *Unit) Definition() string { return u.definition }
func (u *Unit) QName() QName       { return NewQName(u.schema.name, u.name) }
func (u *Unit) SetID(id ID)        { u.id = id }

// Presentation format
type Format struct {
	id     ID
	schema *Schema
	name   string
	spec   string
}

func (f *Format) ID() ID          { return f.id }
func (f *Format) Schema() *Schema { return f.schema }
func (f *Format) Name() string    { return f.name }
func (f *Format) Spec() string    { return f.spec }
func (f *Format) QName() QName    { return NewQName(f.schema.name, f.name) }
func (f *Format) SetID(id ID)     { f.id = id }

// Property category
type PropertyCategory struct {
	id       ID
	schema   *Schema
	name     string
	priority int
}

func (c *PropertyCategory) ID() ID          { return c.id }
func (c *PropertyCategory) Schema() *Schema { return c.schema }
func (c *PropertyCategory) Name() string    { return c.name }
func (c *PropertyCategory) Priority() int   { return c.priority }
func (c *PropertyCategory) QName() QName    { return NewQName(c.schema.name, c.name) }
func (c *PropertyCategory) SetID(id ID)     { c.id = id }

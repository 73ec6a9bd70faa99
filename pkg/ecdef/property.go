/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import "fmt"

// Property of class
type Property struct {
	withCustomAttributes
	id           ID
	class        *Class
	name         string
	description  string
	kind         PropertyKind
	primitive    PrimitiveType
	enum         *Enumeration
	structClass  *Class
	relationship *Class
	direction    Direction
	category     *PropertyCategory
	unit         *Unit
	readOnly     bool
	minOccurs    uint32
	maxOccurs    uint32
}

func (p *Property) ID() ID                    { return p.id }
func (p *Property) Class() *Class             { return p.class }
func (p *Property) Name() string              { return p.name }
func (p *Property) Description() string       { return p.description }
func (p *Property) Kind() PropertyKind        { return p.kind }
func (p *Property) IsReadOnly() bool          { return p.readOnly }
func (p *Property) MinOccurs() uint32         { return p.minOccurs }
func (p *Property) MaxOccurs() uint32         { return p.maxOccurs }
func (p *Property) Direction() Direction      { return p.direction }
func (p *Property) Unit() *Unit               { return p.unit }
func (p *Property) Enumeration() *Enumeration { return p.enum }

// Primitive type for primitive, primitive array and enumeration properties.
// Navigation properties have PrimitiveType_Long.
func (p *Property) PrimitiveType() PrimitiveType { return p.primitive }

// Struct class for struct and struct array properties
func (p *Property) StructClass() *Class { return p.structClass }

// Relationship class for navigation properties
func (p *Property) Relationship() *Class { return p.relationship }

func (p *Property) Category() *PropertyCategory { return p.category }

func (p *Property) IsArray() bool {
	return p.kind == PropertyKind_PrimitiveArray || p.kind == PropertyKind_StructArray
}

func (p *Property) String() string {
	return fmt.Sprintf("property «%s.%s»", p.class.FullName(), p.name)
}

// Sets property identifier. Called by catalogs when property is persisted or registered.
func (p *Property) SetID(id ID) { p.id = id }

func (p *Property) SetDescription(d string) *Property {
	p.description = d
	return p
}

func (p *Property) SetReadOnly() *Property {
	p.readOnly = true
	return p
}

func (p *Property) SetCategory(c *PropertyCategory) *Property {
	p.category = c
	return p
}

func (p *Property) SetUnit(u *Unit) *Property {
	p.unit = u
	return p
}

// Sets array occurrences.
//
// # Panics:
//   - if property is not array,
//   - if max is less than min (and not Unbounded).
func (p *Property) SetOccurs(min, max uint32) *Property {
	if !p.IsArray() {
		panic(ErrInvalid("%v is not array", p))
	}
	if max != Unbounded && max < min {
		panic(ErrOutOfBounds("%v occurs (%d..%d)", p, min, max))
	}
	p.minOccurs, p.maxOccurs = min, max
	return p
}

func (p *Property) SetCustomAttribute(class QName, values map[string]any) *Property {
	p.setCustomAttribute(NewCustomAttribute(class, values))
	return p
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"fmt"
	"strings"
)

// Class is an entity, mixin, relationship, struct or custom attribute type definition.
type Class struct {
	withCustomAttributes
	id          ID
	schema      *Schema
	name        string
	description string
	kind        ClassKind
	modifier    ClassModifier
	bases       []*Class
	props       []*Property
	propByName  map[string]*Property

	// relationships only
	strength Strength
	source   *RelationshipConstraint
	target   *RelationshipConstraint
}

func newClass(schema *Schema, name string, kind ClassKind) *Class {
	return &Class{
		schema:     schema,
		name:       name,
		kind:       kind,
		propByName: make(map[string]*Property),
	}
}

func (c *Class) ID() ID                  { return c.id }
func (c *Class) Schema() *Schema         { return c.schema }
func (c *Class) Name() string            { return c.name }
func (c *Class) Description() string     { return c.description }
func (c *Class) Kind() ClassKind         { return c.kind }
func (c *Class) Modifier() ClassModifier { return c.modifier }

// Returns qualified class name using schema name
func (c *Class) QName() QName { return NewQName(c.schema.name, c.name) }

// Returns qualified class name using schema alias
func (c *Class) AliasQName() QName { return NewQName(c.schema.alias, c.name) }

func (c *Class) FullName() string { return c.QName().String() }

func (c *Class) String() string { return fmt.Sprintf("%v «%v»", c.kind, c.QName()) }

func (c *Class) IsEntity() bool          { return c.kind == ClassKind_Entity }
func (c *Class) IsMixin() bool           { return c.kind == ClassKind_Mixin }
func (c *Class) IsRelationship() bool    { return c.kind == ClassKind_Relationship }
func (c *Class) IsStruct() bool          { return c.kind == ClassKind_Struct }
func (c *Class) IsCustomAttribute() bool { return c.kind == ClassKind_CustomAttribute }
func (c *Class) IsAbstract() bool        { return c.modifier == ClassModifier_Abstract }
func (c *Class) IsSealed() bool          { return c.modifier == ClassModifier_Sealed }

// Base classes in declaration order
func (c *Class) BaseClasses() []*Class { return c.bases }

// Returns is class has no base classes or all its base classes are mixins
func (c *Class) IsRootClass() bool {
	for _, b := range c.bases {
		if !b.IsMixin() {
			return false
		}
	}
	return true
}

// Returns first base class, which is not a mixin, or nil
func (c *Class) PrimaryBase() *Class {
	for _, b := range c.bases {
		if !b.IsMixin() {
			return b
		}
	}
	return nil
}

// Returns is class is equal to base or derived from it (directly or transitively)
func (c *Class) Is(base *Class) bool {
	return c.is(base, map[*Class]bool{})
}

func (c *Class) is(base *Class, seen map[*Class]bool) bool {
	if sameClass(c, base) {
		return true
	}
	if seen[c] {
		return false
	}
	seen[c] = true
	for _, b := range c.bases {
		if b.is(base, seen) {
			return true
		}
	}
	return false
}

func sameClass(a, b *Class) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.id != NullID && a.id == b.id {
		return true
	}
	return strings.EqualFold(a.name, b.name) && a.schema != nil && b.schema != nil &&
		strings.EqualFold(a.schema.name, b.schema.name)
}

// Own properties in add order
func (c *Class) Properties() []*Property { return c.props }

// Returns own property by name or nil
func (c *Class) Property(name string) *Property {
	return c.propByName[strings.ToLower(name)]
}

// Returns own or inherited property by name or nil
func (c *Class) FindProperty(name string) *Property {
	if p := c.Property(name); p != nil {
		return p
	}
	for _, b := range c.bases {
		if p := b.FindProperty(name); p != nil {
			return p
		}
	}
	return nil
}

// Returns all properties: inherited first (in base classes order), then own.
// Property overrides in derived classes replace inherited ones in place.
func (c *Class) AllProperties() []*Property {
	var res []*Property
	index := map[string]int{}
	var walk func(cls *Class, seen map[*Class]bool)
	walk = func(cls *Class, seen map[*Class]bool) {
		if seen[cls] {
			return
		}
		seen[cls] = true
		for _, b := range cls.bases {
			walk(b, seen)
		}
		for _, p := range cls.props {
			key := strings.ToLower(p.name)
			if i, ok := index[key]; ok {
				res[i] = p
				continue
			}
			index[key] = len(res)
			res = append(res, p)
		}
	}
	walk(c, map[*Class]bool{})
	return res
}

// Source constraint for relationship classes, nil for other kinds
func (c *Class) Source() *RelationshipConstraint { return c.source }

// Target constraint for relationship classes, nil for other kinds
func (c *Class) Target() *RelationshipConstraint { return c.target }

// Constraint by end
func (c *Class) Constraint(end RelationshipEnd) *RelationshipConstraint {
	if end == RelationshipEnd_Source {
		return c.source
	}
	return c.target
}

func (c *Class) Strength() Strength { return c.strength }

// Sets class identifier. Called by catalogs when class is persisted or registered.
func (c *Class) SetID(id ID) { c.id = id }

func (c *Class) SetDescription(d string) *Class {
	c.description = d
	return c
}

func (c *Class) SetModifier(m ClassModifier) *Class {
	c.modifier = m
	return c
}

func (c *Class) SetAbstract() *Class { return c.SetModifier(ClassModifier_Abstract) }

func (c *Class) SetSealed() *Class { return c.SetModifier(ClassModifier_Sealed) }

func (c *Class) SetStrength(s Strength) *Class {
	c.strength = s
	return c
}

// Sets relationship constraints.
//
// # Panics:
//   - if class is not relationship
func (c *Class) SetConstraints(source, target *RelationshipConstraint) *Class {
	if !c.IsRelationship() {
		panic(ErrInvalid("%v can not have relationship constraints", c))
	}
	c.source, c.target = source, target
	return c
}

// Adds base class. Repeated bases are ignored.
func (c *Class) AddBase(base *Class) *Class {
	for _, b := range c.bases {
		if sameClass(b, base) {
			return c
		}
	}
	c.bases = append(c.bases, base)
	return c
}

// Replaces all base classes
func (c *Class) SetBases(bases ...*Class) *Class {
	c.bases = nil
	for _, b := range bases {
		c.AddBase(b)
	}
	return c
}

// Adds or replaces custom attribute
func (c *Class) SetCustomAttribute(class QName, values map[string]any) *Class {
	c.setCustomAttribute(NewCustomAttribute(class, values))
	return c
}

func (c *Class) RemoveCustomAttribute(class QName) {
	c.removeCustomAttribute(class)
}

// Adds property of specified kind
//
// # Panics:
//   - if name is not valid identifier,
//   - if property with name already exists,
//   - if class kind does not support properties.
func (c *Class) addProperty(name string, kind PropertyKind) *Property {
	if ok, err := ValidIdent(name); !ok {
		panic(fmt.Errorf("property name: %w", err))
	}
	if c.Property(name) != nil {
		panic(ErrAlreadyExists("property «%s» in %v", name, c))
	}
	p := &Property{class: c, name: name, kind: kind, maxOccurs: 1}
	c.props = append(c.props, p)
	c.propByName[strings.ToLower(name)] = p
	return p
}

func (c *Class) AddPrimitive(name string, t PrimitiveType) *Property {
	p := c.addProperty(name, PropertyKind_Primitive)
	p.primitive = t
	return p
}

func (c *Class) AddPrimitiveArray(name string, t PrimitiveType) *Property {
	p := c.addProperty(name, PropertyKind_PrimitiveArray)
	p.primitive = t
	p.maxOccurs = Unbounded
	return p
}

func (c *Class) AddEnumeration(name string, e *Enumeration) *Property {
	p := c.addProperty(name, PropertyKind_Enumeration)
	p.enum = e
	p.primitive = e.backing
	return p
}

func (c *Class) AddStruct(name string, s *Class) *Property {
	p := c.addProperty(name, PropertyKind_Struct)
	p.structClass = s
	return p
}

func (c *Class) AddStructArray(name string, s *Class) *Property {
	p := c.addProperty(name, PropertyKind_StructArray)
	p.structClass = s
	p.maxOccurs = Unbounded
	return p
}

func (c *Class) AddNavigation(name string, rel *Class, dir Direction) *Property {
	p := c.addProperty(name, PropertyKind_Navigation)
	p.relationship = rel
	p.direction = dir
	p.primitive = PrimitiveType_Long
	return p
}

// Removes own property. Used by catalogs when schema is upgraded.
func (c *Class) RemoveProperty(name string) {
	p := c.Property(name)
	if p == nil {
		return
	}
	delete(c.propByName, strings.ToLower(name))
	for i, pp := range c.props {
		if pp == p {
			c.props = append(c.props[:i], c.props[i+1:]...)
			break
		}
	}
}

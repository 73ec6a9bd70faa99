/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"fmt"
	"strings"
)

// Schema is a versioned, named collection of classes, enumerations, units and related items.
type Schema struct {
	withCustomAttributes
	id          ID
	name        string
	alias       string
	description string
	version     SchemaVersion
	references  []*Schema
	classes     []*Class
	classByName map[string]*Class
	enums       []*Enumeration
	units       []*Unit
	formats     []*Format
	categories  []*PropertyCategory
}

// Creates new empty schema
func NewSchema(name, alias string, version SchemaVersion) *Schema {
	return &Schema{
		name:        name,
		alias:       alias,
		version:     version,
		classByName: make(map[string]*Class),
	}
}

func (s *Schema) ID() ID                 { return s.id }
func (s *Schema) Name() string           { return s.name }
func (s *Schema) Alias() string          { return s.alias }
func (s *Schema) Description() string    { return s.description }
func (s *Schema) Version() SchemaVersion { return s.version }
func (s *Schema) Key() SchemaKey         { return NewSchemaKey(s.name, s.version) }

// Schema has no persisted identifier
func (s *Schema) IsVirtual() bool { return s.id == NullID || s.id >= VirtualIDSeed }

// Schema is generated by application at runtime
func (s *Schema) IsDynamic() bool { return s.HasCustomAttribute(CADynamicSchema) }

// Schema only supplements other schemas
func (s *Schema) IsSupplemental() bool { return s.HasCustomAttribute(CASupplementalSchema) }

// Referenced schemas in add order
func (s *Schema) References() []*Schema { return s.references }

// Returns is schema directly references schema with specified name
func (s *Schema) HasReference(name string) bool {
	for _, r := range s.references {
		if strings.EqualFold(r.name, name) {
			return true
		}
	}
	return false
}

// Classes in add order
func (s *Schema) Classes() []*Class { return s.classes }

// Returns class by name (case insensitive) or nil
func (s *Schema) Class(name string) *Class {
	return s.classByName[strings.ToLower(name)]
}

func (s *Schema) Enumerations() []*Enumeration { return s.enums }

func (s *Schema) Enumeration(name string) *Enumeration {
	for _, e := range s.enums {
		if strings.EqualFold(e.name, name) {
			return e
		}
	}
	return nil
}

func (s *Schema) Units() []*Unit { return s.units }

func (s *Schema) Unit(name string) *Unit {
	for _, u := range s.units {
		if strings.EqualFold(u.name, name) {
			return u
		}
	}
	return nil
}

func (s *Schema) Formats() []*Format { return s.formats }

func (s *Schema) Format(name string) *Format {
	for _, f := range s.formats {
		if strings.EqualFold(f.name, name) {
			return f
		}
	}
	return nil
}

func (s *Schema) PropertyCategories() []*PropertyCategory { return s.categories }

func (s *Schema) PropertyCategory(name string) *PropertyCategory {
	for _, c := range s.categories {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

// Returns is schema name or alias equals to specified string (case insensitive)
func (s *Schema) NameOrAliasIs(nameOrAlias string) bool {
	return strings.EqualFold(s.name, nameOrAlias) || strings.EqualFold(s.alias, nameOrAlias)
}

func (s *Schema) String() string { return s.Key().String() }

// Sets schema identifier. Called by catalogs when schema is persisted or registered.
func (s *Schema) SetID(id ID) { s.id = id }

func (s *Schema) SetDescription(d string) *Schema {
	s.description = d
	return s
}

func (s *Schema) SetVersion(v SchemaVersion) *Schema {
	s.version = v
	return s
}

// Adds reference to other schema. Repeated references are ignored.
func (s *Schema) AddReference(ref *Schema) *Schema {
	for _, r := range s.references {
		if r == ref || strings.EqualFold(r.name, ref.name) {
			return s
		}
	}
	s.references = append(s.references, ref)
	return s
}

// Adds or replaces custom attribute
func (s *Schema) SetCustomAttribute(class QName, values map[string]any) *Schema {
	s.setCustomAttribute(NewCustomAttribute(class, values))
	return s
}

func (s *Schema) RemoveCustomAttribute(class QName) {
	s.removeCustomAttribute(class)
}

// Adds new class with specified name and kind.
//
// # Panics:
//   - if name is not valid identifier,
//   - if class with name already exists.
func (s *Schema) AddClass(name string, kind ClassKind) *Class {
	if ok, err := ValidIdent(name); !ok {
		panic(fmt.Errorf("class name: %w", err))
	}
	if s.Class(name) != nil {
		panic(ErrAlreadyExists("class «%s» in schema «%s»", name, s.name))
	}
	c := newClass(s, name, kind)
	s.classes = append(s.classes, c)
	s.classByName[strings.ToLower(name)] = c
	return c
}

func (s *Schema) AddEntity(name string) *Class { return s.AddClass(name, ClassKind_Entity) }

func (s *Schema) AddMixin(name string) *Class { return s.AddClass(name, ClassKind_Mixin) }

func (s *Schema) AddStruct(name string) *Class { return s.AddClass(name, ClassKind_Struct) }

func (s *Schema) AddCustomAttributeClass(name string) *Class {
	return s.AddClass(name, ClassKind_CustomAttribute)
}

// Adds relationship class with specified source and target constraints
func (s *Schema) AddRelationship(name string, source, target *RelationshipConstraint) *Class {
	c := s.AddClass(name, ClassKind_Relationship)
	c.source, c.target = source, target
	return c
}

// Adds enumeration.
//
// # Panics:
//   - if enumeration with name already exists
func (s *Schema) AddEnumeration(name string, backing PrimitiveType) *Enumeration {
	if s.Enumeration(name) != nil {
		panic(ErrAlreadyExists("enumeration «%s» in schema «%s»", name, s.name))
	}
	e := &Enumeration{schema: s, name: name, backing: backing}
	s.enums = append(s.enums, e)
	return e
}

func (s *Schema) AddUnit(name, definition string) *Unit {
	if s.Unit(name) != nil {
		panic(ErrAlreadyExists("unit «%s» in schema «%s»", name, s.name))
	}
	u := &Unit{schema: s, name: name, definition: definition}
	s.units = append(s.units, u)
	return u
}

func (s *Schema) AddFormat(name, spec string) *Format {
	if s.Format(name) != nil {
		panic(ErrAlreadyExists("format «%s» in schema «%s»", name, s.name))
	}
	f := &Format{schema: s, name: name, spec: spec}
	s.formats = append(s.formats, f)
	return f
}

func (s *Schema) AddPropertyCategory(name string, priority int) *PropertyCategory {
	if s.PropertyCategory(name) != nil {
		panic(ErrAlreadyExists("property category «%s» in schema «%s»", name, s.name))
	}
	c := &PropertyCategory{schema: s, name: name, priority: priority}
	s.categories = append(s.categories, c)
	return c
}

// Removes class from schema. Used by catalogs when schema is upgraded.
func (s *Schema) RemoveClass(name string) {
	c := s.Class(name)
	if c == nil {
		return
	}
	delete(s.classByName, strings.ToLower(name))
	for i, cc := range s.classes {
		if cc == c {
			s.classes = append(s.classes[:i], s.classes[i+1:]...)
			break
		}
	}
}

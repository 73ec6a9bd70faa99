/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"errors"
	"fmt"
)

// Validates schema structure. Returns joined error with all found problems.
func (s *Schema) Validate() error {
	var errs []error
	if ok, err := ValidIdent(s.name); !ok {
		errs = append(errs, fmt.Errorf("schema name: %w", err))
	}
	if ok, err := ValidIdent(s.alias); !ok {
		errs = append(errs, fmt.Errorf("schema «%s» alias: %w", s.name, err))
	}
	for _, c := range s.classes {
		errs = append(errs, c.validate()...)
	}
	return errors.Join(errs...)
}

func (c *Class) validate() (errs []error) {
	entityBases := 0
	for _, b := range c.bases {
		if b.IsSealed() {
			errs = append(errs, ErrInvalid("%v can not derive from sealed %v", c, b))
		}
		switch c.kind {
		case ClassKind_Entity:
			switch b.kind {
			case ClassKind_Entity:
				entityBases++
			case ClassKind_Mixin:
			default:
				errs = append(errs, ErrInvalid("%v can not derive from %v", c, b))
			}
		default:
			if b.kind != c.kind {
				errs = append(errs, ErrInvalid("%v can not derive from %v", c, b))
			}
		}
	}
	if entityBases > 1 {
		errs = append(errs, ErrInvalid("%v has %d entity base classes, multiple base classes are allowed for mixins only", c, entityBases))
	}
	if c.kind != ClassKind_Entity && c.kind != ClassKind_Mixin && len(c.bases) > 1 {
		errs = append(errs, ErrInvalid("%v has %d base classes, only one is allowed", c, len(c.bases)))
	}
	if c.hasCycle() {
		errs = append(errs, ErrInvalid("%v has cyclic inheritance", c))
	}

	if c.IsRelationship() {
		for _, end := range []RelationshipEnd{RelationshipEnd_Source, RelationshipEnd_Target} {
			cons := c.Constraint(end)
			if cons == nil {
				errs = append(errs, ErrMissed("%v %v constraint", c, end))
				continue
			}
			if len(cons.classes) == 0 && !c.IsAbstract() {
				errs = append(errs, ErrMissed("%v %v constraint classes", c, end))
			}
			for _, cc := range cons.classes {
				if cc.kind != ClassKind_Entity && cc.kind != ClassKind_Mixin && cc.kind != ClassKind_Relationship {
					errs = append(errs, ErrInvalid("%v %v constraint class %v", c, end, cc))
				}
			}
		}
	}

	for _, p := range c.props {
		errs = append(errs, p.validate()...)
	}
	return errs
}

func (c *Class) hasCycle() bool {
	for _, b := range c.bases {
		if b.Is(c) {
			return true
		}
	}
	return false
}

func (p *Property) validate() (errs []error) {
	switch p.kind {
	case PropertyKind_Primitive, PropertyKind_PrimitiveArray:
		if p.primitive == PrimitiveType_null || p.primitive >= PrimitiveType_count {
			errs = append(errs, ErrMissed("%v primitive type", p))
		}
	case PropertyKind_Enumeration:
		if p.enum == nil {
			errs = append(errs, ErrMissed("%v enumeration", p))
		}
	case PropertyKind_Struct, PropertyKind_StructArray:
		if p.structClass == nil || !p.structClass.IsStruct() {
			errs = append(errs, ErrInvalid("%v must refer to struct class", p))
		} else if p.structClass.Is(p.class) && p.class.IsStruct() {
			errs = append(errs, ErrInvalid("%v refers to its own struct class", p))
		}
	case PropertyKind_Navigation:
		rel := p.relationship
		switch {
		case rel == nil || !rel.IsRelationship():
			errs = append(errs, ErrInvalid("%v must refer to relationship class", p))
		case p.class.IsStruct() || p.class.IsCustomAttribute():
			errs = append(errs, ErrInvalid("%v: navigation properties are not allowed in %v", p, p.class))
		default:
			end := RelationshipEnd_Source
			if p.direction == Direction_Backward {
				end = RelationshipEnd_Target
			}
			if cons := rel.Constraint(end); cons != nil && len(cons.classes) > 0 && !cons.Supports(p.class) {
				errs = append(errs, ErrInvalid("%v: class is not supported by %v %v constraint", p, rel, end))
			}
		}
	}
	return errs
}

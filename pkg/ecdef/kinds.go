/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"strings"
)

// Class kind
type ClassKind uint8

const (
	ClassKind_null ClassKind = iota

	// Entity class, instances are stored in tables
	ClassKind_Entity

	// Mixin class, contributes properties to entities, never has own storage
	ClassKind_Mixin

	// Relationship class, relates instances of source and target constraint classes
	ClassKind_Relationship

	// Struct class, used as type of struct properties
	ClassKind_Struct

	// Custom attribute class
	ClassKind_CustomAttribute

	ClassKind_count
)

var classKindNames = [ClassKind_count]string{"", "Entity", "Mixin", "Relationship", "Struct", "CustomAttribute"}

func (k ClassKind) String() string {
	if k < ClassKind_count {
		return classKindNames[k]
	}
	return "ClassKind(" + itoa(uint64(k)) + ")"
}

// Parses class kind from string
func ParseClassKind(s string) (ClassKind, error) {
	return parseEnum[ClassKind](s, classKindNames[:], "class kind")
}

// Class modifier
type ClassModifier uint8

const (
	ClassModifier_None ClassModifier = iota
	ClassModifier_Abstract
	ClassModifier_Sealed

	ClassModifier_count
)

var classModifierNames = [ClassModifier_count]string{"None", "Abstract", "Sealed"}

func (m ClassModifier) String() string {
	if m < ClassModifier_count {
		return classModifierNames[m]
	}
	return "ClassModifier(" + itoa(uint64(m)) + ")"
}

func ParseClassModifier(s string) (ClassModifier, error) {
	if s == "" {
		return ClassModifier_None, nil
	}
	return parseEnum[ClassModifier](s, classModifierNames[:], "class modifier")
}

// Property kind
type PropertyKind uint8

const (
	PropertyKind_Primitive PropertyKind = iota
	PropertyKind_Enumeration
	PropertyKind_Struct
	PropertyKind_PrimitiveArray
	PropertyKind_StructArray
	PropertyKind_Navigation

	PropertyKind_count
)

var propertyKindNames = [PropertyKind_count]string{"Primitive", "Enumeration", "Struct", "PrimitiveArray", "StructArray", "Navigation"}

func (k PropertyKind) String() string {
	if k < PropertyKind_count {
		return propertyKindNames[k]
	}
	return "PropertyKind(" + itoa(uint64(k)) + ")"
}

func ParsePropertyKind(s string) (PropertyKind, error) {
	return parseEnum[PropertyKind](s, propertyKindNames[:], "property kind")
}

// Primitive type of primitive and primitive array properties
type PrimitiveType uint8

const (
	PrimitiveType_null PrimitiveType = iota
	PrimitiveType_Binary
	PrimitiveType_Boolean
	PrimitiveType_DateTime
	PrimitiveType_Double
	PrimitiveType_Integer
	PrimitiveType_Long
	PrimitiveType_Point2d
	PrimitiveType_Point3d
	PrimitiveType_String

	PrimitiveType_count
)

var primitiveTypeNames = [PrimitiveType_count]string{"", "Binary", "Boolean", "DateTime", "Double", "Integer", "Long", "Point2d", "Point3d", "String"}

func (t PrimitiveType) String() string {
	if t < PrimitiveType_count {
		return primitiveTypeNames[t]
	}
	return "PrimitiveType(" + itoa(uint64(t)) + ")"
}

func ParsePrimitiveType(s string) (PrimitiveType, error) {
	return parseEnum[PrimitiveType](s, primitiveTypeNames[:], "primitive type")
}

// Returns coordinate suffixes for point types, nil for other types
func (t PrimitiveType) Coordinates() []string {
	switch t {
	case PrimitiveType_Point2d:
		return []string{"X", "Y"}
	case PrimitiveType_Point3d:
		return []string{"X", "Y", "Z"}
	}
	return nil
}

// Direction of navigation property
type Direction uint8

const (
	Direction_Forward Direction = iota
	Direction_Backward

	Direction_count
)

var directionNames = [Direction_count]string{"Forward", "Backward"}

func (d Direction) String() string {
	if d < Direction_count {
		return directionNames[d]
	}
	return "Direction(" + itoa(uint64(d)) + ")"
}

func ParseDirection(s string) (Direction, error) {
	if s == "" {
		return Direction_Forward, nil
	}
	return parseEnum[Direction](s, directionNames[:], "direction")
}

// Relationship strength
type Strength uint8

const (
	Strength_Referencing Strength = iota
	Strength_Holding
	Strength_Embedding

	Strength_count
)

var strengthNames = [Strength_count]string{"Referencing", "Holding", "Embedding"}

func (s Strength) String() string {
	if s < Strength_count {
		return strengthNames[s]
	}
	return "Strength(" + itoa(uint64(s)) + ")"
}

func ParseStrength(s string) (Strength, error) {
	if s == "" {
		return Strength_Referencing, nil
	}
	return parseEnum[Strength](s, strengthNames[:], "strength")
}

func parseEnum[T ~uint8](s string, names []string, what string) (T, error) {
	for i, n := range names {
		if n != "" && strings.EqualFold(n, s) {
			return T(i), nil
		}
	}
	return 0, ErrConvert("unknown %s «%s»", what, s)
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"fmt"
	"strconv"
	"strings"
)

// Relationship end
type RelationshipEnd uint8

const (
	RelationshipEnd_Source RelationshipEnd = iota
	RelationshipEnd_Target
)

func (e RelationshipEnd) String() string {
	if e == RelationshipEnd_Source {
		return "Source"
	}
	return "Target"
}

// Returns opposite end
func (e RelationshipEnd) Other() RelationshipEnd {
	if e == RelationshipEnd_Source {
		return RelationshipEnd_Target
	}
	return RelationshipEnd_Source
}

// Multiplicity of relationship constraint. Upper == Unbounded means «*».
type Multiplicity struct {
	Lower uint32
	Upper uint32
}

var (
	MultiplicityZeroOne  = Multiplicity{0, 1}
	MultiplicityOneOne   = Multiplicity{1, 1}
	MultiplicityZeroMany = Multiplicity{0, Unbounded}
	MultiplicityOneMany  = Multiplicity{1, Unbounded}
)

// Returns is upper bound is one
func (m Multiplicity) IsUpperOne() bool { return m.Upper == 1 }

func (m Multiplicity) IsUnbounded() bool { return m.Upper == Unbounded }

func (m Multiplicity) String() string {
	u := "*"
	if m.Upper != Unbounded {
		u = strconv.FormatUint(uint64(m.Upper), 10)
	}
	return fmt.Sprintf("(%d..%s)", m.Lower, u)
}

// Parses multiplicity from «(L..U)» string, where U is number, «*» or «N»
func ParseMultiplicity(s string) (m Multiplicity, err error) {
	t := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "("), ")")
	parts := strings.Split(t, "..")
	if len(parts) != 2 {
		return m, ErrConvert("multiplicity «%s»", s)
	}
	l, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return m, ErrConvert("multiplicity «%s»: %v", s, err)
	}
	m.Lower = uint32(l)
	switch parts[1] {
	case "*", "N", "n":
		m.Upper = Unbounded
	default:
		u, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return m, ErrConvert("multiplicity «%s»: %v", s, err)
		}
		if u == 0 || uint32(u) < m.Lower {
			return m, ErrOutOfBounds("multiplicity «%s»", s)
		}
		m.Upper = uint32(u)
	}
	return m, nil
}

// Relationship constraint: source or target end of relationship class
type RelationshipConstraint struct {
	multiplicity Multiplicity
	polymorphic  bool
	roleLabel    string
	classes      []*Class
}

func NewRelationshipConstraint(m Multiplicity, polymorphic bool, classes ...*Class) *RelationshipConstraint {
	return &RelationshipConstraint{multiplicity: m, polymorphic: polymorphic, classes: classes}
}

func (c *RelationshipConstraint) Multiplicity() Multiplicity { return c.multiplicity }
func (c *RelationshipConstraint) IsPolymorphic() bool        { return c.polymorphic }
func (c *RelationshipConstraint) RoleLabel() string          { return c.roleLabel }

// Allowed constraint classes
func (c *RelationshipConstraint) Classes() []*Class { return c.classes }

func (c *RelationshipConstraint) SetRoleLabel(l string) *RelationshipConstraint {
	c.roleLabel = l
	return c
}

func (c *RelationshipConstraint) AddClass(cls *Class) *RelationshipConstraint {
	c.classes = append(c.classes, cls)
	return c
}

// Returns is class supported by constraint
func (c *RelationshipConstraint) Supports(cls *Class) bool {
	for _, cc := range c.classes {
		if sameClass(cc, cls) || (c.polymorphic && cls.Is(cc)) {
			return true
		}
	}
	return false
}

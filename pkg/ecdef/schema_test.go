/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))

	named := s.AddMixin("Named")
	named.AddPrimitive("Name", PrimitiveType_String)

	el := s.AddEntity("Element").SetAbstract()
	el.AddPrimitive("Code", PrimitiveType_String)
	el.AddPrimitive("Origin", PrimitiveType_Point3d)

	pump := s.AddEntity("Pump").AddBase(el).AddBase(named)
	pump.AddPrimitive("Power", PrimitiveType_Double)
	pump.AddPrimitiveArray("Tags", PrimitiveType_String)

	s.AddEntity("Valve").AddBase(el)

	rel := s.AddRelationship("ElementOwnsChildren",
		NewRelationshipConstraint(MultiplicityZeroOne, true, el),
		NewRelationshipConstraint(MultiplicityZeroMany, true, el))
	rel.SetStrength(Strength_Embedding)

	el.AddNavigation("Parent", rel, Direction_Backward)
	return s
}

func TestSchema_Build(t *testing.T) {
	require := require.New(t)

	s := testSchema()
	require.NoError(s.Validate())

	t.Run("must be ok to find classes by name ignoring case", func(t *testing.T) {
		require.NotNil(s.Class("pump"))
		require.Equal("Pump", s.Class("PUMP").Name())
		require.Nil(s.Class("Unknown"))
		require.Len(s.Classes(), 5)
	})

	t.Run("must be ok to check hierarchy", func(t *testing.T) {
		pump, el, named := s.Class("Pump"), s.Class("Element"), s.Class("Named")
		require.True(pump.Is(el))
		require.True(pump.Is(named))
		require.False(el.Is(pump))
		require.True(el.IsRootClass())
		require.False(pump.IsRootClass())
		require.Equal(el, pump.PrimaryBase())
	})

	t.Run("must be ok to enumerate all properties, inherited first", func(t *testing.T) {
		names := []string{}
		for _, p := range s.Class("Pump").AllProperties() {
			names = append(names, p.Name())
		}
		require.Equal([]string{"Code", "Origin", "Parent", "Name", "Power", "Tags"}, names)
		require.NotNil(s.Class("Pump").FindProperty("code"))
	})

	t.Run("must be ok to check constraints", func(t *testing.T) {
		rel := s.Class("ElementOwnsChildren")
		require.True(rel.Source().Supports(s.Class("Valve")))
		require.False(rel.Source().Supports(s.Class("Named")))
		require.True(rel.Source().Multiplicity().IsUpperOne())
		require.True(rel.Target().Multiplicity().IsUnbounded())
	})

	t.Run("must be panic to add duplicates and invalid names", func(t *testing.T) {
		require.Panics(func() { s.AddEntity("Pump") })
		require.Panics(func() { s.AddEntity("1st") })
		require.Panics(func() { s.Class("Pump").AddPrimitive("power", PrimitiveType_Long) })
		require.Panics(func() { s.Class("Pump").SetConstraints(nil, nil) })
	})
}

func TestSchema_Validate(t *testing.T) {
	require := require.New(t)

	t.Run("must be error if entity has two entity bases", func(t *testing.T) {
		s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))
		a := s.AddEntity("A")
		b := s.AddEntity("B")
		s.AddEntity("C").AddBase(a).AddBase(b)
		err := s.Validate()
		require.ErrorIs(err, ErrInvalidError)
		require.ErrorContains(err, "multiple base classes are allowed for mixins only")
	})

	t.Run("must be error if mixin derives from entity", func(t *testing.T) {
		s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))
		s.AddMixin("M").AddBase(s.AddEntity("E"))
		require.ErrorIs(s.Validate(), ErrInvalidError)
	})

	t.Run("must be error if derived from sealed", func(t *testing.T) {
		s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))
		s.AddEntity("D").AddBase(s.AddEntity("S").SetSealed())
		require.ErrorContains(s.Validate(), "sealed")
	})

	t.Run("must be error if inheritance is cyclic", func(t *testing.T) {
		s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))
		a := s.AddEntity("A")
		b := s.AddEntity("B").AddBase(a)
		a.AddBase(b)
		require.ErrorContains(s.Validate(), "cyclic")
	})

	t.Run("must be error if relationship constraint missed", func(t *testing.T) {
		s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))
		e := s.AddEntity("E")
		s.AddRelationship("R", NewRelationshipConstraint(MultiplicityZeroOne, false, e), nil)
		require.ErrorIs(s.Validate(), ErrMissedError)
	})

	t.Run("must be error if navigation class is not supported by constraint", func(t *testing.T) {
		s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))
		a := s.AddEntity("A")
		b := s.AddEntity("B")
		r := s.AddRelationship("R",
			NewRelationshipConstraint(MultiplicityZeroOne, false, a),
			NewRelationshipConstraint(MultiplicityZeroMany, false, b))
		b.AddNavigation("ToA", r, Direction_Forward)
		err := s.Validate()
		require.ErrorIs(err, ErrInvalidError)
		require.ErrorContains(err, "not supported")
	})

	t.Run("must be error if struct property refers to entity", func(t *testing.T) {
		s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))
		e := s.AddEntity("E")
		s.AddEntity("F").AddStruct("S", e)
		require.ErrorIs(s.Validate(), ErrInvalidError)
	})

	t.Run("must be all errors joined", func(t *testing.T) {
		s := NewSchema("Test", "1ts", NewSchemaVersion(1, 0, 0))
		s.AddMixin("M").AddBase(s.AddEntity("E"))
		err := s.Validate()
		require.ErrorIs(err, ErrInvalidError)
		var joined interface{ Unwrap() []error }
		require.True(errors.As(err, &joined))
		require.Len(joined.Unwrap(), 2)
	})
}

func TestSortByReferences(t *testing.T) {
	require := require.New(t)

	v := NewSchemaVersion(1, 0, 0)
	a := NewSchema("A", "a", v)
	b := NewSchema("B", "b", v).AddReference(a)
	c := NewSchema("C", "c", v).AddReference(b).AddReference(a)

	sorted := SortByReferences([]*Schema{c, b, a})
	require.Equal([]*Schema{a, b, c}, sorted)
}

func TestCustomAttribute(t *testing.T) {
	require := require.New(t)

	s := NewSchema("Test", "ts", NewSchemaVersion(1, 0, 0))
	c := s.AddEntity("E").SetCustomAttribute(CAClassMap, map[string]any{
		CAPropMapStrategy:                   MapStrategyTablePerHierarchy,
		CAPropMaxSharedColumnsBeforeOverflow: 10.0,
		CAPropApplyToSubclassesOnly:          true,
	})
	ca := c.CustomAttribute(CAClassMap)
	require.NotNil(ca)
	require.Equal(MapStrategyTablePerHierarchy, ca.String(CAPropMapStrategy))
	n, ok := ca.Int(CAPropMaxSharedColumnsBeforeOverflow)
	require.True(ok)
	require.Equal(10, n)
	require.True(ca.Bool(CAPropApplyToSubclassesOnly))
	require.Empty(ca.String("unknown"))

	c.RemoveCustomAttribute(CAClassMap)
	require.False(c.HasCustomAttribute(CAClassMap))
}

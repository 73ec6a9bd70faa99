/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchemasYAML = `
schema: Base
alias: bs
version: 01.00.00
classes:
  - name: Element
    kind: Entity
    modifier: Abstract
    properties:
      - name: Code
        type: String
---
schema: Plant
alias: pl
version: 02.01.03
description: Plant equipment
references:
  - name: Base
    version: 01.00.00
customAttributes:
  - class: CoreCustomAttributes.DynamicSchema
enumerations:
  - name: Status
    type: Integer
    strict: true
    enumerators:
      - name: Off
        value: 0
      - name: On
        value: 1
units:
  - name: KW
    definition: W*1000
categories:
  - name: Electrical
    priority: 5
classes:
  - name: Pump
    kind: Entity
    bases: [bs.Element]
    customAttributes:
      - class: SchemaMap.ClassMap
        values:
          MapStrategy: TablePerHierarchy
    properties:
      - name: Power
        type: Double
        unit: KW
        category: Electrical
      - name: Status
        enum: Status
      - name: Tags
        type: String
        array: true
        minOccurs: 1
        maxOccurs: 5
      - name: Housing
        relationship: PumpInHousing
        direction: Forward
  - name: Housing
    kind: Entity
  - name: PumpInHousing
    kind: Relationship
    strength: Referencing
    source:
      multiplicity: (0..*)
      classes: [Pump]
    target:
      multiplicity: (0..1)
      polymorphic: true
      classes: [Housing]
`

func TestReadSchemasYAML(t *testing.T) {
	require := require.New(t)

	schemas, err := ReadSchemasYAMLString(testSchemasYAML)
	require.NoError(err)
	require.Len(schemas, 2)

	base, plant := schemas[0], schemas[1]

	t.Run("must be ok to read schema header", func(t *testing.T) {
		require.Equal("Plant", plant.Name())
		require.Equal("pl", plant.Alias())
		require.Equal(NewSchemaVersion(2, 1, 3), plant.Version())
		require.Equal("Plant equipment", plant.Description())
		require.True(plant.IsDynamic())
		require.Equal([]*Schema{base}, plant.References())
	})

	t.Run("must be ok to read classes and properties", func(t *testing.T) {
		pump := plant.Class("Pump")
		require.NotNil(pump)
		require.True(pump.Is(base.Class("Element")))
		require.Equal(MapStrategyTablePerHierarchy, pump.CustomAttribute(CAClassMap).String(CAPropMapStrategy))

		power := pump.Property("Power")
		require.Equal(PrimitiveType_Double, power.PrimitiveType())
		require.Equal("KW", power.Unit().Name())
		require.Equal(5, power.Category().Priority())

		status := pump.Property("Status")
		require.Equal(PropertyKind_Enumeration, status.Kind())
		require.Len(status.Enumeration().Enumerators(), 2)

		tags := pump.Property("Tags")
		require.True(tags.IsArray())
		require.EqualValues(1, tags.MinOccurs())
		require.EqualValues(5, tags.MaxOccurs())

		nav := pump.Property("Housing")
		require.Equal(PropertyKind_Navigation, nav.Kind())
		require.Equal(plant.Class("PumpInHousing"), nav.Relationship())

		rel := plant.Class("PumpInHousing")
		require.True(rel.Target().Multiplicity().IsUpperOne())
		require.True(rel.Target().IsPolymorphic())
	})

	t.Run("must be ok to marshal and read back", func(t *testing.T) {
		data, err := MarshalSchemaYAML(plant)
		require.NoError(err)

		again, err := ReadSchemasYAMLString(string(data), NewSchemaCache(base))
		require.NoError(err)
		require.Len(again, 1)
		pump := again[0].Class("Pump")
		require.NotNil(pump)
		require.Len(pump.Properties(), 4)
		require.Equal(base, again[0].References()[0])
		require.True(pump.Is(base.Class("Element")))
	})
}

func TestReadSchemasYAML_Errors(t *testing.T) {
	require := require.New(t)

	t.Run("must be error if reference not found", func(t *testing.T) {
		_, err := ReadSchemasYAMLString(`
schema: A
alias: a
version: 01.00.00
references:
  - name: Unknown
    version: 01.00.00
`)
		require.ErrorIs(err, ErrNotFoundError)
		require.ErrorContains(err, "Unknown")
	})

	t.Run("must be error if class not found", func(t *testing.T) {
		_, err := ReadSchemasYAMLString(`
schema: A
alias: a
version: 01.00.00
classes:
  - name: E
    kind: Entity
    bases: [Unknown]
`)
		require.ErrorIs(err, ErrNotFoundError)
	})

	t.Run("must be error if duplicated class", func(t *testing.T) {
		_, err := ReadSchemasYAMLString(`
schema: A
alias: a
version: 01.00.00
classes:
  - name: E
    kind: Entity
  - name: E
    kind: Entity
`)
		require.ErrorIs(err, ErrAlreadyExistsError)
	})

	t.Run("must be error if schema is not valid", func(t *testing.T) {
		_, err := ReadSchemasYAMLString(`
schema: A
alias: a
version: 01.00.00
classes:
  - name: E
    kind: Entity
  - name: M
    kind: Mixin
    bases: [E]
`)
		require.ErrorIs(err, ErrInvalidError)
	})

	t.Run("must be error if version is not valid", func(t *testing.T) {
		_, err := ReadSchemasYAMLString("schema: A\nalias: a\nversion: x\n")
		require.ErrorIs(err, ErrConvertError)
	})
}

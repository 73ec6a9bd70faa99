/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecmeta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

const testYAML = `
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
version: 01.00.00
references:
  - name: Base
    version: 01.00.00
enumerations:
  - name: Status
    type: Integer
    enumerators:
      - name: Off
        value: 0
      - name: On
        value: 1
units:
  - name: KW
    definition: W*1000
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
      - name: Status
        enum: Status
      - name: Origin
        type: Point2d
      - name: Housing
        relationship: PumpInHousing
  - name: Housing
    kind: Entity
  - name: PumpInHousing
    kind: Relationship
    source:
      multiplicity: (0..*)
      classes: [Pump]
    target:
      multiplicity: (0..1)
      classes: [Housing]
`

func openStore(t *testing.T) sqlstore.IStore {
	s, err := sqlstore.OpenMemory(context.Background(), ProfileMigrations()...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func saveAll(t *testing.T, w *Writer, schemas []*ecdef.Schema) {
	for _, s := range schemas {
		require.NoError(t, w.SaveSchema(context.Background(), s, nil))
	}
}

func TestWriterReader_Schema(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := openStore(t)
	require.Equal(ecdef.MustParseSchemaVersion(ProfileVersion), store.ProfileVersion())

	schemas, err := ecdef.ReadSchemasYAMLString(testYAML)
	require.NoError(err)
	w := NewWriter(store)
	saveAll(t, w, schemas)

	base, plant := schemas[0], schemas[1]
	require.True(base.ID().IsValid())
	require.True(plant.Class("Pump").ID().IsValid())

	r := NewReader(store, sqlstore.MainTableSpace)

	t.Run("must be ok to read schema records", func(t *testing.T) {
		recs, err := r.Schemas(ctx)
		require.NoError(err)
		require.Len(recs, 2)

		rec, err := r.Schema(ctx, "PL")
		require.NoError(err)
		require.Equal("Plant", rec.Name)

		rec, err = r.SchemaByName(ctx, "pl")
		require.NoError(err)
		require.Nil(rec)

		refs, err := r.ReferencingSchemas(ctx, base.ID())
		require.NoError(err)
		require.Equal([]ecdef.ID{plant.ID()}, refs)

		derived, err := r.DerivedClasses(ctx, base.Class("Element").ID())
		require.NoError(err)
		require.Equal([]ecdef.ID{plant.Class("Pump").ID()}, derived)
	})

	t.Run("must be ok to load schema with references", func(t *testing.T) {
		cache := map[ecdef.ID]*ecdef.Schema{}
		var resolve SchemaResolver
		resolve = func(ctx context.Context, id ecdef.ID) (*ecdef.Schema, error) {
			if s, ok := cache[id]; ok {
				return s, nil
			}
			s, err := r.LoadSchema(ctx, id, resolve)
			if s != nil {
				cache[id] = s
			}
			return s, err
		}

		loaded, err := resolve(ctx, plant.ID())
		require.NoError(err)
		require.NoError(loaded.Validate())

		require.Equal(plant.Version(), loaded.Version())
		require.Len(loaded.References(), 1)
		require.Equal("Base", loaded.References()[0].Name())

		pump := loaded.Class("Pump")
		require.Equal(plant.Class("Pump").ID(), pump.ID())
		require.True(pump.Is(loaded.References()[0].Class("Element")))
		require.Equal(ecdef.MapStrategyTablePerHierarchy, pump.CustomAttribute(ecdef.CAClassMap).String(ecdef.CAPropMapStrategy))
		require.Equal("KW", pump.Property("Power").Unit().Name())
		require.Len(pump.Property("Status").Enumeration().Enumerators(), 2)
		require.Equal(ecdef.PrimitiveType_Point2d, pump.Property("Origin").PrimitiveType())

		rel := loaded.Class("PumpInHousing")
		require.True(rel.Target().Multiplicity().IsUpperOne())
		require.Equal(pump, rel.Source().Classes()[0])
		require.Equal(rel, pump.Property("Housing").Relationship())
	})

	t.Run("must be ok to load unknown schema as nil", func(t *testing.T) {
		s, err := r.LoadSchema(ctx, 424242, nil)
		require.NoError(err)
		require.Nil(s)
	})
}

func TestWriter_Upgrade(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := openStore(t)
	w := NewWriter(store)
	schemas, err := ecdef.ReadSchemasYAMLString(testYAML)
	require.NoError(err)
	saveAll(t, w, schemas)
	base, plant := schemas[0], schemas[1]

	upgraded, err := ecdef.ReadSchemasYAMLString(`
schema: Plant
alias: pl
version: 01.00.01
references:
  - name: Base
    version: 01.00.00
classes:
  - name: Pump
    kind: Entity
    bases: [bs.Element]
    properties:
      - name: Power
        type: Double
      - name: Flow
        type: Double
  - name: Motor
    kind: Entity
`, ecdef.NewSchemaCache(base))
	require.NoError(err)
	next := upgraded[0]
	require.NoError(w.SaveSchema(ctx, next, plant))

	t.Run("must be identifiers kept for existing items", func(t *testing.T) {
		require.Equal(plant.ID(), next.ID())
		require.Equal(plant.Class("Pump").ID(), next.Class("Pump").ID())
		require.Equal(plant.Class("Pump").Property("Power").ID(), next.Class("Pump").Property("Power").ID())
		require.NotEqual(plant.Class("Housing").ID(), next.Class("Motor").ID())
	})

	t.Run("must be removed items deleted", func(t *testing.T) {
		r := w.Reader()
		c, err := r.Class(ctx, plant.ID(), "Housing")
		require.NoError(err)
		require.Nil(c)
		c, err = r.Class(ctx, plant.ID(), "motor")
		require.NoError(err)
		require.NotNil(c)

		rec, err := r.SchemaByID(ctx, plant.ID())
		require.NoError(err)
		require.Equal(ecdef.NewSchemaVersion(1, 0, 1), rec.Version())
	})

	t.Run("must be ok to delete schema", func(t *testing.T) {
		pumpID := next.Class("Pump").ID()
		require.NoError(w.SaveClassMap(ctx, ClassMapRecord{ClassID: pumpID, Strategy: 1}))
		pathID, err := w.PropertyPath(ctx, next.Class("Pump").Property("Power").ID(), "Power")
		require.NoError(err)
		again, err := w.PropertyPath(ctx, next.Class("Pump").Property("Power").ID(), "Power")
		require.NoError(err)
		require.Equal(pathID, again)

		require.NoError(w.DeleteSchema(ctx, next.ID()))

		r := w.Reader()
		rec, err := r.SchemaByID(ctx, next.ID())
		require.NoError(err)
		require.Nil(rec)
		cm, err := r.ClassMap(ctx, pumpID)
		require.NoError(err)
		require.Nil(cm)
		paths, err := r.PropertyPaths(ctx)
		require.NoError(err)
		require.Empty(paths)
		refs, err := r.ReferencingSchemas(ctx, base.ID())
		require.NoError(err)
		require.Empty(refs)
	})
}

func TestWriter_TablesAndLocals(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := openStore(t)
	w := NewWriter(store)
	r := w.Reader()

	require.NoError(w.SaveTable(ctx, TableRecord{ID: 1, Name: "ts_Pump", Type: 0}, []ColumnRecord{
		{ID: 10, Name: "Id", Type: ecdef.PrimitiveType_Long, Ordinal: 0},
		{ID: 11, Name: "Power", Type: ecdef.PrimitiveType_Double, Ordinal: 1},
	}))
	require.NoError(w.SaveIndex(ctx, IndexRecord{ID: 100, Name: "ix_ts_Pump_Power", TableID: 1, ClassID: 5}, []ecdef.ID{11}))
	require.NoError(w.SavePropertyMaps(ctx, 5, []PropertyMapRecord{{PropertyPathID: 7, ColumnID: 11}}))

	tables, err := r.Tables(ctx)
	require.NoError(err)
	require.Len(tables, 1)
	cols, err := r.Columns(ctx)
	require.NoError(err)
	require.Len(cols, 2)
	require.Equal(ecdef.ID(1), cols[1].TableID)
	classes, err := r.ClassesMappedToTable(ctx, 1)
	require.NoError(err)
	require.Equal([]ecdef.ID{5}, classes)

	require.NoError(w.DeleteTable(ctx, 1))
	idx, err := r.Indexes(ctx)
	require.NoError(err)
	require.Empty(idx)
	ic, err := r.IndexColumns(ctx)
	require.NoError(err)
	require.Empty(ic)
	classes, err = r.ClassesMappedToTable(ctx, 1)
	require.NoError(err)
	require.Empty(classes)

	t.Run("must be ok to set and read locals", func(t *testing.T) {
		_, ok, err := r.Local(ctx, LocalSyncInfo)
		require.NoError(err)
		require.False(ok)

		require.NoError(w.SetLocal(ctx, LocalSyncInfo, "a"))
		require.NoError(w.SetLocal(ctx, LocalSyncInfo, "b"))
		v, ok, err := r.Local(ctx, LocalSyncInfo)
		require.NoError(err)
		require.True(ok)
		require.Equal("b", v)

		require.NoError(w.DeleteLocal(ctx, LocalSyncInfo))
		_, ok, err = r.Local(ctx, LocalSyncInfo)
		require.NoError(err)
		require.False(ok)
	})
}

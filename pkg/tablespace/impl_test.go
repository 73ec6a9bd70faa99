/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package tablespace

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
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
version: 01.02.03
references:
  - name: Base
    version: 01.00.00
enumerations:
  - name: Status
    type: Integer
    enumerators:
      - name: Off
        value: 0
units:
  - name: KW
    definition: W*1000
formats:
  - name: Short
    spec: F2
categories:
  - name: Electrical
    priority: 1
classes:
  - name: Pump
    kind: Entity
    bases: [bs.Element]
    properties:
      - name: Power
        type: Double
  - name: SubmersiblePump
    kind: Entity
    bases: [Pump]
  - name: Valve
    kind: Entity
    bases: [bs.Element]
`

// Saves test schemas and class map of Pump into store
func prepareStore(t *testing.T, store sqlstore.IStore) []*ecdef.Schema {
	require := require.New(t)
	ctx := context.Background()

	schemas, err := ecdef.ReadSchemasYAMLString(testYAML)
	require.NoError(err)
	w := ecmeta.NewWriter(store)
	for _, s := range schemas {
		require.NoError(w.SaveSchema(ctx, s, nil))
	}

	pump := schemas[1].Class("Pump")
	db := dbmap.NewDbSchema()
	tbl, err := db.AddTable(1, "bs_Element", dbmap.TableType_Primary, nil)
	require.NoError(err)
	col, err := tbl.AddColumn(2, "pl_Power", ecdef.PrimitiveType_Double, dbmap.ColumnKind_Data, false)
	require.NoError(err)
	require.NoError(dbmap.SaveDbSchema(ctx, w, db))

	m := dbmap.NewClassMap(pump, dbmap.MapStrategy_SharedTable, dbmap.TphOptions{})
	m.AddPropertyMap("Power", pump.Property("Power"), col)
	require.NoError(dbmap.SaveClassMap(ctx, w, m))
	return schemas
}

func openMemory(t *testing.T) sqlstore.IStore {
	store, err := sqlstore.OpenMemory(context.Background(), ecmeta.ProfileMigrations()...)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCatalog_Lookups(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := openMemory(t)
	prepareStore(t, store)
	c := New(store, sqlstore.MainTableSpace)
	require.Equal(sqlstore.MainTableSpace, c.TableSpace())

	t.Run("must be ok to find schemas by lookup mode", func(t *testing.T) {
		s, err := c.GetSchema(ctx, "Plant", LookupMode_ByName)
		require.NoError(err)
		require.NotNil(s)
		require.Equal("pl", s.Alias())

		s, err = c.GetSchema(ctx, "pl", LookupMode_ByName)
		require.NoError(err)
		require.Nil(s)

		s, err = c.GetSchema(ctx, "PL", LookupMode_ByAlias)
		require.NoError(err)
		require.NotNil(s)

		s, err = c.GetSchema(ctx, "base", LookupMode_ByNameOrAlias)
		require.NoError(err)
		require.NotNil(s)

		all, err := c.GetSchemas(ctx)
		require.NoError(err)
		require.Len(all, 2)
	})

	t.Run("must be ok to locate schema by key", func(t *testing.T) {
		s, err := c.LocateSchema(ctx, ecdef.NewSchemaKey("Plant", ecdef.NewSchemaVersion(1, 2, 0)), ecdef.SchemaMatch_LatestWriteCompatible)
		require.NoError(err)
		require.NotNil(s)

		s, err = c.LocateSchema(ctx, ecdef.NewSchemaKey("Plant", ecdef.NewSchemaVersion(1, 2, 0)), ecdef.SchemaMatch_Exact)
		require.NoError(err)
		require.Nil(s)
	})

	t.Run("must be ok to find classes and schema items", func(t *testing.T) {
		pump, err := c.GetClass(ctx, "pl", "Pump", LookupMode_ByNameOrAlias)
		require.NoError(err)
		require.NotNil(pump)

		byID, err := c.GetClassByID(ctx, pump.ID())
		require.NoError(err)
		require.Same(pump, byID)

		missed, err := c.GetClassByID(ctx, 424242)
		require.NoError(err)
		require.Nil(missed)

		e, err := c.GetEnumeration(ctx, "Plant", "Status", LookupMode_ByName)
		require.NoError(err)
		require.NotNil(e)
		u, err := c.GetUnit(ctx, "pl", "KW", LookupMode_ByAlias)
		require.NoError(err)
		require.NotNil(u)
		f, err := c.GetFormat(ctx, "pl", "Short", LookupMode_ByNameOrAlias)
		require.NoError(err)
		require.NotNil(f)
		pc, err := c.GetPropertyCategory(ctx, "pl", "Electrical", LookupMode_ByNameOrAlias)
		require.NoError(err)
		require.NotNil(pc)

		none, err := c.GetEnumeration(ctx, "Unknown", "Status", LookupMode_ByName)
		require.NoError(err)
		require.Nil(none)
	})

	t.Run("must be ok to navigate hierarchy", func(t *testing.T) {
		el, err := c.GetClass(ctx, "bs", "Element", LookupMode_ByAlias)
		require.NoError(err)
		pump, err := c.GetClass(ctx, "pl", "Pump", LookupMode_ByAlias)
		require.NoError(err)

		d, err := c.GetDerivedClasses(ctx, el)
		require.NoError(err)
		require.Len(d, 2)

		all, err := c.GetAllDerivedClasses(ctx, el)
		require.NoError(err)
		require.Len(all, 3)

		sub, err := c.GetClass(ctx, "pl", "SubmersiblePump", LookupMode_ByAlias)
		require.NoError(err)
		ok, err := c.IsSubClassOf(ctx, sub, el)
		require.NoError(err)
		require.True(ok)
		ok, err = c.IsSubClassOf(ctx, el, pump)
		require.NoError(err)
		require.False(ok)

		hierarchies := c.Stats().HierarchiesLoaded
		_, err = c.GetDerivedClasses(ctx, el)
		require.NoError(err)
		require.Equal(hierarchies, c.Stats().HierarchiesLoaded, "derived classes must be cached")
	})
}

func TestCatalog_ClassMaps(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store := openMemory(t)
	prepareStore(t, store)
	c := New(store, sqlstore.MainTableSpace)

	pump, err := c.GetClass(ctx, "pl", "Pump", LookupMode_ByAlias)
	require.NoError(err)

	t.Run("must be same cached class map on repeated calls", func(t *testing.T) {
		m1, err := c.GetClassMap(ctx, pump)
		require.NoError(err)
		require.NotNil(m1)
		require.Equal(dbmap.MapStrategy_SharedTable, m1.Strategy())
		require.Equal("bs_Element", m1.PrimaryTable().Name())

		m2, err := c.GetClassMap(ctx, pump)
		require.NoError(err)
		require.Same(m1, m2)
		require.Equal(1, c.Stats().ClassMapsLoaded)
	})

	t.Run("must be nil class map for class without map", func(t *testing.T) {
		valve, err := c.GetClass(ctx, "pl", "Valve", LookupMode_ByAlias)
		require.NoError(err)
		m, err := c.GetClassMap(ctx, valve)
		require.NoError(err)
		require.Nil(m)
	})

	t.Run("must be error for class without identifier", func(t *testing.T) {
		s := ecdef.NewSchema("Tmp", "tmp", ecdef.NewSchemaVersion(1, 0, 0))
		_, err := c.GetClassMap(ctx, s.AddEntity("Unsaved"))
		require.ErrorIs(err, ErrNoSuchClass)
		_, err = c.GetDerivedClasses(ctx, s.Class("Unsaved"))
		require.ErrorIs(err, ErrNoSuchClass)
	})

	t.Run("must be rebuilt class map after cache cleared", func(t *testing.T) {
		m1, err := c.GetClassMap(ctx, pump)
		require.NoError(err)
		c.ClearCache()

		pump, err := c.GetClass(ctx, "pl", "Pump", LookupMode_ByAlias)
		require.NoError(err)
		m2, err := c.GetClassMap(ctx, pump)
		require.NoError(err)
		require.NotSame(m1, m2)
		require.Equal(2, c.Stats().ClassMapsLoaded)
	})

	t.Run("must be ok to cache newly built class map", func(t *testing.T) {
		valve, err := c.GetClass(ctx, "pl", "Valve", LookupMode_ByAlias)
		require.NoError(err)
		m := dbmap.NewClassMap(valve, dbmap.MapStrategy_NotMapped, dbmap.TphOptions{})
		c.CacheClassMap(m)
		got, err := c.GetClassMap(ctx, valve)
		require.NoError(err)
		require.Same(m, got)
	})
}

func TestCatalog_AttachedTableSpace(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "attached.db")
	ext, err := sqlstore.Open(ctx, ecmeta.StoreParams(path, false))
	require.NoError(err)
	prepareStore(t, ext)
	require.NoError(ext.Close())

	store := openMemory(t)
	require.NoError(store.Attach(ctx, path, "ext"))

	mainCat := New(store, sqlstore.MainTableSpace)
	s, err := mainCat.GetSchema(ctx, "Plant", LookupMode_ByName)
	require.NoError(err)
	require.Nil(s, "main table space is empty")

	c := New(store, "ext")
	pump, err := c.GetClass(ctx, "Plant", "Pump", LookupMode_ByName)
	require.NoError(err)
	require.NotNil(pump)
	m, err := c.GetClassMap(ctx, pump)
	require.NoError(err)
	require.NotNil(m)
	require.Equal("bs_Element", m.PrimaryTable().Name())
}

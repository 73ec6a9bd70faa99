/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

func TestSaveLoadDbSchema(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store, err := sqlstore.OpenMemory(ctx, ecmeta.ProfileMigrations()...)
	require.NoError(err)
	defer store.Close()

	sch := ecdef.NewSchema("Test", "ts", ecdef.NewSchemaVersion(1, 0, 0))
	pump := sch.AddEntity("Pump")
	pump.AddPrimitive("Code", ecdef.PrimitiveType_String)
	pump.AddPrimitive("Origin", ecdef.PrimitiveType_Point2d)
	housing := sch.AddEntity("Housing")
	rel := sch.AddRelationship("PumpInHousing",
		ecdef.NewRelationshipConstraint(ecdef.MultiplicityZeroMany, true, pump),
		ecdef.NewRelationshipConstraint(ecdef.MultiplicityZeroOne, true, housing))
	pump.AddNavigation("Housing", rel, ecdef.Direction_Forward)
	require.NoError(sch.Validate())

	w := ecmeta.NewWriter(store)
	require.NoError(w.SaveSchema(ctx, sch, nil))

	s := NewDbSchema()
	tbl, err := s.AddTable(1, "ts_Pump", TableType_Primary, nil)
	require.NoError(err)
	tbl.SetExclusiveRootClass(pump.ID())
	id, err := tbl.AddColumn(10, ColumnId, ecdef.PrimitiveType_Long, ColumnKind_Id, false)
	require.NoError(err)
	id.SetNotNull(true).SetPrimaryKey(1)
	code, err := tbl.AddColumn(11, "Code", ecdef.PrimitiveType_String, ColumnKind_Data, false)
	require.NoError(err)
	x, err := tbl.AddColumn(12, "Origin_X", ecdef.PrimitiveType_Double, ColumnKind_Data, false)
	require.NoError(err)
	y, err := tbl.AddColumn(13, "Origin_Y", ecdef.PrimitiveType_Double, ColumnKind_Data, false)
	require.NoError(err)
	navID, err := tbl.AddColumn(14, "Housing"+NavIdSuffix, ecdef.PrimitiveType_Long, ColumnKind_NavId, false)
	require.NoError(err)
	navRel, err := tbl.AddColumn(15, "Housing"+NavRelClassIdSuffix, ecdef.PrimitiveType_Long, ColumnKind_NavRelClassId, false)
	require.NoError(err)
	_, err = s.AddIndex(100, IndexDef{Name: "ix_ts_Pump_Code", Table: tbl, Columns: []*Column{code}, Unique: true, ClassID: pump.ID()})
	require.NoError(err)

	pumpMap := NewClassMap(pump, MapStrategy_OwnTable, TphOptions{})
	pumpMap.AddPropertyMap(AccessStringId, nil, id)
	pumpMap.AddPropertyMap("Code", pump.Property("Code"), code)
	pumpMap.AddPropertyMap("Origin", pump.Property("Origin"), x, y)

	relMap := NewClassMap(rel, MapStrategy_ForeignKeyRelationship, TphOptions{})
	relMap.SetFk(ecdef.RelationshipEnd_Source, navID, navRel)

	require.NoError(SaveDbSchema(ctx, w, s))
	require.NoError(SaveClassMap(ctx, w, pumpMap))
	require.NoError(SaveClassMap(ctx, w, relMap))
	require.Empty(s.DirtyTables())
	require.Empty(s.NewIndexes())
	require.Equal(ClassMapState_Persisted, pumpMap.State())

	r := ecmeta.NewReader(store, sqlstore.MainTableSpace)

	t.Run("must be ok to load physical model", func(t *testing.T) {
		loaded, err := LoadDbSchema(ctx, r)
		require.NoError(err)
		require.Empty(loaded.DirtyTables())

		tbl := loaded.TableByName("ts_Pump")
		require.NotNil(tbl)
		require.Equal(pump.ID(), tbl.ExclusiveRootClass())
		require.Len(tbl.Columns(), 6)
		require.True(tbl.Column(ColumnId).IsPrimaryKey())
		require.True(tbl.Column(ColumnId).IsNotNull())
		require.Equal(ColumnKind_NavRelClassId, tbl.Column("HousingRelECClassId").Kind())

		idx := loaded.IndexByName("ix_ts_Pump_Code")
		require.NotNil(idx)
		require.True(idx.IsUnique())
		require.Equal(DbState_Persisted, idx.State())
		require.Equal([]*Column{tbl.Column("Code")}, idx.Columns())
	})

	t.Run("must be ok to load class maps", func(t *testing.T) {
		loaded, err := LoadDbSchema(ctx, r)
		require.NoError(err)
		tbl := loaded.TableByName("ts_Pump")

		m, err := LoadClassMap(ctx, r, loaded, pump)
		require.NoError(err)
		require.Equal(ClassMapState_Loaded, m.State())
		require.Equal(MapStrategy_OwnTable, m.Strategy())
		require.Equal(tbl, m.PrimaryTable())
		require.Equal([]*Column{tbl.Column("Origin_X"), tbl.Column("Origin_Y")}, m.PropertyMap("Origin").Columns())
		require.Equal(pump.Property("Code"), m.PropertyMap("Code").RootProperty())
		require.Nil(m.PropertyMap(AccessStringId).RootProperty())

		rm, err := LoadClassMap(ctx, r, loaded, rel)
		require.NoError(err)
		require.Equal(ClassMapKind_EndTableRelationship, rm.Kind())
		require.Equal(ecdef.RelationshipEnd_Source, rm.FkEnd())
		id, relClass := rm.FkColumns()
		require.Equal(tbl.Column("HousingId"), id)
		require.Equal(tbl.Column("HousingRelECClassId"), relClass)
		require.Empty(rm.PropertyMaps())

		hm, err := LoadClassMap(ctx, r, loaded, housing)
		require.NoError(err)
		require.Nil(hm)
	})

	t.Run("must be ok to save dropped tables", func(t *testing.T) {
		s.RemoveTable(tbl)
		require.NoError(SaveDbSchema(ctx, w, s))

		loaded, err := LoadDbSchema(ctx, r)
		require.NoError(err)
		require.Empty(loaded.Tables())
		require.Empty(loaded.Indexes())

		maps, err := r.PropertyMappings(ctx, pump.ID())
		require.NoError(err)
		require.Empty(maps)
	})
}

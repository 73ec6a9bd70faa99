/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/ecdef"
)

func TestDbSchema_Tables(t *testing.T) {
	require := require.New(t)

	s := NewDbSchema()
	el, err := s.AddTable(1, "ts_Element", TableType_Primary, nil)
	require.NoError(err)
	pump, err := s.AddTable(2, "ts_Pump", TableType_Joined, el)
	require.NoError(err)
	ovf, err := s.AddTable(3, "ts_Element"+OverflowTableSuffix, TableType_Overflow, el)
	require.NoError(err)

	t.Run("must be ok to find tables", func(t *testing.T) {
		require.Equal(el, s.Table(1))
		require.Equal(pump, s.TableByName("TS_PUMP"))
		require.Nil(s.TableByName("unknown"))
		require.Equal([]*Table{pump, ovf}, s.ChildTables(el))
		require.Len(s.DescendantTables(el), 2)
		require.True(el.IsOwned())
		require.False(el.IsVirtual())
	})

	t.Run("must be error to add table with existing name", func(t *testing.T) {
		_, err := s.AddTable(4, "TS_ELEMENT", TableType_Primary, nil)
		require.ErrorIs(err, ecdef.ErrAlreadyExistsError)
	})

	t.Run("must be ok to add columns", func(t *testing.T) {
		id, err := el.AddColumn(10, ColumnId, ecdef.PrimitiveType_Long, ColumnKind_Id, false)
		require.NoError(err)
		id.SetNotNull(true).SetPrimaryKey(1)
		_, err = el.AddColumn(11, ColumnClassId, ecdef.PrimitiveType_Long, ColumnKind_ClassId, false)
		require.NoError(err)
		_, err = el.AddColumn(12, SharedColumnPrefix+"1", ecdef.PrimitiveType_null, ColumnKind_SharedData, false)
		require.NoError(err)
		_, err = el.AddColumn(13, SharedColumnPrefix+"2", ecdef.PrimitiveType_null, ColumnKind_SharedData, false)
		require.NoError(err)

		require.Equal(id, el.ColumnOfKind(ColumnKind_Id))
		require.True(id.IsPrimaryKey())
		require.Equal(2, el.SharedColumnsCount(SharedColumnPrefix))
		require.Equal(0, el.SharedColumnsCount(OverflowColumnPrefix))
		require.Equal("ANY", el.Column("ps1").SQLType())
		require.Equal("INTEGER", el.Column("id").SQLType())

		_, err = el.AddColumn(14, "PS1", ecdef.PrimitiveType_String, ColumnKind_Data, false)
		require.ErrorIs(err, ecdef.ErrAlreadyExistsError)
	})

	t.Run("must be ok to track table state", func(t *testing.T) {
		require.Len(s.DirtyTables(), 3)
		el.MarkPersisted()
		require.Empty(el.NewColumns())
		require.Equal(DbState_Persisted, el.State())

		_, err := el.AddColumn(15, SharedColumnPrefix+"3", ecdef.PrimitiveType_null, ColumnKind_SharedData, false)
		require.NoError(err)
		require.Equal(DbState_Modified, el.State())
		require.Len(el.NewColumns(), 1)
	})

	t.Run("must be ok to remove tables", func(t *testing.T) {
		s.RemoveTable(ovf)
		require.Empty(s.DroppedTables(), "new table is not tracked as dropped")
		pump.MarkPersisted()
		s.RemoveTable(pump)
		require.Equal([]*Table{pump}, s.DroppedTables())
		require.Nil(s.Table(2))
		s.ClearDropped()
		require.Empty(s.DroppedTables())
	})
}

func TestDbSchema_Indexes(t *testing.T) {
	require := require.New(t)

	s := NewDbSchema()
	tbl, err := s.AddTable(1, "ts_Pump", TableType_Primary, nil)
	require.NoError(err)
	code, err := tbl.AddColumn(10, "Code", ecdef.PrimitiveType_String, ColumnKind_Data, false)
	require.NoError(err)
	name, err := tbl.AddColumn(11, "Name", ecdef.PrimitiveType_String, ColumnKind_Data, false)
	require.NoError(err)

	other, err := s.AddTable(2, "ts_Valve", TableType_Primary, nil)
	require.NoError(err)
	foreign, err := other.AddColumn(20, "Code", ecdef.PrimitiveType_String, ColumnKind_Data, false)
	require.NoError(err)

	idx, err := s.AddIndex(100, IndexDef{
		Name:         "ix_ts_Pump_Code",
		Table:        tbl,
		Columns:      []*Column{code, name},
		Unique:       true,
		NotNullWhere: true,
		Where:        `"Name" <> ''`,
		ClassID:      7,
	})
	require.NoError(err)

	t.Run("must be ok to build index DDL", func(t *testing.T) {
		require.Equal(`"Code" IS NOT NULL AND "Name" IS NOT NULL AND "Name" <> ''`, idx.WhereClause())
		require.Equal(`CREATE UNIQUE INDEX "ix_ts_Pump_Code" ON "ts_Pump" ("Code", "Name") WHERE `+idx.WhereClause(), idx.DDL())
		require.Equal(`ts_pump(code,name) unique where "code" is not null and "name" is not null and "name" <> ''`, idx.DefinitionKey())
	})

	t.Run("must be ok to find indexes", func(t *testing.T) {
		require.Equal(idx, s.IndexByName("IX_TS_PUMP_CODE"))
		require.Equal([]*Index{idx}, s.TableIndexes(tbl))
		require.Equal([]*Index{idx}, s.ClassIndexes(7))
		require.Empty(s.ClassIndexes(8))
		require.Equal([]*Index{idx}, s.NewIndexes())
	})

	t.Run("must be error to add invalid indexes", func(t *testing.T) {
		_, err := s.AddIndex(101, IndexDef{Name: "ix_ts_Pump_Code", Table: tbl, Columns: []*Column{code}})
		require.ErrorIs(err, ecdef.ErrAlreadyExistsError)

		_, err = s.AddIndex(102, IndexDef{Name: "ix_empty", Table: tbl})
		require.ErrorIs(err, ecdef.ErrMissedError)

		_, err = s.AddIndex(103, IndexDef{Name: "ix_foreign", Table: tbl, Columns: []*Column{foreign}})
		require.ErrorIs(err, ecdef.ErrInvalidError)
	})

	t.Run("must be ok to drop table with its indexes", func(t *testing.T) {
		idx.MarkPersisted()
		tbl.MarkPersisted()
		s.RemoveTable(tbl)
		require.Nil(s.IndexByName("ix_ts_Pump_Code"))
		require.Empty(s.DroppedIndexes(), "indexes of dropped table are dropped with table")
		require.Len(s.DroppedTables(), 1)
	})
}

func TestClassMap(t *testing.T) {
	require := require.New(t)

	sch := ecdef.NewSchema("Test", "ts", ecdef.NewSchemaVersion(1, 0, 0))
	pump := sch.AddEntity("Pump")
	origin := pump.AddPrimitive("Origin", ecdef.PrimitiveType_Point2d)
	housing := sch.AddEntity("Housing")
	rel := sch.AddRelationship("PumpInHousing",
		ecdef.NewRelationshipConstraint(ecdef.MultiplicityZeroMany, true, pump),
		ecdef.NewRelationshipConstraint(ecdef.MultiplicityZeroOne, true, housing))

	s := NewDbSchema()
	tbl, err := s.AddTable(1, "ts_Pump", TableType_Primary, nil)
	require.NoError(err)
	x, err := tbl.AddColumn(10, "Origin_X", ecdef.PrimitiveType_Double, ColumnKind_Data, false)
	require.NoError(err)
	y, err := tbl.AddColumn(11, "Origin_Y", ecdef.PrimitiveType_Double, ColumnKind_Data, false)
	require.NoError(err)
	virt, err := tbl.AddColumn(12, "Virtual", ecdef.PrimitiveType_String, ColumnKind_Data, true)
	require.NoError(err)

	t.Run("must be ok to map class properties", func(t *testing.T) {
		m := NewClassMap(pump, MapStrategy_OwnTable, TphOptions{})
		require.Equal(ClassMapKind_Class, m.Kind())
		require.True(m.IsMapped())
		require.False(m.IsTph())

		m.AddPropertyMap("Origin", origin, x, y)
		m.AddPropertyMap("Virtual", nil, virt)
		require.Equal(tbl, m.PrimaryTable())
		require.Equal(tbl, m.ContextTable())
		require.Nil(m.OverflowTable())
		require.Equal([]*Column{x, y}, m.PropertyMap("origin").Columns())
		require.Equal([]*Column{x, y}, m.PersistedColumns(tbl))
		require.Equal(2, m.AllPersistedColumns())

		require.Panics(func() { m.AddPropertyMap("ORIGIN", origin, x) })
		require.Panics(func() { m.FkEnd() })
	})

	t.Run("must be ok to map relationship as foreign key", func(t *testing.T) {
		m := NewClassMap(rel, MapStrategy_ForeignKeyRelationship, TphOptions{})
		require.Equal(ClassMapKind_EndTableRelationship, m.Kind())
		m.SetFk(ecdef.RelationshipEnd_Source, x, y)
		require.Equal(ecdef.RelationshipEnd_Source, m.FkEnd())
		id, relClass := m.FkColumns()
		require.Equal(x, id)
		require.Equal(y, relClass)
		require.Equal([]*Table{tbl}, m.Tables())
		require.Panics(func() { m.LinkColumns(ecdef.RelationshipEnd_Source) })
	})

	t.Run("must be ok to parse system access strings", func(t *testing.T) {
		as := systemAccessString(ecdef.RelationshipEnd_Target, linkClassIdAccess)
		require.Equal("$Target.ClassId", as)
		end, member, ok := parseSystemAccessString(as)
		require.True(ok)
		require.Equal(ecdef.RelationshipEnd_Target, end)
		require.Equal(linkClassIdAccess, member)

		_, _, ok = parseSystemAccessString("Origin.X")
		require.False(ok)
		_, _, ok = parseSystemAccessString("$Middle.Id")
		require.False(ok)
	})
}

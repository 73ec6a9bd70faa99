/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Mixins are mapped to virtual tables: their properties are queried through the classes, which include them
func (m *mapper) mapMixin(ctx context.Context, c *ecdef.Class) error {
	cm, err := m.main.GetClassMap(ctx, c)
	if err != nil {
		return err
	}
	if cm == nil {
		cm = dbmap.NewClassMap(c, dbmap.MapStrategy_OwnTable, dbmap.TphOptions{})
		cm.SetState(dbmap.ClassMapState_NewlyMapped)
		if err := m.placeInOwnTable(ctx, cm, dbmap.TableType_Virtual); err != nil {
			return err
		}
	}
	n, err := m.mapProperties(ctx, cm)
	if err != nil {
		return err
	}
	if n > 0 {
		m.changed(cm)
	}
	m.add(cm)
	return nil
}

func (m *mapper) mapEntity(ctx context.Context, c *ecdef.Class) error {
	cs, err := m.resolveStrategy(ctx, c)
	if err != nil {
		return err
	}

	cm, err := m.main.GetClassMap(ctx, c)
	if err != nil {
		return err
	}
	if cm != nil {
		return m.updateEntity(ctx, cm, cs)
	}

	cm = dbmap.NewClassMap(c, cs.strategy, cs.tph)
	cm.SetState(dbmap.ClassMapState_NewlyMapped)
	switch {
	case cs.strategy == dbmap.MapStrategy_NotMapped:
		m.add(cm)
		return nil
	case cs.strategy == dbmap.MapStrategy_SharedTable:
		err = m.placeInBaseTable(ctx, cm, cs.base)
	case cs.existingTable != "":
		err = m.placeInExistingTable(ctx, cm, cs.existingTable)
	case c.IsAbstract() && !cs.tph.IsRoot:
		err = m.placeInOwnTable(ctx, cm, dbmap.TableType_Virtual)
	default:
		err = m.placeInOwnTable(ctx, cm, dbmap.TableType_Primary)
	}
	if err != nil {
		return err
	}
	if _, err := m.mapProperties(ctx, cm); err != nil {
		return err
	}
	m.add(cm)
	return nil
}

// Maps new properties of persisted class map
func (m *mapper) updateEntity(ctx context.Context, cm *dbmap.ClassMap, cs classStrategy) error {
	if cm.Strategy() != cs.strategy || cm.Tph() != cs.tph {
		return fmt.Errorf("%w: %v → %v %+v", ErrMapStrategyChanged, cm.Strategy(), cs.strategy, cs.tph)
	}
	changed := false
	if cs.strategy == dbmap.MapStrategy_SharedTable {
		changed = inheritMaps(cm, cs.base)
	}
	if cm.IsMapped() {
		n, err := m.mapProperties(ctx, cm)
		if err != nil {
			return err
		}
		changed = changed || n > 0
	}
	if changed {
		m.changed(cm)
	}
	m.add(cm)
	return nil
}

// Creates table of type typ for class map with system columns Id and ECClassId
func (m *mapper) placeInOwnTable(ctx context.Context, cm *dbmap.ClassMap, typ dbmap.TableType) error {
	c := cm.Class()
	t, err := m.newTable(ctx, m.uniqueTableName(tableName(c)), typ, nil)
	if err != nil {
		return err
	}
	t.SetExclusiveRootClass(c.ID())
	virtual := typ == dbmap.TableType_Virtual
	id, err := m.addColumn(ctx, t, dbmap.ColumnId, ecdef.PrimitiveType_Long, dbmap.ColumnKind_Id, virtual)
	if err != nil {
		return err
	}
	id.SetPrimaryKey(1).SetNotNull(true)
	cls, err := m.addColumn(ctx, t, dbmap.ColumnClassId, ecdef.PrimitiveType_Long, dbmap.ColumnKind_ClassId, virtual)
	if err != nil {
		return err
	}
	cls.SetNotNull(true)
	cm.AddTable(t)
	cm.AddPropertyMap(dbmap.AccessStringId, nil, id)
	cm.AddPropertyMap(dbmap.AccessStringClassId, nil, cls)
	return nil
}

// Places class of table-per-hierarchy into tables of its base. Direct subclasses of base with
// JoinedTablePerDirectSubclass option get joined table
func (m *mapper) placeInBaseTable(ctx context.Context, cm, base *dbmap.ClassMap) error {
	inheritMaps(cm, base)
	if !base.Tph().JoinedTablePerDirectSubclass {
		return nil
	}
	c := cm.Class()
	jt, err := m.newTable(ctx, m.uniqueTableName(tableName(c)), dbmap.TableType_Joined, base.ContextTable())
	if err != nil {
		return err
	}
	jt.SetExclusiveRootClass(c.ID())
	id, err := m.addColumn(ctx, jt, dbmap.ColumnId, ecdef.PrimitiveType_Long, dbmap.ColumnKind_Id, false)
	if err != nil {
		return err
	}
	id.SetPrimaryKey(1).SetNotNull(true)
	cm.AddTable(jt)
	cm.ExtendPropertyMap(dbmap.AccessStringId, id)
	return nil
}

// Maps class to table, which exists in store and is not managed by mapping
func (m *mapper) placeInExistingTable(ctx context.Context, cm *dbmap.ClassMap, name string) error {
	t := m.db.TableByName(name)
	if t != nil && t.Type() != dbmap.TableType_Existing {
		return fmt.Errorf("%w: %v is managed by mapping", ErrExistingTableMismatch, t)
	}
	actual, err := m.existingColumns(ctx, name)
	if err != nil {
		return err
	}
	if !actual[strings.ToLower(dbmap.ColumnId)] {
		return fmt.Errorf("%w: table «%s» has no «%s» column", ErrExistingTableMismatch, name, dbmap.ColumnId)
	}
	if t == nil {
		if t, err = m.newTable(ctx, name, dbmap.TableType_Existing, nil); err != nil {
			return err
		}
		t.SetExclusiveRootClass(cm.Class().ID())
	}
	m.existing[t] = actual

	id := t.Column(dbmap.ColumnId)
	if id == nil {
		if id, err = m.addColumn(ctx, t, dbmap.ColumnId, ecdef.PrimitiveType_Long, dbmap.ColumnKind_Id, false); err != nil {
			return err
		}
		id.SetPrimaryKey(1)
	}
	cls := t.Column(dbmap.ColumnClassId)
	if cls == nil {
		virtual := !actual[strings.ToLower(dbmap.ColumnClassId)]
		if cls, err = m.addColumn(ctx, t, dbmap.ColumnClassId, ecdef.PrimitiveType_Long, dbmap.ColumnKind_ClassId, virtual); err != nil {
			return err
		}
	}
	cm.AddTable(t)
	cm.AddPropertyMap(dbmap.AccessStringId, nil, id)
	cm.AddPropertyMap(dbmap.AccessStringClassId, nil, cls)
	return nil
}

// Returns lowercased names of actual columns of existing table
func (m *mapper) existingColumns(ctx context.Context, name string) (map[string]bool, error) {
	if t := m.db.TableByName(name); t != nil {
		if cols, ok := m.existing[t]; ok {
			return cols, nil
		}
	}
	ok, err := m.store.TableExists(ctx, sqlstore.MainTableSpace, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: table «%s» does not exist", ErrExistingTableMismatch, name)
	}
	cols, err := m.store.TableColumns(ctx, sqlstore.MainTableSpace, name)
	if err != nil {
		return nil, err
	}
	res := make(map[string]bool, len(cols))
	for _, c := range cols {
		res[strings.ToLower(c)] = true
	}
	return res, nil
}

func (m *mapper) newTable(ctx context.Context, name string, typ dbmap.TableType, parent *dbmap.Table) (*dbmap.Table, error) {
	id, err := m.store.IDs().Next(ctx, ecmeta.SeqTable)
	if err != nil {
		return nil, err
	}
	return m.db.AddTable(id, name, typ, parent)
}

func (m *mapper) addColumn(ctx context.Context, t *dbmap.Table, name string, typ ecdef.PrimitiveType, kind dbmap.ColumnKind, virtual bool) (*dbmap.Column, error) {
	id, err := m.store.IDs().Next(ctx, ecmeta.SeqColumn)
	if err != nil {
		return nil, err
	}
	return t.AddColumn(id, name, typ, kind, virtual)
}

// Returns name, which is not used by any table: name itself or name with numeric suffix
func (m *mapper) uniqueTableName(name string) string {
	res := name
	for i := 2; m.db.TableByName(res) != nil; i++ {
		res = fmt.Sprintf("%s%s%d", name, tableNameSeparator, i)
	}
	return res
}

// Default table name of class: «<alias>_<class>»
func tableName(c *ecdef.Class) string {
	return c.Schema().Alias() + tableNameSeparator + c.Name()
}

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
)

// Maps properties of class, which have no property maps yet. Navigation properties are mapped
// with their relationships. Returns number of new property maps
func (m *mapper) mapProperties(ctx context.Context, cm *dbmap.ClassMap) (int, error) {
	n := 0
	for _, p := range cm.Class().AllProperties() {
		if p.Kind() == ecdef.PropertyKind_Navigation {
			continue
		}
		for _, leaf := range propertyLeaves(p, "") {
			if cm.PropertyMap(leaf.accessString) != nil {
				continue
			}
			cols := make([]*dbmap.Column, 0, len(leaf.columns))
			for _, lc := range leaf.columns {
				col, err := m.allocateColumn(ctx, cm, lc)
				if err != nil {
					return n, fmt.Errorf("map «%s»: %w", leaf.accessString, err)
				}
				cols = append(cols, col)
			}
			cm.AddPropertyMap(leaf.accessString, p, cols...)
			n++
		}
	}
	return n, nil
}

// Returns primitive leaves of property. Struct members are addressed by dotted access strings,
// points are split into coordinate columns, arrays are persisted as serialized strings
func propertyLeaves(p *ecdef.Property, prefix string) []propertyLeaf {
	as := prefix + p.Name()
	col := strings.ReplaceAll(as, dbmap.AccessStringSeparator, tableNameSeparator)
	leaf := propertyLeaf{accessString: as}
	switch p.Kind() {
	case ecdef.PropertyKind_Primitive:
		if coords := p.PrimitiveType().Coordinates(); len(coords) > 0 {
			for _, xyz := range coords {
				leaf.columns = append(leaf.columns, leafColumn{col + dbmap.CoordinateSeparator + xyz, ecdef.PrimitiveType_Double})
			}
		} else {
			leaf.columns = []leafColumn{{col, p.PrimitiveType()}}
		}
	case ecdef.PropertyKind_Enumeration:
		leaf.columns = []leafColumn{{col, p.Enumeration().BackingType()}}
	case ecdef.PropertyKind_PrimitiveArray, ecdef.PropertyKind_StructArray:
		leaf.columns = []leafColumn{{col, ecdef.PrimitiveType_String}}
	case ecdef.PropertyKind_Struct:
		var res []propertyLeaf
		for _, sp := range p.StructClass().AllProperties() {
			res = append(res, propertyLeaves(sp, as+dbmap.AccessStringSeparator)...)
		}
		return res
	default:
		return nil
	}
	return []propertyLeaf{leaf}
}

func (m *mapper) allocateColumn(ctx context.Context, cm *dbmap.ClassMap, lc leafColumn) (*dbmap.Column, error) {
	t := cm.ContextTable()
	switch {
	case t.IsVirtual():
		return m.dedicatedColumn(ctx, cm, t, lc, true)
	case t.Type() == dbmap.TableType_Existing:
		return m.existingColumn(ctx, t, lc)
	case cm.Strategy() == dbmap.MapStrategy_SharedTable && cm.Tph().ShareColumns:
		return m.sharedColumn(ctx, cm, t)
	}
	return m.dedicatedColumn(ctx, cm, t, lc, false)
}

// Returns column named after property leaf. Table-per-hierarchy classes reuse a column of the same type,
// which is not used in their hierarchy branch, other name clashes get numeric suffix
func (m *mapper) dedicatedColumn(ctx context.Context, cm *dbmap.ClassMap, t *dbmap.Table, lc leafColumn, virtual bool) (*dbmap.Column, error) {
	var used map[*dbmap.Column]bool
	name := lc.name
	for i := 2; ; i++ {
		c := t.Column(name)
		if c == nil {
			return m.addColumn(ctx, t, name, lc.typ, dbmap.ColumnKind_Data, virtual)
		}
		if cm.IsTph() && c.Kind() == dbmap.ColumnKind_Data && c.Type() == lc.typ {
			if used == nil {
				var err error
				if used, err = m.usedColumns(ctx, cm); err != nil {
					return nil, err
				}
			}
			if !used[c] {
				return c, nil
			}
		}
		name = fmt.Sprintf("%s%s%d", lc.name, tableNameSeparator, i)
	}
}

// Returns actual column of existing table
func (m *mapper) existingColumn(ctx context.Context, t *dbmap.Table, lc leafColumn) (*dbmap.Column, error) {
	if c := t.Column(lc.name); c != nil {
		return c, nil
	}
	actual, err := m.existingColumns(ctx, t.Name())
	if err != nil {
		return nil, err
	}
	if !actual[strings.ToLower(lc.name)] {
		return nil, fmt.Errorf("%w: table «%s» has no «%s» column", ErrExistingTableMismatch, t.Name(), lc.name)
	}
	return m.addColumn(ctx, t, lc.name, lc.typ, dbmap.ColumnKind_Data, false)
}

// Returns shared column of context table, which is not used in hierarchy branch of class.
// New shared columns go to overflow table if context table has reached shared or store columns limit
func (m *mapper) sharedColumn(ctx context.Context, cm *dbmap.ClassMap, t *dbmap.Table) (*dbmap.Column, error) {
	used, err := m.usedColumns(ctx, cm)
	if err != nil {
		return nil, err
	}
	if c := freeSharedColumn(t, dbmap.SharedColumnPrefix, used); c != nil {
		return c, nil
	}
	ovf := m.db.TableByName(t.Name() + dbmap.OverflowTableSuffix)
	if ovf != nil {
		if c := freeSharedColumn(ovf, dbmap.OverflowColumnPrefix, used); c != nil {
			m.useOverflow(cm, ovf)
			return c, nil
		}
	}

	sharedCount := t.SharedColumnsCount(dbmap.SharedColumnPrefix)
	maxShared := cm.Tph().MaxSharedColumnsBeforeOverflow
	if (maxShared > 0 && sharedCount >= maxShared) || len(t.PersistedColumns()) >= m.store.ColumnLimit() {
		if ovf == nil {
			if ovf, err = m.overflowTable(ctx, t); err != nil {
				return nil, err
			}
		}
		m.useOverflow(cm, ovf)
		name := fmt.Sprintf("%s%d", dbmap.OverflowColumnPrefix, ovf.SharedColumnsCount(dbmap.OverflowColumnPrefix)+1)
		return m.addColumn(ctx, ovf, name, ecdef.PrimitiveType_null, dbmap.ColumnKind_SharedData, false)
	}
	name := fmt.Sprintf("%s%d", dbmap.SharedColumnPrefix, sharedCount+1)
	return m.addColumn(ctx, t, name, ecdef.PrimitiveType_null, dbmap.ColumnKind_SharedData, false)
}

func freeSharedColumn(t *dbmap.Table, prefix string, used map[*dbmap.Column]bool) *dbmap.Column {
	for _, c := range t.Columns() {
		if c.Kind() == dbmap.ColumnKind_SharedData && strings.HasPrefix(strings.ToLower(c.Name()), prefix) && !used[c] {
			return c
		}
	}
	return nil
}

// Creates overflow table «<ctx>_Overflow» of context table
func (m *mapper) overflowTable(ctx context.Context, t *dbmap.Table) (*dbmap.Table, error) {
	ovf, err := m.newTable(ctx, t.Name()+dbmap.OverflowTableSuffix, dbmap.TableType_Overflow, t)
	if err != nil {
		return nil, err
	}
	id, err := m.addColumn(ctx, ovf, dbmap.ColumnId, ecdef.PrimitiveType_Long, dbmap.ColumnKind_Id, false)
	if err != nil {
		return nil, err
	}
	id.SetPrimaryKey(1).SetNotNull(true)
	return ovf, nil
}

func (m *mapper) useOverflow(cm *dbmap.ClassMap, ovf *dbmap.Table) {
	cm.ExtendPropertyMap(dbmap.AccessStringId, ovf.ColumnOfKind(dbmap.ColumnKind_Id))
	for _, t := range m.overflows {
		if t == ovf {
			return
		}
	}
	m.overflows = append(m.overflows, ovf)
}

// Returns columns used by class and all its derived classes
func (m *mapper) usedColumns(ctx context.Context, cm *dbmap.ClassMap) (map[*dbmap.Column]bool, error) {
	used := make(map[*dbmap.Column]bool)
	collect := func(x *dbmap.ClassMap) {
		for _, pm := range x.PropertyMaps() {
			for _, c := range pm.Columns() {
				used[c] = true
			}
		}
	}
	collect(cm)
	derived, err := m.main.GetAllDerivedClasses(ctx, cm.Class())
	if err != nil {
		return nil, err
	}
	for _, d := range derived {
		dm, err := m.classMap(ctx, d)
		if err != nil {
			return nil, err
		}
		if dm != nil {
			collect(dm)
		}
	}
	return used, nil
}

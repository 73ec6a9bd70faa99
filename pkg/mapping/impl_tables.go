/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/dbmap"
)

// Checks columns of changed class maps against hard per table limit and store columns limit
func (m *mapper) checkLimits() error {
	for _, cm := range m.order {
		if cm.State() != dbmap.ClassMapState_PendingSave || !cm.IsMapped() {
			continue
		}
		data := 0
		for _, t := range cm.Tables() {
			cols := cm.PersistedColumns(t)
			if len(cols) > dbmap.MaxColumnsPerClassTable {
				return fmt.Errorf("%w: %v maps %d columns to %v, maximum is %d",
					ErrColumnLimit, cm.Class(), len(cols), t, dbmap.MaxColumnsPerClassTable)
			}
			for _, c := range cols {
				if !c.Kind().IsSystem() {
					data++
				}
			}
		}
		if limit := m.store.ColumnLimit(); data+dbmap.WildcardColumns > limit {
			return fmt.Errorf("%w: %v maps %d data columns, store allows %d",
				ErrColumnLimit, cm.Class(), data, limit-dbmap.WildcardColumns)
		}
	}
	return nil
}

// Creates new and alters changed owned tables. Statuses of tables of mapped classes are put to result
func (m *mapper) updateTables(ctx context.Context, res *ImportResult) error {
	for _, t := range parentsFirst(m.db.DirtyTables()) {
		if !t.IsOwned() {
			continue
		}
		if t.State() == dbmap.DbState_New {
			if err := m.store.ExecDDL(ctx, createTableDDL(t)); err != nil {
				return fmt.Errorf("create %v: %w", t, err)
			}
			res.Tables[t.Name()] = TableStatus_Created
			logger.Verbose(fmt.Sprintf("%v created", t))
			continue
		}
		altered := false
		for _, c := range t.NewColumns() {
			if c.IsVirtual() {
				continue
			}
			ddl := fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN "%s" %s`, t.Name(), c.Name(), c.SQLType())
			if err := m.store.ExecDDL(ctx, ddl); err != nil {
				return fmt.Errorf("add %v: %w", c, err)
			}
			altered = true
		}
		if altered {
			res.Tables[t.Name()] = TableStatus_Updated
			logger.Verbose(fmt.Sprintf("%v updated", t))
		}
	}

	for _, cm := range m.order {
		for _, t := range cm.Tables() {
			if t.IsVirtual() {
				continue
			}
			if _, ok := res.Tables[t.Name()]; ok {
				continue
			}
			if t.Type() == dbmap.TableType_Existing {
				res.Tables[t.Name()] = TableStatus_Existing
			} else {
				res.Tables[t.Name()] = TableStatus_WasUpToDate
			}
		}
	}
	return nil
}

func createTableDDL(t *dbmap.Table) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, `CREATE TABLE "%s" (`, t.Name())
	n := 0
	for _, c := range t.Columns() {
		if c.IsVirtual() {
			continue
		}
		if n > 0 {
			b.WriteString(", ")
		}
		n++
		fmt.Fprintf(&b, `"%s" %s`, c.Name(), c.SQLType())
		if c.IsPrimaryKey() {
			b.WriteString(" PRIMARY KEY")
			if p := t.Parent(); p != nil {
				fmt.Fprintf(&b, ` REFERENCES "%s"("%s") ON DELETE CASCADE`, p.Name(), dbmap.ColumnId)
			}
		}
		if c.IsNotNull() && !c.IsPrimaryKey() {
			b.WriteString(" NOT NULL")
		}
		if c.IsUnique() {
			b.WriteString(" UNIQUE")
		}
	}
	b.WriteString(")")
	return b.String()
}

// Saves physical model and changed class maps
func (m *mapper) save(ctx context.Context) error {
	if err := dbmap.SaveDbSchema(ctx, m.w, m.db); err != nil {
		return err
	}
	for _, cm := range m.order {
		if cm.State() != dbmap.ClassMapState_PendingSave {
			continue
		}
		if err := dbmap.SaveClassMap(ctx, m.w, cm); err != nil {
			return err
		}
		m.main.CacheClassMap(cm)
	}
	return nil
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/tablespace"
)

// Drops and creates class views «cv_<alias>_<class>» if class views are enabled for store
func (e *engine) regenerateViews(ctx context.Context, main tablespace.ICatalog) error {
	enabled, _, err := main.Reader().Local(ctx, ecmeta.LocalGenerateClassViews)
	if err != nil || enabled != "true" {
		return err
	}

	var views []string
	err = e.store.Query(ctx, `SELECT name FROM sqlite_master WHERE type = 'view' AND name LIKE 'cv!_%' ESCAPE '!'`, nil,
		func(rows *sql.Rows) error {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			views = append(views, name)
			return nil
		})
	if err != nil {
		return err
	}
	for _, v := range views {
		if err := e.store.ExecDDL(ctx, fmt.Sprintf(`DROP VIEW IF EXISTS "%s"`, v)); err != nil {
			return err
		}
	}

	schemas, err := main.GetSchemas(ctx)
	if err != nil {
		return err
	}
	for _, s := range schemas {
		for _, c := range s.Classes() {
			if !c.IsEntity() && !c.IsRelationship() {
				continue
			}
			cm, err := main.GetClassMap(ctx, c)
			if err != nil {
				return err
			}
			if cm == nil {
				continue
			}
			if k := cm.Kind(); k != dbmap.ClassMapKind_Class && k != dbmap.ClassMapKind_LinkTableRelationship {
				continue
			}
			if t := cm.PrimaryTable(); t == nil || t.IsVirtual() {
				continue
			}
			var derived []*ecdef.Class
			if cm.IsTph() {
				if derived, err = main.GetAllDerivedClasses(ctx, c); err != nil {
					return err
				}
			}
			if err := e.store.ExecDDL(ctx, classViewDDL(cm, derived)); err != nil {
				return fmt.Errorf("view of %v: %w", c, err)
			}
		}
	}
	return nil
}

// Returns DDL of view, which selects instances of class map and its derived classes
func classViewDDL(cm *dbmap.ClassMap, derived []*ecdef.Class) string {
	c := cm.Class()
	primary := cm.PrimaryTable()
	aliases := map[*dbmap.Table]string{primary: "p"}
	var joins []string
	for _, t := range cm.Tables() {
		if _, ok := aliases[t]; ok || t.IsVirtual() {
			continue
		}
		a := fmt.Sprintf("t%d", len(aliases))
		aliases[t] = a
		joins = append(joins, fmt.Sprintf(`LEFT JOIN "%s" %s ON %s."%s" = p."%s"`, t.Name(), a, a, dbmap.ColumnId, dbmap.ColumnId))
	}
	ref := func(col *dbmap.Column) string {
		if col.IsVirtual() {
			return "NULL"
		}
		return fmt.Sprintf(`%s."%s"`, aliases[col.Table()], col.Name())
	}

	cols := []string{fmt.Sprintf(`p."%s" AS "%s"`, dbmap.ColumnId, dbmap.AccessStringId)}
	if cls := primary.ColumnOfKind(dbmap.ColumnKind_ClassId); cls != nil && !cls.IsVirtual() {
		cols = append(cols, fmt.Sprintf(`p."%s" AS "%s"`, cls.Name(), dbmap.AccessStringClassId))
	} else {
		cols = append(cols, fmt.Sprintf(`%d AS "%s"`, c.ID(), dbmap.AccessStringClassId))
	}
	if cm.Kind() == dbmap.ClassMapKind_LinkTableRelationship {
		for _, end := range []ecdef.RelationshipEnd{ecdef.RelationshipEnd_Source, ecdef.RelationshipEnd_Target} {
			lc := cm.LinkColumns(end)
			cols = append(cols,
				fmt.Sprintf(`%s AS "%s%s"`, ref(lc.ID), end, dbmap.AccessStringId),
				fmt.Sprintf(`%s AS "%s%s"`, ref(lc.ClassID), end, dbmap.AccessStringClassId))
		}
	}
	for _, pm := range cm.PropertyMaps() {
		if as := pm.AccessString(); as == dbmap.AccessStringId || as == dbmap.AccessStringClassId {
			continue
		}
		if len(pm.Columns()) == 1 {
			cols = append(cols, fmt.Sprintf(`%s AS "%s"`, ref(pm.Columns()[0]), pm.AccessString()))
			continue
		}
		for _, col := range pm.Columns() {
			cols = append(cols, fmt.Sprintf(`%s AS "%s"`, ref(col), col.Name()))
		}
	}

	b := strings.Builder{}
	fmt.Fprintf(&b, `CREATE VIEW "%s%s" AS SELECT %s FROM "%s" p`, viewPrefix, tableName(c), strings.Join(cols, ", "), primary.Name())
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if cm.IsTph() {
		ids := []string{fmt.Sprint(c.ID())}
		for _, d := range derived {
			ids = append(ids, fmt.Sprint(d.ID()))
		}
		fmt.Fprintf(&b, ` WHERE p."%s" IN (%s)`, dbmap.ColumnClassId, strings.Join(ids, ","))
	}
	return b.String()
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Brings indexes of mapped classes to their definitions: auto-generated indexes of relationships
// and table-per-hierarchy roots, and indexes declared by DbIndexList custom attribute
func (m *mapper) updateIndexes(ctx context.Context) (ch indexChanges, err error) {
	defs, err := m.indexDefs()
	if err != nil {
		return ch, err
	}

	seen := make(map[string]dbmap.IndexDef, len(defs))
	for _, def := range defs {
		name := strings.ToLower(def.Name)
		if prev, ok := seen[name]; ok {
			if prev.DefinitionKey() == def.DefinitionKey() {
				continue
			}
			return ch, fmt.Errorf("%w: «%s» is defined as %s and %s", ErrIndexNameConflict, def.Name, prev.DefinitionKey(), def.DefinitionKey())
		}
		seen[name] = def

		if idx := m.db.IndexByName(def.Name); idx != nil {
			if idx.DefinitionKey() == def.DefinitionKey() {
				if err := m.ensureIndex(ctx, idx); err != nil {
					return ch, err
				}
				continue
			}
			if idx.ClassID() != def.ClassID {
				return ch, fmt.Errorf("%w: «%s» is defined as %s, persisted as %s", ErrIndexNameConflict, def.Name, def.DefinitionKey(), idx.DefinitionKey())
			}
			m.db.RemoveIndex(idx)
			ch.dropped = append(ch.dropped, idx.Name())
		}

		if dup := m.duplicateIndex(def); dup != nil {
			logger.Warning(fmt.Sprintf("index «%s» is skipped, it duplicates %v", def.Name, dup))
			ch.skipped = append(ch.skipped, def.Name)
			continue
		}
		id, err := m.store.IDs().Next(ctx, ecmeta.SeqIndex)
		if err != nil {
			return ch, err
		}
		if _, err := m.db.AddIndex(id, def); err != nil {
			return ch, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
		}
		ch.created = append(ch.created, def.Name)
	}

	// indexes, which classes do not define any more
	for _, cm := range m.order {
		for _, idx := range m.db.ClassIndexes(cm.Class().ID()) {
			if _, ok := seen[strings.ToLower(idx.Name())]; !ok {
				m.db.RemoveIndex(idx)
				ch.dropped = append(ch.dropped, idx.Name())
			}
		}
	}

	for _, idx := range m.db.DroppedIndexes() {
		if err := m.store.ExecDDL(ctx, fmt.Sprintf(`DROP INDEX IF EXISTS "%s"`, idx.Name())); err != nil {
			return ch, fmt.Errorf("drop %v: %w", idx, err)
		}
	}
	for _, idx := range m.db.NewIndexes() {
		if err := m.store.ExecDDL(ctx, idx.DDL()); err != nil {
			return ch, fmt.Errorf("create %v: %w", idx, err)
		}
	}
	return ch, nil
}

// Creates persisted index, which is missing in store
func (m *mapper) ensureIndex(ctx context.Context, idx *dbmap.Index) error {
	_, ok, err := m.store.IndexSQL(ctx, sqlstore.MainTableSpace, idx.Name())
	if err != nil || ok {
		return err
	}
	logger.Warning(fmt.Sprintf("%v is missing in store and is recreated", idx))
	return m.store.ExecDDL(ctx, idx.DDL())
}

// Returns index with the same definition or nil
func (m *mapper) duplicateIndex(def dbmap.IndexDef) *dbmap.Index {
	key := def.DefinitionKey()
	for _, idx := range m.db.Indexes() {
		if idx.DefinitionKey() == key {
			return idx
		}
	}
	return nil
}

// Returns index definitions of class maps in mapping order
func (m *mapper) indexDefs() ([]dbmap.IndexDef, error) {
	var defs []dbmap.IndexDef
	for _, cm := range m.order {
		if !cm.IsMapped() {
			continue
		}
		defs = append(defs, autoIndexDefs(cm)...)
		user, err := userIndexDefs(cm)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", cm.Class(), err)
		}
		defs = append(defs, user...)
	}
	return defs, nil
}

func autoIndexDefs(cm *dbmap.ClassMap) (defs []dbmap.IndexDef) {
	c := cm.Class()
	auto := func(prefix string, t *dbmap.Table, suffix string, unique bool, cols ...*dbmap.Column) {
		defs = append(defs, dbmap.IndexDef{
			Name:          strings.ToLower(prefix + t.Name() + tableNameSeparator + suffix),
			Table:         t,
			Columns:       cols,
			Unique:        unique,
			ClassID:       c.ID(),
			AutoGenerated: true,
		})
	}
	switch cm.Kind() {
	case dbmap.ClassMapKind_LinkTableRelationship:
		if c.PrimaryBase() != nil {
			break
		}
		t := cm.PrimaryTable()
		src, tgt := cm.LinkColumns(ecdef.RelationshipEnd_Source), cm.LinkColumns(ecdef.RelationshipEnd_Target)
		auto(autoIndexPrefix, t, "source", false, src.ID)
		auto(autoIndexPrefix, t, "target", false, tgt.ID)
		allowDuplicates := false
		if ca := c.CustomAttribute(ecdef.CALinkTableRelationshipMap); ca != nil {
			allowDuplicates = ca.Bool(ecdef.CAPropAllowDuplicateRelationships)
		}
		if !allowDuplicates {
			auto(autoUniqueIndexPrefix, t, "sourcetarget", true, src.ID, tgt.ID)
		}
	case dbmap.ClassMapKind_EndTableRelationship:
		if c.PrimaryBase() != nil {
			break
		}
		if id, _ := cm.FkColumns(); id != nil {
			auto(autoIndexPrefix, id.Table(), id.Name(), false, id)
		}
	case dbmap.ClassMapKind_Class:
		if t := cm.PrimaryTable(); cm.Tph().IsRoot && t != nil && !t.IsVirtual() {
			auto(autoIndexPrefix, t, dbmap.ColumnClassId, false, t.ColumnOfKind(dbmap.ColumnKind_ClassId))
		}
	}
	return defs
}

// Returns indexes declared by DbIndexList custom attribute of class
func userIndexDefs(cm *dbmap.ClassMap) ([]dbmap.IndexDef, error) {
	c := cm.Class()
	ca := c.CustomAttribute(ecdef.CADbIndexList)
	if ca == nil {
		return nil, nil
	}
	var defs []dbmap.IndexDef
	for n, v := range ca.List(ecdef.CAPropIndexes) {
		values, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: index #%d is %T, not object", ErrInvalidIndex, n, v)
		}
		ia := ecdef.NewCustomAttribute(ecdef.NullQName, values)
		name, props := ia.String(ecdef.CAPropIndexName), ia.Strings(ecdef.CAPropIndexProperties)
		if name == "" || len(props) == 0 {
			return nil, fmt.Errorf("%w: index #%d requires %s and %s", ErrInvalidIndex, n, ecdef.CAPropIndexName, ecdef.CAPropIndexProperties)
		}

		var t *dbmap.Table
		var cols []*dbmap.Column
		for _, as := range props {
			pm := cm.PropertyMap(as)
			if pm == nil {
				return nil, fmt.Errorf("%w: «%s» property «%s» is not mapped", ErrInvalidIndex, name, as)
			}
			for _, col := range pm.Columns() {
				if t == nil {
					t = col.Table()
				} else if col.Table() != t {
					return nil, fmt.Errorf("%w: «%s» columns are in «%s» and «%s»", ErrIndexSpansPartitions, name, t.Name(), col.Table().Name())
				}
				cols = append(cols, col)
			}
		}
		if !t.IsOwned() {
			logger.Verbose(fmt.Sprintf("index «%s» on %v is skipped", name, t))
			continue
		}

		def := dbmap.IndexDef{
			Name:    name,
			Table:   t,
			Columns: cols,
			Unique:  ia.Bool(ecdef.CAPropIndexIsUnique),
			ClassID: c.ID(),
		}
		switch where := ia.String(ecdef.CAPropIndexWhere); where {
		case "":
		case ecdef.IndexWhereIndexedColumnsAreNotNull:
			def.NotNullWhere = true
		default:
			w, err := normalizeWhere(where, cm, t)
			if err != nil {
				return nil, fmt.Errorf("«%s»: %w", name, err)
			}
			def.Where = w
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Parses where clause of index and replaces property access strings by column names
func normalizeWhere(where string, cm *dbmap.ClassMap, t *dbmap.Table) (string, error) {
	stmt, err := sqlparser.Parse("SELECT 1 FROM t WHERE " + where)
	if err != nil {
		return "", fmt.Errorf("%w: where «%s»: %w", ErrInvalidIndex, where, err)
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok || sel.Where == nil {
		return "", fmt.Errorf("%w: where «%s» is not an expression", ErrInvalidIndex, where)
	}
	err = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		switch n := node.(type) {
		case *sqlparser.Subquery:
			return false, fmt.Errorf("%w: subqueries are not allowed in where «%s»", ErrInvalidIndex, where)
		case *sqlparser.ColName:
			as := n.Name.String()
			if !n.Qualifier.IsEmpty() {
				as = n.Qualifier.Name.String() + dbmap.AccessStringSeparator + as
			}
			pm := cm.PropertyMap(as)
			if pm == nil || len(pm.Columns()) != 1 || pm.Columns()[0].Table() != t {
				return false, fmt.Errorf("%w: «%s» in where «%s» is not a property of %v in «%s»", ErrInvalidIndex, as, where, cm.Class(), t.Name())
			}
			n.Qualifier = sqlparser.TableName{}
			n.Name = sqlparser.NewColIdent(pm.Columns()[0].Name())
		}
		return true, nil
	}, sel.Where.Expr)
	if err != nil {
		return "", err
	}
	return sqlparser.String(sel.Where.Expr), nil
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

import (
	"context"
	"fmt"
	"strings"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
)

// Loads physical model from metadata records
func LoadDbSchema(ctx context.Context, r *ecmeta.Reader) (*DbSchema, error) {
	s := NewDbSchema()

	tables, err := r.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tables from «%s»: %w", r.TableSpace(), err)
	}
	parents := map[*Table]ecdef.ID{}
	for _, rec := range tables {
		t, err := s.AddTable(rec.ID, rec.Name, TableType(rec.Type), nil)
		if err != nil {
			return nil, err
		}
		t.exclusiveRootClass = rec.ExclusiveRootClassID
		if rec.ParentTableID.IsValid() {
			parents[t] = rec.ParentTableID
		}
	}
	for t, pid := range parents {
		if t.parent = s.Table(pid); t.parent == nil {
			return nil, ecdef.ErrNotFound("parent table #%d of %v", pid, t)
		}
	}

	columns, err := r.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("load columns from «%s»: %w", r.TableSpace(), err)
	}
	colByID := map[ecdef.ID]*Column{}
	for _, rec := range columns {
		t := s.Table(rec.TableID)
		if t == nil {
			return nil, ecdef.ErrNotFound("table #%d of column «%s»", rec.TableID, rec.Name)
		}
		c, err := t.AddColumn(rec.ID, rec.Name, rec.Type, ColumnKind(rec.Kind), rec.IsVirtual)
		if err != nil {
			return nil, err
		}
		c.notNull, c.unique, c.pkOrdinal = rec.NotNull, rec.Unique, rec.PrimaryKeyOrd
		colByID[rec.ID] = c
	}

	indexes, err := r.Indexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load indexes from «%s»: %w", r.TableSpace(), err)
	}
	indexColumns, err := r.IndexColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index columns from «%s»: %w", r.TableSpace(), err)
	}
	colsOfIndex := map[ecdef.ID][]*Column{}
	for _, rec := range indexColumns {
		c, ok := colByID[rec.ColumnID]
		if !ok {
			return nil, ecdef.ErrNotFound("column #%d of index #%d", rec.ColumnID, rec.IndexID)
		}
		colsOfIndex[rec.IndexID] = append(colsOfIndex[rec.IndexID], c)
	}
	for _, rec := range indexes {
		t := s.Table(rec.TableID)
		if t == nil {
			return nil, ecdef.ErrNotFound("table #%d of index «%s»", rec.TableID, rec.Name)
		}
		idx, err := s.AddIndex(rec.ID, IndexDef{
			Name:          rec.Name,
			Table:         t,
			Columns:       colsOfIndex[rec.ID],
			Unique:        rec.IsUnique,
			NotNullWhere:  rec.NotNullWhere,
			Where:         rec.Where,
			ClassID:       rec.ClassID,
			AutoGenerated: rec.IsAutoGenerated,
		})
		if err != nil {
			return nil, err
		}
		idx.MarkPersisted()
	}

	for _, t := range s.tables {
		t.MarkPersisted()
	}
	return s, nil
}

// Saves dirty tables, new indexes and drops removed ones from metadata records.
//
// DDL is not executed.
func SaveDbSchema(ctx context.Context, w *ecmeta.Writer, s *DbSchema) error {
	for _, idx := range s.droppedIdx {
		if err := w.DeleteIndex(ctx, idx.id); err != nil {
			return fmt.Errorf("delete %v: %w", idx, err)
		}
	}
	for _, t := range s.dropped {
		if err := w.DeleteTable(ctx, t.id); err != nil {
			return fmt.Errorf("delete %v: %w", t, err)
		}
	}
	for _, t := range s.DirtyTables() {
		rec := ecmeta.TableRecord{
			ID:                   t.id,
			Name:                 t.name,
			Type:                 uint8(t.typ),
			ExclusiveRootClassID: t.exclusiveRootClass,
		}
		if t.parent != nil {
			rec.ParentTableID = t.parent.id
		}
		var cols []ecmeta.ColumnRecord
		for _, c := range t.NewColumns() {
			cols = append(cols, ecmeta.ColumnRecord{
				ID:            c.id,
				Name:          c.name,
				Type:          c.typ,
				Kind:          uint8(c.kind),
				IsVirtual:     c.virtual,
				Ordinal:       c.ordinal,
				NotNull:       c.notNull,
				Unique:        c.unique,
				PrimaryKeyOrd: c.pkOrdinal,
			})
		}
		if err := w.SaveTable(ctx, rec, cols); err != nil {
			return err
		}
		t.MarkPersisted()
	}
	for _, idx := range s.NewIndexes() {
		rec := ecmeta.IndexRecord{
			ID:              idx.id,
			Name:            idx.name,
			TableID:         idx.table.id,
			ClassID:         idx.classID,
			IsUnique:        idx.unique,
			NotNullWhere:    idx.notNullWhere,
			IsAutoGenerated: idx.autoGenerated,
			Where:           idx.where,
		}
		cols := make([]ecdef.ID, 0, len(idx.columns))
		for _, c := range idx.columns {
			cols = append(cols, c.id)
		}
		if err := w.SaveIndex(ctx, rec, cols); err != nil {
			return err
		}
		idx.MarkPersisted()
	}
	s.ClearDropped()
	return nil
}

// Saves class map record and its property maps
func SaveClassMap(ctx context.Context, w *ecmeta.Writer, m *ClassMap) error {
	rec := ecmeta.ClassMapRecord{
		ClassID:                      m.class.ID(),
		Strategy:                     uint8(m.strategy),
		ShareColumns:                 m.tph.ShareColumns,
		MaxSharedColumns:             m.tph.MaxSharedColumnsBeforeOverflow,
		JoinedTablePerDirectSubclass: m.tph.JoinedTablePerDirectSubclass,
		IsTphRoot:                    m.tph.IsRoot,
	}
	if err := w.SaveClassMap(ctx, rec); err != nil {
		return fmt.Errorf("save %v: %w", m, err)
	}
	var maps []ecmeta.PropertyMapRecord
	for _, pm := range m.props {
		rootID := ecdef.NullID
		if pm.root != nil {
			rootID = pm.root.ID()
		}
		pathID, err := w.PropertyPath(ctx, rootID, pm.accessString)
		if err != nil {
			return fmt.Errorf("save %v property path «%s»: %w", m, pm.accessString, err)
		}
		for _, c := range pm.columns {
			maps = append(maps, ecmeta.PropertyMapRecord{PropertyPathID: pathID, ColumnID: c.id})
		}
	}
	for as, c := range m.systemColumns() {
		pathID, err := w.PropertyPath(ctx, ecdef.NullID, as)
		if err != nil {
			return fmt.Errorf("save %v property path «%s»: %w", m, as, err)
		}
		maps = append(maps, ecmeta.PropertyMapRecord{PropertyPathID: pathID, ColumnID: c.id})
	}
	if err := w.SavePropertyMaps(ctx, m.class.ID(), maps); err != nil {
		return err
	}
	m.state = ClassMapState_Persisted
	return nil
}

// Loads class map of class from metadata records. Returns nil if class is not mapped.
//
// Properties of access strings are resolved by class.
func LoadClassMap(ctx context.Context, r *ecmeta.Reader, s *DbSchema, class *ecdef.Class) (*ClassMap, error) {
	rec, err := r.ClassMap(ctx, class.ID())
	if err != nil || rec == nil {
		return nil, err
	}
	m := NewClassMap(class, MapStrategy(rec.Strategy), TphOptions{
		IsRoot:                         rec.IsTphRoot,
		ShareColumns:                   rec.ShareColumns,
		MaxSharedColumnsBeforeOverflow: rec.MaxSharedColumns,
		JoinedTablePerDirectSubclass:   rec.JoinedTablePerDirectSubclass,
	})
	mappings, err := r.PropertyMappings(ctx, class.ID())
	if err != nil {
		return nil, fmt.Errorf("load %v: %w", m, err)
	}
	props := map[ecdef.ID]*ecdef.Property{}
	for _, p := range class.AllProperties() {
		props[p.ID()] = p
	}
	type group struct {
		root *ecdef.Property
		cols []*Column
	}
	groups := map[string]*group{}
	order := []string{}
	for _, pm := range mappings {
		col := s.columnByID(pm.ColumnID)
		if col == nil {
			return nil, ecdef.ErrNotFound("column #%d of %v", pm.ColumnID, m)
		}
		g, ok := groups[pm.AccessString]
		if !ok {
			g = &group{root: props[pm.RootPropertyID]}
			groups[pm.AccessString] = g
			order = append(order, pm.AccessString)
		}
		g.cols = append(g.cols, col)
	}
	for _, as := range order {
		g := groups[as]
		if g.root == nil && m.setSystemColumn(as, g.cols[0]) {
			continue
		}
		m.AddPropertyMap(as, g.root, g.cols...)
	}
	m.loadTables(s)
	m.state = ClassMapState_Loaded
	return m, nil
}

func (s *DbSchema) columnByID(id ecdef.ID) *Column {
	for _, t := range s.tables {
		for _, c := range t.columns {
			if c.id == id {
				return c
			}
		}
	}
	return nil
}

// Adds tables owned by class or shared with class to class map if not added by property maps
func (m *ClassMap) loadTables(s *DbSchema) {
	for _, t := range s.tables {
		if t.exclusiveRootClass == m.class.ID() {
			m.AddTable(t)
		}
	}
}

// Returns navigation and link columns of relationship class map by system access strings
func (m *ClassMap) systemColumns() map[string]*Column {
	res := map[string]*Column{}
	add := func(as string, c *Column) {
		if c != nil {
			res[as] = c
		}
	}
	switch m.kind {
	case ClassMapKind_EndTableRelationship:
		add(systemAccessString(m.fkEnd, navIdAccess), m.fkID)
		add(systemAccessString(m.fkEnd, navRelClassIdAccess), m.fkRelClassID)
	case ClassMapKind_LinkTableRelationship:
		for _, end := range []ecdef.RelationshipEnd{ecdef.RelationshipEnd_Source, ecdef.RelationshipEnd_Target} {
			cols := m.LinkColumns(end)
			add(systemAccessString(end, linkIdAccess), cols.ID)
			add(systemAccessString(end, linkClassIdAccess), cols.ClassID)
		}
	}
	return res
}

// Restores navigation or link column by system access string. Returns false if access string is not system one
func (m *ClassMap) setSystemColumn(as string, c *Column) bool {
	end, member, ok := parseSystemAccessString(as)
	if !ok {
		return false
	}
	switch {
	case m.kind == ClassMapKind_EndTableRelationship && member == navIdAccess:
		m.SetFk(end, c, m.fkRelClassID)
	case m.kind == ClassMapKind_EndTableRelationship && member == navRelClassIdAccess:
		m.SetFk(end, m.fkID, c)
	case m.kind == ClassMapKind_LinkTableRelationship && member == linkIdAccess:
		cols := m.LinkColumns(end)
		cols.ID = c
		m.SetLinkColumns(end, cols)
		m.AddTable(c.table)
	case m.kind == ClassMapKind_LinkTableRelationship && member == linkClassIdAccess:
		cols := m.LinkColumns(end)
		cols.ClassID = c
		m.SetLinkColumns(end, cols)
	default:
		return false
	}
	return true
}

func systemAccessString(end ecdef.RelationshipEnd, member string) string {
	return systemAccessPrefix + end.String() + AccessStringSeparator + member
}

func parseSystemAccessString(as string) (end ecdef.RelationshipEnd, member string, ok bool) {
	rest, found := strings.CutPrefix(as, systemAccessPrefix)
	if !found {
		return end, "", false
	}
	e, member, found := strings.Cut(rest, AccessStringSeparator)
	if !found {
		return end, "", false
	}
	switch e {
	case ecdef.RelationshipEnd_Source.String():
		return ecdef.RelationshipEnd_Source, member, true
	case ecdef.RelationshipEnd_Target.String():
		return ecdef.RelationshipEnd_Target, member, true
	}
	return end, "", false
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"errors"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
)

// Maps classes of imported schemas to tables of main table space.
//
// Mapper is used by one import only. Changes of physical model are made in db
// and flushed by updateTables, updateIndexes and save.
type mapper struct {
	store  sqlstore.IStore
	main   tablespace.ICatalog
	w      *ecmeta.Writer
	db     *dbmap.DbSchema
	policy RelationshipPolicy

	// class maps touched by import, by class ID
	maps map[ecdef.ID]*dbmap.ClassMap
	// class maps in mapping order
	order []*dbmap.ClassMap
	// end table relationships, which navigation columns are resolved after all classes are mapped
	fks []*dbmap.ClassMap
	// actual columns (lowercased) of existing tables
	existing map[*dbmap.Table]map[string]bool
	// overflow tables, which got new class rows
	overflows []*dbmap.Table
}

func newMapper(e *engine, main tablespace.ICatalog, w *ecmeta.Writer, db *dbmap.DbSchema) *mapper {
	return &mapper{
		store:    e.store,
		main:     main,
		w:        w,
		db:       db,
		policy:   e.params.RelationshipPolicy,
		maps:     make(map[ecdef.ID]*dbmap.ClassMap),
		existing: make(map[*dbmap.Table]map[string]bool),
	}
}

// Returns class map built by import or persisted one. Returns nil if class is not mapped yet
func (m *mapper) classMap(ctx context.Context, c *ecdef.Class) (*dbmap.ClassMap, error) {
	if cm, ok := m.maps[c.ID()]; ok {
		return cm, nil
	}
	if c.ID().IsVirtual() {
		return nil, nil
	}
	return m.main.GetClassMap(ctx, c)
}

func (m *mapper) add(cm *dbmap.ClassMap) {
	if _, ok := m.maps[cm.Class().ID()]; ok {
		return
	}
	m.maps[cm.Class().ID()] = cm
	m.order = append(m.order, cm)
}

// Marks loaded or persisted class map as changed
func (m *mapper) changed(cm *dbmap.ClassMap) {
	if cm.State() != dbmap.ClassMapState_NewlyMapped {
		cm.SetState(dbmap.ClassMapState_PendingSave)
	}
	m.add(cm)
}

// Maps classes of schemas: mixins, entity hierarchies, relationship hierarchies, then navigation columns
func (m *mapper) mapSchemas(ctx context.Context, schemas []*ecdef.Schema) error {
	mixins, entities, rels := gatherRoots(schemas)
	if err := m.mapHierarchies(ctx, mixins); err != nil {
		return err
	}
	if err := m.mapHierarchies(ctx, entities); err != nil {
		return err
	}
	if err := m.mapHierarchies(ctx, rels); err != nil {
		return err
	}
	if err := m.mapForeignKeys(ctx); err != nil {
		return err
	}
	for _, cm := range m.order {
		if cm.State() == dbmap.ClassMapState_NewlyMapped {
			cm.SetState(dbmap.ClassMapState_PendingSave)
		}
	}
	return nil
}

// Returns hierarchy roots of mappable classes of schemas. Supplemental schemas are skipped
func gatherRoots(schemas []*ecdef.Schema) (mixins, entities, rels []*ecdef.Class) {
	seen := make(map[*ecdef.Class]bool)
	for _, s := range schemas {
		if s.IsSupplemental() {
			continue
		}
		for _, c := range s.Classes() {
			if c.IsStruct() || c.IsCustomAttribute() {
				continue
			}
			root := c
			for !root.IsRootClass() {
				root = root.PrimaryBase()
			}
			if root.ID().IsVirtual() || seen[root] {
				continue
			}
			seen[root] = true
			switch {
			case root.IsMixin():
				mixins = append(mixins, root)
			case root.IsRelationship():
				rels = append(rels, root)
			default:
				entities = append(entities, root)
			}
		}
	}
	return mixins, entities, rels
}

// Maps hierarchies of roots. Hierarchies, which base classes are not mapped yet, are retried
// while any progress is made
func (m *mapper) mapHierarchies(ctx context.Context, roots []*ecdef.Class) error {
	pending := roots
	for len(pending) > 0 {
		var deferred []*ecdef.Class
		for _, r := range pending {
			err := m.mapHierarchy(ctx, r)
			if errors.Is(err, errBaseClassesNotMapped) {
				deferred = append(deferred, r)
				continue
			}
			if err != nil {
				return err
			}
		}
		if len(deferred) == len(pending) {
			return fmt.Errorf("%w: %v", errBaseClassesNotMapped, deferred[0])
		}
		pending = deferred
	}
	return nil
}

// Maps root and its derived classes of the same kind, depth first
func (m *mapper) mapHierarchy(ctx context.Context, root *ecdef.Class) error {
	stack := []*ecdef.Class{root}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := m.maps[c.ID()]; done {
			continue
		}
		if err := m.mapClass(ctx, c); err != nil {
			return err
		}
		derived, err := m.main.GetDerivedClasses(ctx, c)
		if err != nil {
			return err
		}
		for i := len(derived) - 1; i >= 0; i-- {
			if d := derived[i]; d.Kind() == root.Kind() {
				stack = append(stack, d)
			}
		}
	}
	return nil
}

func (m *mapper) mapClass(ctx context.Context, c *ecdef.Class) error {
	var err error
	switch {
	case c.IsMixin():
		err = m.mapMixin(ctx, c)
	case c.IsRelationship():
		err = m.mapRelationship(ctx, c)
	default:
		err = m.mapEntity(ctx, c)
	}
	if err != nil {
		return fmt.Errorf("%v: %w", c, err)
	}
	if logger.IsVerbose() {
		cm := m.maps[c.ID()]
		logger.Verbose(fmt.Sprintf("%v: %v", cm, cm.State()))
	}
	return nil
}

// Resolves map strategy of entity class from its custom attributes and map of its primary base
func (m *mapper) resolveStrategy(ctx context.Context, c *ecdef.Class) (cs classStrategy, err error) {
	ca := c.CustomAttribute(ecdef.CAClassMap)
	joined := c.HasCustomAttribute(ecdef.CAJoinedTablePerDirectSubclass)
	shared := c.CustomAttribute(ecdef.CAShareColumns)

	if base := c.PrimaryBase(); base != nil {
		bm, err := m.classMap(ctx, base)
		if err != nil {
			return cs, err
		}
		if bm == nil {
			return cs, fmt.Errorf("%w: %v", errBaseClassesNotMapped, base)
		}
		cs.base = bm
		if !bm.IsMapped() {
			cs.strategy = dbmap.MapStrategy_NotMapped
			return cs, nil
		}
		if bm.IsTph() {
			if ca != nil {
				return cs, fmt.Errorf("%w: class of table-per-hierarchy %v can not declare own map strategy", ErrInvalidMapStrategy, bm.Class())
			}
			cs.strategy = dbmap.MapStrategy_SharedTable
			cs.tph.ShareColumns = bm.Tph().ShareColumns
			cs.tph.MaxSharedColumnsBeforeOverflow = bm.Tph().MaxSharedColumnsBeforeOverflow
			if joined {
				if bm.JoinedTable() != nil || bm.Tph().JoinedTablePerDirectSubclass {
					return cs, fmt.Errorf("%w: nested joined tables are not supported", ErrInvalidMapStrategy)
				}
				cs.tph.JoinedTablePerDirectSubclass = true
			}
			if shared != nil {
				cs.tph.ShareColumns = true
				if n, ok := shared.Int(ecdef.CAPropMaxSharedColumnsBeforeOverflow); ok {
					cs.tph.MaxSharedColumnsBeforeOverflow = n
				}
			}
			return cs, nil
		}
	}

	strategy := ""
	if ca != nil {
		strategy = ca.String(ecdef.CAPropMapStrategy)
	}
	switch strategy {
	case "", ecdef.MapStrategyOwnTable:
		cs.strategy = dbmap.MapStrategy_OwnTable
	case ecdef.MapStrategyNotMapped:
		cs.strategy = dbmap.MapStrategy_NotMapped
		return cs, nil
	case ecdef.MapStrategyTablePerHierarchy:
		cs.strategy = dbmap.MapStrategy_OwnTable
		cs.tph.IsRoot = true
		cs.tph.JoinedTablePerDirectSubclass = joined
		if shared != nil {
			cs.tph.ShareColumns = true
			if n, ok := shared.Int(ecdef.CAPropMaxSharedColumnsBeforeOverflow); ok {
				cs.tph.MaxSharedColumnsBeforeOverflow = n
			}
		}
		return cs, nil
	case ecdef.MapStrategyExistingTable:
		cs.strategy = dbmap.MapStrategy_OwnTable
		if cs.existingTable = ca.String(ecdef.CAPropTableName); cs.existingTable == "" {
			return cs, fmt.Errorf("%w: %s requires %s", ErrInvalidMapStrategy, strategy, ecdef.CAPropTableName)
		}
	default:
		return cs, fmt.Errorf("%w: unknown strategy «%s»", ErrInvalidMapStrategy, strategy)
	}
	if joined || shared != nil {
		return cs, fmt.Errorf("%w: joined tables and shared columns require table-per-hierarchy", ErrInvalidMapStrategy)
	}
	return cs, nil
}

// Copies property maps of base, which class map has not. Returns is anything copied
func inheritMaps(cm, base *dbmap.ClassMap) bool {
	changed := false
	for _, t := range base.Tables() {
		cm.AddTable(t)
	}
	for _, pm := range base.PropertyMaps() {
		if own := cm.PropertyMap(pm.AccessString()); own != nil {
			if pm.AccessString() == dbmap.AccessStringId {
				n := len(own.Columns())
				cm.ExtendPropertyMap(pm.AccessString(), pm.Columns()...)
				changed = changed || len(own.Columns()) != n
			}
			continue
		}
		var root *ecdef.Property
		if r := pm.RootProperty(); r != nil {
			root = cm.Class().FindProperty(r.Name())
		}
		cm.AddPropertyMap(pm.AccessString(), root, append([]*dbmap.Column(nil), pm.Columns()...)...)
		changed = true
	}
	return changed
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"fmt"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
)

// Default relationship policy.
//
// Relationships with LinkTableRelationshipMap custom attribute or own properties are mapped to link tables,
// relationships with upper multiplicity one at any end are mapped to navigation columns of the other end table.
// Many-to-many relationships use link tables.
func DefaultRelationshipPolicy(rel *ecdef.Class) dbmap.MapStrategy {
	if rel.HasCustomAttribute(ecdef.CALinkTableRelationshipMap) || len(rel.Properties()) > 0 {
		return dbmap.MapStrategy_LinkTableRelationship
	}
	if rel.Source().Multiplicity().IsUpperOne() || rel.Target().Multiplicity().IsUpperOne() {
		return dbmap.MapStrategy_ForeignKeyRelationship
	}
	return dbmap.MapStrategy_LinkTableRelationship
}

func (m *mapper) mapRelationship(ctx context.Context, c *ecdef.Class) error {
	strategy, base, err := m.relationshipStrategy(ctx, c)
	if err != nil {
		return err
	}

	cm, err := m.main.GetClassMap(ctx, c)
	if err != nil {
		return err
	}
	if cm != nil {
		if cm.Strategy() != strategy {
			return fmt.Errorf("%w: %v → %v", ErrMapStrategyChanged, cm.Strategy(), strategy)
		}
		switch strategy {
		case dbmap.MapStrategy_LinkTableRelationship:
			n, err := m.mapProperties(ctx, cm)
			if err != nil {
				return err
			}
			if n > 0 {
				m.changed(cm)
			}
		case dbmap.MapStrategy_ForeignKeyRelationship:
			m.fks = append(m.fks, cm)
		}
		m.add(cm)
		return nil
	}

	cm = dbmap.NewClassMap(c, strategy, dbmap.TphOptions{})
	cm.SetState(dbmap.ClassMapState_NewlyMapped)
	switch strategy {
	case dbmap.MapStrategy_LinkTableRelationship:
		if base != nil {
			inheritMaps(cm, base)
			for _, end := range []ecdef.RelationshipEnd{ecdef.RelationshipEnd_Source, ecdef.RelationshipEnd_Target} {
				cm.SetLinkColumns(end, base.LinkColumns(end))
			}
		} else if err := m.placeInLinkTable(ctx, cm); err != nil {
			return err
		}
		if _, err := m.mapProperties(ctx, cm); err != nil {
			return err
		}
	case dbmap.MapStrategy_ForeignKeyRelationship:
		m.fks = append(m.fks, cm)
	}
	m.add(cm)
	return nil
}

// Returns map strategy of relationship: derived relationships use strategy of base one
func (m *mapper) relationshipStrategy(ctx context.Context, c *ecdef.Class) (dbmap.MapStrategy, *dbmap.ClassMap, error) {
	if b := c.PrimaryBase(); b != nil {
		bm, err := m.classMap(ctx, b)
		if err != nil {
			return dbmap.MapStrategy_NotMapped, nil, err
		}
		if bm == nil {
			return dbmap.MapStrategy_NotMapped, nil, fmt.Errorf("%w: %v", errBaseClassesNotMapped, b)
		}
		return bm.Strategy(), bm, nil
	}
	if ca := c.CustomAttribute(ecdef.CAClassMap); ca != nil && ca.String(ecdef.CAPropMapStrategy) == ecdef.MapStrategyNotMapped {
		return dbmap.MapStrategy_NotMapped, nil, nil
	}
	s := m.policy(c)
	if s != dbmap.MapStrategy_ForeignKeyRelationship && s != dbmap.MapStrategy_LinkTableRelationship {
		return s, nil, fmt.Errorf("%w: relationship policy returned %v", ErrInvalidMapStrategy, s)
	}
	return s, nil, nil
}

// Creates link table with system and end columns
func (m *mapper) placeInLinkTable(ctx context.Context, cm *dbmap.ClassMap) error {
	if err := m.placeInOwnTable(ctx, cm, dbmap.TableType_Primary); err != nil {
		return err
	}
	t := cm.PrimaryTable()
	type endColumns struct {
		end         ecdef.RelationshipEnd
		id, classID string
		idKind      dbmap.ColumnKind
		classKind   dbmap.ColumnKind
	}
	for _, ec := range []endColumns{
		{ecdef.RelationshipEnd_Source, dbmap.ColumnSourceId, dbmap.ColumnSourceClassId, dbmap.ColumnKind_SourceId, dbmap.ColumnKind_SourceClassId},
		{ecdef.RelationshipEnd_Target, dbmap.ColumnTargetId, dbmap.ColumnTargetClassId, dbmap.ColumnKind_TargetId, dbmap.ColumnKind_TargetClassId},
	} {
		id, err := m.addColumn(ctx, t, ec.id, ecdef.PrimitiveType_Long, ec.idKind, false)
		if err != nil {
			return err
		}
		cls, err := m.addColumn(ctx, t, ec.classID, ecdef.PrimitiveType_Long, ec.classKind, false)
		if err != nil {
			return err
		}
		id.SetNotNull(true)
		cls.SetNotNull(true)
		cm.SetLinkColumns(ec.end, dbmap.LinkEndColumns{ID: id, ClassID: cls})
	}
	return nil
}

// Resolves navigation columns of end table relationships
func (m *mapper) mapForeignKeys(ctx context.Context) error {
	for _, cm := range m.fks {
		if err := m.mapForeignKey(ctx, cm); err != nil {
			return fmt.Errorf("%v: %w", cm.Class(), err)
		}
	}
	return nil
}

func (m *mapper) mapForeignKey(ctx context.Context, cm *dbmap.ClassMap) error {
	rel := cm.Class()
	if id, _ := cm.FkColumns(); id != nil {
		return m.mapNavigationProperties(ctx, cm)
	}

	if b := rel.PrimaryBase(); b != nil {
		base, err := m.classMap(ctx, b)
		if err != nil {
			return err
		}
		id, relClassID := base.FkColumns()
		cm.SetFk(base.FkEnd(), id, relClassID)
		inheritMaps(cm, base)
		return nil
	}

	end, err := foreignKeyEnd(rel)
	if err != nil {
		return err
	}
	t, err := m.endTable(ctx, rel, end)
	if err != nil {
		return err
	}
	nav := navigationName(rel, end)
	id, err := m.addColumn(ctx, t, m.freeColumnName(t, nav+dbmap.NavIdSuffix), ecdef.PrimitiveType_Long, dbmap.ColumnKind_NavId, false)
	if err != nil {
		return err
	}
	relClassID, err := m.addColumn(ctx, t, m.freeColumnName(t, nav+dbmap.NavRelClassIdSuffix), ecdef.PrimitiveType_Long, dbmap.ColumnKind_NavRelClassId, false)
	if err != nil {
		return err
	}
	cm.SetFk(end, id, relClassID)
	cm.AddPropertyMap(dbmap.AccessStringId, nil, t.ColumnOfKind(dbmap.ColumnKind_Id))
	cm.AddPropertyMap(dbmap.AccessStringClassId, nil, relClassID)
	return m.mapNavigationProperties(ctx, cm)
}

// Returns end, which table holds navigation columns: each row of that end refers at most one row of the other end
func foreignKeyEnd(rel *ecdef.Class) (ecdef.RelationshipEnd, error) {
	switch {
	case rel.Source().Multiplicity().IsUpperOne():
		return ecdef.RelationshipEnd_Target, nil
	case rel.Target().Multiplicity().IsUpperOne():
		return ecdef.RelationshipEnd_Source, nil
	}
	return ecdef.RelationshipEnd_Source, fmt.Errorf("%w: navigation columns require upper multiplicity one at any end, %v and %v found",
		ErrInvalidMapStrategy, rel.Source().Multiplicity(), rel.Target().Multiplicity())
}

// Returns the only persisted table of constraint classes of end
func (m *mapper) endTable(ctx context.Context, rel *ecdef.Class, end ecdef.RelationshipEnd) (*dbmap.Table, error) {
	classes, err := m.endClasses(ctx, rel, end, rel.Constraint(end).IsPolymorphic())
	if err != nil {
		return nil, err
	}
	var tables []*dbmap.Table
	for _, c := range classes {
		cm, err := m.classMap(ctx, c)
		if err != nil {
			return nil, err
		}
		if cm == nil || !cm.IsMapped() {
			continue
		}
		t := cm.PrimaryTable()
		if t == nil || t.IsVirtual() || containsTable(tables, t) {
			continue
		}
		tables = append(tables, t)
	}
	switch len(tables) {
	case 0:
		return nil, fmt.Errorf("%w: %v end classes are not mapped to tables", ErrInvalidMapStrategy, end)
	case 1:
		return tables[0], nil
	}
	return nil, fmt.Errorf("%w: %v end classes are mapped to %d tables, use table-per-hierarchy", ErrIndexSpansPartitions, end, len(tables))
}

// Returns constraint classes of end and, if derived is set, all classes derived from them
func (m *mapper) endClasses(ctx context.Context, rel *ecdef.Class, end ecdef.RelationshipEnd, derived bool) ([]*ecdef.Class, error) {
	var res []*ecdef.Class
	seen := make(map[*ecdef.Class]bool)
	for _, c := range rel.Constraint(end).Classes() {
		if !seen[c] {
			seen[c] = true
			res = append(res, c)
		}
		if !derived || c.ID().IsVirtual() {
			continue
		}
		all, err := m.main.GetAllDerivedClasses(ctx, c)
		if err != nil {
			return nil, err
		}
		for _, d := range all {
			if !seen[d] {
				seen[d] = true
				res = append(res, d)
			}
		}
	}
	return res, nil
}

// Returns name of navigation property, which end classes declare for relationship, or relationship name
func navigationName(rel *ecdef.Class, end ecdef.RelationshipEnd) string {
	for _, c := range rel.Constraint(end).Classes() {
		for _, p := range c.AllProperties() {
			if p.Kind() == ecdef.PropertyKind_Navigation && p.Relationship() == rel {
				return p.Name()
			}
		}
	}
	return rel.Name()
}

// Maps navigation properties of end classes to navigation columns of relationship
func (m *mapper) mapNavigationProperties(ctx context.Context, cm *dbmap.ClassMap) error {
	rel := cm.Class()
	id, relClassID := cm.FkColumns()
	classes, err := m.endClasses(ctx, rel, cm.FkEnd(), true)
	if err != nil {
		return err
	}
	for _, c := range classes {
		xm, err := m.classMap(ctx, c)
		if err != nil {
			return err
		}
		if xm == nil || !xm.IsMapped() || xm.PrimaryTable() != id.Table() {
			continue
		}
		for _, p := range c.AllProperties() {
			if p.Kind() != ecdef.PropertyKind_Navigation || p.Relationship() != rel {
				continue
			}
			idAS := p.Name() + dbmap.AccessStringSeparator + dbmap.NavIdSuffix
			if xm.PropertyMap(idAS) != nil {
				continue
			}
			xm.AddPropertyMap(idAS, p, id)
			xm.AddPropertyMap(p.Name()+dbmap.AccessStringSeparator+dbmap.NavRelClassIdSuffix, p, relClassID)
			m.changed(xm)
		}
	}
	return nil
}

// Returns name or name with numeric suffix, which is not used by columns of table
func (m *mapper) freeColumnName(t *dbmap.Table, name string) string {
	res := name
	for i := 2; t.Column(res) != nil; i++ {
		res = fmt.Sprintf("%s%s%d", name, tableNameSeparator, i)
	}
	return res
}

func containsTable(tables []*dbmap.Table, t *dbmap.Table) bool {
	for _, tt := range tables {
		if tt == t {
			return true
		}
	}
	return false
}

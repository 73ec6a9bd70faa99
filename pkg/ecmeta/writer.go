/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecmeta

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Writes metadata records into main table space
type Writer struct {
	store sqlstore.IStore
	r     *Reader
}

func (w *Writer) db(ctx context.Context) *gorm.DB { return w.store.Gorm(ctx) }

func (w *Writer) nextID(ctx context.Context, seq sqlstore.Sequence) (ecdef.ID, error) {
	return w.store.IDs().Next(ctx, seq)
}

// Saves schema definition records.
//
// If prev is not nil, then schema is upgrade of prev: identifiers of schema items with
// same names are kept, other items get new identifiers, records of prev are replaced.
// Identifiers are assigned to schema items.
func (w *Writer) SaveSchema(ctx context.Context, s *ecdef.Schema, prev *ecdef.Schema) error {
	if err := w.assignIDs(ctx, s, prev); err != nil {
		return fmt.Errorf("assign identifiers to schema «%s»: %w", s.Name(), err)
	}
	if prev != nil {
		if err := w.deleteDefinition(ctx, prev.ID()); err != nil {
			return fmt.Errorf("delete previous definition of schema «%s»: %w", s.Name(), err)
		}
	}
	if err := w.insertDefinition(ctx, s); err != nil {
		return fmt.Errorf("save schema «%s»: %w", s.Name(), err)
	}
	return nil
}

// Deletes schema records with all class maps and property paths of schema classes.
//
// Tables and indexes are not deleted.
func (w *Writer) DeleteSchema(ctx context.Context, schemaID ecdef.ID) error {
	db := w.db(ctx)
	classes := db.Table(TableClass).Select(`"Id"`).Where(`"SchemaId" = ?`, schemaID)
	props := db.Table(TableProperty).Select(`"Id"`).Where(`"ClassId" IN (?)`, classes)
	paths := db.Table(TablePropertyPath).Select(`"Id"`).Where(`"RootPropertyId" IN (?)`, props)
	err := runSteps(
		func() *gorm.DB { return db.Where(`"ClassId" IN (?)`, classes).Delete(&PropertyMapRecord{}) },
		func() *gorm.DB { return db.Where(`"PropertyPathId" IN (?)`, paths).Delete(&PropertyMapRecord{}) },
		func() *gorm.DB { return db.Where(`"RootPropertyId" IN (?)`, props).Delete(&PropertyPathRecord{}) },
		func() *gorm.DB { return db.Where(`"ClassId" IN (?)`, classes).Delete(&ClassMapRecord{}) },
	)
	if err == nil {
		err = w.deleteDefinition(ctx, schemaID)
	}
	if err == nil {
		err = db.Where(`"Id" = ?`, schemaID).Delete(&SchemaRecord{}).Error
	}
	if err != nil {
		return fmt.Errorf("delete schema #%d: %w", schemaID, err)
	}
	return nil
}

func keepID(id ecdef.ID) bool { return id.IsValid() && !id.IsVirtual() }

func (w *Writer) assignIDs(ctx context.Context, s *ecdef.Schema, prev *ecdef.Schema) error {
	// keeps own persisted identifier, then identifier of previous item, else allocates new one
	pick := func(cur, prevID ecdef.ID, seq sqlstore.Sequence) (ecdef.ID, error) {
		switch {
		case keepID(cur):
			return cur, nil
		case keepID(prevID):
			return prevID, nil
		}
		return w.nextID(ctx, seq)
	}
	if prev == nil {
		prev = ecdef.NewSchema(s.Name(), s.Alias(), s.Version())
	}

	id, err := pick(s.ID(), prev.ID(), SeqSchema)
	if err != nil {
		return err
	}
	s.SetID(id)

	for _, e := range s.Enumerations() {
		prevID := ecdef.NullID
		if pe := prev.Enumeration(e.Name()); pe != nil {
			prevID = pe.ID()
		}
		if id, err = pick(e.ID(), prevID, SeqEnumeration); err != nil {
			return err
		}
		e.SetID(id)
	}
	for _, u := range s.Units() {
		prevID := ecdef.NullID
		if pu := prev.Unit(u.Name()); pu != nil {
			prevID = pu.ID()
		}
		if id, err = pick(u.ID(), prevID, SeqUnit); err != nil {
			return err
		}
		u.SetID(id)
	}
	for _, f := range s.Formats() {
		prevID := ecdef.NullID
		if pf := prev.Format(f.Name()); pf != nil {
			prevID = pf.ID()
		}
		if id, err = pick(f.ID(), prevID, SeqFormat); err != nil {
			return err
		}
		f.SetID(id)
	}
	for _, c := range s.PropertyCategories() {
		prevID := ecdef.NullID
		if pc := prev.PropertyCategory(c.Name()); pc != nil {
			prevID = pc.ID()
		}
		if id, err = pick(c.ID(), prevID, SeqCategory); err != nil {
			return err
		}
		c.SetID(id)
	}

	for _, c := range s.Classes() {
		prevID := ecdef.NullID
		pc := prev.Class(c.Name())
		if pc != nil {
			prevID = pc.ID()
		}
		if id, err = pick(c.ID(), prevID, SeqClass); err != nil {
			return err
		}
		c.SetID(id)

		for _, p := range c.Properties() {
			prevID := ecdef.NullID
			if pc != nil {
				if pp := pc.Property(p.Name()); pp != nil {
					prevID = pp.ID()
				}
			}
			if id, err = pick(p.ID(), prevID, SeqProperty); err != nil {
				return err
			}
			p.SetID(id)
		}
	}
	return nil
}

// Runs delete steps in order, stops at first error
func runSteps(steps ...func() *gorm.DB) error {
	for _, step := range steps {
		if err := step().Error; err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) deleteDefinition(ctx context.Context, schemaID ecdef.ID) error {
	db := w.db(ctx)
	classes := db.Table(TableClass).Select(`"Id"`).Where(`"SchemaId" = ?`, schemaID)
	props := db.Table(TableProperty).Select(`"Id"`).Where(`"ClassId" IN (?)`, classes)
	constraints := db.Table(TableRelationshipConstraint).Select(`"Id"`).Where(`"RelationshipClassId" IN (?)`, classes)

	return runSteps(
		func() *gorm.DB {
			return db.Where(`"ContainerType" = ? AND "ContainerId" IN (?)`, ContainerType_Property, props).Delete(&CustomAttributeRecord{})
		},
		func() *gorm.DB {
			return db.Where(`"ContainerType" = ? AND "ContainerId" IN (?)`, ContainerType_Class, classes).Delete(&CustomAttributeRecord{})
		},
		func() *gorm.DB {
			return db.Where(`"ContainerType" = ? AND "ContainerId" = ?`, ContainerType_Schema, schemaID).Delete(&CustomAttributeRecord{})
		},
		func() *gorm.DB { return db.Where(`"ClassId" IN (?)`, classes).Delete(&PropertyRecord{}) },
		func() *gorm.DB { return db.Where(`"ClassId" IN (?)`, classes).Delete(&ClassHasBaseClassesRecord{}) },
		func() *gorm.DB {
			return db.Where(`"ConstraintId" IN (?)`, constraints).Delete(&RelationshipConstraintClassRecord{})
		},
		func() *gorm.DB {
			return db.Where(`"RelationshipClassId" IN (?)`, classes).Delete(&RelationshipConstraintRecord{})
		},
		func() *gorm.DB { return db.Where(`"SchemaId" = ?`, schemaID).Delete(&ClassRecord{}) },
		func() *gorm.DB { return db.Where(`"SchemaId" = ?`, schemaID).Delete(&EnumerationRecord{}) },
		func() *gorm.DB { return db.Where(`"SchemaId" = ?`, schemaID).Delete(&UnitRecord{}) },
		func() *gorm.DB { return db.Where(`"SchemaId" = ?`, schemaID).Delete(&FormatRecord{}) },
		func() *gorm.DB { return db.Where(`"SchemaId" = ?`, schemaID).Delete(&PropertyCategoryRecord{}) },
		func() *gorm.DB { return db.Where(`"SchemaId" = ?`, schemaID).Delete(&SchemaReferenceRecord{}) },
	)
}

func (w *Writer) insertDefinition(ctx context.Context, s *ecdef.Schema) error {
	db := w.db(ctx)
	v := s.Version()
	schema := SchemaRecord{
		ID:           s.ID(),
		Name:         s.Name(),
		Alias:        s.Alias(),
		Description:  s.Description(),
		VersionRead:  v.Read,
		VersionWrite: v.Write,
		VersionMinor: v.Minor,
	}
	if err := db.Save(&schema).Error; err != nil {
		return err
	}

	var recs []any
	for i, ref := range s.References() {
		if !keepID(ref.ID()) {
			return ecdef.ErrMissed("identifier of referenced schema «%s»", ref.Name())
		}
		recs = append(recs, &SchemaReferenceRecord{SchemaID: s.ID(), ReferencedSchemaID: ref.ID(), Ordinal: i})
	}
	recs = append(recs, caRecords(ContainerType_Schema, s.ID(), s.CustomAttributes())...)
	for _, e := range s.Enumerations() {
		recs = append(recs, &EnumerationRecord{ID: e.ID(), SchemaID: s.ID(), Name: e.Name(), Type: e.BackingType(), Strict: e.IsStrict(), Enumerators: e.Enumerators()})
	}
	for _, u := range s.Units() {
		recs = append(recs, &UnitRecord{ID: u.ID(), SchemaID: s.ID(), Name: u.Name(), Definition: u.Definition()})
	}
	for _, f := range s.Formats() {
		recs = append(recs, &FormatRecord{ID: f.ID(), SchemaID: s.ID(), Name: f.Name(), Spec: f.Spec()})
	}
	for _, c := range s.PropertyCategories() {
		recs = append(recs, &PropertyCategoryRecord{ID: c.ID(), SchemaID: s.ID(), Name: c.Name(), Priority: c.Priority()})
	}
	for _, c := range s.Classes() {
		classRecs, err := w.classRecords(ctx, c)
		if err != nil {
			return err
		}
		recs = append(recs, classRecs...)
	}
	for _, rec := range recs {
		if err := db.Create(rec).Error; err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) classRecords(ctx context.Context, c *ecdef.Class) (recs []any, err error) {
	recs = append(recs, &ClassRecord{
		ID:          c.ID(),
		SchemaID:    c.Schema().ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Kind:        c.Kind(),
		Modifier:    c.Modifier(),
		Strength:    c.Strength(),
	})
	recs = append(recs, caRecords(ContainerType_Class, c.ID(), c.CustomAttributes())...)
	for i, b := range c.BaseClasses() {
		if !keepID(b.ID()) {
			return nil, ecdef.ErrMissed("identifier of %v base %v", c, b)
		}
		recs = append(recs, &ClassHasBaseClassesRecord{ClassID: c.ID(), BaseClassID: b.ID(), Ordinal: i})
	}
	if c.IsRelationship() {
		for _, end := range []ecdef.RelationshipEnd{ecdef.RelationshipEnd_Source, ecdef.RelationshipEnd_Target} {
			cons := c.Constraint(end)
			if cons == nil {
				continue
			}
			id, err := w.nextID(ctx, SeqConstraint)
			if err != nil {
				return nil, err
			}
			m := cons.Multiplicity()
			recs = append(recs, &RelationshipConstraintRecord{
				ID:                  id,
				RelationshipClassID: c.ID(),
				End:                 end,
				MultiplicityLower:   m.Lower,
				MultiplicityUpper:   m.Upper,
				Polymorphic:         cons.IsPolymorphic(),
				RoleLabel:           cons.RoleLabel(),
			})
			for i, cc := range cons.Classes() {
				recs = append(recs, &RelationshipConstraintClassRecord{ConstraintID: id, ClassID: cc.ID(), Ordinal: i})
			}
		}
	}
	for i, p := range c.Properties() {
		rec := &PropertyRecord{
			ID:            p.ID(),
			ClassID:       c.ID(),
			Name:          p.Name(),
			Description:   p.Description(),
			Ordinal:       i,
			Kind:          p.Kind(),
			PrimitiveType: p.PrimitiveType(),
			Direction:     p.Direction(),
			ReadOnly:      p.IsReadOnly(),
			MinOccurs:     p.MinOccurs(),
			MaxOccurs:     p.MaxOccurs(),
		}
		if e := p.Enumeration(); e != nil {
			rec.EnumerationID = e.ID()
		}
		if st := p.StructClass(); st != nil {
			rec.StructClassID = st.ID()
		}
		if rel := p.Relationship(); rel != nil {
			rec.RelationshipID = rel.ID()
		}
		if cat := p.Category(); cat != nil {
			rec.CategoryID = cat.ID()
		}
		if u := p.Unit(); u != nil {
			rec.UnitID = u.ID()
		}
		recs = append(recs, rec)
		recs = append(recs, caRecords(ContainerType_Property, p.ID(), p.CustomAttributes())...)
	}
	return recs, nil
}

func caRecords(ct ContainerType, id ecdef.ID, attrs []*ecdef.CustomAttribute) []any {
	recs := make([]any, 0, len(attrs))
	for i, ca := range attrs {
		recs = append(recs, &CustomAttributeRecord{
			ContainerID:   id,
			ContainerType: ct,
			Class:         ca.Class().String(),
			Ordinal:       i,
			Values:        ca.Values(),
		})
	}
	return recs
}

// Saves class map record
func (w *Writer) SaveClassMap(ctx context.Context, rec ClassMapRecord) error {
	return w.db(ctx).Save(&rec).Error
}

// Deletes class map and property maps of class
func (w *Writer) DeleteClassMap(ctx context.Context, classID ecdef.ID) error {
	db := w.db(ctx)
	if err := db.Where(`"ClassId" = ?`, classID).Delete(&PropertyMapRecord{}).Error; err != nil {
		return err
	}
	return db.Where(`"ClassId" = ?`, classID).Delete(&ClassMapRecord{}).Error
}

// Returns identifier of property path, creates path if not exists
func (w *Writer) PropertyPath(ctx context.Context, rootPropertyID ecdef.ID, accessString string) (ecdef.ID, error) {
	rec, err := findOne[PropertyPathRecord](w.db(ctx).Table(TablePropertyPath).
		Where(`"RootPropertyId" = ? AND "AccessString" = ?`, rootPropertyID, accessString))
	if err != nil {
		return ecdef.NullID, err
	}
	if rec != nil {
		return rec.ID, nil
	}
	id, err := w.nextID(ctx, SeqPropertyPath)
	if err != nil {
		return ecdef.NullID, err
	}
	if err := w.db(ctx).Create(&PropertyPathRecord{ID: id, RootPropertyID: rootPropertyID, AccessString: accessString}).Error; err != nil {
		return ecdef.NullID, err
	}
	return id, nil
}

// Replaces property maps of class
func (w *Writer) SavePropertyMaps(ctx context.Context, classID ecdef.ID, maps []PropertyMapRecord) error {
	db := w.db(ctx)
	if err := db.Where(`"ClassId" = ?`, classID).Delete(&PropertyMapRecord{}).Error; err != nil {
		return err
	}
	for i := range maps {
		maps[i].ClassID = classID
		if err := db.Create(&maps[i]).Error; err != nil {
			return fmt.Errorf("property map of class #%d: %w", classID, err)
		}
	}
	return nil
}

// Deletes property paths, which are not used by any property map
func (w *Writer) DeleteUnusedPropertyPaths(ctx context.Context) error {
	db := w.db(ctx)
	used := db.Table(TablePropertyMap).Select(`"PropertyPathId"`)
	return db.Where(`"Id" NOT IN (?)`, used).Delete(&PropertyPathRecord{}).Error
}

// Saves table record and its columns records
func (w *Writer) SaveTable(ctx context.Context, table TableRecord, columns []ColumnRecord) error {
	db := w.db(ctx)
	if err := db.Save(&table).Error; err != nil {
		return fmt.Errorf("save table «%s»: %w", table.Name, err)
	}
	for i := range columns {
		columns[i].TableID = table.ID
		if err := db.Save(&columns[i]).Error; err != nil {
			return fmt.Errorf("save column «%s.%s»: %w", table.Name, columns[i].Name, err)
		}
	}
	return nil
}

// Deletes table record with its columns, indexes and property maps to its columns
func (w *Writer) DeleteTable(ctx context.Context, tableID ecdef.ID) error {
	db := w.db(ctx)
	cols := db.Table(TableColumn).Select(`"Id"`).Where(`"TableId" = ?`, tableID)
	idxs := db.Table(TableIndex).Select(`"Id"`).Where(`"TableId" = ?`, tableID)
	err := runSteps(
		func() *gorm.DB { return db.Where(`"IndexId" IN (?)`, idxs).Delete(&IndexColumnRecord{}) },
		func() *gorm.DB { return db.Where(`"TableId" = ?`, tableID).Delete(&IndexRecord{}) },
		func() *gorm.DB { return db.Where(`"ColumnId" IN (?)`, cols).Delete(&PropertyMapRecord{}) },
		func() *gorm.DB { return db.Where(`"TableId" = ?`, tableID).Delete(&ColumnRecord{}) },
		func() *gorm.DB { return db.Where(`"Id" = ?`, tableID).Delete(&TableRecord{}) },
	)
	if err != nil {
		return fmt.Errorf("delete table #%d: %w", tableID, err)
	}
	return nil
}

// Saves index record and its columns
func (w *Writer) SaveIndex(ctx context.Context, index IndexRecord, columnIDs []ecdef.ID) error {
	db := w.db(ctx)
	if err := db.Save(&index).Error; err != nil {
		return fmt.Errorf("save index «%s»: %w", index.Name, err)
	}
	if err := db.Where(`"IndexId" = ?`, index.ID).Delete(&IndexColumnRecord{}).Error; err != nil {
		return err
	}
	for i, col := range columnIDs {
		if err := db.Create(&IndexColumnRecord{IndexID: index.ID, ColumnID: col, Ordinal: i}).Error; err != nil {
			return fmt.Errorf("save index «%s» column: %w", index.Name, err)
		}
	}
	return nil
}

// Deletes index record with its columns
func (w *Writer) DeleteIndex(ctx context.Context, indexID ecdef.ID) error {
	db := w.db(ctx)
	if err := db.Where(`"IndexId" = ?`, indexID).Delete(&IndexColumnRecord{}).Error; err != nil {
		return err
	}
	return db.Where(`"Id" = ?`, indexID).Delete(&IndexRecord{}).Error
}

// Sets value of local key
func (w *Writer) SetLocal(ctx context.Context, name, value string) error {
	return w.db(ctx).Save(&LocalRecord{Name: name, Value: value}).Error
}

// Deletes local key
func (w *Writer) DeleteLocal(ctx context.Context, name string) error {
	return w.db(ctx).Where(`"Name" = ?`, name).Delete(&LocalRecord{}).Error
}

// Returns reader of main table space
func (w *Writer) Reader() *Reader { return w.r }

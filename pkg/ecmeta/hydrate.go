/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecmeta

import (
	"context"
	"fmt"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Resolves referenced schema by identifier
type SchemaResolver func(ctx context.Context, id ecdef.ID) (*ecdef.Schema, error)

// Loads schema with all its items from metadata records.
//
// Referenced schemas are resolved by resolve. Returns nil if schema is not found.
func (r *Reader) LoadSchema(ctx context.Context, id ecdef.ID, resolve SchemaResolver) (*ecdef.Schema, error) {
	rec, err := r.SchemaByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	h := &hydrator{
		r:          r,
		ctx:        ctx,
		classes:    map[ecdef.ID]*ecdef.Class{},
		enums:      map[ecdef.ID]*ecdef.Enumeration{},
		units:      map[ecdef.ID]*ecdef.Unit{},
		categories: map[ecdef.ID]*ecdef.PropertyCategory{},
	}
	s, err := h.load(rec, resolve)
	if err != nil {
		return nil, fmt.Errorf("load schema «%s» from «%s»: %w", rec.Name, r.space, err)
	}
	return s, nil
}

type hydrator struct {
	r          *Reader
	ctx        context.Context
	s          *ecdef.Schema
	classes    map[ecdef.ID]*ecdef.Class
	enums      map[ecdef.ID]*ecdef.Enumeration
	units      map[ecdef.ID]*ecdef.Unit
	categories map[ecdef.ID]*ecdef.PropertyCategory
}

func (h *hydrator) load(rec *SchemaRecord, resolve SchemaResolver) (s *ecdef.Schema, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()

	s = ecdef.NewSchema(rec.Name, rec.Alias, rec.Version())
	s.SetID(rec.ID)
	s.SetDescription(rec.Description)
	h.s = s

	if err := h.references(resolve); err != nil {
		return nil, err
	}
	if err := h.items(); err != nil {
		return nil, err
	}
	classRecs, err := h.r.SchemaClasses(h.ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	for _, cr := range classRecs {
		c := s.AddClass(cr.Name, cr.Kind).SetModifier(cr.Modifier).SetDescription(cr.Description)
		c.SetID(cr.ID)
		if c.IsRelationship() {
			c.SetStrength(cr.Strength)
		}
		h.classes[cr.ID] = c
	}
	if err := h.bases(); err != nil {
		return nil, err
	}
	if err := h.constraints(); err != nil {
		return nil, err
	}
	if err := h.properties(); err != nil {
		return nil, err
	}
	if err := h.schemaAndClassAttributes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (h *hydrator) references(resolve SchemaResolver) error {
	refs, err := h.r.SchemaReferences(h.ctx, h.s.ID())
	if err != nil {
		return err
	}
	for _, id := range refs {
		ref, err := resolve(h.ctx, id)
		if err != nil {
			return err
		}
		if ref == nil {
			return ecdef.ErrNotFound("referenced schema #%d", id)
		}
		h.s.AddReference(ref)
		h.indexSchema(ref, map[*ecdef.Schema]bool{})
	}
	return nil
}

// Registers classes and items of referenced schema (transitively) for lookups by identifier
func (h *hydrator) indexSchema(s *ecdef.Schema, seen map[*ecdef.Schema]bool) {
	if seen[s] {
		return
	}
	seen[s] = true
	for _, c := range s.Classes() {
		h.classes[c.ID()] = c
	}
	for _, e := range s.Enumerations() {
		h.enums[e.ID()] = e
	}
	for _, u := range s.Units() {
		h.units[u.ID()] = u
	}
	for _, c := range s.PropertyCategories() {
		h.categories[c.ID()] = c
	}
	for _, r := range s.References() {
		h.indexSchema(r, seen)
	}
}

func (h *hydrator) items() error {
	id := h.s.ID()

	enums, err := findAll[EnumerationRecord](h.r.db(h.ctx, TableEnumeration).Where(`"SchemaId" = ?`, id).Order(`"Id"`))
	if err != nil {
		return err
	}
	for _, er := range enums {
		e := h.s.AddEnumeration(er.Name, er.Type).SetStrict(er.Strict)
		e.SetID(er.ID)
		for _, en := range er.Enumerators {
			e.AddEnumerator(en.Name, en.Value)
		}
		h.enums[er.ID] = e
	}

	units, err := findAll[UnitRecord](h.r.db(h.ctx, TableUnit).Where(`"SchemaId" = ?`, id).Order(`"Id"`))
	if err != nil {
		return err
	}
	for _, ur := range units {
		u := h.s.AddUnit(ur.Name, ur.Definition)
		u.SetID(ur.ID)
		h.units[ur.ID] = u
	}

	formats, err := findAll[FormatRecord](h.r.db(h.ctx, TableFormat).Where(`"SchemaId" = ?`, id).Order(`"Id"`))
	if err != nil {
		return err
	}
	for _, fr := range formats {
		h.s.AddFormat(fr.Name, fr.Spec).SetID(fr.ID)
	}

	cats, err := findAll[PropertyCategoryRecord](h.r.db(h.ctx, TablePropertyCategory).Where(`"SchemaId" = ?`, id).Order(`"Id"`))
	if err != nil {
		return err
	}
	for _, cr := range cats {
		c := h.s.AddPropertyCategory(cr.Name, cr.Priority)
		c.SetID(cr.ID)
		h.categories[cr.ID] = c
	}
	return nil
}

func (h *hydrator) class(id ecdef.ID) (*ecdef.Class, error) {
	if c, ok := h.classes[id]; ok {
		return c, nil
	}
	return nil, ecdef.ErrNotFound("class #%d", id)
}

func (h *hydrator) ownClassIDs() []ecdef.ID {
	ids := make([]ecdef.ID, 0, len(h.s.Classes()))
	for _, c := range h.s.Classes() {
		ids = append(ids, c.ID())
	}
	return ids
}

func (h *hydrator) bases() error {
	ids := h.ownClassIDs()
	if len(ids) == 0 {
		return nil
	}
	recs, err := findAll[ClassHasBaseClassesRecord](h.r.db(h.ctx, TableClassHasBaseClasses).
		Where(`"ClassId" IN ?`, ids).Order(`"ClassId", "Ordinal"`))
	if err != nil {
		return err
	}
	for _, rec := range recs {
		c, err := h.class(rec.ClassID)
		if err != nil {
			return err
		}
		base, err := h.class(rec.BaseClassID)
		if err != nil {
			return fmt.Errorf("%v base: %w", c, err)
		}
		c.AddBase(base)
	}
	return nil
}

func (h *hydrator) constraints() error {
	ids := []ecdef.ID{}
	for _, c := range h.s.Classes() {
		if c.IsRelationship() {
			ids = append(ids, c.ID())
		}
	}
	if len(ids) == 0 {
		return nil
	}
	recs, err := findAll[RelationshipConstraintRecord](h.r.db(h.ctx, TableRelationshipConstraint).
		Where(`"RelationshipClassId" IN ?`, ids).Order(`"Id"`))
	if err != nil {
		return err
	}
	consIDs := make([]ecdef.ID, 0, len(recs))
	for _, rec := range recs {
		consIDs = append(consIDs, rec.ID)
	}
	classRecs, err := findAll[RelationshipConstraintClassRecord](h.r.db(h.ctx, TableRelationshipConstraintClass).
		Where(`"ConstraintId" IN ?`, consIDs).Order(`"ConstraintId", "Ordinal"`))
	if err != nil {
		return err
	}
	consClasses := map[ecdef.ID][]*ecdef.Class{}
	for _, cr := range classRecs {
		c, err := h.class(cr.ClassID)
		if err != nil {
			return fmt.Errorf("constraint #%d: %w", cr.ConstraintID, err)
		}
		consClasses[cr.ConstraintID] = append(consClasses[cr.ConstraintID], c)
	}

	type ends struct{ source, target *ecdef.RelationshipConstraint }
	byRel := map[ecdef.ID]*ends{}
	for _, rec := range recs {
		m := ecdef.Multiplicity{Lower: rec.MultiplicityLower, Upper: rec.MultiplicityUpper}
		cons := ecdef.NewRelationshipConstraint(m, rec.Polymorphic, consClasses[rec.ID]...).SetRoleLabel(rec.RoleLabel)
		e := byRel[rec.RelationshipClassID]
		if e == nil {
			e = &ends{}
			byRel[rec.RelationshipClassID] = e
		}
		if rec.End == ecdef.RelationshipEnd_Source {
			e.source = cons
		} else {
			e.target = cons
		}
	}
	for relID, e := range byRel {
		rel, err := h.class(relID)
		if err != nil {
			return err
		}
		rel.SetConstraints(e.source, e.target)
	}
	return nil
}

func (h *hydrator) properties() error {
	ids := h.ownClassIDs()
	if len(ids) == 0 {
		return nil
	}
	recs, err := findAll[PropertyRecord](h.r.db(h.ctx, TableProperty).
		Where(`"ClassId" IN ?`, ids).Order(`"ClassId", "Ordinal"`))
	if err != nil {
		return err
	}
	propIDs := make([]ecdef.ID, 0, len(recs))
	props := map[ecdef.ID]*ecdef.Property{}
	for _, rec := range recs {
		c, err := h.class(rec.ClassID)
		if err != nil {
			return err
		}
		p, err := h.property(c, rec)
		if err != nil {
			return fmt.Errorf("%v property «%s»: %w", c, rec.Name, err)
		}
		props[rec.ID] = p
		propIDs = append(propIDs, rec.ID)
	}
	cas, err := h.r.customAttributes(h.ctx, ContainerType_Property, propIDs)
	if err != nil {
		return err
	}
	for id, list := range cas {
		for _, ca := range list {
			props[id].SetCustomAttribute(ecdef.MustParseQName(ca.Class), ca.Values)
		}
	}
	return nil
}

func (h *hydrator) property(c *ecdef.Class, rec PropertyRecord) (p *ecdef.Property, err error) {
	switch rec.Kind {
	case ecdef.PropertyKind_Primitive:
		p = c.AddPrimitive(rec.Name, rec.PrimitiveType)
	case ecdef.PropertyKind_PrimitiveArray:
		p = c.AddPrimitiveArray(rec.Name, rec.PrimitiveType)
	case ecdef.PropertyKind_Enumeration:
		e, ok := h.enums[rec.EnumerationID]
		if !ok {
			return nil, ecdef.ErrNotFound("enumeration #%d", rec.EnumerationID)
		}
		p = c.AddEnumeration(rec.Name, e)
	case ecdef.PropertyKind_Struct, ecdef.PropertyKind_StructArray:
		st, err := h.class(rec.StructClassID)
		if err != nil {
			return nil, err
		}
		if rec.Kind == ecdef.PropertyKind_Struct {
			p = c.AddStruct(rec.Name, st)
		} else {
			p = c.AddStructArray(rec.Name, st)
		}
	case ecdef.PropertyKind_Navigation:
		rel, err := h.class(rec.RelationshipID)
		if err != nil {
			return nil, err
		}
		p = c.AddNavigation(rec.Name, rel, rec.Direction)
	default:
		return nil, ecdef.ErrInvalid("property kind %v", rec.Kind)
	}
	p.SetID(rec.ID)
	p.SetDescription(rec.Description)
	if rec.ReadOnly {
		p.SetReadOnly()
	}
	if p.IsArray() {
		p.SetOccurs(rec.MinOccurs, rec.MaxOccurs)
	}
	if rec.CategoryID.IsValid() {
		if cat, ok := h.categories[rec.CategoryID]; ok {
			p.SetCategory(cat)
		}
	}
	if rec.UnitID.IsValid() {
		if u, ok := h.units[rec.UnitID]; ok {
			p.SetUnit(u)
		}
	}
	return p, nil
}

func (h *hydrator) schemaAndClassAttributes() error {
	cas, err := h.r.customAttributes(h.ctx, ContainerType_Schema, []ecdef.ID{h.s.ID()})
	if err != nil {
		return err
	}
	for _, ca := range cas[h.s.ID()] {
		h.s.SetCustomAttribute(ecdef.MustParseQName(ca.Class), ca.Values)
	}

	cas, err = h.r.customAttributes(h.ctx, ContainerType_Class, h.ownClassIDs())
	if err != nil {
		return err
	}
	for id, list := range cas {
		c := h.classes[id]
		for _, ca := range list {
			c.SetCustomAttribute(ecdef.MustParseQName(ca.Class), ca.Values)
		}
	}
	return nil
}

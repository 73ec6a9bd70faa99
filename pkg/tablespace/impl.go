/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package tablespace

import (
	"context"
	"fmt"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
)

type catalog struct {
	r         *ecmeta.Reader
	schemas   map[ecdef.ID]*ecdef.Schema
	classes   map[ecdef.ID]*ecdef.Class
	classMaps map[ecdef.ID]*dbmap.ClassMap
	derived   map[ecdef.ID][]*ecdef.Class
	db        *dbmap.DbSchema
	stats     Stats
}

func (c *catalog) TableSpace() string { return c.r.TableSpace() }

func (c *catalog) Reader() *ecmeta.Reader { return c.r }

func (c *catalog) LocateSchema(ctx context.Context, key ecdef.SchemaKey, match ecdef.SchemaMatchType) (*ecdef.Schema, error) {
	rec, err := c.r.SchemaByName(ctx, key.Name)
	if err != nil || rec == nil {
		return nil, err
	}
	if !key.Matches(ecdef.NewSchemaKey(rec.Name, rec.Version()), match) {
		return nil, nil
	}
	return c.GetSchemaByID(ctx, rec.ID)
}

func (c *catalog) GetSchema(ctx context.Context, name string, mode LookupMode) (*ecdef.Schema, error) {
	var (
		rec *ecmeta.SchemaRecord
		err error
	)
	switch mode {
	case LookupMode_ByName:
		rec, err = c.r.SchemaByName(ctx, name)
	case LookupMode_ByAlias:
		rec, err = c.r.SchemaByAlias(ctx, name)
	default:
		rec, err = c.r.Schema(ctx, name)
	}
	if err != nil || rec == nil {
		return nil, err
	}
	return c.GetSchemaByID(ctx, rec.ID)
}

func (c *catalog) GetSchemaByID(ctx context.Context, id ecdef.ID) (*ecdef.Schema, error) {
	if s, ok := c.schemas[id]; ok {
		return s, nil
	}
	loaded := map[ecdef.ID]*ecdef.Schema{}
	var resolve ecmeta.SchemaResolver
	resolve = func(ctx context.Context, id ecdef.ID) (*ecdef.Schema, error) {
		if s, ok := c.schemas[id]; ok {
			return s, nil
		}
		if s, ok := loaded[id]; ok {
			return s, nil
		}
		s, err := c.r.LoadSchema(ctx, id, resolve)
		if s != nil {
			loaded[id] = s
		}
		return s, err
	}
	s, err := resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	// referenced schemas are inserted only when whole graph is loaded
	for _, ls := range loaded {
		c.schemas[ls.ID()] = ls
		for _, cls := range ls.Classes() {
			c.classes[cls.ID()] = cls
		}
		c.stats.SchemasLoaded++
	}
	return s, nil
}

func (c *catalog) GetSchemas(ctx context.Context) ([]*ecdef.Schema, error) {
	recs, err := c.r.Schemas(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*ecdef.Schema, 0, len(recs))
	for _, rec := range recs {
		s, err := c.GetSchemaByID(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			res = append(res, s)
		}
	}
	return res, nil
}

func (c *catalog) GetClass(ctx context.Context, schema, class string, mode LookupMode) (*ecdef.Class, error) {
	s, err := c.GetSchema(ctx, schema, mode)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Class(class), nil
}

func (c *catalog) GetClassByID(ctx context.Context, id ecdef.ID) (*ecdef.Class, error) {
	if cls, ok := c.classes[id]; ok {
		return cls, nil
	}
	rec, err := c.r.ClassByID(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	s, err := c.GetSchemaByID(ctx, rec.SchemaID)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Class(rec.Name), nil
}

func (c *catalog) GetClassMap(ctx context.Context, class *ecdef.Class) (*dbmap.ClassMap, error) {
	if !class.ID().IsValid() || class.ID().IsVirtual() {
		return nil, errNoSuchClass(class, c.TableSpace())
	}
	if m, ok := c.classMaps[class.ID()]; ok {
		return m, nil
	}
	db, err := c.DbSchema(ctx)
	if err != nil {
		return nil, err
	}
	m, err := dbmap.LoadClassMap(ctx, c.r, db, class)
	if err != nil {
		return nil, fmt.Errorf("load class map of %v from «%s»: %w", class, c.TableSpace(), err)
	}
	if m == nil {
		return nil, nil
	}
	c.classMaps[class.ID()] = m
	c.stats.ClassMapsLoaded++
	return m, nil
}

func (c *catalog) GetDerivedClasses(ctx context.Context, class *ecdef.Class) ([]*ecdef.Class, error) {
	if !class.ID().IsValid() {
		return nil, errNoSuchClass(class, c.TableSpace())
	}
	if d, ok := c.derived[class.ID()]; ok {
		return d, nil
	}
	ids, err := c.r.DerivedClasses(ctx, class.ID())
	if err != nil {
		return nil, ecdef.EnrichError(ErrHierarchyLoad, "derived classes of %v: %v", class, err)
	}
	d := make([]*ecdef.Class, 0, len(ids))
	for _, id := range ids {
		cls, err := c.GetClassByID(ctx, id)
		if err != nil {
			return nil, ecdef.EnrichError(ErrHierarchyLoad, "derived class #%d of %v: %v", id, class, err)
		}
		if cls == nil {
			return nil, ecdef.EnrichError(ErrHierarchyLoad, "derived class #%d of %v not found", id, class)
		}
		d = append(d, cls)
	}
	c.derived[class.ID()] = d
	c.stats.HierarchiesLoaded++
	return d, nil
}

func (c *catalog) GetAllDerivedClasses(ctx context.Context, class *ecdef.Class) ([]*ecdef.Class, error) {
	var res []*ecdef.Class
	seen := map[ecdef.ID]bool{class.ID(): true}
	queue := []*ecdef.Class{class}
	for len(queue) > 0 {
		cls := queue[0]
		queue = queue[1:]
		d, err := c.GetDerivedClasses(ctx, cls)
		if err != nil {
			return nil, err
		}
		for _, dc := range d {
			if !seen[dc.ID()] {
				seen[dc.ID()] = true
				res = append(res, dc)
				queue = append(queue, dc)
			}
		}
	}
	return res, nil
}

func (c *catalog) IsSubClassOf(_ context.Context, sub, base *ecdef.Class) (bool, error) {
	if sub == base {
		return true, nil
	}
	if !sub.ID().IsValid() || !base.ID().IsValid() {
		return false, nil
	}
	return sub.Is(base), nil
}

func (c *catalog) GetEnumeration(ctx context.Context, schema, name string, mode LookupMode) (*ecdef.Enumeration, error) {
	s, err := c.GetSchema(ctx, schema, mode)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Enumeration(name), nil
}

func (c *catalog) GetUnit(ctx context.Context, schema, name string, mode LookupMode) (*ecdef.Unit, error) {
	s, err := c.GetSchema(ctx, schema, mode)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Unit(name), nil
}

func (c *catalog) GetFormat(ctx context.Context, schema, name string, mode LookupMode) (*ecdef.Format, error) {
	s, err := c.GetSchema(ctx, schema, mode)
	if err != nil || s == nil {
		return nil, err
	}
	return s.Format(name), nil
}

func (c *catalog) GetPropertyCategory(ctx context.Context, schema, name string, mode LookupMode) (*ecdef.PropertyCategory, error) {
	s, err := c.GetSchema(ctx, schema, mode)
	if err != nil || s == nil {
		return nil, err
	}
	return s.PropertyCategory(name), nil
}

func (c *catalog) DbSchema(ctx context.Context) (*dbmap.DbSchema, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := dbmap.LoadDbSchema(ctx, c.r)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

func (c *catalog) CacheClassMap(m *dbmap.ClassMap) {
	id := m.Class().ID()
	if !id.IsValid() {
		panic(errNoSuchClass(m.Class(), c.TableSpace()))
	}
	c.classMaps[id] = m
}

func (c *catalog) ClearCache() {
	c.schemas = make(map[ecdef.ID]*ecdef.Schema)
	c.classes = make(map[ecdef.ID]*ecdef.Class)
	c.classMaps = make(map[ecdef.ID]*dbmap.ClassMap)
	c.derived = make(map[ecdef.ID][]*ecdef.Class)
	c.db = nil
}

func (c *catalog) Stats() Stats { return c.stats }

func (c *catalog) String() string { return fmt.Sprintf("table space «%s» catalog", c.TableSpace()) }

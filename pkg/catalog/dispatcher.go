/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
	"github.com/voedger/schemacat/pkg/virtualschemas"
)

// Dispatches schema and class lookups to table space catalogs and virtual catalog.
//
// All methods are safe for concurrent use. Calls are serialized by catalog-wide lock.
type Dispatcher struct {
	mu      sync.Mutex
	store   sqlstore.IStore
	virtual virtualschemas.ICatalog
	engine  ecdef.SchemaVersion

	// attached table space catalogs, main first
	order  []tablespace.ICatalog
	byName map[string]tablespace.ICatalog

	// nil until computed
	unsupported map[*ecdef.Class]bool
}

// Returns main table space catalog
func (d *Dispatcher) Main() tablespace.ICatalog { return d.order[0] }

func (d *Dispatcher) Virtual() virtualschemas.ICatalog { return d.virtual }

func (d *Dispatcher) Store() sqlstore.IStore { return d.store }

// Returns names of attached table spaces in attachment order, main first
func (d *Dispatcher) TableSpaces() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := make([]string, 0, len(d.order))
	for _, c := range d.order {
		res = append(res, c.TableSpace())
	}
	return res
}

// Registers catalog of table space, which is already attached to store.
//
// Returns ErrAlreadyAttached if table space is registered, ErrNotAttachable
// if store does not report table space as attached.
func (d *Dispatcher) Attach(ctx context.Context, tableSpace string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.EqualFold(tableSpace, sqlstore.MainTableSpace) {
		return fmt.Errorf("%w: «%s»", ErrMainTableSpace, tableSpace)
	}
	key := strings.ToLower(tableSpace)
	if _, ok := d.byName[key]; ok {
		return fmt.Errorf("%w: «%s»", ErrAlreadyAttached, tableSpace)
	}
	attached, err := d.store.IsAttached(ctx, tableSpace)
	if err != nil {
		return err
	}
	if !attached {
		return fmt.Errorf("%w: «%s»", ErrNotAttachable, tableSpace)
	}

	c := tablespace.New(d.store, tableSpace)
	d.order = append(d.order, c)
	d.byName[key] = c
	d.unsupported = nil
	d.checkLockstep()
	logger.Info(fmt.Sprintf("table space «%s» catalog registered", tableSpace))
	return nil
}

// Unregisters catalog of table space. Returns ErrNotFound if table space is not registered
func (d *Dispatcher) Detach(_ context.Context, tableSpace string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.EqualFold(tableSpace, sqlstore.MainTableSpace) {
		return fmt.Errorf("%w: «%s»", ErrMainTableSpace, tableSpace)
	}
	key := strings.ToLower(tableSpace)
	c, ok := d.byName[key]
	if !ok {
		return fmt.Errorf("%w: «%s»", ErrNotFound, tableSpace)
	}
	delete(d.byName, key)
	for i, cc := range d.order {
		if cc == c {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.unsupported = nil
	d.checkLockstep()
	logger.Info(fmt.Sprintf("table space «%s» catalog unregistered", tableSpace))
	return nil
}

// Runs mutating operation with main table space catalog under catalog-wide lock.
//
// If fn fails then all caches are cleared.
func (d *Dispatcher) Exclusive(fn func(main tablespace.ICatalog) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := fn(d.Main()); err != nil {
		d.clearCache()
		return err
	}
	return nil
}

// Clears caches of all table space catalogs and unsupported classes set
func (d *Dispatcher) ClearCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearCache()
}

func (d *Dispatcher) clearCache() {
	for _, c := range d.order {
		c.ClearCache()
	}
	d.unsupported = nil
}

// # Panics:
//   - if ordered list and name index are out of sync
func (d *Dispatcher) checkLockstep() {
	if len(d.order) != len(d.byName)+1 {
		panic(fmt.Sprintf("table space catalogs out of sync: %d ordered, %d named", len(d.order), len(d.byName)))
	}
	for _, c := range d.order[1:] {
		if d.byName[strings.ToLower(c.TableSpace())] != c {
			panic(fmt.Sprintf("table space «%s» catalog is not indexed", c.TableSpace())) // notest
		}
	}
}

// Returns catalogs requested by filter
func (d *Dispatcher) catalogs(tableSpace string) ([]tablespace.ICatalog, error) {
	if tableSpace == AnyTableSpace {
		return d.order, nil
	}
	if strings.EqualFold(tableSpace, sqlstore.MainTableSpace) {
		return d.order[:1], nil
	}
	if c, ok := d.byName[strings.ToLower(tableSpace)]; ok {
		return []tablespace.ICatalog{c}, nil
	}
	return nil, fmt.Errorf("%w: «%s»", ErrNotFound, tableSpace)
}

// Returns first non-empty result of get in requested catalogs, then of virtual if table space is any
func forward[T comparable](d *Dispatcher, tableSpace string, get func(tablespace.ICatalog) (T, error), virtual func() T) (res T, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	cats, err := d.catalogs(tableSpace)
	if err != nil {
		return zero, err
	}
	for _, c := range cats {
		if res, err = get(c); err != nil || res != zero {
			return res, err
		}
	}
	if tableSpace == AnyTableSpace && virtual != nil {
		return virtual(), nil
	}
	return zero, nil
}

// Returns catalog, which class was loaded from, nil for virtual classes
func (d *Dispatcher) owner(ctx context.Context, class *ecdef.Class, tableSpace string) (tablespace.ICatalog, error) {
	if class.ID().IsVirtual() || !class.ID().IsValid() {
		return nil, nil
	}
	cats, err := d.catalogs(tableSpace)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		cc, err := c.GetClassByID(ctx, class.ID())
		if err != nil {
			return nil, err
		}
		if cc == class {
			return c, nil
		}
	}
	return nil, nil
}

func (d *Dispatcher) GetSchema(ctx context.Context, name string, mode tablespace.LookupMode, tableSpace string) (*ecdef.Schema, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.Schema, error) { return c.GetSchema(ctx, name, mode) },
		func() *ecdef.Schema {
			s := d.virtual.Schema(name)
			if s == nil || !virtualMatches(s, name, mode) {
				return nil
			}
			return s
		})
}

func (d *Dispatcher) GetSchemaByID(ctx context.Context, id ecdef.ID, tableSpace string) (*ecdef.Schema, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.Schema, error) { return c.GetSchemaByID(ctx, id) },
		func() *ecdef.Schema { return d.virtual.SchemaByID(id) })
}

func (d *Dispatcher) LocateSchema(ctx context.Context, key ecdef.SchemaKey, match ecdef.SchemaMatchType, tableSpace string) (*ecdef.Schema, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.Schema, error) { return c.LocateSchema(ctx, key, match) },
		func() *ecdef.Schema { return d.virtual.LocateSchema(key, match) })
}

// Returns schemas of requested table spaces. Schemas of the same name from later table spaces are skipped
func (d *Dispatcher) GetSchemas(ctx context.Context, tableSpace string) ([]*ecdef.Schema, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cats, err := d.catalogs(tableSpace)
	if err != nil {
		return nil, err
	}
	var res []*ecdef.Schema
	seen := map[string]bool{}
	add := func(s *ecdef.Schema) {
		if key := strings.ToLower(s.Name()); !seen[key] {
			seen[key] = true
			res = append(res, s)
		}
	}
	for _, c := range cats {
		schemas, err := c.GetSchemas(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range schemas {
			add(s)
		}
	}
	if tableSpace == AnyTableSpace {
		for _, s := range d.virtual.Schemas() {
			add(s)
		}
	}
	return res, nil
}

func (d *Dispatcher) GetClass(ctx context.Context, schema, class string, mode tablespace.LookupMode, tableSpace string) (*ecdef.Class, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.Class, error) { return c.GetClass(ctx, schema, class, mode) },
		func() *ecdef.Class {
			s := d.virtual.Schema(schema)
			if s == nil || !virtualMatches(s, schema, mode) {
				return nil
			}
			return s.Class(class)
		})
}

func (d *Dispatcher) GetClassByID(ctx context.Context, id ecdef.ID, tableSpace string) (*ecdef.Class, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.Class, error) { return c.GetClassByID(ctx, id) },
		func() *ecdef.Class { return d.virtual.ClassByID(id) })
}

// Returns class map of class from table space the class was loaded from. Virtual classes have no class map
func (d *Dispatcher) GetClassMap(ctx context.Context, class *ecdef.Class, tableSpace string) (*dbmap.ClassMap, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.owner(ctx, class, tableSpace)
	if err != nil || c == nil {
		return nil, err
	}
	return c.GetClassMap(ctx, class)
}

func (d *Dispatcher) GetDerivedClasses(ctx context.Context, class *ecdef.Class, tableSpace string) ([]*ecdef.Class, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.owner(ctx, class, tableSpace)
	if err != nil || c == nil {
		return nil, err
	}
	return c.GetDerivedClasses(ctx, class)
}

func (d *Dispatcher) GetAllDerivedClasses(ctx context.Context, class *ecdef.Class, tableSpace string) ([]*ecdef.Class, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.owner(ctx, class, tableSpace)
	if err != nil || c == nil {
		return nil, err
	}
	return c.GetAllDerivedClasses(ctx, class)
}

// Returns is sub derives from base. Classes from different table spaces are never related
func (d *Dispatcher) IsSubClassOf(ctx context.Context, sub, base *ecdef.Class, tableSpace string) (bool, error) {
	if sub == base {
		return true, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	c, err := d.owner(ctx, sub, tableSpace)
	if err != nil || c == nil {
		return false, err
	}
	return c.IsSubClassOf(ctx, sub, base)
}

func (d *Dispatcher) GetEnumeration(ctx context.Context, schema, name string, mode tablespace.LookupMode, tableSpace string) (*ecdef.Enumeration, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.Enumeration, error) { return c.GetEnumeration(ctx, schema, name, mode) },
		func() *ecdef.Enumeration {
			if s := d.virtual.Schema(schema); s != nil && virtualMatches(s, schema, mode) {
				return s.Enumeration(name)
			}
			return nil
		})
}

func (d *Dispatcher) GetUnit(ctx context.Context, schema, name string, mode tablespace.LookupMode, tableSpace string) (*ecdef.Unit, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.Unit, error) { return c.GetUnit(ctx, schema, name, mode) },
		func() *ecdef.Unit {
			if s := d.virtual.Schema(schema); s != nil && virtualMatches(s, schema, mode) {
				return s.Unit(name)
			}
			return nil
		})
}

func (d *Dispatcher) GetFormat(ctx context.Context, schema, name string, mode tablespace.LookupMode, tableSpace string) (*ecdef.Format, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.Format, error) { return c.GetFormat(ctx, schema, name, mode) },
		func() *ecdef.Format {
			if s := d.virtual.Schema(schema); s != nil && virtualMatches(s, schema, mode) {
				return s.Format(name)
			}
			return nil
		})
}

func (d *Dispatcher) GetPropertyCategory(ctx context.Context, schema, name string, mode tablespace.LookupMode, tableSpace string) (*ecdef.PropertyCategory, error) {
	return forward(d, tableSpace,
		func(c tablespace.ICatalog) (*ecdef.PropertyCategory, error) {
			return c.GetPropertyCategory(ctx, schema, name, mode)
		},
		func() *ecdef.PropertyCategory {
			if s := d.virtual.Schema(schema); s != nil && virtualMatches(s, schema, mode) {
				return s.PropertyCategory(name)
			}
			return nil
		})
}

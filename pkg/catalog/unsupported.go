/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package catalog

import (
	"context"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/tablespace"
)

// Returns is class declared incompatible with running engine version
func (d *Dispatcher) IsClassUnsupported(ctx context.Context, class *ecdef.Class) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureUnsupported(ctx); err != nil {
		return false, err
	}
	return d.unsupported[class], nil
}

// Returns all unsupported entity and relationship classes of attached table spaces
func (d *Dispatcher) UnsupportedClasses(ctx context.Context) ([]*ecdef.Class, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureUnsupported(ctx); err != nil {
		return nil, err
	}
	res := make([]*ecdef.Class, 0, len(d.unsupported))
	for _, c := range d.order {
		schemas, err := c.GetSchemas(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range schemas {
			for _, cls := range s.Classes() {
				if d.unsupported[cls] {
					res = append(res, cls)
				}
			}
		}
	}
	return res, nil
}

func (d *Dispatcher) ensureUnsupported(ctx context.Context) error {
	if d.unsupported != nil {
		return nil
	}
	res := map[*ecdef.Class]bool{}
	for _, c := range d.order {
		if err := collectUnsupported(ctx, c, d.engine, res); err != nil {
			return fmt.Errorf("collect unsupported classes of «%s»: %w", c.TableSpace(), err)
		}
	}
	d.unsupported = res
	if len(res) > 0 {
		logger.Warning(fmt.Sprintf("%d classes require engine newer than %v", len(res), d.engine))
	}
	return nil
}

type customAttributed interface {
	CustomAttribute(ecdef.QName) *ecdef.CustomAttribute
	CustomAttributes() []*ecdef.CustomAttribute
}

// Returns is item requires engine newer than engine
func requiresNewer(item customAttributed, engine ecdef.SchemaVersion) bool {
	ca := item.CustomAttribute(ecdef.CAImportRequiresVersion)
	if ca == nil {
		return false
	}
	v, err := ecdef.ParseSchemaVersion(ca.String(ecdef.CAPropEngineVersion))
	if err != nil {
		return true
	}
	return v.Compare(engine) > 0
}

// Returns is item carries any custom attribute of incompatible class
func consumesAny(item customAttributed, incompatible map[ecdef.QName]bool) bool {
	for _, ca := range item.CustomAttributes() {
		if incompatible[ca.Class()] {
			return true
		}
	}
	return false
}

// Adds unsupported classes of table space to res.
//
// Custom attribute classes become incompatible if they require newer engine or carry
// incompatible custom attribute; worklist propagates incompatibility until fixed point.
// Entity and relationship classes, which require newer engine or carry incompatible
// custom attribute, are unsupported with all their derived entity and relationship classes.
func collectUnsupported(ctx context.Context, c tablespace.ICatalog, engine ecdef.SchemaVersion, res map[*ecdef.Class]bool) error {
	schemas, err := c.GetSchemas(ctx)
	if err != nil {
		return err
	}

	var caClasses, mapped []*ecdef.Class
	for _, s := range schemas {
		for _, cls := range s.Classes() {
			switch {
			case cls.IsCustomAttribute():
				caClasses = append(caClasses, cls)
			case cls.IsEntity(), cls.IsRelationship():
				mapped = append(mapped, cls)
			}
		}
	}

	incompatible := map[ecdef.QName]bool{}
	queue := []*ecdef.Class{}
	for _, ca := range caClasses {
		if requiresNewer(ca, engine) {
			incompatible[ca.QName()] = true
			queue = append(queue, ca)
		}
	}
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		for _, ca := range caClasses {
			if !incompatible[ca.QName()] && ca.HasCustomAttribute(q.QName()) {
				incompatible[ca.QName()] = true
				queue = append(queue, ca)
			}
		}
	}

	for _, cls := range mapped {
		if res[cls] || !(requiresNewer(cls, engine) || consumesAny(cls, incompatible)) {
			continue
		}
		res[cls] = true
		derived, err := c.GetAllDerivedClasses(ctx, cls)
		if err != nil {
			return err
		}
		for _, dc := range derived {
			if dc.IsEntity() || dc.IsRelationship() {
				res[dc] = true
			}
		}
	}
	return nil
}

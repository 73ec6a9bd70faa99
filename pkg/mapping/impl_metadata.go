/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/schemacompat"
	"github.com/voedger/schemacat/pkg/tablespace"
)

// Writes schema definitions in references order and reloads them from main table space.
//
// Schemas, which are not newer than persisted ones, are not written, they adopt
// identifiers of persisted schemas to let other schemas reference them.
func (e *engine) writeSchemas(ctx context.Context, main tablespace.ICatalog, w *ecmeta.Writer, schemas []*ecdef.Schema,
	opts ImportOptions, res *ImportResult) ([]*ecdef.Schema, error) {

	sorted := ecdef.SortByReferences(schemas)
	for _, s := range sorted {
		prev, err := main.GetSchema(ctx, s.Name(), tablespace.LookupMode_ByName)
		if err != nil {
			return nil, err
		}
		action := SchemaAction_Inserted
		switch {
		case prev == nil:
			err = w.SaveSchema(ctx, s, nil)
		case s.Version().Compare(prev.Version()) < 0:
			action = SchemaAction_SkippedOlder
			adoptIDs(s, prev)
		case s.Version().Compare(prev.Version()) == 0:
			action = SchemaAction_UpToDate
			adoptIDs(s, prev)
		default:
			action = SchemaAction_Upgraded
			if err = checkUpgrade(prev, s, opts.AllowMajorSchemaUpgrade); err == nil {
				err = upgradeSchema(ctx, w, s, prev)
			}
		}
		if err != nil {
			return nil, err
		}
		if action == SchemaAction_SkippedOlder {
			logger.Warning(fmt.Sprintf("schema «%s» %v is skipped, %v is persisted", s.Name(), s.Version(), prev.Version()))
		} else {
			logger.Verbose(fmt.Sprintf("schema «%s» %v: %v", s.Name(), s.Version(), action))
		}
		res.Schemas = append(res.Schemas, SchemaImport{Name: s.Name(), Version: s.Version(), Action: action})
	}

	main.ClearCache()
	persisted := make([]*ecdef.Schema, 0, len(sorted))
	for _, s := range sorted {
		p, err := main.GetSchema(ctx, s.Name(), tablespace.LookupMode_ByName)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ecdef.ErrSchemaNotFound(s.Key()) // notest
		}
		persisted = append(persisted, p)
	}
	return persisted, nil
}

// Returns ErrMajorSchemaUpgrade if upgrade of prev to s changes read version or removes
// or changes persisted definitions, and neither allowMajor is set nor schema is dynamic
func checkUpgrade(prev, s *ecdef.Schema, allowMajor bool) error {
	if allowMajor || s.IsDynamic() {
		return nil
	}
	if s.Version().Read > prev.Version().Read {
		return fmt.Errorf("%w: schema «%s» read version %v → %v", ErrMajorSchemaUpgrade, s.Name(), prev.Version(), s.Version())
	}
	if err := schemacompat.CheckBackwardCompatibility(prev, s).AsError(); err != nil {
		return fmt.Errorf("%w: schema «%s» %v → %v: %w", ErrMajorSchemaUpgrade, s.Name(), prev.Version(), s.Version(), err)
	}
	return nil
}

// Replaces prev schema definition by s. Class maps of removed classes are deleted
func upgradeSchema(ctx context.Context, w *ecmeta.Writer, s, prev *ecdef.Schema) error {
	if err := w.SaveSchema(ctx, s, prev); err != nil {
		return err
	}
	for _, c := range prev.Classes() {
		if s.Class(c.Name()) == nil {
			if err := w.DeleteClassMap(ctx, c.ID()); err != nil {
				return fmt.Errorf("delete class map of removed %v: %w", c, err)
			}
		}
	}
	return nil
}

// Copies identifiers of persisted schema items to items of s with the same names
func adoptIDs(s, persisted *ecdef.Schema) {
	s.SetID(persisted.ID())
	for _, c := range s.Classes() {
		pc := persisted.Class(c.Name())
		if pc == nil {
			continue
		}
		c.SetID(pc.ID())
		for _, p := range c.Properties() {
			if pp := pc.Property(p.Name()); pp != nil {
				p.SetID(pp.ID())
			}
		}
	}
	for _, en := range s.Enumerations() {
		if pe := persisted.Enumeration(en.Name()); pe != nil {
			en.SetID(pe.ID())
		}
	}
	for _, u := range s.Units() {
		if pu := persisted.Unit(u.Name()); pu != nil {
			u.SetID(pu.ID())
		}
	}
	for _, f := range s.Formats() {
		if pf := persisted.Format(f.Name()); pf != nil {
			f.SetID(pf.ID())
		}
	}
	for _, pc := range s.PropertyCategories() {
		if ppc := persisted.PropertyCategory(pc.Name()); ppc != nil {
			pc.SetID(ppc.ID())
		}
	}
}

// Resolves schema references by table space catalog
type catalogLocater struct {
	ctx context.Context
	c   tablespace.ICatalog
}

func (l catalogLocater) LocateSchema(key ecdef.SchemaKey, match ecdef.SchemaMatchType) *ecdef.Schema {
	s, err := l.c.LocateSchema(l.ctx, key, match)
	if err != nil {
		logger.Error(fmt.Sprintf("locate schema %v in «%s»: %v", key, l.c.TableSpace(), err))
		return nil
	}
	return s
}

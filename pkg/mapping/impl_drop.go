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
	"github.com/voedger/schemacat/pkg/tablespace"
)

func (e *engine) DropSchemas(ctx context.Context, names []string, opts DropOptions, token, syncLocation string) (res *DropResult, err error) {
	if err := e.checkPreconditions(token, len(names)); err != nil {
		return nil, err
	}

	var pushErr error
	err = e.d.Exclusive(func(main tablespace.ICatalog) error {
		syncing, err := e.syncEnabled(ctx, syncLocation)
		if err != nil {
			return err
		}
		if res, err = e.dropSchemas(ctx, main, names, opts); err != nil {
			return err
		}
		if syncing {
			if err := e.params.Sync.Push(ctx, syncLocation, nil, res.Schemas); err != nil {
				pushErr = fmt.Errorf("%w: %w", ErrSyncPush, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("%d schemas dropped, %d tables purged", len(res.Schemas), len(res.PurgedTables)))
	return res, pushErr
}

func (e *engine) dropSchemas(ctx context.Context, main tablespace.ICatalog, names []string, opts DropOptions) (res *DropResult, err error) {
	sp, err := e.store.Savepoint(ctx, dropSavepoint)
	if err != nil {
		return nil, err
	}
	e.store.IDs().Reset()
	defer func() {
		if err != nil {
			if rbErr := sp.Rollback(ctx); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
			e.store.IDs().Reset()
		}
	}()

	var dynamic map[ecdef.ID]bool
	if !opts.AllowMajorSchemaUpgrade {
		if dynamic, err = dynamicTables(ctx, main); err != nil {
			return nil, err
		}
	}

	schemas, err := resolveDropped(ctx, main, names)
	if err != nil {
		return nil, err
	}

	res = &DropResult{}
	w := ecmeta.NewWriter(e.store)
	db, err := main.DbSchema(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range schemas {
		for _, c := range s.Classes() {
			for _, idx := range db.ClassIndexes(c.ID()) {
				db.RemoveIndex(idx)
				if err := e.store.ExecDDL(ctx, fmt.Sprintf(`DROP INDEX IF EXISTS "%s"`, idx.Name())); err != nil {
					return nil, fmt.Errorf("drop %v: %w", idx, err)
				}
				res.IndexesDropped = append(res.IndexesDropped, idx.Name())
			}
		}
	}
	if err := dbmap.SaveDbSchema(ctx, w, db); err != nil {
		return nil, err
	}

	sorted := ecdef.SortByReferences(schemas)
	for i := len(sorted) - 1; i >= 0; i-- {
		s := sorted[i]
		if err := w.DeleteSchema(ctx, s.ID()); err != nil {
			return nil, fmt.Errorf("delete schema «%s»: %w", s.Name(), err)
		}
		res.Schemas = append(res.Schemas, s.Name())
		logger.Verbose(fmt.Sprintf("schema «%s» deleted", s.Name()))
	}

	main.ClearCache()
	if db, err = main.DbSchema(ctx); err != nil {
		return nil, err
	}
	if res.PurgedTables, err = e.purgeOrphans(ctx, main, w, db, opts.AllowMajorSchemaUpgrade, dynamic); err != nil {
		return nil, err
	}
	if err := e.regenerateViews(ctx, main); err != nil {
		return nil, fmt.Errorf("generate class views: %w", err)
	}
	if err := e.validateLayout(ctx, db); err != nil {
		return nil, err
	}
	if err := sp.Release(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// Returns persisted schemas by names. Schemas, which are referenced by schemas not being dropped, can not be dropped
func resolveDropped(ctx context.Context, main tablespace.ICatalog, names []string) ([]*ecdef.Schema, error) {
	schemas := make([]*ecdef.Schema, 0, len(names))
	ids := make(map[ecdef.ID]bool, len(names))
	for _, name := range names {
		s, err := main.GetSchema(ctx, name, tablespace.LookupMode_ByName)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("%w: «%s»", ErrSchemaNotFound, name)
		}
		if !ids[s.ID()] {
			ids[s.ID()] = true
			schemas = append(schemas, s)
		}
	}
	for _, s := range schemas {
		refs, err := main.Reader().ReferencingSchemas(ctx, s.ID())
		if err != nil {
			return nil, err
		}
		for _, id := range refs {
			if ids[id] {
				continue
			}
			by, err := main.GetSchemaByID(ctx, id)
			if err != nil {
				return nil, err
			}
			name := fmt.Sprintf("#%d", id)
			if by != nil {
				name = by.Name()
			}
			return nil, fmt.Errorf("%w: «%s» is referenced by «%s»", ErrSchemaReferenced, s.Name(), name)
		}
	}
	return schemas, nil
}

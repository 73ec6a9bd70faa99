/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
)

// Drops tables, which no class is mapped to, with their joined and overflow tables.
// Existing tables are forgotten, not dropped.
//
// Unless allowMajor is set, only tables of dynamic schemas may be dropped. Returns names of dropped tables
func (e *engine) purgeOrphans(ctx context.Context, main tablespace.ICatalog, w *ecmeta.Writer, db *dbmap.DbSchema,
	allowMajor bool, dynamic map[ecdef.ID]bool) ([]string, error) {

	orphan := make(map[*dbmap.Table]bool)
	var orphans []*dbmap.Table
	mark := func(t *dbmap.Table) {
		if !orphan[t] {
			orphan[t] = true
			orphans = append(orphans, t)
		}
	}
	for _, t := range db.Tables() {
		if orphan[t] {
			continue
		}
		ids, err := main.Reader().ClassesMappedToTable(ctx, t.ID())
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			continue
		}
		mark(t)
		for _, d := range db.DescendantTables(t) {
			mark(d)
		}
	}
	if len(orphans) == 0 {
		return nil, nil
	}

	if !allowMajor {
		for _, t := range orphans {
			if t.IsOwned() && !dynamic[t.ID()] {
				return nil, fmt.Errorf("%w: %v", ErrPurgeRequiresMajorUpgrade, t)
			}
		}
	}

	ordered := parentsFirst(orphans)
	var purged []string
	for i := len(ordered) - 1; i >= 0; i-- {
		t := ordered[i]
		if t.IsOwned() {
			if err := e.store.ExecDDL(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, t.Name())); err != nil {
				return nil, fmt.Errorf("drop %v: %w", t, err)
			}
			purged = append(purged, t.Name())
			logger.Verbose(fmt.Sprintf("%v dropped", t))
		}
		db.RemoveTable(t)
	}
	if err := dbmap.SaveDbSchema(ctx, w, db); err != nil {
		return nil, err
	}
	if err := w.DeleteUnusedPropertyPaths(ctx); err != nil {
		return nil, err
	}
	return purged, nil
}

// Checks that persisted tables and columns of physical model exist in store
func (e *engine) validateLayout(ctx context.Context, db *dbmap.DbSchema) error {
	for _, t := range db.Tables() {
		if t.IsVirtual() {
			continue
		}
		ok, err := e.store.TableExists(ctx, sqlstore.MainTableSpace, t.Name())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %v does not exist", ErrLayoutInvalid, t)
		}
		cols, err := e.store.TableColumns(ctx, sqlstore.MainTableSpace, t.Name())
		if err != nil {
			return err
		}
		actual := make(map[string]bool, len(cols))
		for _, c := range cols {
			actual[strings.ToLower(c)] = true
		}
		for _, c := range t.Columns() {
			if !c.IsVirtual() && !actual[strings.ToLower(c.Name())] {
				return fmt.Errorf("%w: %v does not exist", ErrLayoutInvalid, c)
			}
		}
	}
	return nil
}

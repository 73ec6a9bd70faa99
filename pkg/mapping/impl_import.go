/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"errors"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/datatransform"
	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
)

func (e *engine) ImportSchemas(ctx context.Context, schemas []*ecdef.Schema, opts ImportOptions, token, syncLocation string) (res *ImportResult, err error) {
	if err := e.checkPreconditions(token, len(schemas)); err != nil {
		return nil, err
	}
	if err := checkEngineVersion(schemas); err != nil {
		return nil, err
	}

	var pushErr error
	err = e.d.Exclusive(func(main tablespace.ICatalog) error {
		syncing, err := e.syncEnabled(ctx, syncLocation)
		if err != nil {
			return err
		}
		var imported []*ecdef.Schema
		if res, imported, err = e.importSchemas(ctx, main, schemas, opts, token, syncLocation, syncing); err != nil {
			return err
		}
		if syncing {
			if err := e.params.Sync.Push(ctx, syncLocation, imported, nil); err != nil {
				pushErr = fmt.Errorf("%w: %w", ErrSyncPush, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("%d schemas imported, %d classes mapped, %d tables purged", len(res.Schemas), len(res.MappedClasses), len(res.PurgedTables)))
	return res, pushErr
}

// Runs import steps inside savepoint. Returns result and imported schemas as persisted
func (e *engine) importSchemas(ctx context.Context, main tablespace.ICatalog, schemas []*ecdef.Schema, opts ImportOptions,
	token, syncLocation string, syncing bool) (res *ImportResult, imported []*ecdef.Schema, err error) {

	sp, err := e.store.Savepoint(ctx, importSavepoint)
	if err != nil {
		return nil, nil, err
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

	if syncing {
		locaters := []ecdef.SchemaLocater{ecdef.NewSchemaCache(schemas...), catalogLocater{ctx, main}, e.d.Virtual()}
		pulled, err := e.params.Sync.Pull(ctx, syncLocation, token, locaters...)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrSyncPull, err)
		}
		schemas = mergePulled(schemas, pulled)
	}

	var dynamic map[ecdef.ID]bool
	if !opts.AllowMajorSchemaUpgrade {
		if dynamic, err = dynamicTables(ctx, main); err != nil {
			return nil, nil, err
		}
	}

	res = &ImportResult{Tables: make(map[string]TableStatus), Transform: datatransform.New()}
	w := ecmeta.NewWriter(e.store)

	if imported, err = e.writeSchemas(ctx, main, w, schemas, opts, res); err != nil {
		return nil, nil, fmt.Errorf("write schemas: %w", err)
	}

	db, err := main.DbSchema(ctx)
	if err != nil {
		return nil, nil, err
	}
	m := newMapper(e, main, w, db)
	if err := m.mapSchemas(ctx, imported); err != nil {
		return nil, nil, fmt.Errorf("map classes: %w", err)
	}
	for _, cm := range m.order {
		res.MappedClasses = append(res.MappedClasses, cm.Class().QName())
	}
	if err := m.checkLimits(); err != nil {
		return nil, nil, err
	}
	if err := m.updateTables(ctx, res); err != nil {
		return nil, nil, fmt.Errorf("update tables: %w", err)
	}
	changes, err := m.updateIndexes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("update indexes: %w", err)
	}
	res.IndexesCreated, res.IndexesDropped, res.IndexesSkipped = changes.created, changes.dropped, changes.skipped
	if err := m.save(ctx); err != nil {
		return nil, nil, fmt.Errorf("save mapping: %w", err)
	}

	m.recordOverflowSweep(res.Transform)
	if !opts.DeferDataTransform {
		if err := res.Transform.Run(ctx, e.store); err != nil {
			return nil, nil, err
		}
	}

	if res.PurgedTables, err = e.purgeOrphans(ctx, main, w, db, opts.AllowMajorSchemaUpgrade, dynamic); err != nil {
		return nil, nil, err
	}

	if opts.GenerateClassViews {
		if err := w.SetLocal(ctx, ecmeta.LocalGenerateClassViews, "true"); err != nil {
			return nil, nil, err
		}
	}
	if err := e.regenerateViews(ctx, main); err != nil {
		return nil, nil, fmt.Errorf("generate class views: %w", err)
	}

	if err := e.validateLayout(ctx, db); err != nil {
		return nil, nil, err
	}

	if err := sp.Release(ctx); err != nil {
		return nil, nil, err
	}
	return res, imported, nil
}

// Checks token, store mode, operation arguments and store profile.
func (e *engine) checkPreconditions(token string, items int) error {
	if err := e.params.Validator.Validate(token); err != nil {
		return fmt.Errorf("%w: %w", ErrNotAuthorized, err)
	}
	if e.store.ReadOnly() {
		return sqlstore.ErrReadOnly
	}
	if items == 0 {
		return ErrNoSchemas
	}
	supported := ecdef.MustParseSchemaVersion(ecmeta.ProfileVersion)
	if v := e.store.ProfileVersion(); v.Compare(supported) > 0 {
		return fmt.Errorf("%w: store profile %v, supported %v", sqlstore.ErrProfileTooNew, v, supported)
	}
	return nil
}

// Returns is synchronization with shared schema store enabled. Location is checked against established one
func (e *engine) syncEnabled(ctx context.Context, location string) (bool, error) {
	if e.params.Sync == nil {
		if location != "" {
			return false, fmt.Errorf("shared schema store «%s» is specified, but synchronization is not supported", location)
		}
		return false, nil
	}
	if err := e.params.Sync.CheckLocation(ctx, location); err != nil {
		return false, err
	}
	disabled, err := e.params.Sync.IsDisabled(ctx)
	return !disabled, err
}

// Returns error if any schema or class requires engine newer than ecdef.EngineVersion
func checkEngineVersion(schemas []*ecdef.Schema) error {
	for _, s := range schemas {
		if v, ok := requiresNewerEngine(s); ok {
			return fmt.Errorf("%w: schema «%s» requires %v, engine is %v", ErrEngineTooOld, s.Name(), v, ecdef.EngineVersion)
		}
		for _, c := range s.Classes() {
			if v, ok := requiresNewerEngine(c); ok {
				return fmt.Errorf("%w: %v requires %v, engine is %v", ErrEngineTooOld, c, v, ecdef.EngineVersion)
			}
		}
	}
	return nil
}

// Returns engine version required by item and is it newer than running engine.
// Unparsable version is treated as newer
func requiresNewerEngine(item ecdef.IWithCustomAttributes) (ecdef.SchemaVersion, bool) {
	ca := item.CustomAttribute(ecdef.CAImportRequiresVersion)
	if ca == nil {
		return ecdef.SchemaVersion{}, false
	}
	v, err := ecdef.ParseSchemaVersion(ca.String(ecdef.CAPropEngineVersion))
	if err != nil {
		return v, true
	}
	return v, v.Compare(ecdef.EngineVersion) > 0
}

// Returns schemas with pulled ones: pulled schema replaces older schema with the same name
func mergePulled(schemas, pulled []*ecdef.Schema) []*ecdef.Schema {
	res := append([]*ecdef.Schema(nil), schemas...)
	for _, p := range pulled {
		found := false
		for i, s := range res {
			if s.NameOrAliasIs(p.Name()) {
				found = true
				if p.Version().Compare(s.Version()) > 0 {
					res[i] = p
				}
				break
			}
		}
		if !found {
			res = append(res, p)
		}
	}
	return res
}

// Returns for each owned table of main table space: are all classes mapped to table of dynamic schemas
func dynamicTables(ctx context.Context, main tablespace.ICatalog) (map[ecdef.ID]bool, error) {
	db, err := main.DbSchema(ctx)
	if err != nil {
		return nil, err
	}
	res := make(map[ecdef.ID]bool)
	for _, t := range db.Tables() {
		if !t.IsOwned() {
			continue
		}
		ids, err := main.Reader().ClassesMappedToTable(ctx, t.ID())
		if err != nil {
			return nil, err
		}
		dynamic := len(ids) > 0
		for _, id := range ids {
			c, err := main.GetClassByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if c == nil || !c.Schema().IsDynamic() {
				dynamic = false
				break
			}
		}
		res[t.ID()] = dynamic
	}
	return res, nil
}

// Returns tables ordered so that parent tables precede their children
func parentsFirst(tables []*dbmap.Table) []*dbmap.Table {
	inSet := make(map[*dbmap.Table]bool, len(tables))
	for _, t := range tables {
		inSet[t] = true
	}
	res := make([]*dbmap.Table, 0, len(tables))
	placed := make(map[*dbmap.Table]bool, len(tables))
	for len(res) < len(tables) {
		for _, t := range tables {
			if placed[t] {
				continue
			}
			if p := t.Parent(); p == nil || !inSet[p] || placed[p] {
				placed[t] = true
				res = append(res, t)
			}
		}
	}
	return res
}

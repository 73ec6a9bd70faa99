/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/catalog"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/mapping"
	"github.com/voedger/schemacat/pkg/schemasync"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
)

// Returns catalog dispatcher of store
func (db *DB) Catalog() *catalog.Dispatcher { return db.d }

func (db *DB) Store() sqlstore.IStore { return db.store }

// Imports schemas, see mapping.IEngine
func (db *DB) ImportSchemas(ctx context.Context, schemas []*ecdef.Schema, opts mapping.ImportOptions, token, syncLocation string) (*mapping.ImportResult, error) {
	return db.engine.ImportSchemas(ctx, schemas, opts, token, syncLocation)
}

// Reads schemas from YAML documents and imports them.
// References are resolved by read schemas, then by main table space and virtual schemas
func (db *DB) ImportYAML(ctx context.Context, r io.Reader, opts mapping.ImportOptions, token, syncLocation string) (*mapping.ImportResult, error) {
	schemas, err := ecdef.ReadSchemasYAML(r, db.Locater(ctx), db.d.Virtual())
	if err != nil {
		return nil, err
	}
	return db.ImportSchemas(ctx, schemas, opts, token, syncLocation)
}

// Drops schemas, see mapping.IEngine
func (db *DB) DropSchemas(ctx context.Context, names []string, opts mapping.DropOptions, token, syncLocation string) (*mapping.DropResult, error) {
	return db.engine.DropSchemas(ctx, names, opts, token, syncLocation)
}

// Returns schemas of table space. Use catalog.AnyTableSpace for schemas of all attached table spaces
func (db *DB) Schemas(ctx context.Context, tableSpace string) ([]*ecdef.Schema, error) {
	return db.d.GetSchemas(ctx, tableSpace)
}

// Returns schema locater over main table space
func (db *DB) Locater(ctx context.Context) ecdef.SchemaLocater {
	return mainLocater{ctx: ctx, main: db.d.Main()}
}

// Attaches store file as table space and registers its catalog.
//
// Store attachment is reverted if catalog can not be registered
func (db *DB) AttachTableSpace(ctx context.Context, path, tableSpace string) error {
	if err := db.store.Attach(ctx, path, tableSpace); err != nil {
		return err
	}
	if err := db.d.Attach(ctx, tableSpace); err != nil {
		if detachErr := db.store.Detach(ctx, tableSpace); detachErr != nil {
			err = errors.Join(err, detachErr)
		}
		return err
	}
	logger.Info(fmt.Sprintf("«%s» attached as «%s»", path, tableSpace))
	return nil
}

// Unregisters table space catalog and detaches store file
func (db *DB) DetachTableSpace(ctx context.Context, tableSpace string) error {
	if err := db.d.Detach(ctx, tableSpace); err != nil {
		return err
	}
	if err := db.store.Detach(ctx, tableSpace); err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("«%s» detached", tableSpace))
	return nil
}

// Issues import token valid for duration.
//
// Returns ErrNoTokenSecret if database is opened without token secret
func (db *DB) IssueImportToken(duration time.Duration) (string, error) {
	if db.issuer == nil {
		return "", ErrNoTokenSecret
	}
	return db.issuer.Issue(duration)
}

// Establishes shared schema store location
func (db *DB) InitSync(ctx context.Context, location string) error {
	return db.sync.Init(ctx, location)
}

// Returns synchronization state. Returns false if store is not synchronized
func (db *DB) SyncInfo(ctx context.Context) (schemasync.LocalInfo, bool, error) {
	return db.sync.LocalInfo(ctx)
}

func (db *DB) Close() error {
	db.d.ClearCache()
	return db.store.Close()
}

type mainLocater struct {
	ctx  context.Context
	main tablespace.ICatalog
}

func (l mainLocater) LocateSchema(key ecdef.SchemaKey, match ecdef.SchemaMatchType) *ecdef.Schema {
	s, err := l.main.LocateSchema(l.ctx, key, match)
	if err != nil {
		logger.Error(fmt.Sprintf("locate schema %v: %v", key, err))
		return nil
	}
	return s
}

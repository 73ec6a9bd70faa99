/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Imports and drops schemas of main table space.
//
// Operations hold catalog-wide lock for their full duration. Any failed operation
// rolls back storage changes and clears catalog caches.
type IEngine interface {
	// Imports schemas: writes definitions, maps classes, updates tables and indexes,
	// purges orphan tables and synchronizes with shared schema store.
	//
	// Errors:
	//   - ErrNotAuthorized if token is not valid
	//   - sqlstore.ErrReadOnly if store is read-only
	//   - ErrNoSchemas if schemas list is empty
	//   - sqlstore.ErrProfileTooNew if store profile is newer than supported
	//   - ErrSyncPull if shared schemas can not be pulled
	//   - ErrSyncPush with not nil result if local changes are committed, but not pushed
	ImportSchemas(ctx context.Context, schemas []*ecdef.Schema, opts ImportOptions, token, syncLocation string) (*ImportResult, error)

	// Drops schemas with their class maps and indexes, purges orphan tables.
	//
	// Errors are the same as ImportSchemas plus:
	//   - ErrSchemaNotFound if schema is not persisted
	//   - ErrSchemaReferenced if schema is referenced by schema, which is not dropped
	DropSchemas(ctx context.Context, names []string, opts DropOptions, token, syncLocation string) (*DropResult, error)
}

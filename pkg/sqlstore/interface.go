/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Relational store of the schema catalog.
//
// All methods work over one connection, so statements, savepoints and attached
// table spaces are seen by each other. Store is not safe for concurrent use,
// callers serialize access.
type IStore interface {
	// Returns gorm session for metadata records, bound to ctx
	Gorm(ctx context.Context) *gorm.DB

	// Executes data statement through prepared statements cache
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Executes DDL statement. DDL statements are not cached
	ExecDDL(ctx context.Context, ddl string) error

	// Executes query through prepared statements cache and calls cb for each row.
	// Rows are closed before return.
	Query(ctx context.Context, query string, args []any, cb func(*sql.Rows) error) error

	// Executes query through prepared statements cache and scans first row into dest.
	//
	// Returns false if no rows.
	QueryRow(ctx context.Context, query string, args []any, dest ...any) (bool, error)

	// Starts new savepoint.
	//
	// Savepoints may be nested. Each savepoint must be released or rolled back.
	Savepoint(ctx context.Context, name string) (ISavepoint, error)

	// Returns is store opened read-only
	ReadOnly() bool

	// Returns profile version of the store file
	ProfileVersion() ecdef.SchemaVersion

	// Identifiers allocator
	IDs() IIDs

	// Maximum number of columns in a table supported by store
	ColumnLimit() int

	// Attaches other store file as table space with specified name
	Attach(ctx context.Context, path, name string) error

	// Detaches table space
	Detach(ctx context.Context, name string) error

	// Returns is table space with specified name attached
	IsAttached(ctx context.Context, name string) (bool, error)

	// Returns is table exists in table space
	TableExists(ctx context.Context, tableSpace, table string) (bool, error)

	// Returns is view exists in table space
	ViewExists(ctx context.Context, tableSpace, view string) (bool, error)

	// Returns DDL of index in table space. Returns false if index is not exists
	IndexSQL(ctx context.Context, tableSpace, index string) (string, bool, error)

	// Returns columns names of table in table space in declaration order
	TableColumns(ctx context.Context, tableSpace, table string) ([]string, error)

	Close() error
}

// Savepoint of store transaction
type ISavepoint interface {
	Name() string

	// Commits changes made after savepoint
	Release(ctx context.Context) error

	// Discards changes made after savepoint
	Rollback(ctx context.Context) error
}

// Persisted identifiers sequences.
//
// Values are written through to the store, so rolled back savepoints
// roll back sequences too. Reset must be called after rollback.
type IIDs interface {
	// Returns next identifier from named sequence
	Next(ctx context.Context, seq Sequence) (ecdef.ID, error)

	// Returns last issued identifier of named sequence
	Last(ctx context.Context, seq Sequence) (ecdef.ID, error)

	// Forgets cached values. Next call reloads sequences from store
	Reset()
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

const (
	// Default maximum number of columns per table (SQLITE_MAX_COLUMN)
	DefaultColumnLimit = 2000

	DefaultStmtCacheSize = 256

	// Table space name of the store file itself
	MainTableSpace = "main"

	memoryPath = ":memory:"
)

const (
	TableSequence   = "ec_Sequence"
	TableMigrations = "ec_ProfileMigrations"
)

// Identifier of store own base migration
const baseProfileVersion = "01.00.00"

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

import (
	"github.com/go-gormigrate/gormigrate/v2"
)

// Store opening parameters
type Params struct {
	// Store file path. Empty path or ":memory:" means in-memory store
	Path string

	// Opens existing store file read-only. Profile migrations are not applied
	ReadOnly bool

	// Maximum number of columns in a table. Zero means DefaultColumnLimit
	ColumnLimit int

	// Prepared statements cache size. Zero means DefaultStmtCacheSize
	StmtCacheSize int

	// Profile migrations, applied in order after store own migrations.
	// Identifier of each migration is a profile version string, see ProfileVersion
	Profile []*gormigrate.Migration
}

// Name of identifiers sequence
type Sequence string

// Record of identifiers sequence
type SequenceRecord struct {
	Name  string `gorm:"column:Name;primaryKey"`
	Value uint64 `gorm:"column:Value;not null"`
}

func (SequenceRecord) TableName() string { return TableSequence }

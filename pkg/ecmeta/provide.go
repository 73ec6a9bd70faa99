/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecmeta

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Returns profile migrations, which create metadata tables
func ProfileMigrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: ProfileVersion,
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(allModels()...)
			},
		},
	}
}

// Returns store parameters with metadata profile migrations
func StoreParams(path string, readOnly bool) sqlstore.Params {
	return sqlstore.Params{Path: path, ReadOnly: readOnly, Profile: ProfileMigrations()}
}

// Returns reader of metadata in specified table space
func NewReader(store sqlstore.IStore, tableSpace string) *Reader {
	return &Reader{store: store, space: tableSpace}
}

// Returns writer of metadata in main table space
func NewWriter(store sqlstore.IStore) *Writer {
	return &Writer{store: store, r: NewReader(store, sqlstore.MainTableSpace)}
}

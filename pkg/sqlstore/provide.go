/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

import (
	"context"
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/untillpro/goutils/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Opens store file.
//
// Writable stores are created if not exists and profile migrations are applied.
// Returns ErrProfileTooNew if store file has profile migrations unknown to params.
func Open(ctx context.Context, params Params) (IStore, error) {
	if params.ColumnLimit <= 0 {
		params.ColumnLimit = DefaultColumnLimit
	}
	if params.StmtCacheSize <= 0 {
		params.StmtCacheSize = DefaultStmtCacheSize
	}
	if params.ReadOnly && isMemory(params.Path) {
		return nil, fmt.Errorf("in-memory store can not be opened read-only: %w", ErrReadOnly)
	}

	db, err := gorm.Open(sqlite.Open(dsn(params)), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open store «%s»: %w", params.Path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		// notest
		return nil, err
	}
	// attached table spaces and savepoints live in connection
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	s := &store{
		params: params,
		db:     db,
		sqlDB:  sqlDB,
	}
	s.stmts, err = lru.NewWithEvict(params.StmtCacheSize, s.onStmtEvicted)
	if err != nil {
		// notest
		_ = sqlDB.Close()
		return nil, err
	}
	s.ids = newIDs(s)

	if err := s.migrateProfile(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Verbose(fmt.Sprintf("store «%s» opened, profile %v, read-only: %v", params.Path, s.profile, params.ReadOnly))
	return s, nil
}

// Opens in-memory store with specified profile migrations
func OpenMemory(ctx context.Context, profile ...*gormigrate.Migration) (IStore, error) {
	return Open(ctx, Params{Path: memoryPath, Profile: profile})
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

import (
	"context"
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/voedger/schemacat/pkg/ecdef"
)

type migrationRecord struct {
	ID string `gorm:"column:id"`
}

func (s *store) migrations() []*gormigrate.Migration {
	base := &gormigrate.Migration{
		ID: baseProfileVersion,
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&SequenceRecord{})
		},
	}
	return append([]*gormigrate.Migration{base}, s.params.Profile...)
}

// Checks store file profile and applies profile migrations if store is writable
func (s *store) migrateProfile(ctx context.Context) error {
	migrations := s.migrations()
	known := make(map[string]bool, len(migrations))
	for _, m := range migrations {
		if _, err := ecdef.ParseSchemaVersion(m.ID); err != nil {
			return fmt.Errorf("profile migration «%s»: %w", m.ID, err)
		}
		known[m.ID] = true
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}
	for _, id := range applied {
		if !known[id] {
			return fmt.Errorf("%w: «%s» has profile migration «%s»", ErrProfileTooNew, s.params.Path, id)
		}
	}

	if !s.params.ReadOnly {
		m := gormigrate.New(s.db.WithContext(ctx), &gormigrate.Options{
			TableName:      TableMigrations,
			IDColumnName:   "id",
			IDColumnSize:   32,
			UseTransaction: false,
		}, migrations)
		if err := m.Migrate(); err != nil {
			return fmt.Errorf("migrate profile of «%s»: %w", s.params.Path, err)
		}
		if applied, err = s.appliedMigrations(ctx); err != nil {
			return err
		}
	}

	s.profile = ecdef.SchemaVersion{}
	for _, id := range applied {
		v := ecdef.MustParseSchemaVersion(id)
		if v.Compare(s.profile) > 0 {
			s.profile = v
		}
	}
	return nil
}

func (s *store) appliedMigrations(ctx context.Context) ([]string, error) {
	exists, err := s.TableExists(ctx, MainTableSpace, TableMigrations)
	if err != nil || !exists {
		return nil, err
	}
	var recs []migrationRecord
	if err := s.Gorm(ctx).Table(TableMigrations).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("read profile migrations: %w", err)
	}
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

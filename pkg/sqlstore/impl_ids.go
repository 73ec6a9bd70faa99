/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// # Implements:
//   - IIDs
type ids struct {
	s    *store
	last map[Sequence]uint64
}

func newIDs(s *store) *ids {
	return &ids{s: s, last: make(map[Sequence]uint64)}
}

func (ids *ids) Next(ctx context.Context, seq Sequence) (ecdef.ID, error) {
	if ids.s.ReadOnly() {
		return ecdef.NullID, ErrReadOnly
	}
	last, err := ids.load(ctx, seq)
	if err != nil {
		return ecdef.NullID, err
	}
	next := last + 1
	if next > uint64(ecdef.MaxPersistedID) {
		return ecdef.NullID, fmt.Errorf("%w: «%s»", ErrIDsExhausted, seq)
	}
	rec := SequenceRecord{Name: string(seq), Value: next}
	err = ids.s.Gorm(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "Name"}},
		DoUpdates: clause.AssignmentColumns([]string{"Value"}),
	}).Create(&rec).Error
	if err != nil {
		return ecdef.NullID, fmt.Errorf("sequence «%s»: %w", seq, err)
	}
	ids.last[seq] = next
	return ecdef.ID(next), nil
}

func (ids *ids) Last(ctx context.Context, seq Sequence) (ecdef.ID, error) {
	last, err := ids.load(ctx, seq)
	return ecdef.ID(last), err
}

func (ids *ids) Reset() {
	clear(ids.last)
}

func (ids *ids) load(ctx context.Context, seq Sequence) (uint64, error) {
	if v, ok := ids.last[seq]; ok {
		return v, nil
	}
	rec := SequenceRecord{}
	err := ids.s.Gorm(ctx).Where(`"Name" = ?`, string(seq)).Take(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec.Value = 0
	case err != nil:
		return 0, fmt.Errorf("load sequence «%s»: %w", seq, err)
	}
	ids.last[seq] = rec.Value
	return rec.Value, nil
}

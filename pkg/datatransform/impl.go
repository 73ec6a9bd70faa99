/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package datatransform

import (
	"context"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Appends step to transform
func (t *Transform) Append(name, sql string, args ...any) {
	t.steps = append(t.steps, Step{Name: name, SQL: sql, Args: args})
}

// Appends steps of other transform
func (t *Transform) Merge(other *Transform) {
	if other != nil {
		t.steps = append(t.steps, other.steps...)
	}
}

func (t *Transform) IsEmpty() bool { return t == nil || len(t.steps) == 0 }

func (t *Transform) Steps() []Step {
	if t == nil {
		return nil
	}
	return t.steps
}

// Runs steps in order. Stops at first failed step
func (t *Transform) Run(ctx context.Context, store sqlstore.IStore) error {
	for _, s := range t.Steps() {
		res, err := store.Exec(ctx, s.SQL, s.Args...)
		if err != nil {
			return fmt.Errorf("data transform step «%s»: %w", s.Name, err)
		}
		if logger.IsVerbose() {
			n, _ := res.RowsAffected()
			logger.Verbose(fmt.Sprintf("data transform step «%s»: %d rows affected", s.Name, n))
		}
	}
	return nil
}

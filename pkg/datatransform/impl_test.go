/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package datatransform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/sqlstore"
)

func TestTransform(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store, err := sqlstore.OpenMemory(ctx)
	require.NoError(err)
	defer store.Close()
	require.NoError(store.ExecDDL(ctx, `CREATE TABLE "p" ("Id" INTEGER PRIMARY KEY)`))
	require.NoError(store.ExecDDL(ctx, `CREATE TABLE "p_Overflow" ("Id" INTEGER PRIMARY KEY)`))
	_, err = store.Exec(ctx, `INSERT INTO "p" ("Id") VALUES (1), (2)`)
	require.NoError(err)

	var empty *Transform
	require.True(empty.IsEmpty())
	require.NoError(empty.Run(ctx, store))

	tr := New()
	require.True(tr.IsEmpty())
	tr.Append("fill overflow", `INSERT INTO "p_Overflow" ("Id") SELECT "Id" FROM "p" WHERE "Id" > ?`, 0)
	other := New()
	other.Append("fill again", `INSERT OR IGNORE INTO "p_Overflow" ("Id") SELECT "Id" FROM "p"`)
	tr.Merge(other)
	require.False(tr.IsEmpty())
	require.Len(tr.Steps(), 2)

	t.Run("must be ok to run steps in order", func(t *testing.T) {
		require.NoError(tr.Run(ctx, store))
		var n int
		ok, err := store.QueryRow(ctx, `SELECT COUNT(*) FROM "p_Overflow"`, nil, &n)
		require.NoError(err)
		require.True(ok)
		require.Equal(2, n)
	})

	t.Run("must be error with step name", func(t *testing.T) {
		bad := New()
		bad.Append("broken", `INSERT INTO "unknown" VALUES (1)`)
		err := bad.Run(ctx, store)
		require.Error(err)
		require.Contains(err.Error(), "broken")
	})
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdb

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/catalog"
	"github.com/voedger/schemacat/pkg/importtoken"
	"github.com/voedger/schemacat/pkg/mapping"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
)

const plantYAML = `
schema: Plant
alias: pl
version: 01.00.00
classes:
  - name: Pump
    kind: Entity
    properties:
      - name: Power
        type: Double
`

const archiveYAML = `
schema: Archive
alias: ar
version: 01.00.00
classes:
  - name: Record
    kind: Entity
    properties:
      - name: Reason
        type: String
`

var testSecret = importtoken.SecretKey(strings.Repeat("k", importtoken.SecretKeyLength))

func open(t *testing.T, params Params) *DB {
	if params.Store.Path == "" {
		params.Store.Path = ":memory:"
	}
	db, err := Open(context.Background(), params)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_ImportTokens(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	db := open(t, Params{TokenSecret: testSecret})

	t.Run("must be error to import with forged token", func(t *testing.T) {
		_, err := db.ImportYAML(ctx, strings.NewReader(plantYAML), mapping.ImportOptions{}, "forged", "")
		require.ErrorIs(err, mapping.ErrNotAuthorized)
		require.ErrorIs(err, importtoken.ErrInvalidImportToken)
	})

	t.Run("must be ok to import with issued token", func(t *testing.T) {
		token, err := db.IssueImportToken(time.Minute)
		require.NoError(err)

		res, err := db.ImportYAML(ctx, strings.NewReader(plantYAML), mapping.ImportOptions{}, token, "")
		require.NoError(err)
		require.Equal(mapping.TableStatus_Created, res.Tables["pl_Pump"])

		schemas, err := db.Schemas(ctx, sqlstore.MainTableSpace)
		require.NoError(err)
		require.Len(schemas, 1)
		require.Equal("Plant", schemas[0].Name())
	})

	t.Run("must be error to issue token without secret", func(t *testing.T) {
		_, err := open(t, Params{}).IssueImportToken(time.Minute)
		require.ErrorIs(err, ErrNoTokenSecret)
	})
}

func TestDB_TableSpaces(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "archive.db")
	arch, err := Open(ctx, Params{Store: sqlstore.Params{Path: path}})
	require.NoError(err)
	_, err = arch.ImportYAML(ctx, strings.NewReader(archiveYAML), mapping.ImportOptions{}, "token", "")
	require.NoError(err)
	require.NoError(arch.Close())

	db := open(t, Params{})
	_, err = db.ImportYAML(ctx, strings.NewReader(plantYAML), mapping.ImportOptions{}, "token", "")
	require.NoError(err)

	t.Run("must be ok to attach table space", func(t *testing.T) {
		require.NoError(db.AttachTableSpace(ctx, path, "arch"))
		require.Equal([]string{sqlstore.MainTableSpace, "arch"}, db.Catalog().TableSpaces())

		schemas, err := db.Schemas(ctx, catalog.AnyTableSpace)
		require.NoError(err)
		names := make([]string, 0, len(schemas))
		for _, s := range schemas {
			names = append(names, s.Name())
		}
		require.Contains(names, "Plant")
		require.Contains(names, "Archive")

		cls, err := db.Catalog().GetClass(ctx, "ar", "Record", tablespace.LookupMode_ByAlias, "arch")
		require.NoError(err)
		require.NotNil(cls)
	})

	t.Run("must be error to attach the same table space again", func(t *testing.T) {
		require.Error(db.AttachTableSpace(ctx, path, "arch"))
		require.Len(db.Catalog().TableSpaces(), 2)
	})

	t.Run("must be ok to detach table space", func(t *testing.T) {
		require.NoError(db.DetachTableSpace(ctx, "arch"))
		require.Equal([]string{sqlstore.MainTableSpace}, db.Catalog().TableSpaces())

		ok, err := db.Store().IsAttached(ctx, "arch")
		require.NoError(err)
		require.False(ok)
	})
}

func TestDB_Sync(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	shared := filepath.Join(t.TempDir(), "shared.bolt")

	first := open(t, Params{})
	require.NoError(first.InitSync(ctx, shared))
	_, err := first.ImportYAML(ctx, strings.NewReader(plantYAML), mapping.ImportOptions{}, "token", shared)
	require.NoError(err)

	second := open(t, Params{})
	require.NoError(second.InitSync(ctx, shared))

	firstInfo, ok, err := first.SyncInfo(ctx)
	require.NoError(err)
	require.True(ok)
	secondInfo, ok, err := second.SyncInfo(ctx)
	require.NoError(err)
	require.True(ok)
	require.Equal(firstInfo.SyncID, secondInfo.SyncID)

	t.Run("must be pulled shared schemas on import", func(t *testing.T) {
		res, err := second.ImportYAML(ctx, strings.NewReader(archiveYAML), mapping.ImportOptions{}, "token", shared)
		require.NoError(err)

		action, ok := res.SchemaAction("Plant")
		require.True(ok)
		require.Equal(mapping.SchemaAction_Inserted, action)
		require.Equal(mapping.TableStatus_Created, res.Tables["pl_Pump"])
	})

	t.Run("must be error to import without established location", func(t *testing.T) {
		_, err := second.ImportYAML(ctx, strings.NewReader(archiveYAML), mapping.ImportOptions{}, "token", "")
		require.Error(err)
	})
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/ecdb"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

const baseYAML = `
schema: Base
alias: bs
version: 01.00.00
classes:
  - name: Element
    kind: Entity
    modifier: Abstract
    properties:
      - name: Code
        type: String
`

const plantYAML = `
schema: Plant
alias: pl
version: 01.00.00
references:
  - name: Base
    version: 01.00.00
classes:
  - name: Pump
    kind: Entity
    bases: [bs.Element]
    properties:
      - name: Power
        type: Double
`

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBasicUsage(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	base := writeFile(t, dir, "base.yaml", baseYAML)
	plant := writeFile(t, dir, "plant.yaml", plantYAML)

	t.Run("must be ok to import schemas from several files", func(t *testing.T) {
		require.NoError(execRootCmd([]string{"schemacat", "import", "--db", dbPath, "--views", base, plant}, "0.0.1"))
	})

	t.Run("must be ok to list catalog", func(t *testing.T) {
		require.NoError(execRootCmd([]string{"schemacat", "schemas", "--db", dbPath}, "0.0.1"))
		require.NoError(execRootCmd([]string{"schemacat", "classes", "--db", dbPath, "pl"}, "0.0.1"))
		require.NoError(execRootCmd([]string{"schemacat", "tables", "--db", dbPath}, "0.0.1"))
		require.Error(execRootCmd([]string{"schemacat", "classes", "--db", dbPath, "Unknown"}, "0.0.1"))
	})

	t.Run("must be error to drop tables without major upgrade", func(t *testing.T) {
		require.Error(execRootCmd([]string{"schemacat", "drop", "--db", dbPath, "Plant"}, "0.0.1"))
	})

	t.Run("must be ok to drop schemas", func(t *testing.T) {
		require.NoError(execRootCmd([]string{"schemacat", "drop", "--db", dbPath, "--allow-major", "Plant", "Base"}, "0.0.1"))

		db, err := ecdb.Open(ctx, ecdb.Params{Store: sqlstore.Params{Path: dbPath, ReadOnly: true}})
		require.NoError(err)
		defer db.Close()
		schemas, err := db.Schemas(ctx, sqlstore.MainTableSpace)
		require.NoError(err)
		require.Empty(schemas)
	})
}

func TestSyncAndTokens(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	shared := filepath.Join(dir, "shared.bolt")
	base := writeFile(t, dir, "base.yaml", baseYAML)
	secret := "0123456789abcdef0123456789abcdef"

	t.Run("must be ok to establish shared schema store", func(t *testing.T) {
		require.NoError(execRootCmd([]string{"schemacat", "import", "--db", dbPath, base}, "0.0.1"))
		require.NoError(execRootCmd([]string{"schemacat", "sync", "init", "--db", dbPath, shared}, "0.0.1"))
		require.NoError(execRootCmd([]string{"schemacat", "sync", "info", "--db", dbPath}, "0.0.1"))
	})

	t.Run("must be error to import without established location", func(t *testing.T) {
		require.Error(execRootCmd([]string{"schemacat", "import", "--db", dbPath, base}, "0.0.1"))
		require.NoError(execRootCmd([]string{"schemacat", "import", "--db", dbPath, "--sync", shared, base}, "0.0.1"))
	})

	t.Run("must be error to import with invalid token", func(t *testing.T) {
		require.Error(execRootCmd([]string{"schemacat", "import", "--db", dbPath, "--sync", shared,
			"--token-secret", secret, "--token", "forged", base}, "0.0.1"))
		require.Error(execRootCmd([]string{"schemacat", "token", "--token-secret", "short"}, "0.0.1"))
		require.NoError(execRootCmd([]string{"schemacat", "token", "--token-secret", secret}, "0.0.1"))
	})
}

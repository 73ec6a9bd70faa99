/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
	"github.com/voedger/schemacat/pkg/virtualschemas"
)

const futureYAML = `
schema: Future
alias: fu
version: 01.00.00
classes:
  - name: NeedsV9
    kind: CustomAttribute
    customAttributes:
      - class: SchemaMap.ImportRequiresVersion
        values:
          EngineVersion: 09.00.00
  - name: UsesNeedsV9
    kind: CustomAttribute
    customAttributes:
      - class: Future.NeedsV9
  - name: Gadget
    kind: Entity
    customAttributes:
      - class: Future.UsesNeedsV9
  - name: SuperGadget
    kind: Entity
    bases: [Gadget]
  - name: Rocket
    kind: Entity
    customAttributes:
      - class: SchemaMap.ImportRequiresVersion
        values:
          EngineVersion: 05.00.00
  - name: Bicycle
    kind: Entity
    customAttributes:
      - class: SchemaMap.ImportRequiresVersion
        values:
          EngineVersion: 01.00.00
`

func TestDispatcher_UnsupportedClasses(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	store, err := sqlstore.OpenMemory(ctx, ecmeta.ProfileMigrations()...)
	require.NoError(err)
	defer store.Close()
	save(t, store, futureYAML)

	virtual, err := virtualschemas.New()
	require.NoError(err)
	d := NewWithEngineVersion(store, virtual, ecdef.NewSchemaVersion(4, 0, 0))

	names := func(classes []*ecdef.Class) []string {
		res := []string{}
		for _, c := range classes {
			res = append(res, c.Name())
		}
		return res
	}

	t.Run("must be unsupported transitively through custom attributes and derived classes", func(t *testing.T) {
		classes, err := d.UnsupportedClasses(ctx)
		require.NoError(err)
		require.Equal([]string{"Gadget", "SuperGadget", "Rocket"}, names(classes))
	})

	t.Run("must be ok to check class", func(t *testing.T) {
		bicycle, err := d.GetClass(ctx, "fu", "Bicycle", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		ok, err := d.IsClassUnsupported(ctx, bicycle)
		require.NoError(err)
		require.False(ok)

		rocket, err := d.GetClass(ctx, "fu", "Rocket", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		ok, err = d.IsClassUnsupported(ctx, rocket)
		require.NoError(err)
		require.True(ok)
	})

	t.Run("must be rebuilt after cache cleared", func(t *testing.T) {
		d.ClearCache()
		rocket, err := d.GetClass(ctx, "fu", "Rocket", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		ok, err := d.IsClassUnsupported(ctx, rocket)
		require.NoError(err)
		require.True(ok)
	})
}

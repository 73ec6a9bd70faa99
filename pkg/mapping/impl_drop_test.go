/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
)

const dynamicYAML = `
schema: Notes
alias: nb
version: 01.00.00
customAttributes:
  - class: CoreCustomAttributes.DynamicSchema
classes:
  - name: Note
    kind: Entity
    customAttributes:
      - class: SchemaMap.ClassMap
        values:
          MapStrategy: TablePerHierarchy
      - class: SchemaMap.JoinedTablePerDirectSubclass
    properties:
      - name: Text
        type: String
  - name: TaskNote
    kind: Entity
    bases: [Note]
    properties:
      - name: Due
        type: DateTime
`

const referencingYAML = `
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
---
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

func tableExists(t *testing.T, store sqlstore.IStore, name string) bool {
	ok, err := store.TableExists(context.Background(), sqlstore.MainTableSpace, name)
	require.NoError(t, err)
	return ok
}

func TestDropSchemas_Dynamic(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	d := newDispatcher(t, nil)
	e := New(d, Params{})

	res, err := importYAML(t, e, d, dynamicYAML, ImportOptions{GenerateClassViews: true})
	require.NoError(err)
	require.Equal(TableStatus_Created, res.Tables["nb_Note"])
	require.Equal(TableStatus_Created, res.Tables["nb_TaskNote"])
	require.Equal([]string{"Id", "Due"}, columns(t, d, "nb_TaskNote"))

	t.Run("must be purged tables of dynamic schema", func(t *testing.T) {
		res, err := e.DropSchemas(ctx, []string{"Notes"}, DropOptions{}, testToken, "")
		require.NoError(err)
		require.Equal([]string{"Notes"}, res.Schemas)
		require.Equal([]string{"ix_nb_note_ecclassid"}, res.IndexesDropped)
		require.Equal([]string{"nb_TaskNote", "nb_Note"}, res.PurgedTables)

		require.False(tableExists(t, d.Store(), "nb_Note"))
		require.False(tableExists(t, d.Store(), "nb_TaskNote"))

		ok, err := d.Store().ViewExists(ctx, sqlstore.MainTableSpace, "cv_nb_Note")
		require.NoError(err)
		require.False(ok)

		s, err := d.Main().GetSchema(ctx, "Notes", tablespace.LookupMode_ByName)
		require.NoError(err)
		require.Nil(s)
	})

	t.Run("must be error to drop unknown schema", func(t *testing.T) {
		_, err := e.DropSchemas(ctx, []string{"Notes"}, DropOptions{}, testToken, "")
		require.ErrorIs(err, ErrSchemaNotFound)
	})

	t.Run("must be ok to import dropped schema again", func(t *testing.T) {
		res, err := importYAML(t, e, d, dynamicYAML, ImportOptions{})
		require.NoError(err)
		action, _ := res.SchemaAction("Notes")
		require.Equal(SchemaAction_Inserted, action)
		require.True(tableExists(t, d.Store(), "nb_TaskNote"))
	})
}

func TestDropSchemas_Referenced(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	d := newDispatcher(t, nil)
	e := New(d, Params{})

	res, err := importYAML(t, e, d, referencingYAML, ImportOptions{})
	require.NoError(err)
	require.Equal([]SchemaImport{
		{Name: "Base", Version: res.Schemas[0].Version, Action: SchemaAction_Inserted},
		{Name: "Plant", Version: res.Schemas[1].Version, Action: SchemaAction_Inserted},
	}, res.Schemas)
	require.NotContains(res.Tables, "bs_Element")
	require.ElementsMatch([]string{"Id", "ECClassId", "Code", "Power"}, columns(t, d, "pl_Pump"))

	t.Run("must be error to drop referenced schema", func(t *testing.T) {
		_, err := e.DropSchemas(ctx, []string{"Base"}, DropOptions{}, testToken, "")
		require.ErrorIs(err, ErrSchemaReferenced)
		require.ErrorContains(err, "Plant")
	})

	t.Run("must be error to purge tables of not dynamic schema", func(t *testing.T) {
		_, err := e.DropSchemas(ctx, []string{"Plant"}, DropOptions{}, testToken, "")
		require.ErrorIs(err, ErrPurgeRequiresMajorUpgrade)

		s, err := d.Main().GetSchema(ctx, "Plant", tablespace.LookupMode_ByName)
		require.NoError(err)
		require.NotNil(s)
		require.True(tableExists(t, d.Store(), "pl_Pump"))
	})

	t.Run("must be ok to drop schemas with major upgrade allowed", func(t *testing.T) {
		res, err := e.DropSchemas(ctx, []string{"Base", "Plant"}, DropOptions{AllowMajorSchemaUpgrade: true}, testToken, "")
		require.NoError(err)
		require.Equal([]string{"Plant", "Base"}, res.Schemas)
		require.Equal([]string{"pl_Pump"}, res.PurgedTables)
		require.False(tableExists(t, d.Store(), "pl_Pump"))

		schemas, err := d.Main().GetSchemas(ctx)
		require.NoError(err)
		require.Empty(schemas)
	})
}

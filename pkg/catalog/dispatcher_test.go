/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
	"github.com/voedger/schemacat/pkg/virtualschemas"
)

const mainYAML = `
schema: Plant
alias: pl
version: 01.00.00
classes:
  - name: Pump
    kind: Entity
    properties:
      - name: Power
        type: Double
  - name: SubmersiblePump
    kind: Entity
    bases: [Pump]
`

const attachedYAML = `
schema: Plant
alias: pl
version: 02.00.00
classes:
  - name: Pump
    kind: Entity
---
schema: Archive
alias: ar
version: 01.00.00
enumerations:
  - name: Reason
    type: String
    enumerators:
      - name: Expired
        value: E
classes:
  - name: Record
    kind: Entity
`

func save(t *testing.T, store sqlstore.IStore, yaml string) {
	ctx := context.Background()
	schemas, err := ecdef.ReadSchemasYAMLString(yaml)
	require.NoError(t, err)
	w := ecmeta.NewWriter(store)
	for _, s := range schemas {
		require.NoError(t, w.SaveSchema(ctx, s, nil))
		for _, cls := range s.Classes() {
			m := dbmap.NewClassMap(cls, dbmap.MapStrategy_NotMapped, dbmap.TphOptions{})
			require.NoError(t, dbmap.SaveClassMap(ctx, w, m))
		}
	}
}

func newDispatcher(t *testing.T) (*Dispatcher, string) {
	require := require.New(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "archive.db")
	ext, err := sqlstore.Open(ctx, ecmeta.StoreParams(path, false))
	require.NoError(err)
	save(t, ext, attachedYAML)
	require.NoError(ext.Close())

	store, err := sqlstore.OpenMemory(ctx, ecmeta.ProfileMigrations()...)
	require.NoError(err)
	t.Cleanup(func() { store.Close() })
	save(t, store, mainYAML)

	virtual, err := virtualschemas.New()
	require.NoError(err)
	return New(store, virtual), path
}

func TestDispatcher_AttachDetach(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	d, path := newDispatcher(t)
	require.Equal([]string{sqlstore.MainTableSpace}, d.TableSpaces())

	t.Run("must be error to attach table space not attached to store", func(t *testing.T) {
		err := d.Attach(ctx, "arch")
		require.ErrorIs(err, ErrNotAttachable)
		require.Len(d.TableSpaces(), 1)
	})

	t.Run("must be error to attach or detach main table space", func(t *testing.T) {
		require.ErrorIs(d.Attach(ctx, "MAIN"), ErrMainTableSpace)
		require.ErrorIs(d.Detach(ctx, "main"), ErrMainTableSpace)
	})

	t.Run("must be ok to attach table space", func(t *testing.T) {
		require.NoError(d.Store().Attach(ctx, path, "arch"))
		require.NoError(d.Attach(ctx, "arch"))
		require.Equal([]string{sqlstore.MainTableSpace, "arch"}, d.TableSpaces())
		require.ErrorIs(d.Attach(ctx, "ARCH"), ErrAlreadyAttached)
	})

	t.Run("must be ok to detach table space", func(t *testing.T) {
		require.NoError(d.Detach(ctx, "arch"))
		require.Equal([]string{sqlstore.MainTableSpace}, d.TableSpaces())
		require.ErrorIs(d.Detach(ctx, "arch"), ErrNotFound)

		_, err := d.GetSchema(ctx, "Archive", tablespace.LookupMode_ByName, "arch")
		require.ErrorIs(err, ErrNotFound)
	})
}

func TestDispatcher_Lookups(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	d, path := newDispatcher(t)
	require.NoError(d.Store().Attach(ctx, path, "arch"))
	require.NoError(d.Attach(ctx, "arch"))

	t.Run("must be first found in attachment order", func(t *testing.T) {
		s, err := d.GetSchema(ctx, "Plant", tablespace.LookupMode_ByName, AnyTableSpace)
		require.NoError(err)
		require.Equal(ecdef.NewSchemaVersion(1, 0, 0), s.Version())

		s, err = d.GetSchema(ctx, "pl", tablespace.LookupMode_ByAlias, "arch")
		require.NoError(err)
		require.Equal(ecdef.NewSchemaVersion(2, 0, 0), s.Version())

		s, err = d.GetSchema(ctx, "Archive", tablespace.LookupMode_ByName, sqlstore.MainTableSpace)
		require.NoError(err)
		require.Nil(s)

		s, err = d.GetSchema(ctx, "Archive", tablespace.LookupMode_ByName, AnyTableSpace)
		require.NoError(err)
		require.NotNil(s)
	})

	t.Run("must be ok to fall back to virtual schemas", func(t *testing.T) {
		cls, err := d.GetClass(ctx, "cv", "ClassDef", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		require.NotNil(cls)
		require.True(cls.ID().IsVirtual())

		byID, err := d.GetClassByID(ctx, cls.ID(), AnyTableSpace)
		require.NoError(err)
		require.Same(cls, byID)

		cls, err = d.GetClass(ctx, "cv", "ClassDef", tablespace.LookupMode_ByName, AnyTableSpace)
		require.NoError(err)
		require.Nil(cls, "alias is not a name")

		cls, err = d.GetClass(ctx, "cv", "ClassDef", tablespace.LookupMode_ByAlias, sqlstore.MainTableSpace)
		require.NoError(err)
		require.Nil(cls, "virtual schemas are consulted for any table space only")

		m, err := d.GetClassMap(ctx, d.Virtual().Class("cv", "ClassDef"), AnyTableSpace)
		require.NoError(err)
		require.Nil(m)
	})

	t.Run("must be ok to list schemas without duplicates", func(t *testing.T) {
		all, err := d.GetSchemas(ctx, AnyTableSpace)
		require.NoError(err)
		names := []string{}
		for _, s := range all {
			names = append(names, s.Name())
		}
		require.Equal([]string{"Plant", "Archive", virtualschemas.VirtualBaseName, virtualschemas.CatalogViewsName}, names)
	})

	t.Run("must be class map from table space of class", func(t *testing.T) {
		mainPump, err := d.GetClass(ctx, "pl", "Pump", tablespace.LookupMode_ByAlias, sqlstore.MainTableSpace)
		require.NoError(err)
		archPump, err := d.GetClass(ctx, "pl", "Pump", tablespace.LookupMode_ByAlias, "arch")
		require.NoError(err)
		require.NotSame(mainPump, archPump)

		m1, err := d.GetClassMap(ctx, mainPump, AnyTableSpace)
		require.NoError(err)
		require.Same(mainPump, m1.Class())
		m2, err := d.GetClassMap(ctx, archPump, AnyTableSpace)
		require.NoError(err)
		require.Same(archPump, m2.Class())

		m, err := d.GetClassMap(ctx, archPump, sqlstore.MainTableSpace)
		require.NoError(err)
		require.Nil(m)
	})

	t.Run("must be ok to navigate hierarchy", func(t *testing.T) {
		pump, err := d.GetClass(ctx, "pl", "Pump", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		sub, err := d.GetClass(ctx, "pl", "SubmersiblePump", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)

		derived, err := d.GetDerivedClasses(ctx, pump, AnyTableSpace)
		require.NoError(err)
		require.Equal([]*ecdef.Class{sub}, derived)
		all, err := d.GetAllDerivedClasses(ctx, pump, AnyTableSpace)
		require.NoError(err)
		require.Equal([]*ecdef.Class{sub}, all)

		ok, err := d.IsSubClassOf(ctx, sub, pump, AnyTableSpace)
		require.NoError(err)
		require.True(ok)
		ok, err = d.IsSubClassOf(ctx, pump, sub, AnyTableSpace)
		require.NoError(err)
		require.False(ok)
	})

	t.Run("must be ok to find schema items", func(t *testing.T) {
		e, err := d.GetEnumeration(ctx, "ar", "Reason", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		require.NotNil(e)
		u, err := d.GetUnit(ctx, "ar", "None", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		require.Nil(u)
		f, err := d.GetFormat(ctx, "ar", "None", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		require.Nil(f)
		pc, err := d.GetPropertyCategory(ctx, "ar", "None", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		require.Nil(pc)
	})

	t.Run("must be safe for concurrent lookups", func(t *testing.T) {
		wg := sync.WaitGroup{}
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cls, err := d.GetClass(ctx, "pl", "Pump", tablespace.LookupMode_ByAlias, AnyTableSpace)
				if err == nil && cls != nil {
					_, err = d.GetClassMap(ctx, cls, AnyTableSpace)
				}
				require.NoError(err)
			}()
		}
		wg.Wait()
	})
}

func TestDispatcher_Exclusive(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	d, _ := newDispatcher(t)
	pump, err := d.GetClass(ctx, "pl", "Pump", tablespace.LookupMode_ByAlias, AnyTableSpace)
	require.NoError(err)

	t.Run("must be caches kept on success", func(t *testing.T) {
		require.NoError(d.Exclusive(func(main tablespace.ICatalog) error {
			require.Equal(sqlstore.MainTableSpace, main.TableSpace())
			return nil
		}))
		again, err := d.GetClass(ctx, "pl", "Pump", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		require.Same(pump, again)
	})

	t.Run("must be caches cleared on failure", func(t *testing.T) {
		testErr := errors.New("test error")
		require.ErrorIs(d.Exclusive(func(tablespace.ICatalog) error { return testErr }), testErr)
		again, err := d.GetClass(ctx, "pl", "Pump", tablespace.LookupMode_ByAlias, AnyTableSpace)
		require.NoError(err)
		require.NotSame(pump, again)
	})
}

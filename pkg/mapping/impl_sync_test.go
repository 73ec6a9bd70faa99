/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/schemasync"
	"github.com/voedger/schemacat/pkg/tablespace"
)

const sharedLocation = "shared.db"

type mockSync struct {
	mock.Mock
}

func (m *mockSync) IsDisabled(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockSync) LocalInfo(ctx context.Context) (schemasync.LocalInfo, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(schemasync.LocalInfo), args.Bool(1), args.Error(2)
}

func (m *mockSync) Init(ctx context.Context, location string) error {
	return m.Called(ctx, location).Error(0)
}

func (m *mockSync) CheckLocation(ctx context.Context, location string) error {
	return m.Called(ctx, location).Error(0)
}

func (m *mockSync) Pull(ctx context.Context, location, token string, _ ...ecdef.SchemaLocater) ([]*ecdef.Schema, error) {
	args := m.Called(ctx, location, token)
	return args.Get(0).([]*ecdef.Schema), args.Error(1)
}

func (m *mockSync) Push(ctx context.Context, location string, schemas []*ecdef.Schema, dropped []string) error {
	return m.Called(ctx, location, schemas, dropped).Error(0)
}

func newMockSync() *mockSync {
	s := &mockSync{}
	s.On("CheckLocation", mock.Anything, sharedLocation).Return(nil)
	s.On("IsDisabled", mock.Anything).Return(false, nil)
	return s
}

func TestImportSchemas_Sync(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	t.Run("must be nothing imported if pull fails", func(t *testing.T) {
		d := newDispatcher(t, nil)
		sync := newMockSync()
		sync.On("Pull", mock.Anything, sharedLocation, testToken).Return([]*ecdef.Schema(nil), errors.New("shared store is locked"))
		e := New(d, Params{Sync: sync})

		_, err := e.ImportSchemas(ctx, readSchemas(t, d, plantYAML), ImportOptions{}, testToken, sharedLocation)
		require.ErrorIs(err, ErrSyncPull)

		s, err := d.Main().GetSchema(ctx, "Plant", tablespace.LookupMode_ByName)
		require.NoError(err)
		require.Nil(s)
		sync.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("must be imported pulled schemas", func(t *testing.T) {
		d := newDispatcher(t, nil)
		pulled, err := ecdef.ReadSchemasYAMLString(`
schema: Shared
alias: sd
version: 01.00.00
classes:
  - name: Tag
    kind: Entity
    properties:
      - name: Label
        type: String
`)
		require.NoError(err)
		sync := newMockSync()
		sync.On("Pull", mock.Anything, sharedLocation, testToken).Return(pulled, nil)
		sync.On("Push", mock.Anything, sharedLocation, mock.Anything, []string(nil)).Return(nil)
		e := New(d, Params{Sync: sync})

		res, err := e.ImportSchemas(ctx, readSchemas(t, d, plantYAML), ImportOptions{}, testToken, sharedLocation)
		require.NoError(err)
		require.Len(res.Schemas, 2)
		require.Contains(res.Tables, "sd_Tag")

		pushed := sync.Calls[len(sync.Calls)-1].Arguments.Get(2).([]*ecdef.Schema)
		require.Len(pushed, 2)
		sync.AssertExpectations(t)
	})

	t.Run("must be kept local changes if push fails", func(t *testing.T) {
		d := newDispatcher(t, nil)
		sync := newMockSync()
		sync.On("Pull", mock.Anything, sharedLocation, testToken).Return([]*ecdef.Schema(nil), nil)
		sync.On("Push", mock.Anything, sharedLocation, mock.Anything, mock.Anything).Return(errors.New("shared store is read-only"))
		e := New(d, Params{Sync: sync})

		res, err := e.ImportSchemas(ctx, readSchemas(t, d, plantYAML), ImportOptions{}, testToken, sharedLocation)
		require.ErrorIs(err, ErrSyncPush)
		require.NotNil(res)

		s, err := d.Main().GetSchema(ctx, "Plant", tablespace.LookupMode_ByName)
		require.NoError(err)
		require.NotNil(s)

		dropRes, err := e.DropSchemas(ctx, []string{"Plant"}, DropOptions{AllowMajorSchemaUpgrade: true}, testToken, sharedLocation)
		require.ErrorIs(err, ErrSyncPush)
		require.Equal([]string{"Plant"}, dropRes.Schemas)
	})

	t.Run("must be no pull or push if synchronization is disabled", func(t *testing.T) {
		d := newDispatcher(t, nil)
		sync := &mockSync{}
		sync.On("CheckLocation", mock.Anything, "").Return(nil)
		sync.On("IsDisabled", mock.Anything).Return(true, nil)
		e := New(d, Params{Sync: sync})

		_, err := e.ImportSchemas(ctx, readSchemas(t, d, plantYAML), ImportOptions{}, testToken, "")
		require.NoError(err)
		sync.AssertNotCalled(t, "Pull", mock.Anything, mock.Anything, mock.Anything)
		sync.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

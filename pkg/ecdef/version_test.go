/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSchemaVersion(t *testing.T) {
	require := require.New(t)

	t.Run("must be ok to parse full and short forms", func(t *testing.T) {
		v, err := ParseSchemaVersion("01.02.03")
		require.NoError(err)
		require.Equal(NewSchemaVersion(1, 2, 3), v)
		require.Equal("01.02.03", v.String())

		v, err = ParseSchemaVersion("2.5")
		require.NoError(err)
		require.Equal(NewSchemaVersion(2, 0, 5), v)
	})

	t.Run("must be error to parse invalid versions", func(t *testing.T) {
		for _, s := range []string{"", "1", "a.b.c", "1.2.3.4", "-1.0.0"} {
			_, err := ParseSchemaVersion(s)
			require.Error(err, s)
		}
	})

	t.Run("must be panic in MustParseSchemaVersion", func(t *testing.T) {
		require.Panics(func() { MustParseSchemaVersion("bad") })
	})
}

func TestSchemaVersion_Compare(t *testing.T) {
	require := require.New(t)

	v := MustParseSchemaVersion("01.02.03")
	require.Zero(v.Compare(NewSchemaVersion(1, 2, 3)))
	require.Negative(v.Compare(NewSchemaVersion(1, 2, 4)))
	require.Negative(v.Compare(NewSchemaVersion(1, 3, 0)))
	require.Negative(v.Compare(NewSchemaVersion(2, 0, 0)))
	require.Positive(v.Compare(NewSchemaVersion(1, 2, 2)))
	require.Positive(v.Compare(NewSchemaVersion(0, 9, 9)))
}

func TestSchemaKey_Matches(t *testing.T) {
	want := NewSchemaKey("Test", NewSchemaVersion(1, 2, 3))

	tests := []struct {
		name  string
		got   SchemaVersion
		match SchemaMatchType
		ok    bool
	}{
		{"exact equal", NewSchemaVersion(1, 2, 3), SchemaMatch_Exact, true},
		{"exact newer minor", NewSchemaVersion(1, 2, 4), SchemaMatch_Exact, false},
		{"write compatible newer minor", NewSchemaVersion(1, 2, 4), SchemaMatch_LatestWriteCompatible, true},
		{"write compatible older minor", NewSchemaVersion(1, 2, 2), SchemaMatch_LatestWriteCompatible, false},
		{"write compatible newer write", NewSchemaVersion(1, 3, 0), SchemaMatch_LatestWriteCompatible, false},
		{"read compatible newer write", NewSchemaVersion(1, 3, 0), SchemaMatch_LatestReadCompatible, true},
		{"read compatible newer read", NewSchemaVersion(2, 0, 0), SchemaMatch_LatestReadCompatible, false},
		{"latest any", NewSchemaVersion(0, 0, 1), SchemaMatch_Latest, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.ok, want.Matches(NewSchemaKey("test", tt.got), tt.match))
		})
	}

	require.False(t, want.Matches(NewSchemaKey("Other", want.Version), SchemaMatch_Latest))
}

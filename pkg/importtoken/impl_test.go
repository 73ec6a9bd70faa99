/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package importtoken

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = SecretKey(strings.Repeat("k", SecretKeyLength))

func TestIssuer(t *testing.T) {
	require := require.New(t)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewWithTime(testKey, func() time.Time { return now })

	token, err := issuer.Issue(DefaultDuration)
	require.NoError(err)

	t.Run("must be ok to validate issued token", func(t *testing.T) {
		require.NoError(issuer.Validate(token))
	})

	t.Run("must be error if token is missing", func(t *testing.T) {
		require.ErrorIs(issuer.Validate(""), ErrInvalidImportToken)
	})

	t.Run("must be error if token is forged", func(t *testing.T) {
		other := New(SecretKey(strings.Repeat("x", SecretKeyLength)))
		require.ErrorIs(other.Validate(token), ErrInvalidImportToken)
		require.ErrorIs(issuer.Validate(token+"x"), ErrInvalidImportToken)
		require.ErrorIs(issuer.Validate("not a token"), ErrInvalidImportToken)
	})

	t.Run("must be error if token is expired", func(t *testing.T) {
		later := NewWithTime(testKey, func() time.Time { return now.Add(2 * DefaultDuration) })
		require.ErrorIs(later.Validate(token), ErrImportTokenExpired)
	})

	t.Run("must be error if subject is not import", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "other", ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
		require.NoError(err)
		require.ErrorIs(issuer.Validate(foreign), ErrInvalidImportToken)
	})

	t.Run("must be panic if key is too short", func(t *testing.T) {
		require.Panics(func() { New(SecretKey("short")) })
	})
}

func TestAnyNonEmpty(t *testing.T) {
	require := require.New(t)
	v := AnyNonEmpty()
	require.NoError(v.Validate("anything"))
	require.ErrorIs(v.Validate(""), ErrInvalidImportToken)
}

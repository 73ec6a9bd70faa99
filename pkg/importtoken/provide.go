/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package importtoken

import (
	"fmt"
	"time"
)

// Returns issuer of import tokens.
//
// # Panics:
//   - if secret key is shorter than SecretKeyLength
func New(secretKey SecretKey) *Issuer {
	return NewWithTime(secretKey, time.Now)
}

// Same as New, but tokens issue and expiration times are taken from now
func NewWithTime(secretKey SecretKey, now func() time.Time) *Issuer {
	if len(secretKey) < SecretKeyLength {
		panic(fmt.Errorf("invalid key length: must be at least %d bytes", SecretKeyLength))
	}
	return &Issuer{secretKey: secretKey, now: now}
}

// Returns validator which accepts any non-empty token
func AnyNonEmpty() IValidator { return anyNonEmpty{} }

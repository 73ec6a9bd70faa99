/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package importtoken

import "time"

type SecretKey []byte

// Signs and validates import tokens with HS256
type Issuer struct {
	secretKey []byte
	now       func() time.Time
}

type anyNonEmpty struct{}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package importtoken

import "time"

// Subject of import tokens
const Subject = "schema-import"

// Minimal length of secret key in bytes
const SecretKeyLength = 32

const DefaultDuration = time.Hour

const errorVerifySubject = "unexpected token subject «%s»: %w"

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package virtualschemas

import (
	"errors"

	"github.com/voedger/schemacat/pkg/ecdef"
)

var ErrInvalidVirtualSchema = errors.New("invalid virtual schema")

func errInvalidVirtualSchema(s *ecdef.Schema, msg string, args ...any) error {
	return ecdef.EnrichError(ErrInvalidVirtualSchema, "%v: "+msg, append([]any{s}, args...)...)
}

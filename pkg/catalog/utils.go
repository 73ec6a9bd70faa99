/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package catalog

import (
	"strings"

	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/tablespace"
)

// Returns is schema name or alias matches lookup mode
func virtualMatches(s *ecdef.Schema, name string, mode tablespace.LookupMode) bool {
	switch mode {
	case tablespace.LookupMode_ByName:
		return strings.EqualFold(s.Name(), name)
	case tablespace.LookupMode_ByAlias:
		return strings.EqualFold(s.Alias(), name)
	}
	return s.NameOrAliasIs(name)
}

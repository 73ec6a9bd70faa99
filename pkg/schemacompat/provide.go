/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemacompat

import (
	"github.com/voedger/schemacat/pkg/ecdef"
)

// Checks that new schema version does not remove or change persisted definitions of old one
func CheckBackwardCompatibility(oldSchema, newSchema *ecdef.Schema) (cerrs *CompatibilityErrors) {
	return checkBackwardCompatibility(oldSchema, newSchema)
}

func IgnoreCompatibilityErrors(cerrs *CompatibilityErrors, pathsToIgnore [][]string) (cerrsOut *CompatibilityErrors) {
	return ignoreCompatibilityErrors(cerrs, pathsToIgnore)
}

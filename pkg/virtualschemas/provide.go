/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package virtualschemas

import (
	"github.com/voedger/schemacat/pkg/ecdef"
)

// Creates virtual catalog with bootstrap and system schemas installed.
//
// Each call assigns fresh identifiers starting from ecdef.VirtualIDSeed.
func New() (ICatalog, error) {
	c := &catalog{
		schemas: ecdef.NewSchemaCache(),
		byID:    make(map[ecdef.ID]*ecdef.Schema),
		classes: make(map[ecdef.ID]*ecdef.Class),
		nextID:  ecdef.VirtualIDSeed,
	}
	if err := c.install(); err != nil {
		return nil, err
	}
	return c, nil
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package tablespace

import (
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Creates catalog of table space
func New(store sqlstore.IStore, tableSpace string) ICatalog {
	c := &catalog{r: ecmeta.NewReader(store, tableSpace)}
	c.ClearCache()
	return c
}

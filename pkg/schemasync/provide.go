/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemasync

import (
	"github.com/voedger/schemacat/pkg/importtoken"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Returns synchronizer of local store. Pull tokens are checked by validator
func New(store sqlstore.IStore, validator importtoken.IValidator) ISync {
	return &synchronizer{store: store, validator: validator}
}

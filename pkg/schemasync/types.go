/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemasync

import (
	"github.com/voedger/schemacat/pkg/importtoken"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

// Synchronization state of local store, persisted in local values
type LocalInfo struct {
	// Identifier of shared store, which local store synchronizes with
	SyncID string `json:"syncId"`

	// Location of shared store established by Init
	Location string `json:"location"`
}

type synchronizer struct {
	store     sqlstore.IStore
	validator importtoken.IValidator
}

// Shared schema record
type sharedSchema struct {
	name       string
	version    string
	definition []byte
	ordinal    uint64
}

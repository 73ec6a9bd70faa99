/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdb

import (
	"github.com/voedger/schemacat/pkg/catalog"
	"github.com/voedger/schemacat/pkg/importtoken"
	"github.com/voedger/schemacat/pkg/mapping"
	"github.com/voedger/schemacat/pkg/schemasync"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

type Params struct {
	// Store parameters. Profile migrations are always ecmeta profile
	Store sqlstore.Params

	// Secret key to issue and validate import tokens. Empty key means any non-empty token is accepted
	// and tokens can not be issued
	TokenSecret importtoken.SecretKey

	// Nil means mapping.DefaultRelationshipPolicy
	RelationshipPolicy mapping.RelationshipPolicy
}

// Schema catalog database: store with its catalogs, mapping engine and shared schema store synchronization.
//
// DB is safe for concurrent use. Mutating operations are serialized by catalog dispatcher
type DB struct {
	store  sqlstore.IStore
	d      *catalog.Dispatcher
	engine mapping.IEngine
	sync   schemasync.ISync
	issuer *importtoken.Issuer
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdb

import (
	"context"
	"fmt"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/catalog"
	"github.com/voedger/schemacat/pkg/ecmeta"
	"github.com/voedger/schemacat/pkg/importtoken"
	"github.com/voedger/schemacat/pkg/mapping"
	"github.com/voedger/schemacat/pkg/schemasync"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/virtualschemas"
)

// Opens store and builds catalogs over it.
//
// # Panics:
//   - if token secret is not empty and shorter than importtoken.SecretKeyLength
func Open(ctx context.Context, params Params) (*DB, error) {
	var issuer *importtoken.Issuer
	var validator importtoken.IValidator = importtoken.AnyNonEmpty()
	if len(params.TokenSecret) > 0 {
		issuer = importtoken.New(params.TokenSecret)
		validator = issuer
	}

	virtual, err := virtualschemas.New()
	if err != nil {
		return nil, fmt.Errorf("install virtual schemas: %w", err)
	}

	sp := params.Store
	sp.Profile = ecmeta.ProfileMigrations()
	store, err := sqlstore.Open(ctx, sp)
	if err != nil {
		return nil, err
	}

	d := catalog.New(store, virtual)
	sync := schemasync.New(store, validator)
	db := &DB{
		store:  store,
		d:      d,
		sync:   sync,
		issuer: issuer,
		engine: mapping.New(d, mapping.Params{
			Validator:          validator,
			Sync:               sync,
			RelationshipPolicy: params.RelationshipPolicy,
		}),
	}
	logger.Info(fmt.Sprintf("store «%s» opened, profile %v", sp.Path, store.ProfileVersion()))
	return db, nil
}

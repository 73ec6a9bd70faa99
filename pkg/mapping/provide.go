/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"github.com/voedger/schemacat/pkg/catalog"
	"github.com/voedger/schemacat/pkg/importtoken"
)

// Creates mapping engine over main table space of dispatcher
func New(d *catalog.Dispatcher, params Params) IEngine {
	if params.Validator == nil {
		params.Validator = importtoken.AnyNonEmpty()
	}
	if params.RelationshipPolicy == nil {
		params.RelationshipPolicy = DefaultRelationshipPolicy
	}
	return &engine{
		d:      d,
		store:  d.Store(),
		params: params,
	}
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemasync

import (
	"context"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Synchronizes schemas of local store with shared schema store.
//
// Shared store is a file, addressed by location. Local store participates in
// synchronization after Init established a location.
type ISync interface {
	// Returns is local store not synchronized with any shared store
	IsDisabled(ctx context.Context) (bool, error)

	// Returns local synchronization state. Returns false if synchronization is disabled
	LocalInfo(ctx context.Context) (LocalInfo, bool, error)

	// Establishes location of shared store. Shared store is created if not exists.
	//
	// Returns ErrSyncLocationMismatch if other location is already established.
	Init(ctx context.Context, location string) error

	// Checks location against established one
	CheckLocation(ctx context.Context, location string) error

	// Returns shared schemas, which are newer than local ones, ordered by push order.
	//
	// References of shared schemas are resolved inside pulled set first, then by locaters.
	Pull(ctx context.Context, location, token string, locaters ...ecdef.SchemaLocater) ([]*ecdef.Schema, error)

	// Writes local schemas newer than shared ones, removes dropped schemas from shared store
	Push(ctx context.Context, location string, schemas []*ecdef.Schema, dropped []string) error
}

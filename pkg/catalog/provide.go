/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package catalog

import (
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
	"github.com/voedger/schemacat/pkg/virtualschemas"
)

// Creates dispatcher with main table space catalog.
//
// Classes, which require engine newer than ecdef.EngineVersion, are unsupported.
func New(store sqlstore.IStore, virtual virtualschemas.ICatalog) *Dispatcher {
	return NewWithEngineVersion(store, virtual, ecdef.EngineVersion)
}

func NewWithEngineVersion(store sqlstore.IStore, virtual virtualschemas.ICatalog, engine ecdef.SchemaVersion) *Dispatcher {
	return &Dispatcher{
		store:   store,
		virtual: virtual,
		engine:  engine,
		order:   []tablespace.ICatalog{tablespace.New(store, sqlstore.MainTableSpace)},
		byName:  make(map[string]tablespace.ICatalog),
	}
}

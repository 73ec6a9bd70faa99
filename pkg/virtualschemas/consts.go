/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package virtualschemas

import (
	"embed"

	"github.com/voedger/schemacat/pkg/ecdef"
)

//go:embed *.yaml
var schemasFS embed.FS

// Built-in system virtual schemas, installed after bootstrap schema
var systemSchemaFiles = []string{"catalogviews.yaml"}

const (
	virtualBaseFile  = "virtualbase.yaml"
	VirtualBaseName  = "VirtualBase"
	VirtualBaseAlias = "vb"

	CatalogViewsName  = "CatalogViews"
	CatalogViewsAlias = "cv"
)

var (
	// Marks schema as virtual
	CAVirtualSchema = ecdef.NewQName(VirtualBaseName, "VirtualSchema")

	// Marks class of virtual schema
	CAVirtualType = ecdef.NewQName(VirtualBaseName, "VirtualType")
)

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package virtualschemas

import (
	"io"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Catalog of schemas, which exist in memory only and are never mapped to tables.
//
// # Implements:
//   - ecdef.SchemaLocater
type ICatalog interface {
	ecdef.SchemaLocater

	// Adds schema and assigns identifiers to schema and its items.
	//
	// If validate is true then schema must satisfy virtual schema rules, else ErrInvalidVirtualSchema returned.
	Add(s *ecdef.Schema, validate bool) error

	// Reads schemas from YAML, references are resolved by catalog. Read schemas are added validated.
	AddYAML(r io.Reader) ([]*ecdef.Schema, error)

	// Returns schema by name or alias, nil if not found
	Schema(nameOrAlias string) *ecdef.Schema

	// Returns schema by identifier, nil if not found
	SchemaByID(id ecdef.ID) *ecdef.Schema

	// Returns all schemas in installation order
	Schemas() []*ecdef.Schema

	// Returns class by schema name or alias and class name, nil if not found
	Class(schemaNameOrAlias, className string) *ecdef.Class

	// Returns class by identifier, nil if not found
	ClassByID(id ecdef.ID) *ecdef.Class

	// Returns is identifier belongs to virtual catalog
	Contains(id ecdef.ID) bool
}

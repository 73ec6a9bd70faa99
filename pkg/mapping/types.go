/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"fmt"

	"github.com/voedger/schemacat/pkg/catalog"
	"github.com/voedger/schemacat/pkg/datatransform"
	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/importtoken"
	"github.com/voedger/schemacat/pkg/schemasync"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

// What import did with schema
type SchemaAction uint8

const (
	// Schema was not persisted before
	SchemaAction_Inserted SchemaAction = iota

	// Persisted schema is replaced by newer version
	SchemaAction_Upgraded

	// Persisted schema has the same version
	SchemaAction_UpToDate

	// Persisted schema is newer than imported one
	SchemaAction_SkippedOlder

	SchemaAction_count
)

var schemaActionNames = [SchemaAction_count]string{"Inserted", "Upgraded", "UpToDate", "SkippedOlder"}

func (a SchemaAction) String() string {
	if a < SchemaAction_count {
		return schemaActionNames[a]
	}
	return fmt.Sprintf("SchemaAction(%d)", a)
}

// What import did with table
type TableStatus uint8

const (
	TableStatus_Created TableStatus = iota
	TableStatus_Updated
	TableStatus_WasUpToDate

	// Table is created outside of catalog and is never changed by import
	TableStatus_Existing

	TableStatus_count
)

var tableStatusNames = [TableStatus_count]string{"Created", "Updated", "WasUpToDate", "Existing"}

func (s TableStatus) String() string {
	if s < TableStatus_count {
		return tableStatusNames[s]
	}
	return fmt.Sprintf("TableStatus(%d)", s)
}

type ImportOptions struct {
	// Allows destructive schema changes and dropping of orphan tables
	AllowMajorSchemaUpgrade bool

	// Enables generated class views. Once enabled, views are maintained by every import and drop
	GenerateClassViews bool

	// Data transform is recorded into result and is not run
	DeferDataTransform bool
}

type DropOptions struct {
	// Allows dropping of tables of not dynamic schemas
	AllowMajorSchemaUpgrade bool
}

type SchemaImport struct {
	Name    string
	Version ecdef.SchemaVersion
	Action  SchemaAction
}

type ImportResult struct {
	// Schemas in import order
	Schemas []SchemaImport

	// Statuses of tables used by imported classes, by table name
	Tables map[string]TableStatus

	IndexesCreated []string
	IndexesDropped []string

	// Indexes, which duplicate definition of other index
	IndexesSkipped []string

	PurgedTables []string

	// Classes in mapping order
	MappedClasses []ecdef.QName

	// Data transform, which completes mapping. Not run if DeferDataTransform option is set
	Transform *datatransform.Transform
}

// Returns action of schema or false if schema is not in result
func (r *ImportResult) SchemaAction(name string) (SchemaAction, bool) {
	for _, s := range r.Schemas {
		if s.Name == name {
			return s.Action, true
		}
	}
	return SchemaAction_count, false
}

type DropResult struct {
	Schemas        []string
	IndexesDropped []string
	PurgedTables   []string
}

// Chooses relationship map strategy: ForeignKeyRelationship or LinkTableRelationship.
// Any other result fails import
type RelationshipPolicy func(rel *ecdef.Class) dbmap.MapStrategy

// Engine parameters
type Params struct {
	// Import token validator. Nil means importtoken.AnyNonEmpty()
	Validator importtoken.IValidator

	// Shared schema store synchronization. Nil means synchronization is not supported
	Sync schemasync.ISync

	// Nil means DefaultRelationshipPolicy
	RelationshipPolicy RelationshipPolicy
}

// # Implements:
//   - IEngine
type engine struct {
	d      *catalog.Dispatcher
	store  sqlstore.IStore
	params Params
}

// Column of property leaf
type leafColumn struct {
	name string
	typ  ecdef.PrimitiveType
}

// Primitive member of property, mapped to columns: property itself or member of struct property
type propertyLeaf struct {
	accessString string
	columns      []leafColumn
}

// Resolved map strategy of entity class
type classStrategy struct {
	strategy dbmap.MapStrategy
	tph      dbmap.TphOptions

	// class map of primary base class, nil for roots
	base *dbmap.ClassMap

	// name of existing table, ExistingTable strategy only
	existingTable string
}

// Index names changed by import or drop
type indexChanges struct {
	created []string
	dropped []string
	skipped []string
}

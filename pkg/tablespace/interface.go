/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package tablespace

import (
	"context"

	"github.com/voedger/schemacat/pkg/dbmap"
	"github.com/voedger/schemacat/pkg/ecdef"
	"github.com/voedger/schemacat/pkg/ecmeta"
)

// Catalog of schemas and class maps persisted in one table space.
//
// Lookups return nil result and nil error if requested item is not found.
// Catalog is not safe for concurrent use, calls must be serialized by caller.
type ICatalog interface {
	// Table space name
	TableSpace() string

	// Metadata reader of table space
	Reader() *ecmeta.Reader

	// Returns schema matched to key
	LocateSchema(ctx context.Context, key ecdef.SchemaKey, match ecdef.SchemaMatchType) (*ecdef.Schema, error)

	GetSchema(ctx context.Context, name string, mode LookupMode) (*ecdef.Schema, error)
	GetSchemaByID(ctx context.Context, id ecdef.ID) (*ecdef.Schema, error)

	// Returns all schemas of table space ordered by identifier
	GetSchemas(ctx context.Context) ([]*ecdef.Schema, error)

	GetClass(ctx context.Context, schema, class string, mode LookupMode) (*ecdef.Class, error)
	GetClassByID(ctx context.Context, id ecdef.ID) (*ecdef.Class, error)

	// Returns class map of class. Loaded map is cached.
	//
	// Returns ErrNoSuchClass if class has no valid identifier.
	GetClassMap(ctx context.Context, class *ecdef.Class) (*dbmap.ClassMap, error)

	// Returns direct derived classes.
	//
	// Returns ErrHierarchyLoad if derived classes can not be completely loaded.
	GetDerivedClasses(ctx context.Context, class *ecdef.Class) ([]*ecdef.Class, error)

	// Returns direct and transitive derived classes, breadth first
	GetAllDerivedClasses(ctx context.Context, class *ecdef.Class) ([]*ecdef.Class, error)

	// Returns is sub derives from base directly or transitively, or sub is base
	IsSubClassOf(ctx context.Context, sub, base *ecdef.Class) (bool, error)

	GetEnumeration(ctx context.Context, schema, name string, mode LookupMode) (*ecdef.Enumeration, error)
	GetUnit(ctx context.Context, schema, name string, mode LookupMode) (*ecdef.Unit, error)
	GetFormat(ctx context.Context, schema, name string, mode LookupMode) (*ecdef.Format, error)
	GetPropertyCategory(ctx context.Context, schema, name string, mode LookupMode) (*ecdef.PropertyCategory, error)

	// Returns physical model of table space, loads it on first call
	DbSchema(ctx context.Context) (*dbmap.DbSchema, error)

	// Puts newly built class map into cache.
	//
	// # Panics:
	//   - if class has no valid identifier
	CacheClassMap(m *dbmap.ClassMap)

	// Discards all cached schemas, class maps, hierarchies and physical model
	ClearCache()

	Stats() Stats
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

// Identifier ranges.
//
// Identifiers assigned by the storage layer never exceed MaxPersistedID.
// Identifiers of virtual schema items are drawn from VirtualIDSeed upwards.
const (
	NullID ID = 0

	MaxPersistedID ID = 1<<48 - 1

	VirtualIDSeed ID = 1 << 48
)

// Used as delimiter in qualified names
const QNameQualifierChar = "."

// Schema holding the mapping custom attributes understood by the engine
const (
	SchemaMapName  = "SchemaMap"
	SchemaMapAlias = "smap"
)

// Schema holding the core custom attributes
const (
	CoreCustomAttributesName  = "CoreCustomAttributes"
	CoreCustomAttributesAlias = "ca"
)

// Well-known custom attribute classes
var (
	// Map strategy of the class and its hierarchy.
	//
	// Values: MapStrategy ("NotMapped", "OwnTable", "TablePerHierarchy", "ExistingTable"),
	// TableName (ExistingTable only).
	CAClassMap = NewQName(SchemaMapName, "ClassMap")

	// Shared columns for table-per-hierarchy classes.
	//
	// Values: MaxSharedColumnsBeforeOverflow (int), ApplyToSubclassesOnly (bool).
	CAShareColumns = NewQName(SchemaMapName, "ShareColumns")

	// Each direct subclass of the annotated class gets its own joined table.
	CAJoinedTablePerDirectSubclass = NewQName(SchemaMapName, "JoinedTablePerDirectSubclass")

	// User defined indexes.
	//
	// Values: Indexes ([]{Name, Properties []string, IsUnique bool, Where string}).
	CADbIndexList = NewQName(SchemaMapName, "DbIndexList")

	// Forces link table mapping for a relationship class.
	//
	// Values: AllowDuplicateRelationships (bool).
	CALinkTableRelationshipMap = NewQName(SchemaMapName, "LinkTableRelationshipMap")

	// Declares the minimal engine version able to work with the annotated class.
	//
	// Values: EngineVersion ("RR.WW.mm").
	CAImportRequiresVersion = NewQName(SchemaMapName, "ImportRequiresVersion")

	// Marks schemas which are generated by applications at runtime.
	CADynamicSchema = NewQName(CoreCustomAttributesName, "DynamicSchema")

	// Marks schemas which only supplement other schemas and are never mapped.
	CASupplementalSchema = NewQName(CoreCustomAttributesName, "SupplementalSchema")
)

// Custom attribute property names
const (
	CAPropMapStrategy                    = "MapStrategy"
	CAPropTableName                      = "TableName"
	CAPropMaxSharedColumnsBeforeOverflow = "MaxSharedColumnsBeforeOverflow"
	CAPropApplyToSubclassesOnly          = "ApplyToSubclassesOnly"
	CAPropIndexes                        = "Indexes"
	CAPropIndexName                      = "Name"
	CAPropIndexProperties                = "Properties"
	CAPropIndexIsUnique                  = "IsUnique"
	CAPropIndexWhere                     = "Where"
	CAPropAllowDuplicateRelationships    = "AllowDuplicateRelationships"
	CAPropEngineVersion                  = "EngineVersion"
)

// Values of the MapStrategy custom attribute property
const (
	MapStrategyNotMapped         = "NotMapped"
	MapStrategyOwnTable          = "OwnTable"
	MapStrategyTablePerHierarchy = "TablePerHierarchy"
	MapStrategyExistingTable     = "ExistingTable"
)

// Values of index Where property
const IndexWhereIndexedColumnsAreNotNull = "IndexedColumnsAreNotNull"

// Unbounded upper multiplicity
const Unbounded uint32 = 0

// Version of mapping engine. Classes requiring newer engine by ImportRequiresVersion are not supported
var EngineVersion = NewSchemaVersion(4, 0, 1)

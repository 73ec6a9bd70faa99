/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecmeta

import "github.com/voedger/schemacat/pkg/sqlstore"

// Metadata tables
const (
	TableSchema                      = "ec_Schema"
	TableSchemaReference             = "ec_SchemaReference"
	TableClass                       = "ec_Class"
	TableClassHasBaseClasses         = "ec_ClassHasBaseClasses"
	TableProperty                    = "ec_Property"
	TableRelationshipConstraint      = "ec_RelationshipConstraint"
	TableRelationshipConstraintClass = "ec_RelationshipConstraintClass"
	TableEnumeration                 = "ec_Enumeration"
	TableUnit                        = "ec_Unit"
	TableFormat                      = "ec_Format"
	TablePropertyCategory            = "ec_PropertyCategory"
	TableCustomAttribute             = "ec_CustomAttribute"
	TableClassMap                    = "ec_ClassMap"
	TablePropertyPath                = "ec_PropertyPath"
	TablePropertyMap                 = "ec_PropertyMap"
	TableTable                       = "ec_Table"
	TableColumn                      = "ec_Column"
	TableIndex                       = "ec_Index"
	TableIndexColumn                 = "ec_IndexColumn"
	TableLocal                       = "ec_Local"
)

// Identifiers sequences
const (
	SeqSchema       sqlstore.Sequence = "ec_SchemaId"
	SeqClass        sqlstore.Sequence = "ec_ClassId"
	SeqProperty     sqlstore.Sequence = "ec_PropertyId"
	SeqConstraint   sqlstore.Sequence = "ec_RelationshipConstraintId"
	SeqEnumeration  sqlstore.Sequence = "ec_EnumerationId"
	SeqUnit         sqlstore.Sequence = "ec_UnitId"
	SeqFormat       sqlstore.Sequence = "ec_FormatId"
	SeqCategory     sqlstore.Sequence = "ec_PropertyCategoryId"
	SeqClassMap     sqlstore.Sequence = "ec_ClassMapId"
	SeqPropertyPath sqlstore.Sequence = "ec_PropertyPathId"
	SeqTable        sqlstore.Sequence = "ec_TableId"
	SeqColumn       sqlstore.Sequence = "ec_ColumnId"
	SeqIndex        sqlstore.Sequence = "ec_IndexId"
)

// Custom attribute container types
type ContainerType uint8

const (
	ContainerType_Schema ContainerType = iota + 1
	ContainerType_Class
	ContainerType_Property
)

// Current profile version: version of metadata tables layout
const ProfileVersion = "04.00.01"

// Well-known ec_Local keys
const (
	LocalSyncInfo           = "SchemaSync.LocalInfo"
	LocalGenerateClassViews = "Mapping.GenerateClassViews"
)

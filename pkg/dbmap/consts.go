/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

// System column names
const (
	ColumnId              = "Id"
	ColumnClassId         = "ECClassId"
	ColumnSourceId        = "SourceId"
	ColumnSourceClassId   = "SourceECClassId"
	ColumnTargetId        = "TargetId"
	ColumnTargetClassId   = "TargetECClassId"
	NavIdSuffix           = "Id"
	NavRelClassIdSuffix   = "RelECClassId"
	SharedColumnPrefix    = "ps"
	OverflowColumnPrefix  = "os"
	OverflowTableSuffix   = "_Overflow"
	CoordinateSeparator   = "_"
	AccessStringSeparator = "."
)

// Hard limit of persisted columns, which a class may map to one table
const MaxColumnsPerClassTable = 2000

// Number of wildcard columns (Id and ECClassId) added to each class query
const WildcardColumns = 2

// Access strings of system property maps
const (
	AccessStringId      = "ECInstanceId"
	AccessStringClassId = "ECClassId"
)

// Relationship navigation and link columns are persisted as property maps
// with «$<End>.<member>» access strings and no root property
const (
	systemAccessPrefix  = "$"
	navIdAccess         = "NavId"
	navRelClassIdAccess = "NavRelClassId"
	linkIdAccess        = "Id"
	linkClassIdAccess   = "ClassId"
)

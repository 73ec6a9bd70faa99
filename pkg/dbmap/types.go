/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

import "fmt"

// Table type
type TableType uint8

const (
	// Table of root class of hierarchy
	TableType_Primary TableType = iota

	// Table, which holds properties of subclasses, joined to primary table by Id
	TableType_Joined

	// Table, which holds shared columns which do not fit into primary or joined table
	TableType_Overflow

	// Table, which is never created in store. Used for abstract classes and mixins
	TableType_Virtual

	// Table, which is created outside of catalog and mapped as is
	TableType_Existing

	TableType_count
)

var tableTypeNames = [TableType_count]string{"Primary", "Joined", "Overflow", "Virtual", "Existing"}

func (t TableType) String() string {
	if t < TableType_count {
		return tableTypeNames[t]
	}
	return fmt.Sprintf("TableType(%d)", t)
}

// Column kind
type ColumnKind uint8

const (
	ColumnKind_Data ColumnKind = iota
	ColumnKind_Id
	ColumnKind_ClassId
	ColumnKind_SharedData
	ColumnKind_NavId
	ColumnKind_NavRelClassId
	ColumnKind_SourceId
	ColumnKind_SourceClassId
	ColumnKind_TargetId
	ColumnKind_TargetClassId

	ColumnKind_count
)

var columnKindNames = [ColumnKind_count]string{
	"Data", "Id", "ClassId", "SharedData", "NavId", "NavRelClassId",
	"SourceId", "SourceClassId", "TargetId", "TargetClassId",
}

func (k ColumnKind) String() string {
	if k < ColumnKind_count {
		return columnKindNames[k]
	}
	return fmt.Sprintf("ColumnKind(%d)", k)
}

// Returns is column kind is system one: instance, class, source and target identifiers
func (k ColumnKind) IsSystem() bool {
	return k != ColumnKind_Data && k != ColumnKind_SharedData && k != ColumnKind_NavId && k != ColumnKind_NavRelClassId
}

// Persistence state of table or index
type DbState uint8

const (
	// Loaded from store, not changed
	DbState_Persisted DbState = iota

	// Created during current mapping, not saved yet
	DbState_New

	// Loaded from store and changed during current mapping
	DbState_Modified
)

// Class map strategy
type MapStrategy uint8

const (
	MapStrategy_NotMapped MapStrategy = iota

	// Class has own table
	MapStrategy_OwnTable

	// Class shares table with the root class of table-per-hierarchy
	MapStrategy_SharedTable

	// Relationship is mapped to navigation columns in the table of one of its ends
	MapStrategy_ForeignKeyRelationship

	// Relationship has own link table
	MapStrategy_LinkTableRelationship

	MapStrategy_count
)

var mapStrategyNames = [MapStrategy_count]string{"NotMapped", "OwnTable", "SharedTable", "ForeignKeyRelationship", "LinkTableRelationship"}

func (s MapStrategy) String() string {
	if s < MapStrategy_count {
		return mapStrategyNames[s]
	}
	return fmt.Sprintf("MapStrategy(%d)", s)
}

// Table-per-hierarchy options
type TphOptions struct {
	// Class is root of hierarchy
	IsRoot bool

	// Properties of subclasses are mapped to shared columns
	ShareColumns bool

	// Maximum number of shared columns in table before overflow table is used.
	// Zero means no overflow, shared columns are limited by store column limit
	MaxSharedColumnsBeforeOverflow int

	// Each direct subclass of root has joined table
	JoinedTablePerDirectSubclass bool
}

// Class map kind
type ClassMapKind uint8

const (
	ClassMapKind_NotMapped ClassMapKind = iota
	ClassMapKind_Class
	ClassMapKind_EndTableRelationship
	ClassMapKind_LinkTableRelationship

	ClassMapKind_count
)

var classMapKindNames = [ClassMapKind_count]string{"NotMapped", "Class", "EndTableRelationship", "LinkTableRelationship"}

func (k ClassMapKind) String() string {
	if k < ClassMapKind_count {
		return classMapKindNames[k]
	}
	return fmt.Sprintf("ClassMapKind(%d)", k)
}

// Class map state
type ClassMapState uint8

const (
	// Class map is not built yet
	ClassMapState_Unbuilt ClassMapState = iota

	// Class map is loaded from store
	ClassMapState_Loaded

	// Class map is built during current import
	ClassMapState_NewlyMapped

	// Newly mapped class map is completed and waits to be saved
	ClassMapState_PendingSave

	// Class map is saved to store
	ClassMapState_Persisted

	ClassMapState_count
)

var classMapStateNames = [ClassMapState_count]string{"Unbuilt", "Loaded", "NewlyMapped", "PendingSave", "Persisted"}

func (s ClassMapState) String() string {
	if s < ClassMapState_count {
		return classMapStateNames[s]
	}
	return fmt.Sprintf("ClassMapState(%d)", s)
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package tablespace

// How schema name argument of lookup is interpreted
type LookupMode uint8

const (
	LookupMode_ByName LookupMode = iota
	LookupMode_ByAlias
	LookupMode_ByNameOrAlias

	LookupMode_count
)

func (m LookupMode) String() string {
	switch m {
	case LookupMode_ByName:
		return "ByName"
	case LookupMode_ByAlias:
		return "ByAlias"
	case LookupMode_ByNameOrAlias:
		return "ByNameOrAlias"
	}
	return "LookupMode(?)"
}

// Cache counters
type Stats struct {
	// Schemas loaded from storage
	SchemasLoaded int
	// Class maps built from storage
	ClassMapsLoaded int
	// Derived class lists loaded from storage
	HierarchiesLoaded int
}

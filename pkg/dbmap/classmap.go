/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

import (
	"fmt"
	"strings"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Mapping of property (or its member, addressed by access string) to columns
type PropertyMap struct {
	accessString string
	root         *ecdef.Property
	columns      []*Column
}

// Access string: property name, members of struct properties are separated by dot
func (m *PropertyMap) AccessString() string { return m.accessString }

// Root property of access string
func (m *PropertyMap) RootProperty() *ecdef.Property { return m.root }

// Mapped columns. Point properties have one column per coordinate
func (m *PropertyMap) Columns() []*Column { return m.columns }

// Link table relationship end columns
type LinkEndColumns struct {
	ID      *Column
	ClassID *Column
}

// Class map: how class is persisted in tables.
//
// Class map is tagged union, kind specific data are valid for corresponding kind only.
type ClassMap struct {
	kind     ClassMapKind
	class    *ecdef.Class
	strategy MapStrategy
	tph      TphOptions
	state    ClassMapState
	tables   []*Table
	props    []*PropertyMap
	propByAS map[string]*PropertyMap

	// EndTableRelationship: end, which table holds navigation columns
	fkEnd ecdef.RelationshipEnd
	// EndTableRelationship: navigation id and relationship class id columns
	fkID, fkRelClassID *Column

	// LinkTableRelationship
	source, target LinkEndColumns
}

// Creates class map of kind, which corresponds to strategy and class kind
func NewClassMap(class *ecdef.Class, strategy MapStrategy, tph TphOptions) *ClassMap {
	m := &ClassMap{
		class:    class,
		strategy: strategy,
		tph:      tph,
		state:    ClassMapState_Unbuilt,
		propByAS: make(map[string]*PropertyMap),
	}
	switch strategy {
	case MapStrategy_NotMapped:
		m.kind = ClassMapKind_NotMapped
	case MapStrategy_ForeignKeyRelationship:
		m.kind = ClassMapKind_EndTableRelationship
	case MapStrategy_LinkTableRelationship:
		m.kind = ClassMapKind_LinkTableRelationship
	default:
		m.kind = ClassMapKind_Class
	}
	return m
}

func (m *ClassMap) Kind() ClassMapKind       { return m.kind }
func (m *ClassMap) Class() *ecdef.Class      { return m.class }
func (m *ClassMap) Strategy() MapStrategy    { return m.strategy }
func (m *ClassMap) Tph() TphOptions          { return m.tph }
func (m *ClassMap) State() ClassMapState     { return m.state }
func (m *ClassMap) SetState(s ClassMapState) { m.state = s }

func (m *ClassMap) String() string {
	return fmt.Sprintf("%v class map of %v", m.strategy, m.class)
}

// Returns is class is mapped to any table
func (m *ClassMap) IsMapped() bool { return m.kind != ClassMapKind_NotMapped }

// Returns is class map uses table-per-hierarchy
func (m *ClassMap) IsTph() bool {
	return m.strategy == MapStrategy_SharedTable || m.tph.IsRoot
}

// Tables of class map: primary first, then joined and overflow tables
func (m *ClassMap) Tables() []*Table { return m.tables }

// Adds table to class map. Repeated tables are ignored
func (m *ClassMap) AddTable(t *Table) {
	for _, tt := range m.tables {
		if tt == t {
			return
		}
	}
	m.tables = append(m.tables, t)
}

func (m *ClassMap) tableOfType(typ TableType) *Table {
	for _, t := range m.tables {
		if t.typ == typ {
			return t
		}
	}
	return nil
}

// Returns primary (or existing, or virtual) table
func (m *ClassMap) PrimaryTable() *Table {
	for _, t := range m.tables {
		if t.typ == TableType_Primary || t.typ == TableType_Existing || t.typ == TableType_Virtual {
			return t
		}
	}
	return nil
}

// Returns joined table or nil
func (m *ClassMap) JoinedTable() *Table { return m.tableOfType(TableType_Joined) }

// Returns overflow table or nil
func (m *ClassMap) OverflowTable() *Table { return m.tableOfType(TableType_Overflow) }

// Returns table, where new own properties of class are mapped: joined table if any, else primary
func (m *ClassMap) ContextTable() *Table {
	if t := m.JoinedTable(); t != nil {
		return t
	}
	return m.PrimaryTable()
}

// Property maps in mapping order
func (m *ClassMap) PropertyMaps() []*PropertyMap { return m.props }

// Returns property map by access string (case insensitive) or nil
func (m *ClassMap) PropertyMap(accessString string) *PropertyMap {
	return m.propByAS[strings.ToLower(accessString)]
}

// Adds property map.
//
// # Panics:
//   - if property map with access string already exists
func (m *ClassMap) AddPropertyMap(accessString string, root *ecdef.Property, columns ...*Column) *PropertyMap {
	key := strings.ToLower(accessString)
	if _, ok := m.propByAS[key]; ok {
		panic(ecdef.ErrAlreadyExists("property map «%s» in %v", accessString, m))
	}
	pm := &PropertyMap{accessString: accessString, root: root, columns: columns}
	m.props = append(m.props, pm)
	m.propByAS[key] = pm
	for _, c := range columns {
		m.AddTable(c.table)
	}
	return pm
}

// Appends columns to property map. Columns already mapped are skipped.
//
// # Panics:
//   - if property map with access string does not exist
func (m *ClassMap) ExtendPropertyMap(accessString string, columns ...*Column) {
	pm := m.PropertyMap(accessString)
	if pm == nil {
		panic(ecdef.ErrNotFound("property map «%s» in %v", accessString, m))
	}
	for _, c := range columns {
		found := false
		for _, cc := range pm.columns {
			if cc == c {
				found = true
				break
			}
		}
		if !found {
			pm.columns = append(pm.columns, c)
			m.AddTable(c.table)
		}
	}
}

// Returns persisted columns mapped by class in specified table
func (m *ClassMap) PersistedColumns(t *Table) []*Column {
	seen := map[*Column]bool{}
	var res []*Column
	for _, pm := range m.props {
		for _, c := range pm.columns {
			if c.table == t && !c.virtual && !seen[c] {
				seen[c] = true
				res = append(res, c)
			}
		}
	}
	return res
}

// Returns all persisted columns mapped by class
func (m *ClassMap) AllPersistedColumns() int {
	n := 0
	for _, t := range m.tables {
		n += len(m.PersistedColumns(t))
	}
	return n
}

// Returns end, which table holds navigation columns.
//
// # Panics:
//   - if class map kind is not EndTableRelationship
func (m *ClassMap) FkEnd() ecdef.RelationshipEnd {
	m.mustKind(ClassMapKind_EndTableRelationship)
	return m.fkEnd
}

// Returns navigation columns of end table relationship.
//
// # Panics:
//   - if class map kind is not EndTableRelationship
func (m *ClassMap) FkColumns() (id, relClassID *Column) {
	m.mustKind(ClassMapKind_EndTableRelationship)
	return m.fkID, m.fkRelClassID
}

// Sets foreign key end and navigation columns.
//
// # Panics:
//   - if class map kind is not EndTableRelationship
func (m *ClassMap) SetFk(end ecdef.RelationshipEnd, id, relClassID *Column) {
	m.mustKind(ClassMapKind_EndTableRelationship)
	m.fkEnd, m.fkID, m.fkRelClassID = end, id, relClassID
	if id != nil {
		m.AddTable(id.table)
	}
}

// Returns link table end columns.
//
// # Panics:
//   - if class map kind is not LinkTableRelationship
func (m *ClassMap) LinkColumns(end ecdef.RelationshipEnd) LinkEndColumns {
	m.mustKind(ClassMapKind_LinkTableRelationship)
	if end == ecdef.RelationshipEnd_Source {
		return m.source
	}
	return m.target
}

// Sets link table end columns.
//
// # Panics:
//   - if class map kind is not LinkTableRelationship
func (m *ClassMap) SetLinkColumns(end ecdef.RelationshipEnd, cols LinkEndColumns) {
	m.mustKind(ClassMapKind_LinkTableRelationship)
	if end == ecdef.RelationshipEnd_Source {
		m.source = cols
	} else {
		m.target = cols
	}
}

func (m *ClassMap) mustKind(k ClassMapKind) {
	if m.kind != k {
		panic(ecdef.ErrInvalid("%v is %v, not %v", m, m.kind, k))
	}
}

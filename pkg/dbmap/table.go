/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

import (
	"fmt"
	"strings"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Table of physical model
type Table struct {
	id                 ecdef.ID
	name               string
	typ                TableType
	parent             *Table
	exclusiveRootClass ecdef.ID
	columns            []*Column
	colByName          map[string]*Column
	state              DbState
}

func newTable(id ecdef.ID, name string, typ TableType, parent *Table) *Table {
	return &Table{
		id:        id,
		name:      name,
		typ:       typ,
		parent:    parent,
		colByName: make(map[string]*Column),
		state:     DbState_New,
	}
}

func (t *Table) ID() ecdef.ID    { return t.id }
func (t *Table) Name() string    { return t.name }
func (t *Table) Type() TableType { return t.typ }
func (t *Table) State() DbState  { return t.state }

// Parent table of joined and overflow tables, nil for others
func (t *Table) Parent() *Table { return t.parent }

// Identifier of class, which exclusively owns table, or NullID if table is shared
func (t *Table) ExclusiveRootClass() ecdef.ID { return t.exclusiveRootClass }

// Returns is table is never created in store
func (t *Table) IsVirtual() bool { return t.typ == TableType_Virtual }

// Returns is table is created and dropped by catalog
func (t *Table) IsOwned() bool { return t.typ != TableType_Virtual && t.typ != TableType_Existing }

func (t *Table) String() string { return fmt.Sprintf("%v table «%s»", t.typ, t.name) }

// Columns in declaration order
func (t *Table) Columns() []*Column { return t.columns }

// Returns column by name (case insensitive) or nil
func (t *Table) Column(name string) *Column { return t.colByName[strings.ToLower(name)] }

// Returns first column of kind or nil
func (t *Table) ColumnOfKind(kind ColumnKind) *Column {
	for _, c := range t.columns {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// Returns persisted (not virtual) columns
func (t *Table) PersistedColumns() []*Column {
	res := make([]*Column, 0, len(t.columns))
	for _, c := range t.columns {
		if !c.virtual {
			res = append(res, c)
		}
	}
	return res
}

// Returns number of shared columns with specified prefix
func (t *Table) SharedColumnsCount(prefix string) int {
	n := 0
	for _, c := range t.columns {
		if c.kind == ColumnKind_SharedData && strings.HasPrefix(c.name, prefix) {
			n++
		}
	}
	return n
}

func (t *Table) SetExclusiveRootClass(id ecdef.ID) { t.exclusiveRootClass = id }

func (t *Table) SetType(typ TableType) {
	if t.typ != typ {
		t.typ = typ
		t.modified()
	}
}

func (t *Table) modified() {
	if t.state == DbState_Persisted {
		t.state = DbState_Modified
	}
}

// Adds column to table.
//
// Returns error if column with name already exists.
func (t *Table) AddColumn(id ecdef.ID, name string, typ ecdef.PrimitiveType, kind ColumnKind, virtual bool) (*Column, error) {
	if t.Column(name) != nil {
		return nil, ecdef.ErrAlreadyExists("column «%s» in %v", name, t)
	}
	c := &Column{
		id:      id,
		table:   t,
		name:    name,
		typ:     typ,
		kind:    kind,
		virtual: virtual,
		ordinal: len(t.columns),
		isNew:   true,
	}
	t.columns = append(t.columns, c)
	t.colByName[strings.ToLower(name)] = c
	t.modified()
	return c, nil
}

// Returns columns, which were added after table was loaded
func (t *Table) NewColumns() []*Column {
	var res []*Column
	for _, c := range t.columns {
		if c.isNew {
			res = append(res, c)
		}
	}
	return res
}

// Marks table and its columns as saved
func (t *Table) MarkPersisted() {
	t.state = DbState_Persisted
	for _, c := range t.columns {
		c.isNew = false
	}
}

// Column of table
type Column struct {
	id        ecdef.ID
	table     *Table
	name      string
	typ       ecdef.PrimitiveType
	kind      ColumnKind
	virtual   bool
	notNull   bool
	unique    bool
	ordinal   int
	pkOrdinal int
	isNew     bool
}

func (c *Column) ID() ecdef.ID                  { return c.id }
func (c *Column) Table() *Table                 { return c.table }
func (c *Column) Name() string                  { return c.name }
func (c *Column) Type() ecdef.PrimitiveType     { return c.typ }
func (c *Column) Kind() ColumnKind              { return c.kind }
func (c *Column) IsVirtual() bool               { return c.virtual }
func (c *Column) IsNotNull() bool               { return c.notNull }
func (c *Column) IsUnique() bool                { return c.unique }
func (c *Column) Ordinal() int                  { return c.ordinal }
func (c *Column) IsNew() bool                   { return c.isNew }
func (c *Column) IsPrimaryKey() bool            { return c.pkOrdinal > 0 }
func (c *Column) String() string                { return fmt.Sprintf("column «%s.%s»", c.table.name, c.name) }
func (c *Column) SetNotNull(v bool) *Column     { c.notNull = v; return c }
func (c *Column) SetUnique(v bool) *Column      { c.unique = v; return c }
func (c *Column) SetPrimaryKey(ord int) *Column { c.pkOrdinal = ord; return c }

// Returns SQLite type affinity of column
func (c *Column) SQLType() string {
	switch c.typ {
	case ecdef.PrimitiveType_Binary:
		return "BLOB"
	case ecdef.PrimitiveType_Boolean:
		return "BOOLEAN"
	case ecdef.PrimitiveType_DateTime:
		return "TIMESTAMP"
	case ecdef.PrimitiveType_Double:
		return "REAL"
	case ecdef.PrimitiveType_Integer, ecdef.PrimitiveType_Long:
		return "INTEGER"
	case ecdef.PrimitiveType_String:
		return "TEXT"
	}
	// shared columns of any type
	return "ANY"
}

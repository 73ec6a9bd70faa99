/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

import (
	"fmt"
	"strings"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Index of physical model
type Index struct {
	id            ecdef.ID
	name          string
	table         *Table
	columns       []*Column
	unique        bool
	notNullWhere  bool
	where         string
	classID       ecdef.ID
	autoGenerated bool
	state         DbState
}

func (i *Index) ID() ecdef.ID       { return i.id }
func (i *Index) Name() string       { return i.name }
func (i *Index) Table() *Table      { return i.table }
func (i *Index) Columns() []*Column { return i.columns }
func (i *Index) IsUnique() bool     { return i.unique }
func (i *Index) State() DbState     { return i.state }

// Returns is «IS NOT NULL» filter for each indexed column added to where clause
func (i *Index) NotNullWhere() bool { return i.notNullWhere }

// Additional where clause of partial index
func (i *Index) Where() string { return i.where }

// Identifier of class, which defines index
func (i *Index) ClassID() ecdef.ID { return i.classID }

// Returns is index generated by catalog, not declared by schema
func (i *Index) IsAutoGenerated() bool { return i.autoGenerated }

func (i *Index) String() string { return fmt.Sprintf("index «%s» on «%s»", i.name, i.table.name) }

// Returns full where clause of index or empty string
func (i *Index) WhereClause() string {
	return whereClause(i.columns, i.notNullWhere, i.where)
}

// Returns key, which identifies index definition: table, columns, uniqueness and where clause
func (i *Index) DefinitionKey() string {
	return definitionKey(i.table, i.columns, i.unique, i.WhereClause())
}

// Returns key of index definition. Indexes with equal keys are duplicates
func (def IndexDef) DefinitionKey() string {
	return definitionKey(def.Table, def.Columns, def.Unique, whereClause(def.Columns, def.NotNullWhere, def.Where))
}

func whereClause(columns []*Column, notNull bool, where string) string {
	var parts []string
	if notNull {
		for _, c := range columns {
			parts = append(parts, fmt.Sprintf(`"%s" IS NOT NULL`, c.name))
		}
	}
	if where != "" {
		parts = append(parts, where)
	}
	return strings.Join(parts, " AND ")
}

func definitionKey(table *Table, columns []*Column, unique bool, where string) string {
	b := strings.Builder{}
	b.WriteString(strings.ToLower(table.name))
	b.WriteString("(")
	for n, c := range columns {
		if n > 0 {
			b.WriteString(",")
		}
		b.WriteString(strings.ToLower(c.name))
	}
	b.WriteString(")")
	if unique {
		b.WriteString(" unique")
	}
	if where != "" {
		b.WriteString(" where ")
		b.WriteString(strings.ToLower(where))
	}
	return b.String()
}

// Returns DDL statement, which creates index
func (i *Index) DDL() string {
	b := strings.Builder{}
	b.WriteString("CREATE ")
	if i.unique {
		b.WriteString("UNIQUE ")
	}
	fmt.Fprintf(&b, `INDEX "%s" ON "%s" (`, i.name, i.table.name)
	for n, c := range i.columns {
		if n > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, `"%s"`, c.name)
	}
	b.WriteString(")")
	if w := i.WhereClause(); w != "" {
		b.WriteString(" WHERE ")
		b.WriteString(w)
	}
	return b.String()
}

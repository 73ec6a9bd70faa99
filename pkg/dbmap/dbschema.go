/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package dbmap

import (
	"strings"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Physical model: tables and indexes of table space.
//
// Tables and indexes are addressed by stable identifiers and by names (case insensitive).
type DbSchema struct {
	tables      []*Table
	tableByID   map[ecdef.ID]*Table
	tableByName map[string]*Table
	indexes     []*Index
	indexByID   map[ecdef.ID]*Index
	indexByName map[string]*Index
	dropped     []*Table
	droppedIdx  []*Index
}

func NewDbSchema() *DbSchema {
	return &DbSchema{
		tableByID:   make(map[ecdef.ID]*Table),
		tableByName: make(map[string]*Table),
		indexByID:   make(map[ecdef.ID]*Index),
		indexByName: make(map[string]*Index),
	}
}

// Tables in creation order
func (s *DbSchema) Tables() []*Table { return s.tables }

func (s *DbSchema) Table(id ecdef.ID) *Table { return s.tableByID[id] }

func (s *DbSchema) TableByName(name string) *Table { return s.tableByName[strings.ToLower(name)] }

// Adds new table.
//
// Returns error if table with name already exists.
func (s *DbSchema) AddTable(id ecdef.ID, name string, typ TableType, parent *Table) (*Table, error) {
	if s.TableByName(name) != nil {
		return nil, ecdef.ErrAlreadyExists("table «%s»", name)
	}
	t := newTable(id, name, typ, parent)
	s.tables = append(s.tables, t)
	s.tableByID[id] = t
	s.tableByName[strings.ToLower(name)] = t
	return t, nil
}

// Removes table and its indexes from model. Removed tables are returned by DroppedTables
func (s *DbSchema) RemoveTable(t *Table) {
	for _, idx := range s.TableIndexes(t) {
		s.removeIndex(idx, false)
	}
	delete(s.tableByID, t.id)
	delete(s.tableByName, strings.ToLower(t.name))
	for i, tt := range s.tables {
		if tt == t {
			s.tables = append(s.tables[:i], s.tables[i+1:]...)
			break
		}
	}
	if t.state != DbState_New {
		s.dropped = append(s.dropped, t)
	}
}

// Tables removed from model since last ClearDropped
func (s *DbSchema) DroppedTables() []*Table { return s.dropped }

// Returns joined and overflow tables, which have specified parent
func (s *DbSchema) ChildTables(parent *Table) []*Table {
	var res []*Table
	for _, t := range s.tables {
		if t.parent == parent {
			res = append(res, t)
		}
	}
	return res
}

// Returns all descendant tables of parent (children, their children and so on)
func (s *DbSchema) DescendantTables(parent *Table) []*Table {
	var res []*Table
	queue := s.ChildTables(parent)
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		res = append(res, t)
		queue = append(queue, s.ChildTables(t)...)
	}
	return res
}

// Indexes in creation order
func (s *DbSchema) Indexes() []*Index { return s.indexes }

func (s *DbSchema) Index(id ecdef.ID) *Index { return s.indexByID[id] }

func (s *DbSchema) IndexByName(name string) *Index { return s.indexByName[strings.ToLower(name)] }

// Returns indexes of table
func (s *DbSchema) TableIndexes(t *Table) []*Index {
	var res []*Index
	for _, idx := range s.indexes {
		if idx.table == t {
			res = append(res, idx)
		}
	}
	return res
}

// Returns indexes defined by class
func (s *DbSchema) ClassIndexes(classID ecdef.ID) []*Index {
	var res []*Index
	for _, idx := range s.indexes {
		if idx.classID == classID {
			res = append(res, idx)
		}
	}
	return res
}

// Index definition
type IndexDef struct {
	Name          string
	Table         *Table
	Columns       []*Column
	Unique        bool
	NotNullWhere  bool
	Where         string
	ClassID       ecdef.ID
	AutoGenerated bool
}

// Adds new index.
//
// Returns error if index with name already exists or index columns are not of index table.
func (s *DbSchema) AddIndex(id ecdef.ID, def IndexDef) (*Index, error) {
	if s.IndexByName(def.Name) != nil {
		return nil, ecdef.ErrAlreadyExists("index «%s»", def.Name)
	}
	if len(def.Columns) == 0 {
		return nil, ecdef.ErrMissed("columns of index «%s»", def.Name)
	}
	for _, c := range def.Columns {
		if c.table != def.Table {
			return nil, ecdef.ErrInvalid("index «%s» on %v refers %v", def.Name, def.Table, c)
		}
	}
	idx := &Index{
		id:            id,
		name:          def.Name,
		table:         def.Table,
		columns:       def.Columns,
		unique:        def.Unique,
		notNullWhere:  def.NotNullWhere,
		where:         def.Where,
		classID:       def.ClassID,
		autoGenerated: def.AutoGenerated,
		state:         DbState_New,
	}
	s.indexes = append(s.indexes, idx)
	s.indexByID[id] = idx
	s.indexByName[strings.ToLower(def.Name)] = idx
	return idx, nil
}

// Removes index from model. Removed indexes are returned by DroppedIndexes
func (s *DbSchema) RemoveIndex(idx *Index) { s.removeIndex(idx, true) }

func (s *DbSchema) removeIndex(idx *Index, track bool) {
	delete(s.indexByID, idx.id)
	delete(s.indexByName, strings.ToLower(idx.name))
	for i, ii := range s.indexes {
		if ii == idx {
			s.indexes = append(s.indexes[:i], s.indexes[i+1:]...)
			break
		}
	}
	if track && idx.state != DbState_New {
		s.droppedIdx = append(s.droppedIdx, idx)
	}
}

// Indexes removed from model since last ClearDropped
func (s *DbSchema) DroppedIndexes() []*Index { return s.droppedIdx }

// Forgets dropped tables and indexes
func (s *DbSchema) ClearDropped() {
	s.dropped = nil
	s.droppedIdx = nil
}

// Returns tables, which are created or modified since load
func (s *DbSchema) DirtyTables() []*Table {
	var res []*Table
	for _, t := range s.tables {
		if t.state != DbState_Persisted {
			res = append(res, t)
		}
	}
	return res
}

// Returns indexes, which are created since load
func (s *DbSchema) NewIndexes() []*Index {
	var res []*Index
	for _, idx := range s.indexes {
		if idx.state == DbState_New {
			res = append(res, idx)
		}
	}
	return res
}

// Marks index as saved
func (idx *Index) MarkPersisted() { idx.state = DbState_Persisted }

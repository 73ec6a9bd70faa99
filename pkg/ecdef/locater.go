/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import "strings"

// Resolves schema references while reading schemas
type SchemaLocater interface {
	// Returns schema matched to key or nil if not found
	LocateSchema(key SchemaKey, match SchemaMatchType) *Schema
}

// In-memory schema set. Implements SchemaLocater.
type SchemaCache struct {
	schemas []*Schema
}

func NewSchemaCache(schemas ...*Schema) *SchemaCache {
	c := &SchemaCache{}
	for _, s := range schemas {
		c.Add(s)
	}
	return c
}

// Adds schema to cache.
//
// Returns false if cache already contains schema with the same name
func (c *SchemaCache) Add(s *Schema) bool {
	if c.Schema(s.name) != nil {
		return false
	}
	c.schemas = append(c.schemas, s)
	return true
}

// Returns schema by name or alias, nil if not found
func (c *SchemaCache) Schema(nameOrAlias string) *Schema {
	for _, s := range c.schemas {
		if s.NameOrAliasIs(nameOrAlias) {
			return s
		}
	}
	return nil
}

func (c *SchemaCache) Schemas() []*Schema { return c.schemas }

func (c *SchemaCache) LocateSchema(key SchemaKey, match SchemaMatchType) *Schema {
	for _, s := range c.schemas {
		if strings.EqualFold(s.name, key.Name) && key.Matches(s.Key(), match) {
			return s
		}
	}
	return nil
}

// Returns schemas ordered so that each schema follows all schemas it references
func SortByReferences(schemas []*Schema) []*Schema {
	res := make([]*Schema, 0, len(schemas))
	inSet := make(map[*Schema]bool, len(schemas))
	for _, s := range schemas {
		inSet[s] = true
	}
	done := make(map[*Schema]bool, len(schemas))
	var visit func(*Schema)
	visit = func(s *Schema) {
		if done[s] {
			return
		}
		done[s] = true
		for _, r := range s.references {
			if inSet[r] {
				visit(r)
			}
		}
		res = append(res, s)
	}
	for _, s := range schemas {
		visit(s)
	}
	return res
}

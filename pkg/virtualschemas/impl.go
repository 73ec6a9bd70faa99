/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package virtualschemas

import (
	"fmt"
	"io"

	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/ecdef"
)

type catalog struct {
	schemas *ecdef.SchemaCache
	byID    map[ecdef.ID]*ecdef.Schema
	classes map[ecdef.ID]*ecdef.Class
	nextID  ecdef.ID
}

func (c *catalog) Add(s *ecdef.Schema, validate bool) error {
	if validate {
		if err := c.validate(s); err != nil {
			return err
		}
	}
	if !c.schemas.Add(s) {
		return ecdef.ErrAlreadyExists("virtual schema «%s»", s.Name())
	}
	c.assignIDs(s)
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("virtual schema %v installed as #%d", s, s.ID()))
	}
	return nil
}

func (c *catalog) AddYAML(r io.Reader) ([]*ecdef.Schema, error) {
	schemas, err := ecdef.ReadSchemasYAML(r, c)
	if err != nil {
		return nil, err
	}
	for _, s := range ecdef.SortByReferences(schemas) {
		if err := c.Add(s, true); err != nil {
			return nil, err
		}
	}
	return schemas, nil
}

func (c *catalog) Schema(nameOrAlias string) *ecdef.Schema { return c.schemas.Schema(nameOrAlias) }

func (c *catalog) SchemaByID(id ecdef.ID) *ecdef.Schema { return c.byID[id] }

func (c *catalog) Schemas() []*ecdef.Schema { return c.schemas.Schemas() }

func (c *catalog) Class(schemaNameOrAlias, className string) *ecdef.Class {
	if s := c.Schema(schemaNameOrAlias); s != nil {
		return s.Class(className)
	}
	return nil
}

func (c *catalog) ClassByID(id ecdef.ID) *ecdef.Class { return c.classes[id] }

func (c *catalog) Contains(id ecdef.ID) bool { return id >= ecdef.VirtualIDSeed && id < c.nextID }

func (c *catalog) LocateSchema(key ecdef.SchemaKey, match ecdef.SchemaMatchType) *ecdef.Schema {
	return c.schemas.LocateSchema(key, match)
}

func (c *catalog) validate(s *ecdef.Schema) error {
	if !s.HasCustomAttribute(CAVirtualSchema) {
		return errInvalidVirtualSchema(s, "custom attribute «%v» missed", CAVirtualSchema)
	}
	for _, ref := range s.References() {
		if ref.Name() != VirtualBaseName {
			return errInvalidVirtualSchema(s, "may reference only «%s», but references %v", VirtualBaseName, ref)
		}
	}
	for _, cls := range s.Classes() {
		switch {
		case !cls.IsEntity():
			return errInvalidVirtualSchema(s, "%v is not an entity", cls)
		case !cls.IsAbstract():
			return errInvalidVirtualSchema(s, "%v is not abstract", cls)
		case !cls.HasCustomAttribute(CAVirtualType):
			return errInvalidVirtualSchema(s, "%v has no custom attribute «%v»", cls, CAVirtualType)
		case len(cls.BaseClasses()) > 0:
			return errInvalidVirtualSchema(s, "%v has base classes", cls)
		}
	}
	return s.Validate()
}

func (c *catalog) newID() ecdef.ID {
	id := c.nextID
	c.nextID++
	return id
}

func (c *catalog) assignIDs(s *ecdef.Schema) {
	s.SetID(c.newID())
	c.byID[s.ID()] = s
	for _, e := range s.Enumerations() {
		e.SetID(c.newID())
	}
	for _, u := range s.Units() {
		u.SetID(c.newID())
	}
	for _, f := range s.Formats() {
		f.SetID(c.newID())
	}
	for _, pc := range s.PropertyCategories() {
		pc.SetID(c.newID())
	}
	for _, cls := range s.Classes() {
		cls.SetID(c.newID())
		c.classes[cls.ID()] = cls
		for _, p := range cls.Properties() {
			p.SetID(c.newID())
		}
	}
}

func (c *catalog) install() error {
	base, err := c.readEmbedded(virtualBaseFile)
	if err != nil {
		return err // notest
	}
	for _, s := range base {
		if err := c.Add(s, false); err != nil {
			return err // notest
		}
	}
	for _, f := range systemSchemaFiles {
		schemas, err := c.readEmbedded(f)
		if err != nil {
			return err // notest
		}
		for _, s := range schemas {
			if err := c.Add(s, true); err != nil {
				return fmt.Errorf("system virtual schema %v: %w", s, err) // notest
			}
		}
	}
	return nil
}

func (c *catalog) readEmbedded(file string) ([]*ecdef.Schema, error) {
	f, err := schemasFS.Open(file)
	if err != nil {
		return nil, err // notest
	}
	defer f.Close()
	return ecdef.ReadSchemasYAML(f, c)
}

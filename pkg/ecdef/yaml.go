/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type schemaDoc struct {
	Schema           string        `yaml:"schema"`
	Alias            string        `yaml:"alias"`
	Version          string        `yaml:"version"`
	Description      string        `yaml:"description,omitempty"`
	References       []refDoc      `yaml:"references,omitempty"`
	CustomAttributes []caDoc       `yaml:"customAttributes,omitempty"`
	Enumerations     []enumDoc     `yaml:"enumerations,omitempty"`
	Units            []unitDoc     `yaml:"units,omitempty"`
	Formats          []formatDoc   `yaml:"formats,omitempty"`
	Categories       []categoryDoc `yaml:"categories,omitempty"`
	Classes          []classDoc    `yaml:"classes,omitempty"`
}

type refDoc struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type caDoc struct {
	Class  string         `yaml:"class"`
	Values map[string]any `yaml:"values,omitempty"`
}

type enumDoc struct {
	Name        string       `yaml:"name"`
	Type        string       `yaml:"type"`
	Strict      bool         `yaml:"strict,omitempty"`
	Enumerators []Enumerator `yaml:"enumerators,omitempty"`
}

type unitDoc struct {
	Name       string `yaml:"name"`
	Definition string `yaml:"definition"`
}

type formatDoc struct {
	Name string `yaml:"name"`
	Spec string `yaml:"spec"`
}

type categoryDoc struct {
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority,omitempty"`
}

type classDoc struct {
	Name             string         `yaml:"name"`
	Kind             string         `yaml:"kind"`
	Modifier         string         `yaml:"modifier,omitempty"`
	Description      string         `yaml:"description,omitempty"`
	Bases            []string       `yaml:"bases,omitempty"`
	CustomAttributes []caDoc        `yaml:"customAttributes,omitempty"`
	Properties       []propDoc      `yaml:"properties,omitempty"`
	Strength         string         `yaml:"strength,omitempty"`
	Source           *constraintDoc `yaml:"source,omitempty"`
	Target           *constraintDoc `yaml:"target,omitempty"`
}

type propDoc struct {
	Name             string  `yaml:"name"`
	Type             string  `yaml:"type,omitempty"`
	Enum             string  `yaml:"enum,omitempty"`
	Struct           string  `yaml:"struct,omitempty"`
	Array            bool    `yaml:"array,omitempty"`
	MinOccurs        *uint32 `yaml:"minOccurs,omitempty"`
	MaxOccurs        *uint32 `yaml:"maxOccurs,omitempty"`
	Relationship     string  `yaml:"relationship,omitempty"`
	Direction        string  `yaml:"direction,omitempty"`
	Category         string  `yaml:"category,omitempty"`
	Unit             string  `yaml:"unit,omitempty"`
	ReadOnly         bool    `yaml:"readOnly,omitempty"`
	Description      string  `yaml:"description,omitempty"`
	CustomAttributes []caDoc `yaml:"customAttributes,omitempty"`
}

type constraintDoc struct {
	Multiplicity string   `yaml:"multiplicity"`
	Polymorphic  bool     `yaml:"polymorphic,omitempty"`
	RoleLabel    string   `yaml:"roleLabel,omitempty"`
	Classes      []string `yaml:"classes"`
}

// Reads schemas from YAML stream. Stream may contain several documents, one schema per document.
//
// References to schemas, which are not in stream, are resolved by locaters.
// Returned schemas are validated.
func ReadSchemasYAML(r io.Reader, locaters ...SchemaLocater) ([]*Schema, error) {
	docs := []*schemaDoc{}
	dec := yaml.NewDecoder(r)
	for {
		doc := &schemaDoc{}
		err := dec.Decode(doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read schema yaml: %w", err)
		}
		docs = append(docs, doc)
	}
	return newYamlReader(locaters).read(docs)
}

// Reads schemas from YAML string
func ReadSchemasYAMLString(text string, locaters ...SchemaLocater) ([]*Schema, error) {
	return ReadSchemasYAML(strings.NewReader(text), locaters...)
}

type yamlReader struct {
	locaters []SchemaLocater
	batch    *SchemaCache
}

func newYamlReader(locaters []SchemaLocater) *yamlReader {
	return &yamlReader{locaters: locaters, batch: NewSchemaCache()}
}

func (r *yamlReader) read(docs []*schemaDoc) ([]*Schema, error) {
	schemas := make([]*Schema, 0, len(docs))
	// first pass: schemas, classes and schema items
	for _, doc := range docs {
		s, err := r.readSchemaHeader(doc)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	// second pass: references
	for i, doc := range docs {
		if err := r.readReferences(schemas[i], doc); err != nil {
			return nil, err
		}
	}
	// third pass: class details
	for i, doc := range docs {
		if err := r.readClasses(schemas[i], doc); err != nil {
			return nil, err
		}
	}
	var errs []error
	for _, s := range schemas {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return schemas, nil
}

func (r *yamlReader) readSchemaHeader(doc *schemaDoc) (s *Schema, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = recoveredError(doc.Schema, p)
		}
	}()

	if ok, e := ValidIdent(doc.Schema); !ok {
		return nil, fmt.Errorf("schema name: %w", e)
	}
	ver, err := ParseSchemaVersion(doc.Version)
	if err != nil {
		return nil, fmt.Errorf("schema «%s»: %w", doc.Schema, err)
	}
	s = NewSchema(doc.Schema, doc.Alias, ver)
	s.SetDescription(doc.Description)
	if !r.batch.Add(s) {
		return nil, ErrAlreadyExists("schema «%s» is read twice", doc.Schema)
	}
	for _, ca := range doc.CustomAttributes {
		q, err := ParseQName(ca.Class)
		if err != nil {
			return nil, fmt.Errorf("schema «%s» custom attribute: %w", s.name, err)
		}
		s.SetCustomAttribute(q, ca.Values)
	}
	for _, e := range doc.Enumerations {
		t, err := ParsePrimitiveType(e.Type)
		if err != nil {
			return nil, fmt.Errorf("enumeration «%s.%s»: %w", s.name, e.Name, err)
		}
		en := s.AddEnumeration(e.Name, t).SetStrict(e.Strict)
		en.enumerators = append(en.enumerators, e.Enumerators...)
	}
	for _, u := range doc.Units {
		s.AddUnit(u.Name, u.Definition)
	}
	for _, f := range doc.Formats {
		s.AddFormat(f.Name, f.Spec)
	}
	for _, c := range doc.Categories {
		s.AddPropertyCategory(c.Name, c.Priority)
	}
	for _, cd := range doc.Classes {
		kind, err := ParseClassKind(cd.Kind)
		if err != nil {
			return nil, fmt.Errorf("class «%s.%s»: %w", s.name, cd.Name, err)
		}
		mod, err := ParseClassModifier(cd.Modifier)
		if err != nil {
			return nil, fmt.Errorf("class «%s.%s»: %w", s.name, cd.Name, err)
		}
		c := s.AddClass(cd.Name, kind).SetModifier(mod).SetDescription(cd.Description)
		for _, ca := range cd.CustomAttributes {
			q, err := ParseQName(ca.Class)
			if err != nil {
				return nil, fmt.Errorf("%v custom attribute: %w", c, err)
			}
			c.SetCustomAttribute(q, ca.Values)
		}
	}
	return s, nil
}

func (r *yamlReader) readReferences(s *Schema, doc *schemaDoc) error {
	for _, ref := range doc.References {
		ver, err := ParseSchemaVersion(ref.Version)
		if err != nil {
			return fmt.Errorf("schema «%s» reference «%s»: %w", s.name, ref.Name, err)
		}
		key := NewSchemaKey(ref.Name, ver)
		target := r.batch.LocateSchema(key, SchemaMatch_LatestWriteCompatible)
		for i := 0; target == nil && i < len(r.locaters); i++ {
			target = r.locaters[i].LocateSchema(key, SchemaMatch_LatestWriteCompatible)
		}
		if target == nil {
			return fmt.Errorf("schema «%s» reference: %w", s.name, ErrSchemaNotFound(key))
		}
		s.AddReference(target)
	}
	return nil
}

func (r *yamlReader) readClasses(s *Schema, doc *schemaDoc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = recoveredError(s.name, p)
		}
	}()

	for _, cd := range doc.Classes {
		c := s.Class(cd.Name)
		for _, b := range cd.Bases {
			base, err := findClass(s, b)
			if err != nil {
				return fmt.Errorf("%v base: %w", c, err)
			}
			c.AddBase(base)
		}
		if c.IsRelationship() {
			st, err := ParseStrength(cd.Strength)
			if err != nil {
				return fmt.Errorf("%v: %w", c, err)
			}
			c.SetStrength(st)
			src, err := readConstraint(s, cd.Source)
			if err != nil {
				return fmt.Errorf("%v source: %w", c, err)
			}
			tgt, err := readConstraint(s, cd.Target)
			if err != nil {
				return fmt.Errorf("%v target: %w", c, err)
			}
			c.SetConstraints(src, tgt)
		}
		for _, pd := range cd.Properties {
			if err := readProperty(s, c, pd); err != nil {
				return err
			}
		}
	}
	return nil
}

func readConstraint(s *Schema, cd *constraintDoc) (*RelationshipConstraint, error) {
	if cd == nil {
		return nil, ErrMissed("constraint")
	}
	m, err := ParseMultiplicity(cd.Multiplicity)
	if err != nil {
		return nil, err
	}
	cons := NewRelationshipConstraint(m, cd.Polymorphic).SetRoleLabel(cd.RoleLabel)
	for _, n := range cd.Classes {
		cls, err := findClass(s, n)
		if err != nil {
			return nil, err
		}
		cons.AddClass(cls)
	}
	return cons, nil
}

func readProperty(s *Schema, c *Class, pd propDoc) error {
	var p *Property
	switch {
	case pd.Relationship != "":
		rel, err := findClass(s, pd.Relationship)
		if err != nil {
			return fmt.Errorf("%v property «%s»: %w", c, pd.Name, err)
		}
		dir, err := ParseDirection(pd.Direction)
		if err != nil {
			return fmt.Errorf("%v property «%s»: %w", c, pd.Name, err)
		}
		p = c.AddNavigation(pd.Name, rel, dir)
	case pd.Struct != "":
		st, err := findClass(s, pd.Struct)
		if err != nil {
			return fmt.Errorf("%v property «%s»: %w", c, pd.Name, err)
		}
		if pd.Array {
			p = c.AddStructArray(pd.Name, st)
		} else {
			p = c.AddStruct(pd.Name, st)
		}
	case pd.Enum != "":
		en, err := findItem(s, pd.Enum, (*Schema).Enumeration)
		if err != nil {
			return fmt.Errorf("%v property «%s»: %w", c, pd.Name, err)
		}
		p = c.AddEnumeration(pd.Name, en)
	default:
		t, err := ParsePrimitiveType(pd.Type)
		if err != nil {
			return fmt.Errorf("%v property «%s»: %w", c, pd.Name, err)
		}
		if pd.Array {
			p = c.AddPrimitiveArray(pd.Name, t)
		} else {
			p = c.AddPrimitive(pd.Name, t)
		}
	}
	p.SetDescription(pd.Description)
	if pd.ReadOnly {
		p.SetReadOnly()
	}
	if pd.Array && (pd.MinOccurs != nil || pd.MaxOccurs != nil) {
		min, max := p.minOccurs, p.maxOccurs
		if pd.MinOccurs != nil {
			min = *pd.MinOccurs
		}
		if pd.MaxOccurs != nil {
			max = *pd.MaxOccurs
		}
		p.SetOccurs(min, max)
	}
	if pd.Category != "" {
		cat, err := findItem(s, pd.Category, (*Schema).PropertyCategory)
		if err != nil {
			return fmt.Errorf("%v: %w", p, err)
		}
		p.SetCategory(cat)
	}
	if pd.Unit != "" {
		u, err := findItem(s, pd.Unit, (*Schema).Unit)
		if err != nil {
			return fmt.Errorf("%v: %w", p, err)
		}
		p.SetUnit(u)
	}
	for _, ca := range pd.CustomAttributes {
		q, err := ParseQName(ca.Class)
		if err != nil {
			return fmt.Errorf("%v custom attribute: %w", p, err)
		}
		p.SetCustomAttribute(q, ca.Values)
	}
	return nil
}

func recoveredError(schema string, p any) error {
	if e, ok := p.(error); ok {
		return fmt.Errorf("schema «%s»: %w", schema, e)
	}
	return fmt.Errorf("schema «%s»: %v", schema, p)
}

// Returns schema, which is addressed by qualifier (name or alias) from schema s:
// schema itself or one of its references
func qualifiedSchema(s *Schema, qualifier string) *Schema {
	if qualifier == "" || s.NameOrAliasIs(qualifier) {
		return s
	}
	for _, r := range s.references {
		if r.NameOrAliasIs(qualifier) {
			return r
		}
	}
	return nil
}

func splitRef(ref string) (qualifier, name string) {
	if i := strings.LastIndex(ref, QNameQualifierChar); i >= 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

// Finds class by reference «Name» or «alias.Name» in schema or its references
func findClass(s *Schema, ref string) (*Class, error) {
	q, n := splitRef(ref)
	if src := qualifiedSchema(s, q); src != nil {
		if c := src.Class(n); c != nil {
			return c, nil
		}
	}
	return nil, ErrNotFound("class «%s» from schema «%s»", ref, s.name)
}

func findItem[T any](s *Schema, ref string, get func(*Schema, string) *T) (*T, error) {
	q, n := splitRef(ref)
	if src := qualifiedSchema(s, q); src != nil {
		if item := get(src, n); item != nil {
			return item, nil
		}
	}
	return nil, ErrNotFound("«%s» from schema «%s»", ref, s.name)
}

// Returns reference to item from schema s as string: «Name» for own items, «alias.Name» for foreign ones
func itemRef(s *Schema, owner *Schema, name string) string {
	if owner == s {
		return name
	}
	return owner.alias + QNameQualifierChar + name
}

// Marshals schema to YAML document
func MarshalSchemaYAML(s *Schema) ([]byte, error) {
	doc := schemaDoc{
		Schema:      s.name,
		Alias:       s.alias,
		Version:     s.version.String(),
		Description: s.description,
	}
	for _, r := range s.references {
		doc.References = append(doc.References, refDoc{Name: r.name, Version: r.version.String()})
	}
	doc.CustomAttributes = marshalCAs(s.attrs)
	for _, e := range s.enums {
		doc.Enumerations = append(doc.Enumerations, enumDoc{Name: e.name, Type: e.backing.String(), Strict: e.strict, Enumerators: e.enumerators})
	}
	for _, u := range s.units {
		doc.Units = append(doc.Units, unitDoc{Name: u.name, Definition: u.definition})
	}
	for _, f := range s.formats {
		doc.Formats = append(doc.Formats, formatDoc{Name: f.name, Spec: f.spec})
	}
	for _, c := range s.categories {
		doc.Categories = append(doc.Categories, categoryDoc{Name: c.name, Priority: c.priority})
	}
	for _, c := range s.classes {
		cd := classDoc{
			Name:             c.name,
			Kind:             c.kind.String(),
			Description:      c.description,
			CustomAttributes: marshalCAs(c.attrs),
		}
		if c.modifier != ClassModifier_None {
			cd.Modifier = c.modifier.String()
		}
		for _, b := range c.bases {
			cd.Bases = append(cd.Bases, itemRef(s, b.schema, b.name))
		}
		if c.IsRelationship() {
			cd.Strength = c.strength.String()
			cd.Source = marshalConstraint(s, c.source)
			cd.Target = marshalConstraint(s, c.target)
		}
		for _, p := range c.props {
			cd.Properties = append(cd.Properties, marshalProperty(s, p))
		}
		doc.Classes = append(doc.Classes, cd)
	}

	buf := bytes.Buffer{}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("marshal schema «%s»: %w", s.name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCAs(attrs []*CustomAttribute) []caDoc {
	var res []caDoc
	for _, ca := range attrs {
		d := caDoc{Class: ca.class.String()}
		if len(ca.values) > 0 {
			d.Values = ca.values
		}
		res = append(res, d)
	}
	return res
}

func marshalConstraint(s *Schema, c *RelationshipConstraint) *constraintDoc {
	if c == nil {
		return nil
	}
	d := &constraintDoc{Multiplicity: c.multiplicity.String(), Polymorphic: c.polymorphic, RoleLabel: c.roleLabel}
	for _, cls := range c.classes {
		d.Classes = append(d.Classes, itemRef(s, cls.schema, cls.name))
	}
	return d
}

func marshalProperty(s *Schema, p *Property) propDoc {
	d := propDoc{
		Name:             p.name,
		Description:      p.description,
		ReadOnly:         p.readOnly,
		CustomAttributes: marshalCAs(p.attrs),
	}
	switch p.kind {
	case PropertyKind_Primitive:
		d.Type = p.primitive.String()
	case PropertyKind_PrimitiveArray:
		d.Type = p.primitive.String()
		d.Array = true
	case PropertyKind_Enumeration:
		d.Enum = itemRef(s, p.enum.schema, p.enum.name)
	case PropertyKind_Struct:
		d.Struct = itemRef(s, p.structClass.schema, p.structClass.name)
	case PropertyKind_StructArray:
		d.Struct = itemRef(s, p.structClass.schema, p.structClass.name)
		d.Array = true
	case PropertyKind_Navigation:
		d.Relationship = itemRef(s, p.relationship.schema, p.relationship.name)
		d.Direction = p.direction.String()
	}
	if p.IsArray() && (p.minOccurs != 0 || p.maxOccurs != Unbounded) {
		min, max := p.minOccurs, p.maxOccurs
		d.MinOccurs, d.MaxOccurs = &min, &max
	}
	if p.category != nil {
		d.Category = itemRef(s, p.category.schema, p.category.name)
	}
	if p.unit != nil {
		d.Unit = itemRef(s, p.unit.schema, p.unit.name)
	}
	return d
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdef

import (
	"fmt"
	"strings"
)

// # QName
//
// # Qualified class name
//
// <schema>.<class>
type QName struct {
	schema string
	name   string
}

var NullQName = QName{}

// Builds a qualified name from schema name (or alias) and class name
func NewQName(schema, name string) QName {
	return QName{schema: schema, name: name}
}

// Parse a qualified name from string.
//
// # Panics:
//   - if string is not a valid qualified name
func MustParseQName(val string) QName {
	q, err := ParseQName(val)
	if err != nil {
		panic(err)
	}
	return q
}

// Parse a qualified name from string
func ParseQName(val string) (QName, error) {
	s := strings.Split(val, QNameQualifierChar)
	if len(s) != 2 || s[0] == "" || s[1] == "" {
		return NullQName, fmt.Errorf("%w: %v", ErrInvalidQNameStringRepresentation, val)
	}
	return NewQName(s[0], s[1]), nil
}

// Returns schema name or alias
func (qn QName) Schema() string { return qn.schema }

// Returns class name
func (qn QName) Name() string { return qn.name }

func (qn QName) String() string { return qn.schema + QNameQualifierChar + qn.name }

// Compare two qualified names
func CompareQName(a, b QName) int {
	if a.schema != b.schema {
		return strings.Compare(a.schema, b.schema)
	}
	return strings.Compare(a.name, b.name)
}

// Returns is string a valid identifier and error if not
func ValidIdent(ident string) (bool, error) {
	const maxIdentLen = 255
	if ident == "" {
		return false, ErrMissed("identifier")
	}
	if len(ident) > maxIdentLen {
		return false, ErrOutOfBounds("identifier «%s» is too long (%d runes, max %d)", ident, len(ident), maxIdentLen)
	}
	for i, r := range ident {
		letter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		digit := r >= '0' && r <= '9'
		if !letter && !(digit && i > 0) {
			return false, ErrInvalid("identifier «%s» has invalid char «%c» at pos %d", ident, r, i)
		}
	}
	return true, nil
}

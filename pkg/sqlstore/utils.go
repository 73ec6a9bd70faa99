/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Returns SQL quoted identifier
func Quote(ident string) string { return quote(ident) }

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Returns SQL quoted qualified name «"tableSpace"."name"»
func QualifiedName(tableSpace, name string) string {
	return quote(tableSpace) + "." + quote(name)
}

func isMemory(path string) bool {
	return path == "" || path == memoryPath || strings.HasPrefix(path, "file::memory:")
}

func dsn(params Params) string {
	switch {
	case isMemory(params.Path):
		return "file::memory:"
	case params.ReadOnly:
		return "file:" + params.Path + "?mode=ro"
	}
	return params.Path
}

func checkTableSpaceName(name string) error {
	if ok, err := ecdef.ValidIdent(name); !ok {
		return fmt.Errorf("%w: %w", ErrInvalidTableSpaceName, err)
	}
	if strings.EqualFold(name, MainTableSpace) || strings.EqualFold(name, "temp") {
		return fmt.Errorf("%w: «%s» is reserved", ErrInvalidTableSpaceName, name)
	}
	return nil
}

// Wraps read-only and constraint errors of SQLite engine by ErrReadOnly and ErrConstraint
func translateError(err error) error {
	var e sqlite3.Error
	if !errors.As(err, &e) {
		return err
	}
	switch e.Code {
	case sqlite3.ErrReadonly:
		return fmt.Errorf("%w: %w", ErrReadOnly, err)
	case sqlite3.ErrConstraint:
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}
	return err
}

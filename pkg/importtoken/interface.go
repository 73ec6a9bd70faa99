/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package importtoken

// Checks tokens presented to schema import and drop
type IValidator interface {
	// Returns ErrInvalidImportToken wrapped if token is missing, forged or malformed,
	// ErrImportTokenExpired if token is expired
	Validate(token string) error
}

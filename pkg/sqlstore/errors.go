/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

import (
	"errors"
)

var ErrReadOnly = errors.New("store is read-only")

var ErrProfileTooNew = errors.New("store file profile is newer than supported")

var ErrIDsExhausted = errors.New("identifiers sequence exhausted")

var ErrTableSpaceNotAttached = errors.New("table space is not attached")

var ErrTableSpaceAlreadyAttached = errors.New("table space is already attached")

var ErrInvalidTableSpaceName = errors.New("invalid table space name")

var ErrConstraint = errors.New("constraint violation")

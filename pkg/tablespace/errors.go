/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package tablespace

import (
	"errors"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// Class has no valid identifier in table space
var ErrNoSuchClass = errors.New("no such class")

// Derived classes can not be completely loaded
var ErrHierarchyLoad = errors.New("class hierarchy load failed")

func errNoSuchClass(c *ecdef.Class, space string) error {
	return ecdef.EnrichError(ErrNoSuchClass, "%v has no identifier in table space «%s»", c, space)
}

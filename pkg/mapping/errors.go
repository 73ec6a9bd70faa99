/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

import (
	"errors"
)

var ErrNotAuthorized = errors.New("schema import is not authorized")

var ErrNoSchemas = errors.New("no schemas to import")

var ErrEngineTooOld = errors.New("schema requires newer mapping engine")

var ErrMajorSchemaUpgrade = errors.New("schema upgrade requires major schema upgrade to be allowed")

var ErrMapStrategyChanged = errors.New("map strategy of mapped class can not be changed")

var ErrInvalidMapStrategy = errors.New("invalid map strategy")

var ErrColumnLimit = errors.New("class exceeds columns limit")

var ErrIndexNameConflict = errors.New("index with the same name and different definition exists")

var ErrIndexSpansPartitions = errors.New("index spans more than one table")

var ErrInvalidIndex = errors.New("invalid index definition")

var ErrExistingTableMismatch = errors.New("existing table does not match class")

var ErrPurgeRequiresMajorUpgrade = errors.New("dropping tables requires major schema upgrade to be allowed")

var ErrSchemaNotFound = errors.New("schema not found")

var ErrSchemaReferenced = errors.New("schema is referenced by other schema")

var ErrLayoutInvalid = errors.New("storage layout does not match mapping")

var ErrSyncPull = errors.New("pull from shared schema store failed")

var ErrSyncPush = errors.New("push to shared schema store failed, local changes are kept")

// Class can not be mapped until its base classes are mapped. Consumed by mapping loop
var errBaseClassesNotMapped = errors.New("base classes are not mapped")

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package mapping

// Savepoints of mutating operations
const (
	importSavepoint = "ec_import"
	dropSavepoint   = "ec_drop"
)

// Generated class views have names «cv_<alias>_<class>»
const viewPrefix = "cv_"

// Separator of schema alias and class name in table names
const tableNameSeparator = "_"

// Prefixes of auto-generated index names
const (
	autoIndexPrefix       = "ix_"
	autoUniqueIndexPrefix = "uix_"
)

// Step names of recorded data transform
const overflowSweepStep = "overflow rows of «%s»"

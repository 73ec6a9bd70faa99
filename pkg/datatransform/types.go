/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package datatransform

// Named data statement
type Step struct {
	Name string
	SQL  string
	Args []any
}

// Ordered data statements recorded during schema import and run after tables are updated
type Transform struct {
	steps []Step
}

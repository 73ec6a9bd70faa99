/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package datatransform

func New() *Transform { return &Transform{} }

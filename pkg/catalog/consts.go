/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package catalog

// Table space filter, which means all attached table spaces in attachment order,
// main first, then virtual schemas
const AnyTableSpace = ""

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package catalog

import "errors"

var ErrAlreadyAttached = errors.New("table space already attached")

var ErrNotAttachable = errors.New("table space is not attached to store")

var ErrNotFound = errors.New("table space not found")

var ErrMainTableSpace = errors.New("main table space can not be attached or detached")

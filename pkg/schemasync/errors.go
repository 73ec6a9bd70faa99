/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemasync

import "errors"

var ErrSyncLocationUnreachable = errors.New("shared schema store location is unreachable")

var ErrSyncLocationRequired = errors.New("shared schema store location is required")

var ErrSyncLocationMismatch = errors.New("shared schema store location does not match established one")

var ErrSyncIDMismatch = errors.New("shared schema store has different sync id")

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package importtoken

import "errors"

var ErrInvalidImportToken = errors.New("invalid import token")

var ErrImportTokenExpired = errors.New("import token expired")

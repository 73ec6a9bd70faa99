/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package ecdb

import "errors"

var ErrNoTokenSecret = errors.New("import tokens can not be issued without secret key")

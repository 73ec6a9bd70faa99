/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package schemasync

import (
	"os"
	"time"
)

const (
	schemasBucketName = "schemas"
	metaBucketName    = "meta"
	syncIDKey         = "syncId"
	versionKey        = "version"
	definitionKey     = "definition"
	ordinalKey        = "ordinal"
)

const openTimeout = time.Second

const fileMode os.FileMode = 0o644

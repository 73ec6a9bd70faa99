/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import "time"

const (
	defaultDbPath = "schemacat.db"
	defaultToken  = "local"
)

const defaultTokenDuration = time.Hour

// Separates YAML documents of different files
const yamlDocumentSeparator = "\n---\n"

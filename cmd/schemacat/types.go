/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

type catParams struct {
	DbPath       string
	Token        string
	TokenSecret  string
	SyncLocation string
	AllowMajor   bool
}

type importParams struct {
	catParams
	ClassViews     bool
	DeferTransform bool
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voedger/schemacat/pkg/ecdb"
	"github.com/voedger/schemacat/pkg/importtoken"
	"github.com/voedger/schemacat/pkg/sqlstore"
)

func initGlobalFlags(cmd *cobra.Command, params *catParams) {
	cmd.SilenceErrors = true
	cmd.Flags().StringVar(&params.DbPath, "db", defaultDbPath, "Store file")
	cmd.Flags().StringVar(&params.TokenSecret, "token-secret", "", "Secret key of import tokens. If empty, any non-empty token is accepted")
}

func initMutateFlags(cmd *cobra.Command, params *catParams) {
	initGlobalFlags(cmd, params)
	cmd.Flags().StringVar(&params.Token, "token", defaultToken, "Import token")
	cmd.Flags().StringVar(&params.SyncLocation, "sync", "", "Shared schema store established by «sync init»")
	cmd.Flags().BoolVar(&params.AllowMajor, "allow-major", false, "Allow major schema upgrade and dropping of tables")
}

func openDB(ctx context.Context, params catParams, readOnly bool) (*ecdb.DB, error) {
	if l := len(params.TokenSecret); l > 0 && l < importtoken.SecretKeyLength {
		return nil, fmt.Errorf("token secret must be at least %d bytes, got %d", importtoken.SecretKeyLength, l)
	}
	return ecdb.Open(ctx, ecdb.Params{
		Store:       sqlstore.Params{Path: params.DbPath, ReadOnly: readOnly},
		TokenSecret: importtoken.SecretKey(params.TokenSecret),
	})
}

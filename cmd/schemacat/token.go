/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voedger/schemacat/pkg/importtoken"
)

func newTokenCmd() *cobra.Command {
	var secret string
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "issue import token signed by token secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(secret) < importtoken.SecretKeyLength {
				return fmt.Errorf("token secret must be at least %d bytes", importtoken.SecretKeyLength)
			}
			token, err := importtoken.New(importtoken.SecretKey(secret)).Issue(duration)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.SilenceErrors = true
	cmd.Flags().StringVar(&secret, "token-secret", "", "Secret key of import tokens")
	cmd.Flags().DurationVar(&duration, "duration", defaultTokenDuration, "Token lifetime")
	return cmd
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "shared schema store synchronization",
	}
	cmd.AddCommand(newSyncInitCmd(), newSyncInfoCmd())
	return cmd
}

func newSyncInitCmd() *cobra.Command {
	params := catParams{}
	cmd := &cobra.Command{
		Use:   "init LOCATION",
		Short: "establish shared schema store, which is created if not exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context(), params, false)
			if err != nil {
				return err
			}
			defer db.Close()
			return db.InitSync(cmd.Context(), args[0])
		},
	}
	initGlobalFlags(cmd, &params)
	return cmd
}

func newSyncInfoCmd() *cobra.Command {
	params := catParams{}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "print established shared schema store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context(), params, true)
			if err != nil {
				return err
			}
			defer db.Close()

			info, ok, err := db.SyncInfo(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "synchronization is disabled")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, sync id %s\n", info.Location, info.SyncID)
			return nil
		},
	}
	initGlobalFlags(cmd, &params)
	return cmd
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voedger/schemacat/pkg/mapping"
)

func newDropCmd() *cobra.Command {
	params := catParams{}
	cmd := &cobra.Command{
		Use:   "drop NAME...",
		Short: "drop schemas and purge tables no class is mapped to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context(), params, false)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := db.DropSchemas(cmd.Context(), args, mapping.DropOptions{AllowMajorSchemaUpgrade: params.AllowMajor},
				params.Token, params.SyncLocation)
			if res != nil {
				w := cmd.OutOrStdout()
				for _, s := range res.Schemas {
					fmt.Fprintf(w, "schema %s: dropped\n", s)
				}
				for _, idx := range res.IndexesDropped {
					fmt.Fprintf(w, "index %s: dropped\n", idx)
				}
				for _, t := range res.PurgedTables {
					fmt.Fprintf(w, "table %s: purged\n", t)
				}
			}
			return err
		},
	}
	initMutateFlags(cmd, &params)
	return cmd
}

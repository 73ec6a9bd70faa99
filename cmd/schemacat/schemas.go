/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voedger/schemacat/pkg/sqlstore"
	"github.com/voedger/schemacat/pkg/tablespace"
)

func newSchemasCmd() *cobra.Command {
	params := catParams{}
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "list schemas of store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context(), params, true)
			if err != nil {
				return err
			}
			defer db.Close()

			schemas, err := db.Schemas(cmd.Context(), sqlstore.MainTableSpace)
			if err != nil {
				return err
			}
			for _, s := range schemas {
				dynamic := ""
				if s.IsDynamic() {
					dynamic = " dynamic"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %v%s\n", s.Name(), s.Alias(), s.Version(), dynamic)
			}
			return nil
		},
	}
	initGlobalFlags(cmd, &params)
	return cmd
}

func newClassesCmd() *cobra.Command {
	params := catParams{}
	cmd := &cobra.Command{
		Use:   "classes SCHEMA",
		Short: "list classes of schema with their map strategies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(ctx, params, true)
			if err != nil {
				return err
			}
			defer db.Close()

			main := db.Catalog().Main()
			s, err := main.GetSchema(ctx, args[0], tablespace.LookupMode_ByName)
			if err == nil && s == nil {
				s, err = main.GetSchema(ctx, args[0], tablespace.LookupMode_ByAlias)
			}
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("schema «%s» not found", args[0])
			}
			for _, c := range s.Classes() {
				cm, err := main.GetClassMap(ctx, c)
				if err != nil {
					return err
				}
				if cm == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", c.Name(), c.Kind())
					continue
				}
				table := ""
				if t := cm.PrimaryTable(); t != nil {
					table = t.Name()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v %v %s\n", c.Name(), c.Kind(), cm.Strategy(), table)
			}
			return nil
		},
	}
	initGlobalFlags(cmd, &params)
	return cmd
}

func newTablesCmd() *cobra.Command {
	params := catParams{}
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "list tables of physical model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(ctx, params, true)
			if err != nil {
				return err
			}
			defer db.Close()

			dbs, err := db.Catalog().Main().DbSchema(ctx)
			if err != nil {
				return err
			}
			for _, t := range dbs.Tables() {
				parent := ""
				if p := t.Parent(); p != nil {
					parent = " of " + p.Name()
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v%s, %d columns\n", t.Name(), t.Type(), parent, len(t.Columns()))
			}
			for _, idx := range dbs.Indexes() {
				fmt.Fprintf(cmd.OutOrStdout(), "%v\n", idx)
			}
			return nil
		},
	}
	initGlobalFlags(cmd, &params)
	return cmd
}

/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/voedger/schemacat/pkg/mapping"
)

func newImportCmd() *cobra.Command {
	params := importParams{}
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "import schemas from YAML files and map their classes to tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			r, err := readFiles(args)
			if err != nil {
				return err
			}
			db, err := openDB(cmd.Context(), params.catParams, false)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := db.ImportYAML(cmd.Context(), r, mapping.ImportOptions{
				AllowMajorSchemaUpgrade: params.AllowMajor,
				GenerateClassViews:      params.ClassViews,
				DeferDataTransform:      params.DeferTransform,
			}, params.Token, params.SyncLocation)
			if res != nil {
				printImportResult(cmd.OutOrStdout(), res)
			}
			return err
		},
	}
	initMutateFlags(cmd, &params.catParams)
	cmd.Flags().BoolVar(&params.ClassViews, "views", false, "Generate class views")
	cmd.Flags().BoolVar(&params.DeferTransform, "defer-transform", false, "Print data transform instead of running it")
	return cmd
}

// Returns reader of files contents as one multi-document YAML stream
func readFiles(files []string) (io.Reader, error) {
	docs := make([]string, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		logger.Verbose(fmt.Sprintf("%s: %d bytes", f, len(b)))
		docs = append(docs, string(b))
	}
	return strings.NewReader(strings.Join(docs, yamlDocumentSeparator)), nil
}

func printImportResult(w io.Writer, res *mapping.ImportResult) {
	for _, s := range res.Schemas {
		fmt.Fprintf(w, "schema %s %v: %v\n", s.Name, s.Version, s.Action)
	}
	for name, status := range res.Tables {
		fmt.Fprintf(w, "table %s: %v\n", name, status)
	}
	for _, idx := range res.IndexesCreated {
		fmt.Fprintf(w, "index %s: created\n", idx)
	}
	for _, idx := range res.IndexesDropped {
		fmt.Fprintf(w, "index %s: dropped\n", idx)
	}
	for _, idx := range res.IndexesSkipped {
		fmt.Fprintf(w, "index %s: skipped\n", idx)
	}
	for _, t := range res.PurgedTables {
		fmt.Fprintf(w, "table %s: purged\n", t)
	}
	for _, step := range res.Transform.Steps() {
		fmt.Fprintf(w, "-- %s\n%s;\n", step.Name, step.SQL)
	}
}

// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
)

var exportOut string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the store schema",
	Long:  `Apply the embedded goose migrations (sqlite, postgres) or create the BigQuery tables. File and memory stores need no schema.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := state.cloud.Migrate(cmd.Context(), state.config); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "store %q is up to date\n", state.config.Store.Backend)
		return nil
	},
}

var exportLogsCmd = &cobra.Command{
	Use:   "export-logs",
	Short: "Write the event log as JSON",
	Long:  `Write the event log, in insertion order, as the same JSON array served by GET /api/logs/export.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			file, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer file.Close()
			w = file
		}
		return state.eventLog.Export(cmd.Context(), w)
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Cross-check catalog references against stored files",
	Long:  `Print the maintenance report. Exits with an error when dangling entries or orphaned files exist.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report, err := state.report.Report(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		if !report.Healthy() {
			return fmt.Errorf("%d dangling entries, %d orphaned files",
				len(report.DanglingEntries), len(report.OrphanedFiles))
		}
		return nil
	},
}

func init() {
	exportLogsCmd.Flags().StringVarP(&exportOut, "out", "o", services.ExportFileName, "Output file, \"-\" for stdout")
}

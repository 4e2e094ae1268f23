/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/extractor"
)

var (
	csvInput string
	csvKind  string
)

// extractCSVCmd re-materializes an offline CSV export without a live source.
var extractCSVCmd = &cobra.Command{
	Use:     "extract-csv",
	Short:   "Re-materialize a headerless CSV catalog export into canonical artifacts",
	Long:    `Validates and normalizes a positional CSV export of catalog metadata, producing the same canonical artifact a live extraction would.`,
	Example: `./dwh_metadata_extractor extract-csv --input ./svv_columns.csv --type columns`,
	RunE:    runExtractCSV,
}

func runExtractCSV(cmd *cobra.Command, args []string) error {
	if csvInput == "" {
		return fmt.Errorf("--input is required")
	}

	logger.Info("starting CSV re-materialization",
		zap.String("input", csvInput),
		zap.String("type", csvKind))

	e, err := extractor.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := e.ExtractCSV(csvInput, csvKind); err != nil {
		return err
	}
	return finishRun(cmd.Context(), e)
}

func init() {
	extractCSVCmd.Flags().StringVar(&csvInput, "input", "", "Path to the input CSV export - MANDATORY")
	extractCSVCmd.Flags().StringVar(&csvKind, "type", "columns", "Metadata kind in the export ('columns' or 'tables')")
}

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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/extractor"
)

// extractCmd represents the extract command for SQL catalog sources.
var extractCmd = &cobra.Command{
	Use:     "extract",
	Short:   "Extract table and column metadata from a SQL source catalog",
	Long:    `Connects to the configured source, reads its catalog views, and lands canonical tables and columns artifacts.`,
	Example: `./dwh_metadata_extractor extract --dialect redshift --host my-cluster.example.com --port 5439 --username user --password pass --database mydb`,
	RunE:    runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := setupSource(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("starting catalog extraction",
		zap.String("dialect", cfg.Source.Dialect),
		zap.String("database", cfg.Source.DBName))

	e, err := extractor.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := e.ExtractTables(ctx, db); err != nil {
		return err
	}
	if err := e.ExtractColumns(ctx, db); err != nil {
		return err
	}
	return finishRun(ctx, e)
}

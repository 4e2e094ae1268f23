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
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/config"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/extractor"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/gcs"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse"
	_ "github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse/mysql"
	_ "github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse/postgres"
	_ "github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse/redshift"
	_ "github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/warehouse/sqlserver"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	configFile string
	verbose    bool

	// Source connection flags
	dialect                        string
	host                           string
	port                           int
	username                       string
	password                       string
	dbName                         string
	sslMode                        string
	cloudSQLInstanceConnectionName string
	cloudSQLUsePrivateIP           bool

	// Output flags
	outputDir     string
	targetGCS     string
	gcsKeyFile    string
	keepArtifacts bool
)

var rootCmd = &cobra.Command{
	Use:   "dwh_metadata_extractor",
	Short: "A tool to extract warehouse metadata into canonical CSV artifacts",
	Long: `dwh_metadata_extractor connects to a data warehouse catalog (a SQL
source, a CSV export, or a hive metastore) and lands its table and column
metadata as canonical CSV artifacts, optionally uploading them to GCS.`,
	PersistentPreRunE: initFlagsAndConfig,
	SilenceUsage:      true,
}

// initFlagsAndConfig loads the config file and environment, then overlays
// any flag the user set explicitly.
func initFlagsAndConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	overlayString(flags, "dialect", &cfg.Source.Dialect, dialect)
	overlayString(flags, "host", &cfg.Source.Host, host)
	overlayInt(flags, "port", &cfg.Source.Port, port)
	overlayString(flags, "username", &cfg.Source.User, username)
	overlayString(flags, "password", &cfg.Source.Password, password)
	overlayString(flags, "database", &cfg.Source.DBName, dbName)
	overlayString(flags, "sslmode", &cfg.Source.SSLMode, sslMode)
	overlayString(flags, "cloudsql-instance-connection-name", &cfg.Source.CloudSQLInstanceConnectionName, cloudSQLInstanceConnectionName)
	if flags.Changed("cloudsql-use-private-ip") {
		cfg.Source.UsePrivateIP = cloudSQLUsePrivateIP
	}
	overlayString(flags, "output-dir", &cfg.Output.Dir, outputDir)
	overlayString(flags, "target-gcs", &cfg.Output.TargetGCS, targetGCS)
	if flags.Changed("keep-artifacts") {
		cfg.Output.KeepArtifacts = keepArtifacts
	}

	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	return nil
}

func overlayString(flags *pflag.FlagSet, name string, dst *string, v string) {
	if flags.Changed(name) {
		*dst = v
	}
}

func overlayInt(flags *pflag.FlagSet, name string, dst *int, v int) {
	if flags.Changed(name) {
		*dst = v
	}
}

func validateDialect(dialect string) error {
	for _, supported := range warehouse.Dialects() {
		if dialect == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported dialect: %s (only %s are supported)",
		dialect, strings.Join(warehouse.Dialects(), ", "))
}

func setupSource(ctx context.Context) (*warehouse.DB, error) {
	if err := validateDialect(cfg.Source.Dialect); err != nil {
		return nil, err
	}
	db, err := warehouse.New(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to source: %w", err)
	}
	return db, nil
}

// finishRun uploads the run directory when a GCS target is configured and
// cleans the local artifacts up afterwards.
func finishRun(ctx context.Context, e *extractor.Extractor) error {
	if cfg.Output.TargetGCS == "" {
		logger.Info("extraction complete", zap.String("dir", e.Dir()))
		return nil
	}
	u, err := gcs.NewUploader(ctx, cfg.Output.TargetGCS, gcsKeyFile, logger)
	if err != nil {
		return err
	}
	defer u.Close()
	if err := u.UploadDir(ctx, e.Dir(), e.RunID()); err != nil {
		return err
	}
	logger.Info("extraction uploaded",
		zap.String("target", cfg.Output.TargetGCS),
		zap.String("run_id", e.RunID()))
	return e.Cleanup()
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable development logging")

	// Source connection flags
	rootCmd.PersistentFlags().StringVar(&dialect, "dialect", "redshift", "Source dialect (redshift, postgres, mysql, sqlserver, cloudsqlpostgres, cloudsqlmysql, cloudsqlsqlserver)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "localhost", "Source host")
	rootCmd.PersistentFlags().IntVar(&port, "port", 5439, "Source port")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "Source username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Source password")
	rootCmd.PersistentFlags().StringVar(&dbName, "database", "", "Source database name")
	rootCmd.PersistentFlags().StringVar(&sslMode, "sslmode", "disable", "SSL mode for postgres-protocol sources")
	rootCmd.PersistentFlags().StringVar(&cloudSQLInstanceConnectionName, "cloudsql-instance-connection-name", "", "Cloud SQL instance connection name (for Cloud SQL dialects)")
	rootCmd.PersistentFlags().BoolVar(&cloudSQLUsePrivateIP, "cloudsql-use-private-ip", false, "Use private IP for Cloud SQL connection")

	// Output flags
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "dwh-extract-output", "Local directory for run artifacts")
	rootCmd.PersistentFlags().StringVar(&targetGCS, "target-gcs", "", "Upload target as gs://bucket/prefix; empty disables upload")
	rootCmd.PersistentFlags().StringVar(&gcsKeyFile, "gcs-key-file", "", "Service account key file for the GCS upload")
	rootCmd.PersistentFlags().BoolVar(&keepArtifacts, "keep-artifacts", false, "Keep the local run directory after a successful upload")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(extractCSVCmd)
	rootCmd.AddCommand(extractHiveCmd)
}

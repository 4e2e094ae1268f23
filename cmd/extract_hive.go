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
	"time"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/extractor"
	"github.com/GoogleCloudPlatform/dwh-metadata-extractor/internal/metastore"
)

var (
	metastoreHost    string
	metastorePort    int
	metastoreVersion string
	hiveCatalog      string
	hiveWorkers      int
)

// extractHiveCmd walks a hive metastore over its Thrift protocol.
var extractHiveCmd = &cobra.Command{
	Use:     "extract-hive",
	Short:   "Extract table, column, partition, and function metadata from a hive metastore",
	Long:    `Connects to the metastore Thrift service, negotiates a protocol adapter for the server's version, and lands canonical artifacts for the whole catalog.`,
	Example: `./dwh_metadata_extractor extract-hive --metastore-host metastore.example.com --metastore-port 9083 --workers 8`,
	RunE:    runExtractHive,
}

func runExtractHive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()
	overlayString(flags, "metastore-host", &cfg.Hive.Host, metastoreHost)
	overlayInt(flags, "metastore-port", &cfg.Hive.Port, metastorePort)
	overlayString(flags, "metastore-version", &cfg.Hive.Version, metastoreVersion)
	overlayString(flags, "catalog", &cfg.Hive.Catalog, hiveCatalog)
	overlayInt(flags, "workers", &cfg.Hive.Workers, hiveWorkers)

	if cfg.Hive.Host == "" {
		return fmt.Errorf("--metastore-host is required")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Hive.Host, cfg.Hive.Port)
	logger.Info("starting metastore extraction",
		zap.String("address", addr),
		zap.String("catalog", cfg.Hive.Catalog))

	// Each adapter owns its connection exclusively, so the extractor dials
	// one session per worker.
	dial := func() (metastore.Client, error) {
		return dialMetastore(ctx, addr, cfg.Hive.Version)
	}

	e, err := extractor.New(cfg, logger)
	if err != nil {
		return err
	}
	if err := e.ExtractHive(ctx, dial); err != nil {
		return err
	}
	return finishRun(ctx, e)
}

// dialMetastore opens one Thrift session and negotiates its protocol
// adapter. Metastore deployments speak the unframed binary protocol.
func dialMetastore(ctx context.Context, addr, versionOverride string) (metastore.Client, error) {
	tcfg := &thrift.TConfiguration{
		ConnectTimeout: 30 * time.Second,
		SocketTimeout:  5 * time.Minute,
	}
	sock := thrift.NewTSocketConf(addr, tcfg)
	trans := thrift.NewTBufferedTransport(sock, 8192)
	if err := trans.Open(); err != nil {
		return nil, fmt.Errorf("connecting to metastore %s: %w", addr, err)
	}
	pf := thrift.NewTBinaryProtocolFactoryConf(tcfg)

	c, err := metastore.Open(ctx, trans, pf, versionOverride, logger)
	if err != nil {
		trans.Close()
		return nil, err
	}
	return c, nil
}

func init() {
	extractHiveCmd.Flags().StringVar(&metastoreHost, "metastore-host", "", "Metastore Thrift host - MANDATORY")
	extractHiveCmd.Flags().IntVar(&metastorePort, "metastore-port", 9083, "Metastore Thrift port")
	extractHiveCmd.Flags().StringVar(&metastoreVersion, "metastore-version", "", "Force a protocol adapter ('superset' or 'compat') instead of probing")
	extractHiveCmd.Flags().StringVar(&hiveCatalog, "catalog", "hive", "Catalog name stamped on canonical rows")
	extractHiveCmd.Flags().IntVar(&hiveWorkers, "workers", 4, "Concurrent extraction sessions")
}

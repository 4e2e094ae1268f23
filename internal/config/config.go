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
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the extractor.
type Config struct {
	Source SourceConfig `mapstructure:"source"`
	Hive   HiveConfig   `mapstructure:"hive"`
	Output OutputConfig `mapstructure:"output"`
}

// SourceConfig holds SQL source connection configuration.
type SourceConfig struct {
	Dialect                        string `mapstructure:"dialect"`
	Host                           string `mapstructure:"host"`
	Port                           int    `mapstructure:"port"`
	User                           string `mapstructure:"user"`
	Password                       string `mapstructure:"password"`
	DBName                         string `mapstructure:"database"`
	SSLMode                        string `mapstructure:"sslmode"`
	CloudSQLInstanceConnectionName string `mapstructure:"cloudsql_instance_connection_name"`
	UsePrivateIP                   bool   `mapstructure:"cloudsql_use_private_ip"`
}

// HiveConfig holds metastore connection configuration.
type HiveConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// Version forces a protocol adapter ("superset" or "compat") instead
	// of probing the server.
	Version string `mapstructure:"version"`
	// Catalog is the catalog name stamped on canonical rows produced from
	// the metastore, which has no catalog notion of its own.
	Catalog string `mapstructure:"catalog"`
	Workers int    `mapstructure:"workers"`
}

// OutputConfig controls where extraction artifacts land.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
	// TargetGCS is a gs://bucket/prefix URI; empty disables upload.
	TargetGCS string `mapstructure:"target_gcs"`
	// KeepArtifacts retains the local intermediate directory after a
	// successful upload.
	KeepArtifacts bool `mapstructure:"keep_artifacts"`
}

// New returns the default configuration; the config file, environment, and
// flags override it.
func New() *Config {
	return &Config{
		Source: SourceConfig{
			Dialect: "redshift",
			Host:    "localhost",
			Port:    5439,
			SSLMode: "disable",
		},
		Hive: HiveConfig{
			Port:    9083,
			Catalog: "hive",
			Workers: 4,
		},
		Output: OutputConfig{
			Dir: "dwh-extract-output",
		},
	}
}

// Load reads the optional config file and environment (DWH_EXTRACTOR_*
// variables) on top of the defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DWH_EXTRACTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", configFile, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

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

// Package cloud holds configuration and the long-lived clients shared by the
// application. This file, `config.go`, defines the configuration tree decoded
// from the TOML files described in utils.go.
package cloud

import (
	"fmt"
	"time"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBigQuery = "bigquery"
)

// File store backends.
const (
	FilesLocal  = "local"
	FilesGCS    = "gcs"
	FilesMemory = "memory"
)

// Telemetry exporters.
const (
	ExporterNone = "none"
	ExporterGCP  = "gcp"
)

// Store selects and configures the catalog and event log backend.
type Store struct {
	Backend      string `toml:"backend"`       // memory, file, sqlite, postgres or bigquery.
	CatalogFile  string `toml:"catalog_file"`  // file backend: catalog JSON array.
	LogFile      string `toml:"log_file"`      // file backend: event log JSON array.
	SQLitePath   string `toml:"sqlite_path"`   // sqlite backend: database file, ":memory:" allowed.
	CatalogOrder string `toml:"catalog_order"` // store or sentence; see services.CatalogOrder.
	Seed         bool   `toml:"seed"`          // memory backend: start with the example catalog.
}

// Postgres configures the pgx connection pool.
type Postgres struct {
	DSN                   string `toml:"dsn"`
	MaxConns              int32  `toml:"max_conns"`
	MinConns              int32  `toml:"min_conns"`
	ConnectTimeoutSeconds int    `toml:"connect_timeout_seconds"`
}

// BigQueryDataSource names the dataset and tables of the bigquery backend.
type BigQueryDataSource struct {
	DatasetName  string `toml:"dataset"`
	CatalogTable string `toml:"catalog_table"`
	LogTable     string `toml:"log_table"`
}

// Files configures where uploaded media lives.
type Files struct {
	Backend             string `toml:"backend"`                // local, gcs or memory.
	Root                string `toml:"root"`                   // local: directory holding videos/ and images/.
	Bucket              string `toml:"bucket"`                 // gcs: bucket name.
	Prefix              string `toml:"prefix"`                 // gcs: optional object prefix.
	SignedURLTTLSeconds int    `toml:"signed_url_ttl_seconds"` // gcs: lifetime of URLs returned by URL.
	MaxUploadBytes      int64  `toml:"max_upload_bytes"`       // Upper bound of a multipart upload.
}

// SignedURLTTL returns the signed URL lifetime as a duration.
func (f Files) SignedURLTTL() time.Duration {
	return time.Duration(f.SignedURLTTLSeconds) * time.Second
}

// Generator configures the generation stub.
type Generator struct {
	Mode        string  `toml:"mode"`         // fixed or match.
	DelayMillis int     `toml:"delay_millis"` // Simulated generation time.
	FixedAsset  string  `toml:"fixed_asset"`  // fixed mode: the returned video.
	RateLimit   float64 `toml:"rate_limit"`   // Generations per second, 0 disables throttling.
	Burst       int     `toml:"burst"`
}

// Delay returns the simulated generation time as a duration.
func (g Generator) Delay() time.Duration {
	return time.Duration(g.DelayMillis) * time.Millisecond
}

// Telemetry selects the OpenTelemetry exporter and the log output.
type Telemetry struct {
	Exporter string `toml:"exporter"`  // none or gcp.
	LogLevel string `toml:"log_level"` // debug, info, warn or error.
	LogFile  string `toml:"log_file"`  // Optional file receiving a copy of the JSON log.
}

// TopicSubscription describes a Pub/Sub subscription the server listens on.
type TopicSubscription struct {
	Name             string `toml:"name"`               // The Pub/Sub subscription ID.
	DeadLetterTopic  string `toml:"dead_letter_topic"`  // Informational; configured on the subscription itself.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // Per-message processing budget.
}

// Config is the root of the configuration tree.
type Config struct {
	Application struct {
		Name                      string   `toml:"name"`                         // The name of the application.
		ListenAddress             string   `toml:"listen_address"`               // HTTP listen address, e.g. ":8080".
		GoogleProjectId           string   `toml:"google_project_id"`            // The Google Cloud project ID.
		GoogleLocation            string   `toml:"location"`                     // The Google Cloud location.
		SignerServiceAccountEmail string   `toml:"signer_service_account_email"` // Signs GCS URLs through IAM when set.
		CorsOrigins               []string `toml:"cors_origins"`                 // Allowed CORS origins.
	} `toml:"application"`
	Store              Store                        `toml:"store"`
	Postgres           Postgres                     `toml:"postgres"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	Files              Files                        `toml:"files"`
	Generator          Generator                    `toml:"generator"`
	Telemetry          Telemetry                    `toml:"telemetry"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"` // Keyed by a logical name, e.g. "GenerationTopic".
}

// GenerationTopic is the TopicSubscriptions key of the generation listener.
const GenerationTopic = "GenerationTopic"

// NewConfig returns a configuration holding the defaults; LoadConfig
// overrides whatever the TOML files set.
func NewConfig() *Config {
	c := &Config{
		Store: Store{
			Backend:      BackendFile,
			CatalogFile:  "video-map.json",
			LogFile:      "video-log.json",
			SQLitePath:   "phrasemap.db",
			CatalogOrder: "store",
		},
		Postgres: Postgres{
			MaxConns:              10,
			MinConns:              1,
			ConnectTimeoutSeconds: 5,
		},
		BigQueryDataSource: BigQueryDataSource{
			DatasetName:  "phrasemap",
			CatalogTable: "catalog",
			LogTable:     "video_log",
		},
		Files: Files{
			Backend:             FilesLocal,
			Root:                "public",
			SignedURLTTLSeconds: 900,
			MaxUploadBytes:      200 << 20,
		},
		Generator: Generator{
			Mode:        "fixed",
			DelayMillis: 2000,
			FixedAsset:  "/videos/videom3.mp4",
			RateLimit:   0,
			Burst:       1,
		},
		Telemetry:          Telemetry{Exporter: ExporterNone, LogLevel: "info"},
		TopicSubscriptions: make(map[string]TopicSubscription),
	}
	c.Application.Name = "phrasemap"
	c.Application.ListenAddress = ":8080"
	c.Application.CorsOrigins = []string{"*"}
	return c
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendBigQuery:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Files.Backend {
	case FilesLocal, FilesMemory:
	case FilesGCS:
		if c.Files.Bucket == "" {
			return fmt.Errorf("files.bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("unknown files backend %q", c.Files.Backend)
	}
	switch c.Generator.Mode {
	case "fixed", "match":
	default:
		return fmt.Errorf("unknown generator mode %q", c.Generator.Mode)
	}
	switch c.Telemetry.Exporter {
	case "", ExporterNone, ExporterGCP:
	default:
		return fmt.Errorf("unknown telemetry exporter %q", c.Telemetry.Exporter)
	}
	if c.Store.Backend == BackendPostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required for the postgres backend")
	}
	return nil
}

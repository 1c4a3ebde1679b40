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

// This file, `state.go`, defines ServiceClients, the state container built
// once at start-up. It opens only the clients the configuration needs and
// exposes the selected catalog, event log and file store backends through
// the store interfaces.
package cloud

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/bq"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/jsonfile"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/postgres"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/sqlite"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/storage/local"
)

// ServiceClients holds the long-lived clients and the selected stores.
// Clients not needed by the configuration stay nil.
type ServiceClients struct {
	StorageClient   *storage.Client                   // Google Cloud Storage, for the gcs file backend.
	PubsubClient    *pubsub.Client                    // Google Cloud Pub/Sub, when subscriptions are configured.
	BigQueryClient  *bigquery.Client                  // Google BigQuery, for the bigquery store backend.
	IAMClient       *credentials.IamCredentialsClient // IAM Credentials, to sign GCS URLs.
	PgPool          *pgxpool.Pool                     // PostgreSQL pool, for the postgres store backend.
	SQLiteDB        *sql.DB                           // SQLite handle, for the sqlite store backend.
	PubSubListeners map[string]*PubSubListener        // Keyed by the logical name from the config.

	Catalog  store.CatalogStore
	EventLog store.EventLogStore
	Files    store.FileStore

	bigQuery *bq.Client
}

// Close releases every open client.
func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
	if c.PubsubClient != nil {
		_ = c.PubsubClient.Close()
	}
	if c.BigQueryClient != nil {
		_ = c.BigQueryClient.Close()
	}
	if c.IAMClient != nil {
		_ = c.IAMClient.Close()
	}
	if c.PgPool != nil {
		c.PgPool.Close()
	}
	if c.SQLiteDB != nil {
		_ = c.SQLiteDB.Close()
	}
}

// NewCloudServiceClients opens the clients and stores selected by config.
// On error, whatever was already opened is closed.
//
// Inputs:
//   - ctx: Used for client creation and connection checks.
//   - config: A validated configuration.
//
// Outputs:
//   - *ServiceClients: The ready state container.
//   - error: The first client or store that failed to open.
func NewCloudServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	c := &ServiceClients{PubSubListeners: make(map[string]*PubSubListener)}
	var err error
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if err = c.openStores(ctx, config); err != nil {
		return nil, err
	}
	if err = c.openFiles(ctx, config); err != nil {
		return nil, err
	}

	if len(config.TopicSubscriptions) > 0 {
		if c.PubsubClient, err = pubsub.NewClient(ctx, config.Application.GoogleProjectId); err != nil {
			err = fmt.Errorf("create pubsub client: %w", err)
			return nil, err
		}
		for key, sub := range config.TopicSubscriptions {
			listener := NewPubSubListener(c.PubsubClient, sub.Name, nil)
			listener.SetTimeout(time.Duration(sub.TimeoutInSeconds) * time.Second)
			c.PubSubListeners[key] = listener
		}
	}

	slog.InfoContext(ctx, "service clients ready",
		"store", config.Store.Backend,
		"files", config.Files.Backend,
		"subscriptions", len(c.PubSubListeners))
	return c, nil
}

func (c *ServiceClients) openStores(ctx context.Context, config *Config) error {
	switch config.Store.Backend {
	case BackendMemory:
		var seed []model.CatalogEntry
		if config.Store.Seed {
			seed = model.GetExampleCatalog()
		}
		c.Catalog = store.NewMemoryCatalog(seed...)
		c.EventLog = store.NewMemoryEventLog()

	case BackendFile:
		c.Catalog = jsonfile.NewCatalog(config.Store.CatalogFile)
		c.EventLog = jsonfile.NewEventLog(config.Store.LogFile)

	case BackendSQLite:
		db, err := sqlite.Open(ctx, config.Store.SQLitePath)
		if err != nil {
			return err
		}
		c.SQLiteDB = db
		c.Catalog = sqlite.NewCatalog(db)
		c.EventLog = sqlite.NewEventLog(db)

	case BackendPostgres:
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DSN:            config.Postgres.DSN,
			MaxConns:       config.Postgres.MaxConns,
			MinConns:       config.Postgres.MinConns,
			ConnectTimeout: time.Duration(config.Postgres.ConnectTimeoutSeconds) * time.Second,
		})
		if err != nil {
			return err
		}
		c.PgPool = pool
		c.Catalog = postgres.NewCatalog(pool)
		c.EventLog = postgres.NewEventLog(pool)

	case BackendBigQuery:
		bc, err := bigquery.NewClient(ctx, config.Application.GoogleProjectId)
		if err != nil {
			return fmt.Errorf("create bigquery client: %w", err)
		}
		c.BigQueryClient = bc
		c.bigQuery = &bq.Client{
			BigqueryClient: bc,
			DatasetName:    config.BigQueryDataSource.DatasetName,
			CatalogTable:   config.BigQueryDataSource.CatalogTable,
			LogTable:       config.BigQueryDataSource.LogTable,
		}
		c.Catalog = bq.NewCatalog(c.bigQuery)
		c.EventLog = bq.NewEventLog(c.bigQuery)

	default:
		return fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}
	return nil
}

func (c *ServiceClients) openFiles(ctx context.Context, config *Config) error {
	switch config.Files.Backend {
	case FilesMemory:
		c.Files = store.NewMemoryFiles()

	case FilesLocal:
		files, err := local.NewFiles(config.Files.Root)
		if err != nil {
			return err
		}
		c.Files = files

	case FilesGCS:
		sc, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("create storage client: %w", err)
		}
		c.StorageClient = sc
		if config.Application.SignerServiceAccountEmail != "" {
			if c.IAMClient, err = credentials.NewIamCredentialsClient(ctx); err != nil {
				return fmt.Errorf("create iam credentials client: %w", err)
			}
		}
		c.Files = NewGCSFiles(config, c)

	default:
		return fmt.Errorf("unknown files backend %q", config.Files.Backend)
	}
	return nil
}

// Migrate brings the selected store's schema up to date. Memory and file
// backends need no schema.
func (c *ServiceClients) Migrate(ctx context.Context, config *Config) error {
	switch {
	case c.SQLiteDB != nil:
		return sqlite.Migrate(ctx, c.SQLiteDB)
	case c.PgPool != nil:
		return postgres.Migrate(ctx, c.PgPool)
	case c.bigQuery != nil:
		return c.bigQuery.EnsureTables(ctx, config.Application.GoogleLocation)
	}
	return nil
}

// ErrNoGenerationListener is returned when no GenerationTopic subscription
// is configured.
var ErrNoGenerationListener = errors.New("no generation subscription configured")

// GenerationListener returns the listener bound to GenerationTopic.
func (c *ServiceClients) GenerationListener() (*PubSubListener, error) {
	l, ok := c.PubSubListeners[GenerationTopic]
	if !ok {
		return nil, ErrNoGenerationListener
	}
	return l, nil
}

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

package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store/storetest"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "phrasemap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))
	return db
}

func TestCatalogSuite(t *testing.T) {
	storetest.RunCatalogSuite(t, func(t *testing.T) store.CatalogStore {
		return sqlite.NewCatalog(openDB(t))
	})
}

func TestEventLogSuite(t *testing.T) {
	storetest.RunEventLogSuite(t, func(t *testing.T) store.EventLogStore {
		return sqlite.NewEventLog(openDB(t))
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openDB(t)
	require.NoError(t, sqlite.Migrate(context.Background(), db))
}

func TestInMemoryDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, sqlite.Migrate(ctx, db))

	catalog := sqlite.NewCatalog(db)
	require.NoError(t, catalog.Upsert(ctx, model.CatalogEntry{Sentence: "a", Type: model.MediaKindImage, Src: "/images/a.png"}))
	entries, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestClosedDatabaseIsUnavailable(t *testing.T) {
	db := openDB(t)
	catalog := sqlite.NewCatalog(db)
	require.NoError(t, db.Close())
	_, err := catalog.List(context.Background())
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

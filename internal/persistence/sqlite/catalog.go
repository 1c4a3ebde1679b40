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

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/sqlq"
)

// Catalog lists entries in insertion order; an upsert keeps the row's position.
type Catalog struct {
	db *sql.DB
}

func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) List(ctx context.Context) ([]model.CatalogEntry, error) {
	query, args, err := sqlq.CatalogList(builder).ToSql()
	if err != nil {
		return nil, sqlq.Unavailable("build catalog list", err)
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlq.Unavailable("list catalog", err)
	}
	defer rows.Close()

	entries := []model.CatalogEntry{}
	for rows.Next() {
		var e model.CatalogEntry
		var kind string
		if err := rows.Scan(&e.Sentence, &kind, &e.Src); err != nil {
			return nil, sqlq.Unavailable("scan catalog entry", err)
		}
		e.Type = model.MediaKind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlq.Unavailable("list catalog", err)
	}
	return entries, nil
}

func (c *Catalog) Upsert(ctx context.Context, entry model.CatalogEntry) error {
	query, args, err := sqlq.CatalogUpsert(builder, entry, time.Now().UnixNano()).ToSql()
	if err != nil {
		return sqlq.Unavailable("build catalog upsert", err)
	}
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return sqlq.Unavailable("upsert catalog entry", err)
	}
	return nil
}

func (c *Catalog) Delete(ctx context.Context, sentence string) error {
	query, args, err := sqlq.CatalogDelete(builder, sentence).ToSql()
	if err != nil {
		return sqlq.Unavailable("build catalog delete", err)
	}
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return sqlq.Unavailable("delete catalog entry", err)
	}
	return nil
}

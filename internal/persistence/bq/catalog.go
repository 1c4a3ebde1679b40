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

package bq

import (
	"context"

	"cloud.google.com/go/bigquery"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/sqlq"
)

// Catalog lists entries by creation time, then sentence.
type Catalog struct {
	*Client
}

func NewCatalog(client *Client) *Catalog {
	return &Catalog{Client: client}
}

func (c *Catalog) List(ctx context.Context) ([]model.CatalogEntry, error) {
	rows, err := readAll[catalogRow](ctx, c.query(QryListCatalog, c.CatalogTable))
	if err != nil {
		return nil, sqlq.Unavailable("list catalog", err)
	}
	entries := make([]model.CatalogEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, model.CatalogEntry{Sentence: r.Sentence, Type: model.MediaKind(r.Type), Src: r.Src})
	}
	return entries, nil
}

func (c *Catalog) Upsert(ctx context.Context, entry model.CatalogEntry) error {
	q := c.query(QryUpsertCatalog, c.CatalogTable,
		bigquery.QueryParameter{Name: "sentence", Value: entry.Sentence},
		bigquery.QueryParameter{Name: "type", Value: string(entry.Type)},
		bigquery.QueryParameter{Name: "src", Value: entry.Src},
	)
	if _, err := c.exec(ctx, q); err != nil {
		return sqlq.Unavailable("upsert catalog entry", err)
	}
	return nil
}

func (c *Catalog) Delete(ctx context.Context, sentence string) error {
	q := c.query(QryDeleteCatalog, c.CatalogTable, bigquery.QueryParameter{Name: "sentence", Value: sentence})
	if _, err := c.exec(ctx, q); err != nil {
		return sqlq.Unavailable("delete catalog entry", err)
	}
	return nil
}

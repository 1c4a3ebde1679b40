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

// Package sqlq builds the SQL shared by the relational stores (SQLite and
// PostgreSQL). Both dialects accept the same statements; only the placeholder
// format and the encoding of timestamps differ, so callers pass a configured
// squirrel.StatementBuilderType and already-encoded time values.
package sqlq

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// Table names created by the migrations.
const (
	CatalogTable = "catalog_entries"
	LogTable     = "video_log"
)

// Builder returns a statement builder using format, e.g. squirrel.Dollar.
func Builder(format squirrel.PlaceholderFormat) squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(format)
}

// CatalogList selects every entry in insertion order.
func CatalogList(sb squirrel.StatementBuilderType) squirrel.SelectBuilder {
	return sb.Select("sentence", "type", "src").From(CatalogTable).OrderBy("id")
}

// CatalogUpsert inserts e or replaces type and src of the row with the same
// sentence. The row keeps its id, and with it its position in CatalogList.
func CatalogUpsert(sb squirrel.StatementBuilderType, e model.CatalogEntry, now any) squirrel.InsertBuilder {
	return sb.Insert(CatalogTable).
		Columns("sentence", "type", "src", "created_at", "updated_at").
		Values(e.Sentence, string(e.Type), e.Src, now, now).
		Suffix("ON CONFLICT (sentence) DO UPDATE SET type = excluded.type, src = excluded.src, updated_at = excluded.updated_at")
}

func CatalogDelete(sb squirrel.StatementBuilderType, sentence string) squirrel.DeleteBuilder {
	return sb.Delete(CatalogTable).Where(squirrel.Eq{"sentence": sentence})
}

func LogInsert(sb squirrel.StatementBuilderType, id, prompt, url string, createdAt any) squirrel.InsertBuilder {
	return sb.Insert(LogTable).
		Columns("id", "prompt", "url", "created_at").
		Values(id, prompt, url, createdAt)
}

// LogList selects every event. Ties on created_at keep insertion order.
func LogList(sb squirrel.StatementBuilderType, order model.SortOrder) squirrel.SelectBuilder {
	q := sb.Select("id", "prompt", "url", "created_at").From(LogTable)
	switch order {
	case model.SortAsc:
		return q.OrderBy("created_at ASC", "seq ASC")
	case model.SortDesc:
		return q.OrderBy("created_at DESC", "seq ASC")
	}
	return q.OrderBy("seq ASC")
}

func LogDeleteAll(sb squirrel.StatementBuilderType) squirrel.DeleteBuilder {
	return sb.Delete(LogTable)
}

func LogDeleteByPrompt(sb squirrel.StatementBuilderType, prompt string) squirrel.DeleteBuilder {
	return sb.Delete(LogTable).Where(squirrel.Eq{"prompt": prompt})
}

// Unavailable wraps a driver error so it matches model.ErrStoreUnavailable
// while context cancellation stays detectable with errors.Is.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}

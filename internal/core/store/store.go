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

// Package store defines the narrow interfaces the services use to reach the
// media catalog, the event log and the file store. Concrete backends live in
// internal/persistence (JSON file, SQLite, PostgreSQL, BigQuery) and
// internal/storage (local disk, GCS); the memory implementations in this
// package back the tests and the `memory` backend.
//
// Every backend reports transport or I/O failures wrapped around
// model.ErrStoreUnavailable so handlers can map them without knowing which
// backend is configured.
package store

import (
	"context"
	"io"
	"sort"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// CatalogStore persists catalog entries keyed by sentence.
type CatalogStore interface {
	// List returns every entry in the store's documented order.
	List(ctx context.Context) ([]model.CatalogEntry, error)
	// Upsert inserts the entry or replaces type and src of the entry with the
	// same sentence. This is the only uniqueness enforcement point.
	Upsert(ctx context.Context, entry model.CatalogEntry) error
	// Delete removes the entry with the given sentence. A missing key is not an error.
	Delete(ctx context.Context, sentence string) error
}

// EventLogStore is the append-only resolution log.
type EventLogStore interface {
	// Append records an event; the store assigns ID and CreatedAt.
	Append(ctx context.Context, prompt, url string) (model.LogEvent, error)
	// List returns all events, in insertion order for SortNone.
	List(ctx context.Context, order model.SortOrder) ([]model.LogEvent, error)
	// DeleteAll empties the log.
	DeleteAll(ctx context.Context) error
	// DeleteByPrompt removes every event whose prompt equals prompt exactly.
	DeleteByPrompt(ctx context.Context, prompt string) (int64, error)
}

// FileStore keeps uploaded media partitioned by kind.
type FileStore interface {
	List(ctx context.Context, kind model.MediaKind) ([]string, error)
	Save(ctx context.Context, kind model.MediaKind, name string, body io.Reader, contentType string) error
	// Delete returns an error wrapping model.ErrNotFound when the file is missing.
	Delete(ctx context.Context, kind model.MediaKind, name string) error
	// URL returns an address a browser can fetch the file from.
	URL(ctx context.Context, kind model.MediaKind, name string) (string, error)
}

// SortEvents orders events in place by CreatedAt. The sort is stable so
// events sharing a timestamp keep their insertion order.
func SortEvents(events []model.LogEvent, order model.SortOrder) {
	switch order {
	case model.SortAsc:
		sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	case model.SortDesc:
		sort.SliceStable(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	}
}

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

package jsonfile

import (
	"context"
	"sync"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// Catalog stores entries as a JSON array in file order.
type Catalog struct {
	path string
	mu   sync.Mutex
}

func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

func (c *Catalog) List(_ context.Context) ([]model.CatalogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

func (c *Catalog) Upsert(_ context.Context, entry model.CatalogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.read()
	if err != nil {
		return err
	}
	return writeArray(c.path, store.UpsertEntry(entries, entry))
}

func (c *Catalog) Delete(_ context.Context, sentence string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.read()
	if err != nil {
		return err
	}
	kept := store.DeleteEntry(entries, sentence)
	if len(kept) == len(entries) {
		return nil
	}
	return writeArray(c.path, kept)
}

func (c *Catalog) read() ([]model.CatalogEntry, error) {
	entries := []model.CatalogEntry{}
	if err := readArray(c.path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

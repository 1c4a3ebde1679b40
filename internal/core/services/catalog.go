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

// This file, `catalog.go`, defines the CatalogService used by the admin
// dashboard to maintain the sentence -> media mapping.
package services

import (
	"context"
	"strings"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// CatalogService validates catalog edits and forwards them to the store.
// Uniqueness of the sentence key is enforced by the store's upsert alone.
type CatalogService struct {
	Catalog store.CatalogStore
}

// Upsert creates or replaces the entry for sentence.
//
// Inputs:
//   - sentence, kind, src: All required. kind must be "video" or "image".
//
// Outputs:
//   - error: Wraps model.ErrValidation for bad input (nothing is written) or
//     model.ErrStoreUnavailable for a failed write.
func (s *CatalogService) Upsert(ctx context.Context, sentence, kind, src string) (model.CatalogEntry, error) {
	if err := required("sentence", strings.TrimSpace(sentence)); err != nil {
		return model.CatalogEntry{}, err
	}
	if err := required("type", kind); err != nil {
		return model.CatalogEntry{}, err
	}
	if err := required("src", strings.TrimSpace(src)); err != nil {
		return model.CatalogEntry{}, err
	}
	k, err := model.ParseMediaKind(kind)
	if err != nil {
		return model.CatalogEntry{}, err
	}

	entry := model.CatalogEntry{Sentence: sentence, Type: k, Src: src}
	if err := s.Catalog.Upsert(ctx, entry); err != nil {
		return model.CatalogEntry{}, storeErr("upsert catalog entry", err)
	}
	return entry, nil
}

// Remove deletes the entry for sentence. Removing a missing sentence succeeds.
func (s *CatalogService) Remove(ctx context.Context, sentence string) error {
	if err := required("sentence", sentence); err != nil {
		return err
	}
	if err := s.Catalog.Delete(ctx, sentence); err != nil {
		return storeErr("delete catalog entry", err)
	}
	return nil
}

// List returns the whole catalog in store order.
func (s *CatalogService) List(ctx context.Context) ([]model.CatalogEntry, error) {
	entries, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, storeErr("list catalog", err)
	}
	return entries, nil
}

// Search returns the entries matching every populated filter field.
func (s *CatalogService) Search(ctx context.Context, filter model.CatalogFilter) ([]model.CatalogEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

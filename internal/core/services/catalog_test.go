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

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

func TestCatalogUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := &services.CatalogService{Catalog: store.NewMemoryCatalog()}

	for i := 0; i < 3; i++ {
		_, err := svc.Upsert(ctx, "hello", "image", "/images/1.png")
		require.NoError(t, err)
	}
	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CatalogEntry{{Sentence: "hello", Type: model.MediaKindImage, Src: "/images/1.png"}}, entries)
}

func TestCatalogUpsertLastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := &services.CatalogService{Catalog: store.NewMemoryCatalog()}

	_, err := svc.Upsert(ctx, "hello", "image", "/images/1.png")
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "hello", "video", "/videos/2.mp4")
	require.NoError(t, err)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.MediaKindVideo, entries[0].Type)
	assert.Equal(t, "/videos/2.mp4", entries[0].Src)
}

func TestCatalogUpsertValidation(t *testing.T) {
	ctx := context.Background()
	catalog := store.NewMemoryCatalog()
	svc := &services.CatalogService{Catalog: catalog}

	cases := []struct{ sentence, kind, src string }{
		{"", "image", "/images/1.png"},
		{"   ", "image", "/images/1.png"},
		{"hello", "", "/images/1.png"},
		{"hello", "audio", "/images/1.png"},
		{"hello", "image", ""},
	}
	for _, c := range cases {
		_, err := svc.Upsert(ctx, c.sentence, c.kind, c.src)
		assert.ErrorIs(t, err, model.ErrValidation, "%+v", c)
	}
	entries, _ := catalog.List(ctx)
	assert.Empty(t, entries, "rejected upserts leave the store untouched")
}

func TestCatalogRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := &services.CatalogService{Catalog: store.NewMemoryCatalog(model.GetExampleCatalog()...)}

	require.NoError(t, svc.Remove(ctx, "cat"))
	require.NoError(t, svc.Remove(ctx, "cat"))
	require.NoError(t, svc.Remove(ctx, "never existed"))

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	assert.ErrorIs(t, svc.Remove(ctx, ""), model.ErrValidation)
}

func TestCatalogSearch(t *testing.T) {
	ctx := context.Background()
	svc := &services.CatalogService{Catalog: store.NewMemoryCatalog(model.GetExampleCatalog()...)}

	got, err := svc.Search(ctx, model.CatalogFilter{Query: "CAT"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.Search(ctx, model.CatalogFilter{Query: "cat", Type: model.MediaKindVideo})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "category", got[0].Sentence)

	got, err = svc.Search(ctx, model.CatalogFilter{File: "morning"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Good morning", got[0].Sentence)
}

func TestCatalogStoreFailure(t *testing.T) {
	svc := &services.CatalogService{Catalog: brokenCatalog{}}
	_, err := svc.Upsert(context.Background(), "a", "image", "/images/a.png")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.ErrorIs(t, svc.Remove(context.Background(), "a"), model.ErrStoreUnavailable)
}

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

func TestResolveSubstringMatch(t *testing.T) {
	ctx := context.Background()
	log := newLog(t0)
	svc := services.NewResolutionService(store.NewMemoryCatalog(model.GetExampleCatalog()...), log, services.OrderStore)

	res, err := svc.Resolve(ctx, "I love AI videos")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.True(t, res.Logged)
	assert.Equal(t, model.MediaReference{Type: model.MediaKindVideo, Src: "/videos/a.mp4"}, res.Ref)

	events, err := log.List(ctx, model.SortNone)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "I love AI videos", events[0].Prompt)
	assert.Equal(t, "/videos/a.mp4", events[0].URL)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	svc := services.NewResolutionService(store.NewMemoryCatalog(model.GetExampleCatalog()...), newLog(t0), services.OrderStore)
	res, err := svc.Resolve(context.Background(), "i LOVE ai VIDEOS")
	require.NoError(t, err)
	assert.Equal(t, "/videos/a.mp4", res.Ref.Src)
}

func TestResolveBlankInput(t *testing.T) {
	// A broken catalog proves blank input never reaches the store.
	log := newLog(t0)
	svc := services.NewResolutionService(brokenCatalog{}, log, services.OrderStore)
	for _, in := range []string{"", "   ", "\t\n"} {
		res, err := svc.Resolve(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, res.Matched)
	}
	events, _ := log.List(context.Background(), model.SortNone)
	assert.Empty(t, events)
}

func TestResolveNoMatchDoesNotLog(t *testing.T) {
	log := newLog(t0)
	svc := services.NewResolutionService(store.NewMemoryCatalog(model.GetExampleCatalog()...), log, services.OrderStore)
	res, err := svc.Resolve(context.Background(), "nothing here")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.False(t, res.Logged)
	events, _ := log.List(context.Background(), model.SortNone)
	assert.Empty(t, events)
}

func TestResolveFirstMatchWins(t *testing.T) {
	catalog := store.NewMemoryCatalog(model.GetExampleCatalog()...)
	svc := services.NewResolutionService(catalog, newLog(t0), services.OrderStore)

	res, err := svc.Resolve(context.Background(), "I like category theory")
	require.NoError(t, err)
	assert.Equal(t, "cat", res.Entry.Sentence, "earlier entry wins over the longer one")
}

func TestResolveSentenceOrder(t *testing.T) {
	catalog := store.NewMemoryCatalog(
		model.CatalogEntry{Sentence: "zebra", Type: model.MediaKindImage, Src: "/images/z.png"},
		model.CatalogEntry{Sentence: "apple", Type: model.MediaKindImage, Src: "/images/a.png"},
	)
	input := "apple and zebra"

	byStore := services.NewResolutionService(catalog, newLog(t0), services.OrderStore)
	res, err := byStore.Resolve(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "zebra", res.Entry.Sentence)

	bySentence := services.NewResolutionService(catalog, newLog(t0), services.OrderSentence)
	res, err = bySentence.Resolve(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "apple", res.Entry.Sentence)
}

func TestResolveSkipsEmptySentence(t *testing.T) {
	entries := []model.CatalogEntry{
		{Sentence: "", Type: model.MediaKindImage, Src: "/images/empty.png"},
		{Sentence: "hello", Type: model.MediaKindImage, Src: "/images/hello.png"},
	}
	e, ok := services.Match(entries, "hello world", services.OrderStore)
	require.True(t, ok)
	assert.Equal(t, "hello", e.Sentence)
}

func TestResolveCatalogFailure(t *testing.T) {
	svc := services.NewResolutionService(brokenCatalog{}, newLog(t0), services.OrderStore)
	_, err := svc.Resolve(context.Background(), "hello")
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestResolveLogFailureKeepsMatch(t *testing.T) {
	svc := services.NewResolutionService(store.NewMemoryCatalog(model.GetExampleCatalog()...),
		brokenLog{store.NewMemoryEventLog()}, services.OrderStore)
	res, err := svc.Resolve(context.Background(), "I love AI videos")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.False(t, res.Logged)
	assert.Equal(t, "/videos/a.mp4", res.Ref.Src)
}

func TestParseCatalogOrder(t *testing.T) {
	o, err := services.ParseCatalogOrder("")
	require.NoError(t, err)
	assert.Equal(t, services.OrderStore, o)
	o, err = services.ParseCatalogOrder("Sentence")
	require.NoError(t, err)
	assert.Equal(t, services.OrderSentence, o)
	_, err = services.ParseCatalogOrder("random")
	assert.ErrorIs(t, err, model.ErrValidation)
}

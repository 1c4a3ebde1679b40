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

// Package storetest provides conformance suites shared by every store
// backend. Backend packages call RunCatalogSuite / RunEventLogSuite from
// their own tests with a constructor that returns an empty store.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// RunCatalogSuite checks upsert-by-sentence, idempotent delete and
// insertion-order listing.
func RunCatalogSuite(t *testing.T, newStore func(t *testing.T) store.CatalogStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		s := newStore(t)
		entries, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("upsert is last write wins", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Upsert(ctx, model.CatalogEntry{Sentence: "hello", Type: model.MediaKindImage, Src: "/images/1.png"}))
		require.NoError(t, s.Upsert(ctx, model.CatalogEntry{Sentence: "world", Type: model.MediaKindVideo, Src: "/videos/2.mp4"}))
		require.NoError(t, s.Upsert(ctx, model.CatalogEntry{Sentence: "hello", Type: model.MediaKindVideo, Src: "/videos/3.mp4"}))

		entries, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, model.CatalogEntry{Sentence: "hello", Type: model.MediaKindVideo, Src: "/videos/3.mp4"}, entries[0])
		assert.Equal(t, "world", entries[1].Sentence)
	})

	t.Run("sentence key is case sensitive", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Upsert(ctx, model.CatalogEntry{Sentence: "Hello", Type: model.MediaKindImage, Src: "/images/1.png"}))
		require.NoError(t, s.Upsert(ctx, model.CatalogEntry{Sentence: "hello", Type: model.MediaKindImage, Src: "/images/2.png"}))
		entries, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("delete missing is a no-op", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Upsert(ctx, model.CatalogEntry{Sentence: "keep", Type: model.MediaKindImage, Src: "/images/k.png"}))
		before, err := s.List(ctx)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "absent"))

		after, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("delete existing", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Upsert(ctx, model.CatalogEntry{Sentence: "a", Type: model.MediaKindImage, Src: "/images/a.png"}))
		require.NoError(t, s.Upsert(ctx, model.CatalogEntry{Sentence: "b", Type: model.MediaKindImage, Src: "/images/b.png"}))
		require.NoError(t, s.Delete(ctx, "a"))
		entries, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "b", entries[0].Sentence)
	})
}

// RunEventLogSuite checks append, ordering, exact delete-by-prompt and delete-all.
func RunEventLogSuite(t *testing.T, newStore func(t *testing.T) store.EventLogStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("append stamps events", func(t *testing.T) {
		s := newStore(t)
		before := time.Now().Add(-time.Minute)
		ev, err := s.Append(ctx, "hello", "/videos/a.mp4")
		require.NoError(t, err)
		assert.Equal(t, "hello", ev.Prompt)
		assert.Equal(t, "/videos/a.mp4", ev.URL)
		assert.True(t, ev.CreatedAt.After(before), "CreatedAt %v", ev.CreatedAt)

		events, err := s.List(ctx, model.SortNone)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "hello", events[0].Prompt)
		assert.WithinDuration(t, ev.CreatedAt, events[0].CreatedAt, time.Millisecond)
	})

	t.Run("list keeps insertion order and sorts on request", func(t *testing.T) {
		s := newStore(t)
		for _, p := range []string{"one", "two", "three"} {
			_, err := s.Append(ctx, p, "/videos/"+p+".mp4")
			require.NoError(t, err)
			time.Sleep(2 * time.Millisecond)
		}

		events, err := s.List(ctx, model.SortNone)
		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two", "three"}, prompts(events))

		asc, err := s.List(ctx, model.SortAsc)
		require.NoError(t, err)
		for i := 1; i < len(asc); i++ {
			assert.False(t, asc[i].CreatedAt.Before(asc[i-1].CreatedAt))
		}

		desc, err := s.List(ctx, model.SortDesc)
		require.NoError(t, err)
		assert.Equal(t, []string{"three", "two", "one"}, prompts(desc))
	})

	t.Run("delete by prompt is exact", func(t *testing.T) {
		s := newStore(t)
		for _, p := range []string{"a", "A", " a", "a", "b"} {
			_, err := s.Append(ctx, p, "/videos/x.mp4")
			require.NoError(t, err)
		}
		n, err := s.DeleteByPrompt(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		events, err := s.List(ctx, model.SortNone)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", " a", "b"}, prompts(events))

		n, err = s.DeleteByPrompt(ctx, "missing")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete all", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Append(ctx, "a", "/videos/x.mp4")
		require.NoError(t, err)
		require.NoError(t, s.DeleteAll(ctx))
		events, err := s.List(ctx, model.SortNone)
		require.NoError(t, err)
		assert.Empty(t, events)

		// Deleting an already empty log is fine.
		require.NoError(t, s.DeleteAll(ctx))
	})
}

func prompts(events []model.LogEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Prompt)
	}
	return out
}

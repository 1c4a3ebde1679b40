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

// This file, `aggregation.go`, defines the AggregationService, which groups
// the event log into per-phrase statistics for the phrase dashboard.
package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// DefaultTopPhrases is the size of the ranking shown next to the summary.
const DefaultTopPhrases = 5

// AggregationService derives read models from the event log. It keeps no
// state of its own; every call re-reads the log and the catalog.
type AggregationService struct {
	Catalog store.CatalogStore
	Log     store.EventLogStore
}

// Overview is the phrase dashboard in one read: the filtered, sorted summary
// plus the top-N ranking of the unfiltered grouping.
type Overview struct {
	Phrases []model.PhraseSummary `json:"phrases"`
	Top     []model.TopPhrase     `json:"top"`
}

// Summary groups the log by trimmed prompt.
//
// Inputs:
//   - ctx: The request context.
//   - filter: Case-insensitive substring applied to the group key before sorting.
//   - order: LastSeen order. SortNone means SortDesc.
//
// Outputs:
//   - []model.PhraseSummary: One row per distinct trimmed prompt.
//   - error: Wraps model.ErrStoreUnavailable when a store cannot be read.
func (s *AggregationService) Summary(ctx context.Context, filter string, order model.SortOrder) ([]model.PhraseSummary, error) {
	groups, err := s.groups(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAndSort(groups, filter, order), nil
}

// TopPhrases returns the n most frequent phrases. n <= 0 selects DefaultTopPhrases.
func (s *AggregationService) TopPhrases(ctx context.Context, n int) ([]model.TopPhrase, error) {
	groups, err := s.groups(ctx)
	if err != nil {
		return nil, err
	}
	return Top(groups, n), nil
}

// Overview combines Summary and TopPhrases over a single read of the stores.
func (s *AggregationService) Overview(ctx context.Context, filter string, order model.SortOrder, n int) (Overview, error) {
	groups, err := s.groups(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Phrases: FilterAndSort(groups, filter, order),
		Top:     Top(groups, n),
	}, nil
}

// Detail lists every event whose trimmed prompt equals the trimmed argument,
// newest first. A phrase with no events yields an empty detail, not an error.
func (s *AggregationService) Detail(ctx context.Context, prompt string) (model.PhraseDetail, error) {
	key := strings.TrimSpace(prompt)
	if err := required("prompt", key); err != nil {
		return model.PhraseDetail{}, err
	}
	events, err := s.Log.List(ctx, model.SortNone)
	if err != nil {
		return model.PhraseDetail{}, storeErr("list log", err)
	}
	entries, err := s.Catalog.List(ctx)
	if err != nil {
		return model.PhraseDetail{}, storeErr("list catalog", err)
	}

	detail := model.PhraseDetail{Prompt: key, Entries: []model.LogEvent{}, MediaRef: videoRef(entries, key)}
	for _, ev := range events {
		if strings.TrimSpace(ev.Prompt) == key {
			detail.Entries = append(detail.Entries, ev)
		}
	}
	store.SortEvents(detail.Entries, model.SortDesc)
	return detail, nil
}

func (s *AggregationService) groups(ctx context.Context) ([]model.PhraseSummary, error) {
	events, err := s.Log.List(ctx, model.SortNone)
	if err != nil {
		return nil, storeErr("list log", err)
	}
	entries, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, storeErr("list catalog", err)
	}
	return Group(events, entries), nil
}

// Group folds events into one summary per trimmed prompt, in order of first
// appearance. Grouping is case-sensitive. MediaRef is set from the catalog
// entry whose sentence equals the key exactly, and only for videos.
func Group(events []model.LogEvent, catalog []model.CatalogEntry) []model.PhraseSummary {
	index := make(map[string]int)
	out := []model.PhraseSummary{}
	for _, ev := range events {
		key := strings.TrimSpace(ev.Prompt)
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, model.PhraseSummary{Prompt: key, LastSeen: ev.CreatedAt, MediaRef: videoRef(catalog, key)})
			i = len(out) - 1
		}
		out[i].Count++
		if ev.CreatedAt.After(out[i].LastSeen) {
			out[i].LastSeen = ev.CreatedAt
		}
	}
	return out
}

// FilterAndSort applies the dashboard filter and then a stable LastSeen sort.
// The input is not modified.
func FilterAndSort(groups []model.PhraseSummary, filter string, order model.SortOrder) []model.PhraseSummary {
	needle := strings.ToLower(filter)
	out := make([]model.PhraseSummary, 0, len(groups))
	for _, g := range groups {
		if needle == "" || strings.Contains(strings.ToLower(g.Prompt), needle) {
			out = append(out, g)
		}
	}
	if order == model.SortAsc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].LastSeen.Before(out[j].LastSeen) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].LastSeen.After(out[j].LastSeen) })
	}
	return out
}

// Top ranks groups by count, ties kept in grouping order.
func Top(groups []model.PhraseSummary, n int) []model.TopPhrase {
	if n <= 0 {
		n = DefaultTopPhrases
	}
	ranked := make([]model.TopPhrase, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, model.TopPhrase{Prompt: g.Prompt, Count: g.Count})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func videoRef(catalog []model.CatalogEntry, key string) string {
	for _, e := range catalog {
		if e.Sentence == key {
			if e.Type == model.MediaKindVideo {
				return e.Src
			}
			return ""
		}
	}
	return ""
}

// ParseTopN reads the optional ranking size from a query string.
func ParseTopN(in string) (int, error) {
	if in == "" {
		return DefaultTopPhrases, nil
	}
	n, err := strconv.Atoi(in)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: top must be a positive integer", model.ErrValidation)
	}
	return n, nil
}

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

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// MemoryCatalog is an in-process CatalogStore. Entries keep insertion order;
// an upsert of an existing sentence keeps its position.
type MemoryCatalog struct {
	mu      sync.Mutex
	entries []model.CatalogEntry
}

// NewMemoryCatalog returns a catalog seeded with entries, in order.
func NewMemoryCatalog(entries ...model.CatalogEntry) *MemoryCatalog {
	c := &MemoryCatalog{}
	for _, e := range entries {
		_ = c.Upsert(context.Background(), e)
	}
	return c
}

func (c *MemoryCatalog) List(_ context.Context) ([]model.CatalogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out, nil
}

func (c *MemoryCatalog) Upsert(_ context.Context, entry model.CatalogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = UpsertEntry(c.entries, entry)
	return nil
}

func (c *MemoryCatalog) Delete(_ context.Context, sentence string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = DeleteEntry(c.entries, sentence)
	return nil
}

// UpsertEntry replaces the entry with the same sentence in place, or appends.
func UpsertEntry(entries []model.CatalogEntry, entry model.CatalogEntry) []model.CatalogEntry {
	for i := range entries {
		if entries[i].Sentence == entry.Sentence {
			entries[i] = entry
			return entries
		}
	}
	return append(entries, entry)
}

// DeleteEntry drops the entry with the given sentence, if any.
func DeleteEntry(entries []model.CatalogEntry, sentence string) []model.CatalogEntry {
	out := entries[:0]
	for _, e := range entries {
		if e.Sentence != sentence {
			out = append(out, e)
		}
	}
	return out
}

// MemoryEventLog is an in-process EventLogStore.
type MemoryEventLog struct {
	// Now stamps appended events. Tests replace it to control time.
	Now func() time.Time

	mu     sync.Mutex
	events []model.LogEvent
}

func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{Now: time.Now}
}

func (l *MemoryEventLog) Append(_ context.Context, prompt, url string) (model.LogEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := model.LogEvent{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		URL:       url,
		CreatedAt: l.Now().UTC(),
	}
	l.events = append(l.events, ev)
	return ev, nil
}

func (l *MemoryEventLog) List(_ context.Context, order model.SortOrder) ([]model.LogEvent, error) {
	l.mu.Lock()
	out := make([]model.LogEvent, len(l.events))
	copy(out, l.events)
	l.mu.Unlock()
	SortEvents(out, order)
	return out, nil
}

func (l *MemoryEventLog) DeleteAll(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
	return nil
}

func (l *MemoryEventLog) DeleteByPrompt(_ context.Context, prompt string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.events[:0]
	var n int64
	for _, ev := range l.events {
		if ev.Prompt == prompt {
			n++
			continue
		}
		kept = append(kept, ev)
	}
	l.events = kept
	return n, nil
}

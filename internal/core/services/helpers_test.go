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
	"errors"
	"time"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

var errBoom = errors.New("connection refused")

// brokenCatalog fails every call.
type brokenCatalog struct{}

func (brokenCatalog) List(context.Context) ([]model.CatalogEntry, error) { return nil, errBoom }
func (brokenCatalog) Upsert(context.Context, model.CatalogEntry) error { return errBoom }
func (brokenCatalog) Delete(context.Context, string) error { return errBoom }

// brokenLog lists fine but refuses appends.
type brokenLog struct {
	store.EventLogStore
}

func (brokenLog) Append(context.Context, string, string) (model.LogEvent, error) {
	return model.LogEvent{}, errBoom
}

// stepClock advances by one minute on every call.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newLog(start time.Time) *store.MemoryEventLog {
	l := store.NewMemoryEventLog()
	l.Now = (&stepClock{now: start}).Now
	return l
}

// seededLog appends the example log with its original timestamps.
func seededLog(start time.Time) *store.MemoryEventLog {
	events := model.GetExampleLog(start)
	i := 0
	l := store.NewMemoryEventLog()
	l.Now = func() time.Time {
		t := events[i].CreatedAt
		i++
		return t
	}
	for _, ev := range events {
		_, _ = l.Append(context.Background(), ev.Prompt, ev.URL)
	}
	return l
}

var t0 = time.Date(2024, 6, 21, 9, 0, 0, 0, time.UTC)

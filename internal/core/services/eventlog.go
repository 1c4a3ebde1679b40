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

// This file, `eventlog.go`, defines the EventLogService behind the history
// and export pages: listing, clearing and exporting the event log.
package services

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// ExportFileName is the attachment name of an exported log.
const ExportFileName = "video-log-export.json"

// EventLogService exposes the event log to the dashboard.
type EventLogService struct {
	Log store.EventLogStore
}

// List returns every event, in insertion order or by timestamp.
func (s *EventLogService) List(ctx context.Context, order model.SortOrder) ([]model.LogEvent, error) {
	events, err := s.Log.List(ctx, order)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	if events == nil {
		events = []model.LogEvent{}
	}
	return events, nil
}

// DeleteAll empties the log.
func (s *EventLogService) DeleteAll(ctx context.Context) error {
	if err := s.Log.DeleteAll(ctx); err != nil {
		return storeErr("delete events", err)
	}
	return nil
}

// DeleteByPrompt removes every event whose prompt equals prompt exactly and
// returns how many were removed. A blank prompt is a validation error so it
// can never be mistaken for delete-all.
func (s *EventLogService) DeleteByPrompt(ctx context.Context, prompt string) (int64, error) {
	if err := required("prompt", strings.TrimSpace(prompt)); err != nil {
		return 0, err
	}
	n, err := s.Log.DeleteByPrompt(ctx, prompt)
	if err != nil {
		return 0, storeErr("delete events by prompt", err)
	}
	return n, nil
}

// Export writes the current log, in insertion order, to w as an indented
// JSON array. Parsing the output yields exactly what List(ctx, SortNone)
// returns.
func (s *EventLogService) Export(ctx context.Context, w io.Writer) error {
	events, err := s.List(ctx, model.SortNone)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(events)
}

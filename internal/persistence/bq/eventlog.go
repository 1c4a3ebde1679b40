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

package bq

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/sqlq"
)

// EventLog stores events in the log table. Without an insertion sequence,
// SortNone lists events by created_at, then id.
type EventLog struct {
	*Client
	// Now stamps appended events.
	Now func() time.Time
}

func NewEventLog(client *Client) *EventLog {
	return &EventLog{Client: client, Now: time.Now}
}

func (l *EventLog) Append(ctx context.Context, prompt, url string) (model.LogEvent, error) {
	ev := model.LogEvent{ID: uuid.NewString(), Prompt: prompt, URL: url, CreatedAt: l.Now().UTC().Truncate(time.Microsecond)}
	q := l.query(QryInsertLog, l.LogTable,
		bigquery.QueryParameter{Name: "id", Value: ev.ID},
		bigquery.QueryParameter{Name: "prompt", Value: prompt},
		bigquery.QueryParameter{Name: "url", Value: url},
		bigquery.QueryParameter{Name: "created_at", Value: ev.CreatedAt},
	)
	if _, err := l.exec(ctx, q); err != nil {
		return model.LogEvent{}, sqlq.Unavailable("append log event", err)
	}
	return ev, nil
}

func (l *EventLog) List(ctx context.Context, order model.SortOrder) ([]model.LogEvent, error) {
	queryText := QryListLog
	if order == model.SortDesc {
		queryText = QryListLogDesc
	}
	rows, err := readAll[logRow](ctx, l.query(queryText, l.LogTable))
	if err != nil {
		return nil, sqlq.Unavailable("list log", err)
	}
	events := make([]model.LogEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, model.LogEvent{ID: r.ID, Prompt: r.Prompt, URL: r.URL, CreatedAt: r.CreatedAt.UTC()})
	}
	store.SortEvents(events, order)
	return events, nil
}

func (l *EventLog) DeleteAll(ctx context.Context) error {
	if _, err := l.exec(ctx, l.query(QryDeleteAllLog, l.LogTable)); err != nil {
		return sqlq.Unavailable("delete log", err)
	}
	return nil
}

func (l *EventLog) DeleteByPrompt(ctx context.Context, prompt string) (int64, error) {
	n, err := l.exec(ctx, l.query(QryDeleteLogByPrompt, l.LogTable, bigquery.QueryParameter{Name: "prompt", Value: prompt}))
	if err != nil {
		return 0, sqlq.Unavailable("delete log by prompt", err)
	}
	return n, nil
}

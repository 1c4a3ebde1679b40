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

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/persistence/sqlq"
)

type EventLog struct {
	// Now stamps appended events. Tests replace it to control time.
	Now func() time.Time

	db *sql.DB
}

func NewEventLog(db *sql.DB) *EventLog {
	return &EventLog{Now: time.Now, db: db}
}

func (l *EventLog) Append(ctx context.Context, prompt, url string) (model.LogEvent, error) {
	ev := model.LogEvent{ID: uuid.NewString(), Prompt: prompt, URL: url, CreatedAt: l.Now().UTC()}
	query, args, err := sqlq.LogInsert(builder, ev.ID, prompt, url, ev.CreatedAt.UnixNano()).ToSql()
	if err != nil {
		return model.LogEvent{}, sqlq.Unavailable("build log insert", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return model.LogEvent{}, sqlq.Unavailable("append log event", err)
	}
	return ev, nil
}

func (l *EventLog) List(ctx context.Context, order model.SortOrder) ([]model.LogEvent, error) {
	query, args, err := sqlq.LogList(builder, order).ToSql()
	if err != nil {
		return nil, sqlq.Unavailable("build log list", err)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqlq.Unavailable("list log", err)
	}
	defer rows.Close()

	events := []model.LogEvent{}
	for rows.Next() {
		var ev model.LogEvent
		var nanos int64
		if err := rows.Scan(&ev.ID, &ev.Prompt, &ev.URL, &nanos); err != nil {
			return nil, sqlq.Unavailable("scan log event", err)
		}
		ev.CreatedAt = time.Unix(0, nanos).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlq.Unavailable("list log", err)
	}
	return events, nil
}

func (l *EventLog) DeleteAll(ctx context.Context) error {
	query, args, err := sqlq.LogDeleteAll(builder).ToSql()
	if err != nil {
		return sqlq.Unavailable("build log delete", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return sqlq.Unavailable("delete log", err)
	}
	return nil
}

func (l *EventLog) DeleteByPrompt(ctx context.Context, prompt string) (int64, error) {
	query, args, err := sqlq.LogDeleteByPrompt(builder, prompt).ToSql()
	if err != nil {
		return 0, sqlq.Unavailable("build log delete", err)
	}
	res, err := l.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, sqlq.Unavailable("delete log by prompt", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, sqlq.Unavailable("delete log by prompt", err)
	}
	return n, nil
}

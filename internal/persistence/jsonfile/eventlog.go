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

package jsonfile

import (
	"context"
	"sync"
	"time"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// EventLog stores events as a JSON array of {prompt, url, createdAt}, oldest
// first. Events carry no ID in this format.
type EventLog struct {
	// Now stamps appended events. Tests replace it to control time.
	Now func() time.Time

	path string
	mu   sync.Mutex
}

func NewEventLog(path string) *EventLog {
	return &EventLog{Now: time.Now, path: path}
}

func (l *EventLog) Append(_ context.Context, prompt, url string) (model.LogEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	events, err := l.read()
	if err != nil {
		return model.LogEvent{}, err
	}
	ev := model.LogEvent{Prompt: prompt, URL: url, CreatedAt: l.Now().UTC()}
	if err := writeArray(l.path, append(events, ev)); err != nil {
		return model.LogEvent{}, err
	}
	return ev, nil
}

func (l *EventLog) List(_ context.Context, order model.SortOrder) ([]model.LogEvent, error) {
	l.mu.Lock()
	events, err := l.read()
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	store.SortEvents(events, order)
	return events, nil
}

// DeleteAll writes an empty array rather than removing the file.
func (l *EventLog) DeleteAll(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return writeArray(l.path, []model.LogEvent{})
}

func (l *EventLog) DeleteByPrompt(_ context.Context, prompt string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	events, err := l.read()
	if err != nil {
		return 0, err
	}
	kept := make([]model.LogEvent, 0, len(events))
	for _, ev := range events {
		if ev.Prompt != prompt {
			kept = append(kept, ev)
		}
	}
	n := int64(len(events) - len(kept))
	if n == 0 {
		return 0, nil
	}
	return n, writeArray(l.path, kept)
}

func (l *EventLog) read() ([]model.LogEvent, error) {
	events := []model.LogEvent{}
	if err := readArray(l.path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

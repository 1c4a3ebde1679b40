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
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

func TestEventLogExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := &services.EventLogService{Log: seededLog(t0)}

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf))

	var exported []model.LogEvent
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))

	current, err := svc.List(ctx, model.SortNone)
	require.NoError(t, err)
	require.NotEmpty(t, current)
	require.Len(t, exported, len(current))
	for i := range current {
		assert.Equal(t, current[i].Prompt, exported[i].Prompt)
		assert.Equal(t, current[i].URL, exported[i].URL)
		assert.True(t, current[i].CreatedAt.Equal(exported[i].CreatedAt))
	}
}

func TestEventLogExportEmpty(t *testing.T) {
	svc := &services.EventLogService{Log: store.NewMemoryEventLog()}
	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))
	assert.JSONEq(t, "[]", buf.String())
}

func TestEventLogDeleteAll(t *testing.T) {
	ctx := context.Background()
	svc := &services.EventLogService{Log: seededLog(t0)}

	require.NoError(t, svc.DeleteAll(ctx))
	events, err := svc.List(ctx, model.SortDesc)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}

func TestEventLogDeleteByPrompt(t *testing.T) {
	ctx := context.Background()
	log := newLog(t0)
	svc := &services.EventLogService{Log: log}
	for _, p := range []string{"cat", "cat", "Cat", "dog"} {
		_, err := log.Append(ctx, p, "/videos/x.mp4")
		require.NoError(t, err)
	}

	n, err := svc.DeleteByPrompt(ctx, "cat")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	events, err := svc.List(ctx, model.SortAsc)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Cat", events[0].Prompt)
	assert.Equal(t, "dog", events[1].Prompt)

	_, err = svc.DeleteByPrompt(ctx, "  ")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestEventLogStoreFailure(t *testing.T) {
	svc := &services.EventLogService{Log: failingList{}}
	_, err := svc.List(context.Background(), model.SortNone)
	assert.ErrorIs(t, err, model.ErrStoreUnavailable)
	assert.ErrorIs(t, svc.Export(context.Background(), &bytes.Buffer{}), model.ErrStoreUnavailable)
}

// failingList fails every read and delete.
type failingList struct {
	store.EventLogStore
}

func (failingList) List(context.Context, model.SortOrder) ([]model.LogEvent, error) {
	return nil, errBoom
}

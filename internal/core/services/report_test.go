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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

func TestReport(t *testing.T) {
	ctx := context.Background()
	files := store.NewMemoryFiles()
	require.NoError(t, files.Save(ctx, model.MediaKindVideo, "a.mp4", strings.NewReader("a"), ""))
	require.NoError(t, files.Save(ctx, model.MediaKindVideo, "stray.mp4", strings.NewReader("s"), ""))
	require.NoError(t, files.Save(ctx, model.MediaKindImage, "cat.png", strings.NewReader("c"), ""))

	catalog := store.NewMemoryCatalog(append(model.GetExampleCatalog(),
		model.CatalogEntry{Sentence: "remote", Type: model.MediaKindVideo, Src: "https://cdn.example.com/r.mp4"})...)

	svc := &services.ReportService{Catalog: catalog, Files: files}
	report, err := svc.Report(ctx)
	require.NoError(t, err)

	var dangling []string
	for _, e := range report.DanglingEntries {
		dangling = append(dangling, e.Sentence)
	}
	assert.Equal(t, []string{"category", "Good morning"}, dangling)
	assert.Equal(t, []model.UploadedFile{{Kind: model.MediaKindVideo, Name: "stray.mp4"}}, report.OrphanedFiles)
	require.Len(t, report.ExternalEntries, 1)
	assert.Equal(t, "remote", report.ExternalEntries[0].Sentence)
	assert.False(t, report.Healthy())
}

func TestReportHealthy(t *testing.T) {
	svc := &services.ReportService{Catalog: store.NewMemoryCatalog(), Files: store.NewMemoryFiles()}
	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Healthy())
	assert.NotNil(t, report.OrphanedFiles)
}

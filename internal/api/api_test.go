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

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/api"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/cloud"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/workflow"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fixture struct {
	router  *gin.Engine
	catalog store.CatalogStore
	log     *store.MemoryEventLog
	files   *store.MemoryFiles
}

func newFixture(t *testing.T, catalog store.CatalogStore) *fixture {
	t.Helper()
	return newFixtureWithOptions(t, catalog, api.RouterOptions{ServiceName: "test", CorsOrigins: []string{"*"}})
}

func newFixtureWithOptions(t *testing.T, catalog store.CatalogStore, opts api.RouterOptions) *fixture {
	t.Helper()
	if catalog == nil {
		catalog = store.NewMemoryCatalog()
	}
	log := store.NewMemoryEventLog()
	files := store.NewMemoryFiles()
	resolution := services.NewResolutionService(catalog, log, services.OrderStore)
	h := &api.Handlers{
		Resolution:  resolution,
		Aggregation: &services.AggregationService{Catalog: catalog, Log: log},
		Catalog:     &services.CatalogService{Catalog: catalog},
		Log:         &services.EventLogService{Log: log},
		Files:       &services.FileService{Files: files},
		Report:      &services.ReportService{Catalog: catalog, Files: files},
		Generator: workflow.NewGenerationWorkflow(cloud.Generator{
			Mode:       "fixed",
			FixedAsset: "/videos/videom3.mp4",
		}, log, resolution, nil),
		MaxUploadBytes: 1 << 20,
	}
	r := api.NewRouter(h, opts)
	return &fixture{router: r, catalog: catalog, log: log, files: files}
}

func (f *fixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCatalogLifecycle(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/catalog", map[string]string{"sentence": "AI videos", "type": "video", "src": "/videos/a.mp4"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/catalog", map[string]string{"sentence": "cat", "type": "image", "src": "/images/cat.png"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/catalog", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"AI videos": {"type": "video", "src": "/videos/a.mp4"},
		"cat": {"type": "image", "src": "/images/cat.png"}
	}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/catalog?type=image", nil)
	assert.JSONEq(t, `{"cat": {"type": "image", "src": "/images/cat.png"}}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/catalog?q=ai&file=a.mp4", nil)
	assert.JSONEq(t, `{"AI videos": {"type": "video", "src": "/videos/a.mp4"}}`, w.Body.String())

	w = f.do(t, http.MethodDelete, "/api/catalog", map[string]string{"sentence": "cat"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodDelete, "/api/catalog", map[string]string{"sentence": "cat"})
	assert.Equal(t, http.StatusOK, w.Code)

	entries, err := f.catalog.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCatalogValidation(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/catalog", map[string]string{"sentence": "x", "type": "audio", "src": "/x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]string](t, w)["error"], "validation")

	w = f.do(t, http.MethodPost, "/api/catalog", map[string]string{"sentence": "", "type": "video", "src": "/x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/catalog", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = f.do(t, http.MethodGet, "/api/catalog?type=audio", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveAndSummary(t *testing.T) {
	catalog := store.NewMemoryCatalog(model.CatalogEntry{Sentence: "AI videos", Type: model.MediaKindVideo, Src: "/videos/a.mp4"})
	f := newFixture(t, catalog)

	for i := 0; i < 2; i++ {
		w := f.do(t, http.MethodPost, "/api/resolve", map[string]string{"prompt": "I love AI videos"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"mediaRef":"/videos/a.mp4","type":"video"}`, w.Body.String())
	}

	w := f.do(t, http.MethodPost, "/api/resolve", map[string]string{"prompt": ""})
	assert.JSONEq(t, `{"success":false,"mediaRef":"","type":""}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/phrases", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	overview := decode[services.Overview](t, w)
	require.Len(t, overview.Phrases, 1)
	assert.Equal(t, "I love AI videos", overview.Phrases[0].Prompt)
	assert.Equal(t, 2, overview.Phrases[0].Count)
	require.Len(t, overview.Top, 1)

	events, err := f.log.List(context.Background(), model.SortDesc)
	require.NoError(t, err)
	assert.True(t, overview.Phrases[0].LastSeen.Equal(events[0].CreatedAt))

	w = f.do(t, http.MethodGet, "/api/phrases/I%20love%20AI%20videos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	detail := decode[model.PhraseDetail](t, w)
	assert.Len(t, detail.Entries, 2)
	assert.Equal(t, "", detail.MediaRef)

	w = f.do(t, http.MethodGet, "/api/phrases?sort=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = f.do(t, http.MethodGet, "/api/phrases?top=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogsListDeleteAndExport(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for _, p := range []string{"a", "b", "a"} {
		_, err := f.log.Append(ctx, p, "/videos/x.mp4")
		require.NoError(t, err)
	}

	w := f.do(t, http.MethodGet, "/api/logs/export", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=video-log-export.json", w.Header().Get("Content-Disposition"))
	exported := decode[[]model.LogEvent](t, w)
	current, err := f.log.List(ctx, model.SortNone)
	require.NoError(t, err)
	require.Len(t, exported, len(current))
	for i := range current {
		assert.Equal(t, current[i].Prompt, exported[i].Prompt)
		assert.True(t, current[i].CreatedAt.Equal(exported[i].CreatedAt))
	}

	w = f.do(t, http.MethodGet, "/api/logs?order=asc", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]model.LogEvent](t, w)["logs"], 3)

	w = f.do(t, http.MethodGet, "/api/logs?order=up", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodDelete, "/api/logs?prompt=a", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Deleted successfully","deleted":2}`, w.Body.String())

	w = f.do(t, http.MethodDelete, "/api/logs?prompt=", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodDelete, "/api/logs", nil)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/logs", nil)
	assert.JSONEq(t, `{"logs":[]}`, w.Body.String())
}

func TestGenerateFixed(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/generate", map[string]string{"prompt": "a sunset"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"videoUrl":"/videos/videom3.mp4"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/generate", map[string]string{"prompt": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	events, err := f.log.List(context.Background(), model.SortNone)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func upload(t *testing.T, f *fixture, kind, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if kind != "" {
		require.NoError(t, mw.WriteField("type", kind))
	}
	if name != "" {
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestUploadListAndDelete(t *testing.T) {
	f := newFixture(t, nil)

	w := upload(t, f, "image", "cat.png", []byte("not really a png"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Success  bool   `json:"success"`
		FileName string `json:"fileName"`
	}](t, w)
	assert.True(t, res.Success)
	assert.True(t, strings.HasSuffix(res.FileName, "_cat.png"))

	w = f.do(t, http.MethodGet, "/api/files?type=image", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{res.FileName}, decode[map[string][]string](t, w)["files"])

	w = f.do(t, http.MethodGet, "/api/files?type=video", nil)
	assert.JSONEq(t, `{"files":[]}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/files?type=audio", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/files/url?type=image&name="+res.FileName, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/images/"+res.FileName, decode[map[string]string](t, w)["url"])

	w = f.do(t, http.MethodDelete, "/api/upload", map[string]string{"file": res.FileName, "type": "image"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodDelete, "/api/upload", map[string]string{"file": res.FileName, "type": "image"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodDelete, "/api/upload", map[string]string{"file": "../etc/passwd", "type": "image"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaRedirectsToFileURL(t *testing.T) {
	f := newFixtureWithOptions(t, nil, api.RouterOptions{ServiceName: "test", RedirectMedia: true})
	require.NoError(t, f.files.Save(context.Background(), model.MediaKindVideo, "1_clip.mp4", strings.NewReader("data"), "video/mp4"))

	w := f.do(t, http.MethodGet, "/videos/1_clip.mp4", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/videos/1_clip.mp4", w.Header().Get("Location"))

	w = f.do(t, http.MethodGet, "/images/missing.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = newFixture(t, nil).do(t, http.MethodGet, "/videos/1_clip.mp4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadValidation(t *testing.T) {
	f := newFixture(t, nil)

	w := upload(t, f, "", "cat.png", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(t, f, "image", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(t, f, "video", "big.mp4", make([]byte, 2<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestMaintenanceReport(t *testing.T) {
	catalog := store.NewMemoryCatalog(
		model.CatalogEntry{Sentence: "gone", Type: model.MediaKindVideo, Src: "/videos/gone.mp4"},
		model.CatalogEntry{Sentence: "web", Type: model.MediaKindVideo, Src: "https://example.com/v.mp4"},
	)
	f := newFixture(t, catalog)
	require.NoError(t, f.files.Save(context.Background(), model.MediaKindImage, "orphan.png", strings.NewReader("x"), "image/png"))

	w := f.do(t, http.MethodGet, "/api/maintenance/report", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	report := decode[struct {
		Healthy         bool                 `json:"healthy"`
		DanglingEntries []model.CatalogEntry `json:"danglingEntries"`
		OrphanedFiles   []model.UploadedFile `json:"orphanedFiles"`
		ExternalEntries []model.CatalogEntry `json:"externalEntries"`
	}](t, w)
	assert.False(t, report.Healthy)
	assert.Len(t, report.DanglingEntries, 1)
	assert.Equal(t, []model.UploadedFile{{Kind: model.MediaKindImage, Name: "orphan.png"}}, report.OrphanedFiles)
	assert.Len(t, report.ExternalEntries, 1)
}

// downCatalog fails every call.
type downCatalog struct{}

var errDown = errors.New("dial tcp: connection refused")

func (downCatalog) List(context.Context) ([]model.CatalogEntry, error) { return nil, errDown }
func (downCatalog) Upsert(context.Context, model.CatalogEntry) error { return errDown }
func (downCatalog) Delete(context.Context, string) error { return errDown }

func TestStoreFailureIsGeneric(t *testing.T) {
	f := newFixture(t, downCatalog{})

	for _, tc := range []struct {
		method, target string
		body           any
	}{
		{http.MethodGet, "/api/catalog", nil},
		{http.MethodPost, "/api/catalog", map[string]string{"sentence": "a", "type": "video", "src": "/videos/a.mp4"}},
		{http.MethodPost, "/api/resolve", map[string]string{"prompt": "hello"}},
		{http.MethodGet, "/api/phrases", nil},
		{http.MethodGet, "/api/maintenance/report", nil},
	} {
		w := f.do(t, tc.method, tc.target, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.target)
		assert.JSONEq(t, `{"error":"store unavailable"}`, w.Body.String(), tc.target)
	}
}

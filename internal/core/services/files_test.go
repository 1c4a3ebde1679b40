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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newFileService() (*services.FileService, *store.MemoryFiles) {
	files := store.NewMemoryFiles()
	return &services.FileService{
		Files: files,
		Now:   func() time.Time { return time.UnixMilli(1719000000000) },
	}, files
}

func TestSaveFileNamesUpload(t *testing.T) {
	ctx := context.Background()
	svc, files := newFileService()

	name, err := svc.SaveFile(ctx, "image", "C:\\Users\\me\\cat.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "1719000000000_cat.png", name)

	body, ok := files.Bytes(model.MediaKindImage, name)
	require.True(t, ok)
	assert.Equal(t, pngHeader, body, "sniffed bytes are written back")

	names, err := svc.ListFiles(ctx, "image")
	require.NoError(t, err)
	assert.Equal(t, []string{name}, names)

	url, err := svc.FileURL(ctx, "image", name)
	require.NoError(t, err)
	assert.Equal(t, "/images/1719000000000_cat.png", url)
}

func TestSaveFileKeepsMismatchedContent(t *testing.T) {
	svc, files := newFileService()
	name, err := svc.SaveFile(context.Background(), "video", "clip.mp4", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	_, ok := files.Bytes(model.MediaKindVideo, name)
	assert.True(t, ok)
}

func TestSaveFileLargeBody(t *testing.T) {
	svc, files := newFileService()
	payload := strings.Repeat("x", 10_000)
	name, err := svc.SaveFile(context.Background(), "video", "big.mp4", strings.NewReader(payload))
	require.NoError(t, err)
	body, _ := files.Bytes(model.MediaKindVideo, name)
	assert.Equal(t, payload, string(body))
}

func TestSaveFileValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFileService()

	_, err := svc.SaveFile(ctx, "audio", "a.mp3", strings.NewReader("x"))
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.SaveFile(ctx, "video", "", strings.NewReader("x"))
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.SaveFile(ctx, "video", "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = svc.SaveFile(ctx, "video", "a.mp4", nil)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestSaveFileKeepsDoubleDotsInsideName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFileService()

	name, err := svc.SaveFile(ctx, "video", "clip..final.mp4", strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_clip..final.mp4"), name)
	require.NoError(t, svc.DeleteFile(ctx, "video", name))
}

func TestListFilesRejectsUnknownType(t *testing.T) {
	svc, _ := newFileService()
	_, err := svc.ListFiles(context.Background(), "docs")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestDeleteFile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFileService()
	name, err := svc.SaveFile(ctx, "video", "clip.mp4", strings.NewReader("data"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(ctx, "video", name))
	assert.ErrorIs(t, svc.DeleteFile(ctx, "video", name), model.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteFile(ctx, "video", "../secret"), model.ErrValidation)
	assert.ErrorIs(t, svc.DeleteFile(ctx, "video", `a\b`), model.ErrValidation)
}

func TestValidateFileName(t *testing.T) {
	for _, good := range []string{"1719_a.mp4", "1719_clip..final.mp4", "..hidden", "a.."} {
		assert.NoError(t, services.ValidateFileName(good), good)
	}
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "../a"} {
		assert.ErrorIs(t, services.ValidateFileName(bad), model.ErrValidation, bad)
	}
}

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

package local_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/storage/local"
)

func TestFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	files, err := local.NewFiles(root)
	require.NoError(t, err)

	require.NoError(t, files.Save(ctx, model.MediaKindVideo, "2_b.mp4", strings.NewReader("bb"), "video/mp4"))
	require.NoError(t, files.Save(ctx, model.MediaKindVideo, "1_a.mp4", strings.NewReader("a"), "video/mp4"))
	require.NoError(t, os.Mkdir(filepath.Join(root, "videos", "nested"), 0o755))

	names, err := files.List(ctx, model.MediaKindVideo)
	require.NoError(t, err)
	assert.Equal(t, []string{"1_a.mp4", "2_b.mp4"}, names, "directories are skipped")

	data, err := os.ReadFile(filepath.Join(root, "videos", "2_b.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "bb", string(data))

	url, err := files.URL(ctx, model.MediaKindVideo, "1_a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "/videos/1_a.mp4", url)

	require.NoError(t, files.Delete(ctx, model.MediaKindVideo, "1_a.mp4"))
	assert.ErrorIs(t, files.Delete(ctx, model.MediaKindVideo, "1_a.mp4"), model.ErrNotFound)
	_, err = files.URL(ctx, model.MediaKindVideo, "1_a.mp4")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListMissingDirectory(t *testing.T) {
	root := t.TempDir()
	files, err := local.NewFiles(root)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "images")))

	names, err := files.List(context.Background(), model.MediaKindImage)
	require.NoError(t, err)
	assert.Empty(t, names)
}

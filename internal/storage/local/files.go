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

// Package local stores uploaded media on the local filesystem under
// <root>/videos and <root>/images. The HTTP server serves both directories
// statically, so URL returns the "/videos/<name>" style path.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

type Files struct {
	root string
}

// NewFiles creates root and both kind directories if needed.
func NewFiles(root string) (*Files, error) {
	for _, kind := range model.MediaKinds {
		if err := os.MkdirAll(filepath.Join(root, kind.Dir()), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create local storage directory: %w", err)
		}
	}
	slog.Info("local file storage initialized", "root", root)
	return &Files{root: root}, nil
}

// Dir returns the directory holding files of kind.
func (f *Files) Dir(kind model.MediaKind) string {
	return filepath.Join(f.root, kind.Dir())
}

// List returns regular file names, sorted. A missing directory is empty.
func (f *Files) List(_ context.Context, kind model.MediaKind) ([]string, error) {
	entries, err := os.ReadDir(f.Dir(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", f.Dir(kind), model.ErrStoreUnavailable, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (f *Files) Save(_ context.Context, kind model.MediaKind, name string, body io.Reader, _ string) error {
	dir := f.Dir(kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w: %w", model.ErrStoreUnavailable, err)
	}
	fullPath := filepath.Join(dir, name)
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w: %w", model.ErrStoreUnavailable, err)
	}
	written, err := io.Copy(file, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w: %w", model.ErrStoreUnavailable, err)
	}
	slog.Debug("file written to local storage", "path", fullPath, "bytes", written)
	return nil
}

func (f *Files) Delete(_ context.Context, kind model.MediaKind, name string) error {
	err := os.Remove(filepath.Join(f.Dir(kind), name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %s: %w", kind, name, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w: %w", model.ErrStoreUnavailable, err)
	}
	return nil
}

func (f *Files) URL(_ context.Context, kind model.MediaKind, name string) (string, error) {
	if _, err := os.Stat(filepath.Join(f.Dir(kind), name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s %s: %w", kind, name, model.ErrNotFound)
		}
		return "", fmt.Errorf("stat file: %w: %w", model.ErrStoreUnavailable, err)
	}
	return kind.Src(name), nil
}

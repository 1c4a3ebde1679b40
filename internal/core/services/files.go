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

// This file, `files.go`, defines the FileService, which names, sniffs and
// stores uploaded media through a store.FileStore.
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// sniffLen is the number of leading bytes filetype needs to recognise every
// format it supports.
const sniffLen = 261

// FileService manages uploaded media files.
type FileService struct {
	Files store.FileStore
	// Now names uploads; defaults to time.Now.
	Now func() time.Time
}

// ListFiles returns the names stored for kind.
func (s *FileService) ListFiles(ctx context.Context, kind string) ([]string, error) {
	k, err := model.ParseMediaKind(kind)
	if err != nil {
		return nil, err
	}
	names, err := s.Files.List(ctx, k)
	if err != nil {
		return nil, storeErr("list files", err)
	}
	return names, nil
}

// SaveFile stores body under "<unix millis>_<base name>" and returns that name.
// The content is sniffed; a format that disagrees with kind is logged and the
// upload still proceeds.
//
// Inputs:
//   - kind: "video" or "image".
//   - originalName: The client-side file name; only its base name is kept.
//   - body: The file content.
//
// Outputs:
//   - string: The stored file name.
//   - error: Wraps model.ErrValidation or model.ErrStoreUnavailable.
func (s *FileService) SaveFile(ctx context.Context, kind, originalName string, body io.Reader) (string, error) {
	k, err := model.ParseMediaKind(kind)
	if err != nil {
		return "", err
	}
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if err := ValidateFileName(base); err != nil {
		return "", fmt.Errorf("%w: invalid file name %q", model.ErrValidation, originalName)
	}
	if body == nil {
		return "", fmt.Errorf("%w: file is required", model.ErrValidation)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", model.ErrStoreUnavailable)
	}
	head = head[:n]
	contentType := s.sniff(ctx, k, base, head)

	name := fmt.Sprintf("%d_%s", s.now().UnixMilli(), base)
	if err := s.Files.Save(ctx, k, name, io.MultiReader(bytes.NewReader(head), body), contentType); err != nil {
		return "", storeErr("save file", err)
	}
	slog.InfoContext(ctx, "stored upload", "type", k, "name", name, "content_type", contentType)
	return name, nil
}

// DeleteFile removes a stored file. A missing file wraps model.ErrNotFound.
func (s *FileService) DeleteFile(ctx context.Context, kind, name string) error {
	k, err := model.ParseMediaKind(kind)
	if err != nil {
		return err
	}
	if err := ValidateFileName(name); err != nil {
		return err
	}
	if err := s.Files.Delete(ctx, k, name); err != nil {
		return storeErr("delete file", err)
	}
	return nil
}

// FileURL returns a fetchable address for a stored file.
func (s *FileService) FileURL(ctx context.Context, kind, name string) (string, error) {
	k, err := model.ParseMediaKind(kind)
	if err != nil {
		return "", err
	}
	if err := ValidateFileName(name); err != nil {
		return "", err
	}
	url, err := s.Files.URL(ctx, k, name)
	if err != nil {
		return "", storeErr("file url", err)
	}
	return url, nil
}

// ValidateFileName rejects empty names and names that could escape the
// kind's directory.
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: file name is required", model.ErrValidation)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid file name %q", model.ErrValidation, name)
	}
	return nil
}

func (s *FileService) sniff(ctx context.Context, kind model.MediaKind, name string, head []byte) string {
	t, err := filetype.Match(head)
	if err != nil || t == filetype.Unknown {
		if ext := filetype.GetType(strings.TrimPrefix(filepath.Ext(name), ".")); ext != filetype.Unknown {
			return ext.MIME.Value
		}
		return "application/octet-stream"
	}
	sniffed := model.MediaKind(t.MIME.Type)
	if sniffed != kind {
		slog.WarnContext(ctx, "upload content does not match declared type",
			"declared", kind, "detected", t.MIME.Value, "name", name)
	}
	return t.MIME.Value
}

func (s *FileService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

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

// Package model defines the core data structures for the application.
// This file, `catalog.go`, contains the persistent shapes of the media
// catalog: the sentence-keyed entries that map a phrase to a video or an
// image, and the reference returned to callers when a phrase resolves.
package model

import (
	"fmt"
	"path"
	"strings"
)

// MediaKind classifies the file a catalog entry points at.
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindImage MediaKind = "image"
)

// MediaKinds lists every supported kind, in the order the file store is audited.
var MediaKinds = []MediaKind{MediaKindVideo, MediaKindImage}

// ParseMediaKind accepts exactly "video" or "image".
func ParseMediaKind(in string) (MediaKind, error) {
	switch MediaKind(in) {
	case MediaKindVideo, MediaKindImage:
		return MediaKind(in), nil
	}
	return "", fmt.Errorf("%w: unknown media type %q", ErrValidation, in)
}

// Dir returns the directory (or object prefix) holding files of this kind.
func (k MediaKind) Dir() string {
	if k == MediaKindVideo {
		return "videos"
	}
	return "images"
}

// Src builds the conventional public reference for a stored file,
// e.g. "/videos/1719_intro.mp4".
func (k MediaKind) Src(name string) string {
	return "/" + k.Dir() + "/" + name
}

// ParseSrc is the inverse of Src. It reports false for anything that is not
// a "/videos/<name>" or "/images/<name>" reference, such as absolute URLs.
func ParseSrc(src string) (kind MediaKind, name string, ok bool) {
	for _, k := range MediaKinds {
		prefix := "/" + k.Dir() + "/"
		if strings.HasPrefix(src, prefix) {
			name = strings.TrimPrefix(src, prefix)
			if name == "" || strings.Contains(name, "/") {
				return "", "", false
			}
			return k, name, true
		}
	}
	return "", "", false
}

// CatalogEntry maps a sentence to a media file. Sentence is the unique,
// case-sensitive natural key.
type CatalogEntry struct {
	Sentence string    `json:"sentence" bigquery:"sentence"`
	Type     MediaKind `json:"type" bigquery:"type"`
	Src      string    `json:"src" bigquery:"src"`
}

// Reference returns the media reference carried by the entry.
func (e CatalogEntry) Reference() MediaReference {
	return MediaReference{Type: e.Type, Src: e.Src}
}

// FileName returns the last path element of Src, as shown by the dashboard.
func (e CatalogEntry) FileName() string {
	return path.Base(e.Src)
}

// MediaReference is what a successful resolution hands back to the caller.
type MediaReference struct {
	Type MediaKind `json:"type"`
	Src  string    `json:"src"`
}

// CatalogFilter narrows a catalog listing the way the admin dashboard does.
// Zero values match everything.
type CatalogFilter struct {
	Query string    // case-insensitive substring of the sentence
	Type  MediaKind // exact media kind
	File  string    // case-sensitive substring of the file name
}

// Matches reports whether the entry satisfies every populated field.
func (f CatalogFilter) Matches(e CatalogEntry) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(e.Sentence), strings.ToLower(f.Query)) {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.File != "" && !strings.Contains(e.FileName(), f.File) {
		return false
	}
	return true
}

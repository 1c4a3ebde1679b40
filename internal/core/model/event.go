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
// This file, `event.go`, contains the event log record written on every
// successful resolution, plus the read models derived from it by the
// aggregation view.
package model

import (
	"fmt"
	"strings"
	"time"
)

// LogEvent is one successful resolution (or one simulated generation).
// The JSON names match the file-backed log format.
type LogEvent struct {
	ID        string    `json:"id,omitempty" bigquery:"id"`
	Prompt    string    `json:"prompt" bigquery:"prompt"`
	URL       string    `json:"url" bigquery:"url"`
	CreatedAt time.Time `json:"createdAt" bigquery:"created_at"`
}

// SortOrder orders listings by timestamp.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps "", "asc" and "desc" (any case) to a SortOrder.
func ParseSortOrder(in string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(in))) {
	case SortNone:
		return SortNone, nil
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return SortNone, fmt.Errorf("%w: unknown sort order %q", ErrValidation, in)
}

// PhraseSummary is one group of the aggregation view.
type PhraseSummary struct {
	Prompt   string    `json:"prompt"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"lastSeen"`
	MediaRef string    `json:"mediaRef"`
}

// TopPhrase is one row of the top-N ranking.
type TopPhrase struct {
	Prompt string `json:"prompt"`
	Count  int    `json:"count"`
}

// PhraseDetail lists every event recorded for one phrase, newest first.
type PhraseDetail struct {
	Prompt   string     `json:"prompt"`
	Entries  []LogEvent `json:"entries"`
	MediaRef string     `json:"mediaRef"`
}

// UploadedFile identifies a file owned by the file store.
type UploadedFile struct {
	Kind MediaKind `json:"type"`
	Name string    `json:"name"`
}

// MaintenanceReport cross-checks catalog references against stored files.
type MaintenanceReport struct {
	DanglingEntries []CatalogEntry `json:"danglingEntries"`
	OrphanedFiles   []UploadedFile `json:"orphanedFiles"`
	ExternalEntries []CatalogEntry `json:"externalEntries"`
}

// Healthy reports whether the catalog and the file store agree.
func (r *MaintenanceReport) Healthy() bool {
	return len(r.DanglingEntries) == 0 && len(r.OrphanedFiles) == 0
}

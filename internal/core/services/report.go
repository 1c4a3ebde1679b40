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

// This file, `report.go`, defines the ReportService, a read-only audit of the
// catalog against the file store.
package services

import (
	"context"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// ReportService finds catalog entries that point at missing files and files
// that no entry references. Nothing is repaired.
type ReportService struct {
	Catalog store.CatalogStore
	Files   store.FileStore
}

func (s *ReportService) Report(ctx context.Context) (*model.MaintenanceReport, error) {
	entries, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, storeErr("list catalog", err)
	}

	stored := make(map[model.UploadedFile]bool)
	var files []model.UploadedFile
	for _, kind := range model.MediaKinds {
		names, err := s.Files.List(ctx, kind)
		if err != nil {
			return nil, storeErr("list files", err)
		}
		for _, n := range names {
			f := model.UploadedFile{Kind: kind, Name: n}
			stored[f] = true
			files = append(files, f)
		}
	}

	report := &model.MaintenanceReport{
		DanglingEntries: []model.CatalogEntry{},
		OrphanedFiles:   []model.UploadedFile{},
		ExternalEntries: []model.CatalogEntry{},
	}
	referenced := make(map[model.UploadedFile]bool)
	for _, e := range entries {
		kind, name, ok := model.ParseSrc(e.Src)
		if !ok {
			report.ExternalEntries = append(report.ExternalEntries, e)
			continue
		}
		f := model.UploadedFile{Kind: kind, Name: name}
		referenced[f] = true
		if !stored[f] {
			report.DanglingEntries = append(report.DanglingEntries, e)
		}
	}
	for _, f := range files {
		if !referenced[f] {
			report.OrphanedFiles = append(report.OrphanedFiles, f)
		}
	}
	return report, nil
}

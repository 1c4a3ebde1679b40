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

// Package jsonfile implements the catalog and event log as JSON arrays on
// local disk, the format the admin tools export and import. Every write reads
// the whole file, modifies it in memory and overwrites it; a mutex per store
// serializes those read-modify-write cycles within the process.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// readArray decodes the JSON array in path into out. A missing or empty file
// leaves out untouched.
func readArray(path string, out any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w: %w", path, model.ErrStoreUnavailable, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w: %w", path, model.ErrStoreUnavailable, err)
	}
	return nil
}

// writeArray overwrites path with v, indented by two spaces.
func writeArray(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w: %w", path, model.ErrStoreUnavailable, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w: %w", dir, model.ErrStoreUnavailable, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %w", path, model.ErrStoreUnavailable, err)
	}
	return nil
}

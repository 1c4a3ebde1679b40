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

package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// MemoryFiles is an in-process FileStore holding file bodies in a map.
type MemoryFiles struct {
	mu    sync.Mutex
	files map[model.MediaKind]map[string][]byte
}

func NewMemoryFiles() *MemoryFiles {
	return &MemoryFiles{files: make(map[model.MediaKind]map[string][]byte)}
}

// List returns file names sorted, matching a directory listing.
func (m *MemoryFiles) List(_ context.Context, kind model.MediaKind) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.files[kind]))
	for name := range m.files[kind] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryFiles) Save(_ context.Context, kind model.MediaKind, name string, body io.Reader, _ string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("read upload %s: %w", name, model.ErrStoreUnavailable)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files[kind] == nil {
		m.files[kind] = make(map[string][]byte)
	}
	m.files[kind][name] = buf.Bytes()
	return nil
}

func (m *MemoryFiles) Delete(_ context.Context, kind model.MediaKind, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[kind][name]; !ok {
		return fmt.Errorf("%s %s: %w", kind, name, model.ErrNotFound)
	}
	delete(m.files[kind], name)
	return nil
}

func (m *MemoryFiles) URL(_ context.Context, kind model.MediaKind, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[kind][name]; !ok {
		return "", fmt.Errorf("%s %s: %w", kind, name, model.ErrNotFound)
	}
	return kind.Src(name), nil
}

// Bytes returns a stored body, for tests.
func (m *MemoryFiles) Bytes(kind model.MediaKind, name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[kind][name]
	return b, ok
}

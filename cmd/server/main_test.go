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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	test "github.com/jaycherian/gcp-go-phrase-media-map/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config-dir", test.ConfigDir(), "--runtime", "test"}, args...))
	err := execute()
	return out.String(), err
}

func TestExportLogsToStdout(t *testing.T) {
	out, err := run(t, "export-logs", "--out", "-")
	require.NoError(t, err)

	var events []model.LogEvent
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	assert.Empty(t, events)
}

func TestExportLogsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	_, err := run(t, "export-logs", "--out", path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestAuditHealthyStore(t *testing.T) {
	out, err := run(t, "audit")
	require.NoError(t, err)

	var report model.MaintenanceReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Healthy())
}

func TestMigrateMemoryStore(t *testing.T) {
	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, `store "memory" is up to date`)
}

func TestFailedCommandStillTearsDown(t *testing.T) {
	dir := t.TempDir()
	seeded := "[store]\nbackend = \"memory\"\nseed = true\n\n[files]\nbackend = \"memory\"\n\n[telemetry]\nexporter = \"none\"\nlog_level = \"warn\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(seeded), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--config-dir", dir, "--runtime", "test", "audit"})
	err := execute()
	assert.ErrorContains(t, err, "dangling entries")

	assert.Nil(t, state.cloud)
	assert.Nil(t, state.config)
	assert.Nil(t, shutdownTelemetry)
	assert.Nil(t, closeLogFile)
}

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

// Package test provides shared helpers for the package tests: a cached
// configuration loaded from configs/.env.test.toml and state containers
// backed by the in-memory stores.
package test

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/cloud"
)

// StateManager caches the loaded configuration.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr reports err as a test error.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ConfigDir returns the absolute path of the repository's configs directory.
func ConfigDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "configs")
}

// SetupOS points the configuration loader at configs/ with the test runtime.
func SetupOS() (err error) {
	if err = os.Setenv(cloud.EnvConfigFilePrefix, ConfigDir()); err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig returns the test configuration, loading it on first use.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load test config: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// MemoryConfig returns a copy of the test configuration that uses the
// in-memory catalog, event log and file store, with no generation delay.
func MemoryConfig() *cloud.Config {
	config := *GetConfig()
	config.Store.Backend = cloud.BackendMemory
	config.Store.Seed = false
	config.Files.Backend = cloud.FilesMemory
	config.Generator.DelayMillis = 0
	config.TopicSubscriptions = map[string]cloud.TopicSubscription{}
	return &config
}

// NewMemoryClients opens a state container for config and closes it when
// the test ends.
func NewMemoryClients(t *testing.T, config *cloud.Config) *cloud.ServiceClients {
	t.Helper()
	clients, err := cloud.NewCloudServiceClients(context.Background(), config)
	if err != nil {
		t.Fatalf("failed to create service clients: %v", err)
	}
	t.Cleanup(clients.Close)
	return clients
}

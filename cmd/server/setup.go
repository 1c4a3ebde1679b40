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
	"context"
	"fmt"
	"os"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/cloud"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/workflow"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config      *cloud.Config
	cloud       *cloud.ServiceClients
	resolution  *services.ResolutionService
	aggregation *services.AggregationService
	catalog     *services.CatalogService
	eventLog    *services.EventLogService
	files       *services.FileService
	report      *services.ReportService
	generator   *workflow.GenerationWorkflow
}

var state = &StateManager{}

// SetupOS defaults the configuration directory to ./configs and the runtime
// to "local" unless the environment or the flags already chose them.
func SetupOS(configDir, runtime string) (err error) {
	if configDir != "" || os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if configDir == "" {
			configDir = "configs"
		}
		if err = os.Setenv(cloud.EnvConfigFilePrefix, configDir); err != nil {
			return err
		}
	}
	if runtime != "" || os.Getenv(cloud.EnvConfigRuntime) == "" {
		if runtime == "" {
			runtime = "local"
		}
		err = os.Setenv(cloud.EnvConfigRuntime, runtime)
	}
	return err
}

// GetConfig loads and validates the configuration once.
func GetConfig(configDir, runtime string) (*cloud.Config, error) {
	if state.config == nil {
		if err := SetupOS(configDir, runtime); err != nil {
			return nil, fmt.Errorf("failed to setup environment: %w", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			return nil, err
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		state.config = config
	}
	return state.config, nil
}

// InitState opens the configured backends and wires the services on top.
func InitState(ctx context.Context, config *cloud.Config) error {
	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		return err
	}
	if config.Store.Backend == cloud.BackendSQLite || config.Store.Backend == cloud.BackendPostgres {
		if err := cloudClients.Migrate(ctx, config); err != nil {
			cloudClients.Close()
			return err
		}
	}
	order, err := services.ParseCatalogOrder(config.Store.CatalogOrder)
	if err != nil {
		cloudClients.Close()
		return err
	}

	state.config = config
	state.cloud = cloudClients
	state.resolution = services.NewResolutionService(cloudClients.Catalog, cloudClients.EventLog, order)
	state.aggregation = &services.AggregationService{Catalog: cloudClients.Catalog, Log: cloudClients.EventLog}
	state.catalog = &services.CatalogService{Catalog: cloudClients.Catalog}
	state.eventLog = &services.EventLogService{Log: cloudClients.EventLog}
	state.files = &services.FileService{Files: cloudClients.Files}
	state.report = &services.ReportService{Catalog: cloudClients.Catalog, Files: cloudClients.Files}
	state.generator = workflow.NewGenerationWorkflow(
		config.Generator,
		cloudClients.EventLog,
		state.resolution,
		cloud.NewGenerationLimiter(config.Generator.RateLimit, config.Generator.Burst))
	return nil
}

// CloseState releases the clients opened by InitState.
func CloseState() {
	if state.cloud != nil {
		state.cloud.Close()
	}
	*state = StateManager{}
}

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

// Command phrasemap serves the phrase-to-media API and provides the
// maintenance commands around it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/api"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/cloud"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/telemetry"
)

var (
	configDir string
	runtime   string

	shutdownTelemetry func(context.Context) error
	closeLogFile      func() error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phrasemap",
	Short: "Phrase-to-media mapping service",
	Long: `phrasemap maps sentences to videos and images, resolves free text
against that catalog and records every resolution.

Examples:
  phrasemap serve
  phrasemap migrate --runtime prod
  phrasemap export-logs --out video-log-export.json
  phrasemap audit`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportLogsCmd)
	rootCmd.AddCommand(auditCmd)

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding the .env TOML files (default \"configs\")")
	rootCmd.PersistentFlags().StringVar(&runtime, "runtime", "", "Runtime overlay, e.g. local, test or prod (default \"local\")")
}

// setup loads the configuration, then starts logging and telemetry.
func setup(cmd *cobra.Command, _ []string) error {
	config, err := GetConfig(configDir, runtime)
	if err != nil {
		return err
	}
	if closeLogFile, err = telemetry.SetupLogging(config); err != nil {
		return err
	}
	slog.Info("logging initialized", "command", cmd.Name())

	if shutdownTelemetry, err = telemetry.SetupOpenTelemetry(cmd.Context(), config); err != nil {
		return err
	}
	return InitState(cmd.Context(), config)
}

// execute runs the selected command and always tears down what setup
// started, including when the command itself failed.
func execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, teardown())
}

func teardown() error {
	CloseState()
	var err error
	if shutdownTelemetry != nil {
		err = shutdownTelemetry(context.Background())
		shutdownTelemetry = nil
	}
	if closeLogFile != nil {
		err = errors.Join(err, closeLogFile())
		closeLogFile = nil
	}
	return err
}

func newHandlers(config *cloud.Config) *api.Handlers {
	return &api.Handlers{
		Resolution:     state.resolution,
		Aggregation:    state.aggregation,
		Catalog:        state.catalog,
		Log:            state.eventLog,
		Files:          state.files,
		Report:         state.report,
		Generator:      state.generator,
		MaxUploadBytes: config.Files.MaxUploadBytes,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	config := state.config
	opts := api.RouterOptions{
		ServiceName: config.Application.Name,
		CorsOrigins: config.Application.CorsOrigins,
	}
	switch config.Files.Backend {
	case cloud.FilesLocal:
		opts.StaticRoot = config.Files.Root
	case cloud.FilesGCS:
		opts.RedirectMedia = true
	}
	r := api.NewRouter(newHandlers(config), opts)

	SetupListeners(ctx)

	srv := &http.Server{
		Addr:              config.Application.ListenAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	slog.Info("server ready", "address", srv.Addr, "store", config.Store.Backend, "files", config.Files.Backend)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to listen: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("server exiting")
	return nil
}

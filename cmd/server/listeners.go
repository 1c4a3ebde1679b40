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

// This file starts the Pub/Sub listener that runs the generation workflow
// for every message on the GenerationTopic subscription.
package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/cloud"
)

// SetupListeners attaches the generation workflow to its listener and starts
// it. Without a configured subscription this is a no-op.
func SetupListeners(ctx context.Context) {
	listener, err := state.cloud.GenerationListener()
	if errors.Is(err, cloud.ErrNoGenerationListener) {
		slog.InfoContext(ctx, "no generation subscription configured")
		return
	}
	listener.SetCommand(state.generator)
	listener.Listen(ctx)
}

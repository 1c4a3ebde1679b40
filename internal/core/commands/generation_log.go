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

// This file defines the generation-log command, the last step of a
// fixed-mode generation. It appends one event to the log for every attempt,
// whatever the prompt. A failed append fails the generation.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/cor"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// GenerationLog records a generated video in the event log.
type GenerationLog struct {
	cor.BaseCommand
	Log store.EventLogStore
}

// NewGenerationLog is the constructor for the GenerationLog command.
func NewGenerationLog(name string, log store.EventLogStore) *GenerationLog {
	return &GenerationLog{BaseCommand: *cor.NewBaseCommand(name), Log: log}
}

// Execute appends {prompt, url} to the event log.
func (c *GenerationLog) Execute(context cor.Context) {
	result, ok := context.Get(c.GetInputParam()).(*model.GenerationResult)
	if !ok {
		c.Fail(context, fmt.Errorf("%w: expected *model.GenerationResult", model.ErrValidation))
		return
	}

	ctx := context.GetContext()
	if _, err := c.Log.Append(ctx, result.Prompt, result.VideoURL); err != nil {
		slog.ErrorContext(ctx, "failed to log generation", "prompt", result.Prompt, "error", err)
		c.Fail(context, fmt.Errorf("append generation log: %w", err))
		return
	}
	c.Succeed(context, result)
}

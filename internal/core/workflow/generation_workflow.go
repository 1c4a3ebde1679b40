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

// Package workflow defines the high-level orchestrations, combining commands
// into coherent pipelines. This file implements the generation workflow that
// backs POST /api/generate and the optional Pub/Sub generation listener.
package workflow

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/cloud"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/commands"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/cor"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/store"
)

// GenerationWorkflow simulates video generation for a prompt. It is a
// cor.Command, so it can be handed directly to a PubSubListener.
type GenerationWorkflow struct {
	cor.BaseCommand
	mode     model.GenerationMode
	config   cloud.Generator
	log      store.EventLogStore
	resolver commands.Resolver
	limiter  *rate.Limiter
	chain    cor.Chain
}

// Execute runs the underlying chain. The trigger payload is read from
// CtxIn; afterwards the *model.GenerationResult is found under CtxIn.
func (w *GenerationWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// IsExecutable defers to the chain's own check.
func (w *GenerationWorkflow) IsExecutable(context cor.Context) bool {
	return w.chain.IsExecutable(context) && context.Get(cor.CtxIn) != nil
}

// initializeChain builds the command sequence for the configured mode.
func (w *GenerationWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Accept a raw prompt or a {"prompt": ...} message.
	out.AddCommand(commands.NewPromptReader("prompt-reader"))

	// Step 2: Wait as a real generator would, throttled by the shared limiter.
	out.AddCommand(commands.NewGenerationDelay("generation-delay", w.config.Delay(), w.limiter))

	// Step 3: Pick the media. Match mode logs through the resolver.
	out.AddCommand(commands.NewMediaSelector("media-selector", w.mode, w.config.FixedAsset, w.resolver))

	// Step 4: Fixed mode logs every attempt.
	if w.mode == model.GenerationFixed {
		out.AddCommand(commands.NewGenerationLog("generation-log", w.log))
	}

	w.chain = out
}

// NewGenerationWorkflow is the constructor for the GenerationWorkflow.
//
// Inputs:
//   - config: The generator section of the application configuration.
//   - log: Receives one event per fixed-mode generation.
//   - resolver: Resolves prompts in match mode.
//   - limiter: Optional throttle, see cloud.NewGenerationLimiter.
//
// Returns:
//   - A pointer to a newly created and initialized GenerationWorkflow.
func NewGenerationWorkflow(
	config cloud.Generator,
	log store.EventLogStore,
	resolver commands.Resolver,
	limiter *rate.Limiter) *GenerationWorkflow {

	w := &GenerationWorkflow{
		BaseCommand: *cor.NewBaseCommand("generation-workflow"),
		mode:        model.GenerationMode(config.Mode),
		config:      config,
		log:         log,
		resolver:    resolver,
		limiter:     limiter,
	}
	w.initializeChain()
	return w
}

// Generate runs the workflow for one prompt payload.
//
// Inputs:
//   - ctx: Cancelling it interrupts the delay.
//   - payload: A raw prompt or a JSON {"prompt": ...} message, as string or []byte.
//
// Outputs:
//   - *model.GenerationResult: Never nil. Success is false when the chain
//     failed or, in match mode, when nothing matched.
//   - error: The chain's joined errors. Wraps model.ErrValidation for a blank
//     or malformed prompt.
func (w *GenerationWorkflow) Generate(ctx context.Context, payload any) (*model.GenerationResult, error) {
	chCtx := cor.NewBaseContext()
	chCtx.SetContext(ctx)
	chCtx.Add(cor.CtxIn, payload)

	w.Execute(chCtx)

	if err := chCtx.Err(); err != nil {
		return &model.GenerationResult{}, err
	}
	result, ok := chCtx.Get(cor.CtxIn).(*model.GenerationResult)
	if !ok {
		return &model.GenerationResult{}, errors.New("generation produced no result")
	}
	return result, nil
}

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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. Together they form the
// generation workflow: prompt-reader -> generation-delay -> media-selector ->
// generation-log. Each command reads a *model.GenerationResult from its input
// parameter, updates it, and writes the same pointer to its output parameter.
//
// This file defines the first command of the workflow.
//
// Logic Flow:
//  1. The command receives either a raw prompt (string or []byte) or a JSON
//     message of the form {"prompt": "..."} from the context. Pub/Sub
//     deliveries arrive as []byte, HTTP requests as a decoded string.
//  2. A payload whose first non-blank character is '{' is decoded as a
//     model.GenerationRequest; anything else is taken verbatim as the prompt.
//  3. A blank prompt is a validation error.
//  4. A new GenerationResult carrying the prompt becomes the command output.
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/cor"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// PromptReader turns the workflow trigger into a GenerationResult.
type PromptReader struct {
	cor.BaseCommand
}

// NewPromptReader is the constructor for the PromptReader command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *PromptReader: A pointer to the newly instantiated command.
func NewPromptReader(name string) *PromptReader {
	return &PromptReader{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses the trigger payload.
func (c *PromptReader) Execute(context cor.Context) {
	var raw string
	switch in := context.Get(c.GetInputParam()).(type) {
	case string:
		raw = in
	case []byte:
		raw = string(in)
	case *model.GenerationRequest:
		raw = in.Prompt
	default:
		c.Fail(context, fmt.Errorf("%w: unsupported prompt payload %T", model.ErrValidation, in))
		return
	}

	prompt, err := ParsePrompt(raw)
	if err != nil {
		c.Fail(context, err)
		return
	}
	c.Succeed(context, &model.GenerationResult{Prompt: prompt})
}

// ParsePrompt extracts the prompt from a raw or JSON payload.
func ParsePrompt(raw string) (string, error) {
	prompt := raw
	if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		var req model.GenerationRequest
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return "", fmt.Errorf("%w: malformed generation request: %w", model.ErrValidation, err)
		}
		prompt = req.Prompt
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", model.ErrValidation)
	}
	return prompt, nil
}

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

// This file defines the generation-delay command, which stands in for the
// time an external generator would take.
//
// Logic Flow:
//  1. When a rate limiter is configured, the command first waits for a token,
//     so bursts of generation requests are spread out.
//  2. It then waits for the configured delay.
//  3. Both waits end early when the Go context is cancelled; the cancellation
//     is recorded as the command's error and the chain stops.
//  4. The GenerationResult passes through unchanged.
package commands

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/cor"
)

// GenerationDelay waits before media is selected.
type GenerationDelay struct {
	cor.BaseCommand
	Delay   time.Duration // Zero skips the wait.
	Limiter *rate.Limiter // Optional throttle shared by every execution.
}

// NewGenerationDelay is the constructor for the GenerationDelay command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - delay: How long each generation takes.
//   - limiter: May be nil.
//
// Outputs:
//   - *GenerationDelay: A pointer to the newly instantiated command.
func NewGenerationDelay(name string, delay time.Duration, limiter *rate.Limiter) *GenerationDelay {
	return &GenerationDelay{BaseCommand: *cor.NewBaseCommand(name), Delay: delay, Limiter: limiter}
}

// Execute waits, honouring cancellation.
func (c *GenerationDelay) Execute(context cor.Context) {
	ctx := context.GetContext()
	in := context.Get(c.GetInputParam())

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			c.Fail(context, err)
			return
		}
	}

	if c.Delay > 0 {
		timer := time.NewTimer(c.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			c.Fail(context, ctx.Err())
			return
		case <-timer.C:
		}
	}
	c.Succeed(context, in)
}

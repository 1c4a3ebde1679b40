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

// This file defines the media-selector command.
//
// Logic Flow:
//  1. In fixed mode the configured asset is returned for every prompt; the
//     generation-log command later records the attempt.
//  2. In match mode the prompt is resolved against the catalog. The resolver
//     logs matches itself, so no generation-log command follows. No match
//     yields Success=false and an empty VideoURL, which is not an error.
//  3. A resolver failure is recorded as the command's error.
package commands

import (
	"context"
	"fmt"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/cor"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

// Resolver is the part of services.ResolutionService the selector needs.
type Resolver interface {
	Resolve(ctx context.Context, input string) (model.Resolution, error)
}

// MediaSelector fills in the VideoURL of the GenerationResult.
type MediaSelector struct {
	cor.BaseCommand
	Mode       model.GenerationMode
	FixedAsset string   // Returned in fixed mode.
	Resolver   Resolver // Used in match mode.
}

// NewMediaSelector is the constructor for the MediaSelector command.
func NewMediaSelector(name string, mode model.GenerationMode, fixedAsset string, resolver Resolver) *MediaSelector {
	return &MediaSelector{
		BaseCommand: *cor.NewBaseCommand(name),
		Mode:        mode,
		FixedAsset:  fixedAsset,
		Resolver:    resolver,
	}
}

// Execute selects the media for the prompt.
func (c *MediaSelector) Execute(context cor.Context) {
	result, ok := context.Get(c.GetInputParam()).(*model.GenerationResult)
	if !ok {
		c.Fail(context, fmt.Errorf("%w: expected *model.GenerationResult", model.ErrValidation))
		return
	}

	switch c.Mode {
	case model.GenerationFixed:
		result.Success = true
		result.VideoURL = c.FixedAsset

	case model.GenerationMatch:
		res, err := c.Resolver.Resolve(context.GetContext(), result.Prompt)
		if err != nil {
			c.Fail(context, err)
			return
		}
		result.Success = res.Matched
		if res.Matched {
			result.VideoURL = res.Entry.Src
		}

	default:
		c.Fail(context, fmt.Errorf("%w: unknown generation mode %q", model.ErrValidation, c.Mode))
		return
	}
	c.Succeed(context, result)
}

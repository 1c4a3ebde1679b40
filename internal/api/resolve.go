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

package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// ResolutionRouter mounts POST /resolve and POST /generate.
func (h *Handlers) ResolutionRouter(r *gin.RouterGroup) {
	r.POST("/resolve", h.resolve)
	r.POST("/generate", h.generate)
}

func (h *Handlers) resolve(c *gin.Context) {
	var req promptRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Resolution.Resolve(c.Request.Context(), req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  res.Matched,
		"mediaRef": res.Ref.Src,
		"type":     res.Ref.Type,
	})
}

// generate reports workflow failures as success=false, except for a bad
// prompt which is a 400.
func (h *Handlers) generate(c *gin.Context) {
	var req promptRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		if isValidation(err) {
			respondError(c, err)
			return
		}
		slog.ErrorContext(c.Request.Context(), "generation failed", "prompt", req.Prompt, "error", err)
		c.JSON(http.StatusOK, model.GenerationResult{})
		return
	}
	c.JSON(http.StatusOK, res)
}

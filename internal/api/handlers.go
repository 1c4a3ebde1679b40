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

// Package api exposes the phrase-to-media services over HTTP with gin.
// Handlers only decode requests, call one service and shape the JSON
// response; errors are mapped to status codes in one place (respondError).
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
)

// Generator runs the generation workflow for one prompt payload.
type Generator interface {
	Generate(ctx context.Context, payload any) (*model.GenerationResult, error)
}

// Handlers holds the services behind the routes.
type Handlers struct {
	Resolution     *services.ResolutionService
	Aggregation    *services.AggregationService
	Catalog        *services.CatalogService
	Log            *services.EventLogService
	Files          *services.FileService
	Report         *services.ReportService
	Generator      Generator
	MaxUploadBytes int64 // Zero means unlimited.
}

// respondError maps the error taxonomy to a status code. Store failures get
// a generic message; the detail is only logged.
func respondError(c *gin.Context, err error) {
	switch {
	case isValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": model.ErrStoreUnavailable.Error()})
	}
}

func isValidation(err error) bool {
	return errors.Is(err, model.ErrValidation)
}

// bindJSON decodes the request body, reporting malformed JSON as a
// validation error.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// Health answers liveness probes.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

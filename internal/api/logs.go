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
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
)

// LogRouter mounts the event log routes.
func (h *Handlers) LogRouter(r *gin.RouterGroup) {
	logs := r.Group("/logs")
	{
		logs.GET("", h.listLogs)
		logs.DELETE("", h.deleteLogs)
		logs.GET("/export", h.exportLogs)
	}
}

func (h *Handlers) listLogs(c *gin.Context) {
	order, err := model.ParseSortOrder(c.Query("order"))
	if err != nil {
		respondError(c, err)
		return
	}
	events, err := h.Log.List(c.Request.Context(), order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": events})
}

// deleteLogs clears the whole log, or only the events of one prompt when
// the prompt query parameter is present.
func (h *Handlers) deleteLogs(c *gin.Context) {
	ctx := c.Request.Context()
	if prompt, ok := c.GetQuery("prompt"); ok {
		n, err := h.Log.DeleteByPrompt(ctx, prompt)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully", "deleted": n})
		return
	}
	if err := h.Log.DeleteAll(ctx); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) exportLogs(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.Log.Export(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", services.ExportFileName))
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

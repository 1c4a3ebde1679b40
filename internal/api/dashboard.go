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

// This file defines the dashboard routes: the phrase statistics built from
// the event log and the catalog maintenance report.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/services"
)

// Dashboard mounts the read-only dashboard routes under r.
//
// Routes:
//   - GET /phrases?filter=&sort=asc|desc&top=N: the grouped log plus the top-N ranking.
//   - GET /phrases/:prompt: every event of one phrase, newest first.
//   - GET /maintenance/report: catalog entries and files that disagree.
func (h *Handlers) Dashboard(r *gin.RouterGroup) {
	phrases := r.Group("/phrases")
	{
		phrases.GET("", h.phraseOverview)
		phrases.GET("/:prompt", h.phraseDetail)
	}
	maintenance := r.Group("/maintenance")
	{
		maintenance.GET("/report", h.maintenanceReport)
	}
}

func (h *Handlers) phraseOverview(c *gin.Context) {
	order, err := model.ParseSortOrder(c.Query("sort"))
	if err != nil {
		respondError(c, err)
		return
	}
	top, err := services.ParseTopN(c.Query("top"))
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.Aggregation.Overview(c.Request.Context(), c.Query("filter"), order, top)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) phraseDetail(c *gin.Context) {
	detail, err := h.Aggregation.Detail(c.Request.Context(), c.Param("prompt"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handlers) maintenanceReport(c *gin.Context) {
	report, err := h.Report.Report(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"healthy":         report.Healthy(),
		"danglingEntries": report.DanglingEntries,
		"orphanedFiles":   report.OrphanedFiles,
		"externalEntries": report.ExternalEntries,
	})
}

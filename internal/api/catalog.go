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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

type catalogRequest struct {
	Sentence string `json:"sentence"`
	Type     string `json:"type"`
	Src      string `json:"src"`
}

// CatalogRouter mounts the catalog maintenance routes.
func (h *Handlers) CatalogRouter(r *gin.RouterGroup) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("", h.listCatalog)
		catalog.POST("", h.upsertCatalog)
		catalog.DELETE("", h.deleteCatalog)
	}
}

// listCatalog returns {sentence: {type, src}}, narrowed by the optional
// q, type and file query parameters.
func (h *Handlers) listCatalog(c *gin.Context) {
	filter := model.CatalogFilter{Query: c.Query("q"), File: c.Query("file")}
	if t := c.Query("type"); t != "" {
		kind, err := model.ParseMediaKind(t)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.Type = kind
	}

	entries, err := h.Catalog.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make(map[string]model.MediaReference, len(entries))
	for _, e := range entries {
		out[e.Sentence] = e.Reference()
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) upsertCatalog(c *gin.Context) {
	var req catalogRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.Catalog.Upsert(c.Request.Context(), req.Sentence, req.Type, req.Src); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handlers) deleteCatalog(c *gin.Context) {
	var req catalogRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Catalog.Remove(c.Request.Context(), req.Sentence); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

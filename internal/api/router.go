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
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterOptions configures the engine around the API routes.
type RouterOptions struct {
	ServiceName string   // otelgin span name prefix.
	CorsOrigins []string // "*" allows every origin.
	StaticRoot  string   // When set, serves <root>/videos and <root>/images.

	// RedirectMedia answers /videos/:name and /images/:name with a redirect
	// to the file store's URL. Used when media lives in a bucket.
	RedirectMedia bool
}

// NewRouter builds the gin engine with recovery, tracing, CORS and every
// route mounted under /api.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(opts.ServiceName))
	r.Use(cors.New(corsConfig(opts.CorsOrigins)))

	r.GET("/healthz", Health)

	if opts.StaticRoot != "" {
		r.Static("/videos", filepath.Join(opts.StaticRoot, "videos"))
		r.Static("/images", filepath.Join(opts.StaticRoot, "images"))
	} else if opts.RedirectMedia {
		r.GET("/videos/:name", h.redirectMedia("video"))
		r.GET("/images/:name", h.redirectMedia("image"))
	}

	api := r.Group("/api")
	{
		h.ResolutionRouter(api)
		h.CatalogRouter(api)
		h.LogRouter(api)
		h.FileRouter(api)
		h.Dashboard(api)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}

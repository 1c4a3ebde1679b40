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
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaycherian/gcp-go-phrase-media-map/internal/core/model"
)

type fileRequest struct {
	File string `json:"file"`
	Type string `json:"type"`
}

// FileRouter mounts the file listing, upload and delete routes.
func (h *Handlers) FileRouter(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.GET("", h.listFiles)
		files.GET("/url", h.fileURL)
	}
	upload := r.Group("/upload")
	{
		upload.POST("", h.uploadFile)
		upload.DELETE("", h.deleteFile)
	}
}

func (h *Handlers) listFiles(c *gin.Context) {
	names, err := h.Files.ListFiles(c.Request.Context(), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"files": names})
}

func (h *Handlers) fileURL(c *gin.Context) {
	url, err := h.Files.FileURL(c.Request.Context(), c.Query("type"), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// uploadFile accepts a multipart form with a "file" part and a "type" field.
func (h *Handlers) uploadFile(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		if c.Request.ContentLength > h.MaxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		respondError(c, fmt.Errorf("%w: file is required", model.ErrValidation))
		return
	}
	kind := c.PostForm("type")
	if _, err := model.ParseMediaKind(kind); err != nil {
		respondError(c, err)
		return
	}

	body, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer body.Close()

	name, err := h.Files.SaveFile(c.Request.Context(), kind, header.Filename, body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fileName": name})
}

func (h *Handlers) deleteFile(c *gin.Context) {
	var req fileRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.Files.DeleteFile(c.Request.Context(), req.Type, req.File); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// redirectMedia keeps catalog srcs such as /videos/<name> usable when the
// files are not on local disk.
func (h *Handlers) redirectMedia(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, err := h.Files.FileURL(c.Request.Context(), kind, c.Param("name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Redirect(http.StatusFound, url)
	}
}

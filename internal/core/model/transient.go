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

// Package model defines the core data structures for the application.
// This file, `transient.go`, contains struct definitions for data models that
// are only used in memory: results handed back by the resolution engine and
// the request/result pair carried through the generation workflow. They are
// never written to a store in this form.
package model

// Resolution is the outcome of matching free text against the catalog.
// Matched == false is the "no match" outcome and is not an error.
type Resolution struct {
	Matched bool           `json:"matched"`
	Entry   CatalogEntry   `json:"entry"`
	Ref     MediaReference `json:"ref"`
	Logged  bool           `json:"logged"` // false when the log append failed or nothing matched
}

// GenerationMode selects how the generation stub produces media.
type GenerationMode string

const (
	// GenerationFixed waits and returns one configured asset, logging every attempt.
	GenerationFixed GenerationMode = "fixed"
	// GenerationMatch resolves the prompt against the catalog.
	GenerationMatch GenerationMode = "match"
)

// GenerationRequest is the input of the generation workflow. It is decoded
// from an HTTP body or a Pub/Sub message.
type GenerationRequest struct {
	Prompt string `json:"prompt"`
}

// GenerationResult is the output of the generation workflow.
type GenerationResult struct {
	Success  bool   `json:"success"`
	VideoURL string `json:"videoUrl"`
	Prompt   string `json:"-"`
}
